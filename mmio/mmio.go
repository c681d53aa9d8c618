// Package mmio is the register access layer the rest of the HAL is written
// against. On hardware every register is a *volatile.Register32 at a fixed
// address; on the host the same blocks are backed by the simulated register
// file in mmio/sim.
package mmio

// Register32 is a 32-bit memory-mapped register.
//
// SetBits, ClearBits and ReplaceBits are read-modify-write operations. Set is a
// plain write of the whole register. The method set matches TinyGo's
// runtime/volatile.Register32.
type Register32 interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	HasBits(value uint32) bool
	ReplaceBits(value uint32, mask uint32, pos uint8)
}

// Mapper binds a named register to its bus address.
type Mapper interface {
	Map(addr uintptr, name string) Register32
}

// Field extracts a width-masked field at pos from v.
func Field(v uint32, mask uint32, pos uint8) uint32 {
	return (v >> pos) & mask
}
