// Package boardcheck holds the start-up checks the firmware runs against
// whatever is wired to its buses. It only needs the tinygo driver
// interfaces, so the checks run against fakes on the host as well.
package boardcheck

import (
	"tinygo.org/x/drivers"
)

// ScanI2C returns the 7-bit addresses in 0x08..0x77 that acknowledge an
// empty write, in ascending order.
func ScanI2C(bus drivers.I2C) []uint16 {
	var found []uint16
	for addr := uint16(0x08); addr <= 0x77; addr++ {
		if bus.Tx(addr, nil, nil) == nil {
			found = append(found, addr)
		}
	}
	return found
}

// JEDEC is the identification of a serial NOR flash.
type JEDEC struct {
	Manufacturer uint8
	MemoryType   uint8
	Capacity     uint8
}

// Present reports whether a chip answered. A floating MISO reads as all
// ones, an absent pulled-down one as zeros.
func (j JEDEC) Present() bool {
	return j.Manufacturer != 0x00 && j.Manufacturer != 0xFF
}

const cmdReadJEDEC = 0x9F

// ReadJEDEC sends READ ID and collects the three ID bytes. sel asserts chip
// select for the length of the transaction.
func ReadJEDEC(bus drivers.SPI, sel func(on bool)) (JEDEC, error) {
	buf := [4]byte{cmdReadJEDEC}
	sel(true)
	err := bus.Tx(buf[:], buf[:])
	sel(false)
	if err != nil {
		return JEDEC{}, err
	}
	return JEDEC{Manufacturer: buf[1], MemoryType: buf[2], Capacity: buf[3]}, nil
}
