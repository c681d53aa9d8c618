//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

// Hardware maps registers straight onto the peripheral bus.
type Hardware struct{}

// Map returns the volatile register living at addr.
func (Hardware) Map(addr uintptr, name string) Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}
