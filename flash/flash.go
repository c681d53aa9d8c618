// Package flash owns the flash interface registers. The clock tree needs the
// access control register to raise wait states before the core speeds up.
package flash

import (
	"f1hal/debug"
	"f1hal/device"
	"f1hal/internal/claim"
)

var acrSlot claim.Slot

// Parts is the split flash peripheral.
type Parts struct {
	ACR ACR
}

// New consumes the raw FLASH handle.
func New(raw device.FLASH) Parts {
	if raw.Regs() == nil {
		panic("flash: raw FLASH handle not obtained from device.Take")
	}
	return Parts{ACR: ACR{regs: raw.Regs(), lease: acrSlot.Issue()}}
}

// ACR is the exclusive proxy for FLASH.ACR.
type ACR struct {
	regs  *device.FLASH_Type
	lease claim.Lease
}

// Latency returns the configured number of wait states.
func (a *ACR) Latency() uint32 {
	a.lease.Must("flash.ACR")
	return a.regs.ACR.Get() & device.FLASH_ACR_LATENCY_Msk
}

// SetLatency programs ws wait states (0, 1 or 2 on this part).
func (a *ACR) SetLatency(ws uint32) {
	a.lease.Must("flash.ACR")
	if ws > 2 {
		panic("flash: latency above 2 wait states")
	}
	a.regs.ACR.ReplaceBits(ws, device.FLASH_ACR_LATENCY_Msk, device.FLASH_ACR_LATENCY_Pos)
	debug.Record(debug.EvtFlashLatency, 0, ws, 0)
}

// LatencyFor returns the wait states RM0008 requires at sysclk hz.
func LatencyFor(hz uint32) uint32 {
	switch {
	case hz <= 24_000_000:
		return 0
	case hz <= 48_000_000:
		return 1
	default:
		return 2
	}
}
