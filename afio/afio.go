// Package afio records pin remapping decisions as tokens.
//
// Each remappable function gets one Pending token. Deciding consumes it and
// yields a terminal Remap[P, S] whose state S is what the port constructors
// of the i2c, spi and usart packages demand, so pins wired for one mapping
// cannot be presented with a token for the other.
package afio

import (
	"f1hal/debug"
	"f1hal/device"
	"f1hal/internal/claim"
	"f1hal/rcc"
)

// Remappable is the closed set of functions with a MAPR field.
type Remappable interface {
	device.USART1 | device.USART2 | device.USART3 | device.I2C1 | device.SPI1
	ID() device.ID
}

// State is a terminal remap decision.
type State interface {
	NotRemapped | Remapped | PartiallyRemapped
	state()
}

type (
	// NotRemapped keeps the function on its default pins.
	NotRemapped struct{}
	// Remapped moves the function to its alternate pins (full remap for
	// USART3).
	Remapped struct{}
	// PartiallyRemapped is USART3's partial remap.
	PartiallyRemapped struct{}
)

func (NotRemapped) state()       {}
func (Remapped) state()          {}
func (PartiallyRemapped) state() {}

// mapping locates a function's MAPR field.
type mapping struct {
	pos     uint8
	mask    uint32
	full    uint32
	partial uint32
}

var mappings = [device.NumIDs]mapping{
	device.IDSPI1:   {pos: 0, mask: 1, full: 1},
	device.IDI2C1:   {pos: 1, mask: 1, full: 1},
	device.IDUSART1: {pos: 2, mask: 1, full: 1},
	device.IDUSART2: {pos: 3, mask: 1, full: 1},
	device.IDUSART3: {pos: device.AFIO_MAPR_USART3_REMAP_Pos, mask: device.AFIO_MAPR_USART3_REMAP_Msk, full: 0b11, partial: 0b01},
}

var (
	remapSlots [device.NumIDs]claim.Slot
	debugSlot  claim.Slot
)

// swj is the SWJ_CFG value every MAPR write carries. The field is write-only
// and reads back undefined, so it cannot be taken from the register.
var swj uint32

// SWJ_CFG encodings.
const (
	swjFull     = 0b000
	swjNoJTAG   = 0b010
	swjFieldMsk = device.AFIO_MAPR_SWJ_CFG_Msk << device.AFIO_MAPR_SWJ_CFG_Pos
)

// Peripherals holds one undecided token per remappable function and the
// serial wire debug port.
type Peripherals struct {
	USART1 Pending[device.USART1]
	USART2 Pending[device.USART2]
	USART3 Pending[device.USART3]
	I2C1   Pending[device.I2C1]
	SPI1   Pending[device.SPI1]
	Debug  DebugPort
}

// New consumes the AFIO block and the proof that its clock runs.
func New(raw device.AFIO, clk rcc.Enabled[device.AFIO]) Peripherals {
	regs := raw.Regs()
	if regs == nil {
		panic("afio: raw AFIO handle not obtained from device.Take")
	}
	clk.Consume()
	swj = swjFull
	return Peripherals{
		USART1: pending[device.USART1](regs),
		USART2: pending[device.USART2](regs),
		USART3: pending[device.USART3](regs),
		I2C1:   pending[device.I2C1](regs),
		SPI1:   pending[device.SPI1](regs),
		Debug:  DebugPort{regs: regs, lease: debugSlot.Issue()},
	}
}

func idOf[P Remappable]() device.ID {
	var p P
	return p.ID()
}

func pending[P Remappable](regs *device.AFIO_Type) Pending[P] {
	return Pending[P]{regs: regs, lease: remapSlots[idOf[P]()].Issue()}
}

// Pending is P's undecided remap.
type Pending[P Remappable] struct {
	regs  *device.AFIO_Type
	lease claim.Lease
}

// Remap is P's terminal remap decision.
type Remap[P Remappable, S State] struct {
	lease claim.Lease
}

// SetRemapped writes P's MAPR field and consumes p.
func (p Pending[P]) SetRemapped() Remap[P, Remapped] {
	next := p.lease.Renew("afio: remap")
	m := mappings[idOf[P]()]
	p.write(m, m.full)
	return Remap[P, Remapped]{lease: next}
}

// SetNotRemapped records the default mapping. MAPR resets to it, so nothing
// is written.
func (p Pending[P]) SetNotRemapped() Remap[P, NotRemapped] {
	return Remap[P, NotRemapped]{lease: p.lease.Renew("afio: remap")}
}

// SetPartiallyRemapped selects USART3's partial remap (TX PC10, RX PC11).
func SetPartiallyRemapped(p Pending[device.USART3]) Remap[device.USART3, PartiallyRemapped] {
	next := p.lease.Renew("afio: remap")
	m := mappings[device.IDUSART3]
	p.write(m, m.partial)
	return Remap[device.USART3, PartiallyRemapped]{lease: next}
}

func (p Pending[P]) write(m mapping, v uint32) {
	writeMAPR(p.regs, m.mask<<m.pos, v<<m.pos)
	debug.Record(debug.EvtRemap, uint8(idOf[P]()), uint32(m.pos), v)
}

// writeMAPR replaces the bits under mask with v in a single write that also
// carries the current SWJ_CFG.
func writeMAPR(regs *device.AFIO_Type, mask, v uint32) {
	mapr := regs.MAPR.Get()&^(mask|swjFieldMsk) | v | swj<<device.AFIO_MAPR_SWJ_CFG_Pos
	regs.MAPR.Set(mapr)
}

// Consume hands the decision to a port constructor.
func (r Remap[P, S]) Consume() {
	r.lease.Retire("afio: remap")
}

// DebugPort is the SWJ_CFG field. Out of reset JTAG and SWD both hold their
// pins, which keeps PA15, PB3 and PB4 from the remapped SPI1.
type DebugPort struct {
	regs  *device.AFIO_Type
	lease claim.Lease
}

// JTAGReleased proves JTAG has given up PA15, PB3 and PB4. SWD keeps PA13 and
// PA14, so a debugger can still attach.
type JTAGReleased struct {
	lease claim.Lease
}

// ReleaseJTAG switches the debug port to SWD only and consumes d.
func (d DebugPort) ReleaseJTAG() JTAGReleased {
	next := d.lease.Renew("afio: debug port")
	swj = swjNoJTAG
	writeMAPR(d.regs, 0, 0)
	debug.Record(debug.EvtRemap, uint8(device.IDAFIO), device.AFIO_MAPR_SWJ_CFG_Pos, swj)
	return JTAGReleased{lease: next}
}

// Consume hands the proof to a port constructor.
func (j JTAGReleased) Consume() {
	j.lease.Retire("afio: debug port")
}
