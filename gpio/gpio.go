// Package gpio encodes each pin's configuration in its type.
//
// A Pin[P, N, M, C] token is the only handle on pin N of bank P, and its type
// parameters are the current MODE (M) and CNF (C) fields in the bank's
// control register. Every transition consumes the token, rewrites exactly
// the two bits it changes and returns a token of the new type. Transitions
// that only make sense in some states (pull-up on an input, alternate
// function on an output) are generic functions whose constraints reject the
// other states at compile time.
package gpio

import (
	"f1hal/debug"
	"f1hal/device"
	"f1hal/internal/claim"
	"f1hal/mmio"
	"f1hal/rcc"
)

const numPorts = device.IDGPIOE - device.IDGPIOA + 1

var pinSlots [numPorts][16]claim.Slot

// Pin is the capability token for one pin.
type Pin[P Port, N Index, M Mode, C Cnf] struct {
	regs  *device.GPIO_Type
	lease claim.Lease
}

// Pins is a bank split into its sixteen pins, all in the reset state
// (floating input).
type Pins[P Port] struct {
	P0  Pin[P, P0, Input, Cnf1]
	P1  Pin[P, P1, Input, Cnf1]
	P2  Pin[P, P2, Input, Cnf1]
	P3  Pin[P, P3, Input, Cnf1]
	P4  Pin[P, P4, Input, Cnf1]
	P5  Pin[P, P5, Input, Cnf1]
	P6  Pin[P, P6, Input, Cnf1]
	P7  Pin[P, P7, Input, Cnf1]
	P8  Pin[P, P8, Input, Cnf1]
	P9  Pin[P, P9, Input, Cnf1]
	P10 Pin[P, P10, Input, Cnf1]
	P11 Pin[P, P11, Input, Cnf1]
	P12 Pin[P, P12, Input, Cnf1]
	P13 Pin[P, P13, Input, Cnf1]
	P14 Pin[P, P14, Input, Cnf1]
	P15 Pin[P, P15, Input, Cnf1]
}

// Split consumes bank P and the proof that its clock runs. It performs no
// register writes.
func Split[P Port](raw P, clk rcc.Enabled[P]) Pins[P] {
	regs := raw.Regs()
	if regs == nil {
		panic("gpio: raw " + raw.ID().String() + " handle not obtained from device.Take")
	}
	clk.Consume()
	port := raw.ID() - device.IDGPIOA
	return Pins[P]{
		P0:  newPin[P, P0](regs, port),
		P1:  newPin[P, P1](regs, port),
		P2:  newPin[P, P2](regs, port),
		P3:  newPin[P, P3](regs, port),
		P4:  newPin[P, P4](regs, port),
		P5:  newPin[P, P5](regs, port),
		P6:  newPin[P, P6](regs, port),
		P7:  newPin[P, P7](regs, port),
		P8:  newPin[P, P8](regs, port),
		P9:  newPin[P, P9](regs, port),
		P10: newPin[P, P10](regs, port),
		P11: newPin[P, P11](regs, port),
		P12: newPin[P, P12](regs, port),
		P13: newPin[P, P13](regs, port),
		P14: newPin[P, P14](regs, port),
		P15: newPin[P, P15](regs, port),
	}
}

func newPin[P Port, N Index](regs *device.GPIO_Type, port device.ID) Pin[P, N, Input, Cnf1] {
	var n N
	return Pin[P, N, Input, Cnf1]{regs: regs, lease: pinSlots[port][n.index()].Issue()}
}

// Index returns the pin number within its bank.
func (p Pin[P, N, M, C]) Index() uint8 {
	var n N
	return n.index()
}

// Port returns the bank's peripheral ID.
func (p Pin[P, N, M, C]) Port() device.ID {
	var port P
	return port.ID()
}

// Bits returns the 4-bit control field the token's type claims:
// MODE | CNF<<2.
func (p Pin[P, N, M, C]) Bits() uint32 {
	var m M
	var c C
	return m.modeBits() | c.cnfBits()<<device.GPIO_CNF_Off
}

// Consume hands the pin to a peripheral. The token is dead afterwards.
func (p Pin[P, N, M, C]) Consume() {
	p.lease.Retire("gpio: pin")
}

// control returns CRL or CRH and the pin field's bit offset within it.
func (p Pin[P, N, M, C]) control() (mmio.Register32, uint8) {
	n := p.Index()
	if n < 8 {
		return p.regs.CRL, n * 4
	}
	return p.regs.CRH, (n - 8) * 4
}

// rewrite consumes p and replaces one 2-bit half of the pin's field.
func (p Pin[P, N, M, C]) rewrite(v uint32, shift uint8) claim.Lease {
	next := p.lease.Renew("gpio: pin")
	reg, off := p.control()
	reg.ReplaceBits(v, device.GPIO_MODE_Msk, off+shift)
	debug.Record(debug.EvtPinMode, uint8(p.Port()), uint32(p.Index()), v<<shift)
	return next
}

func (p Pin[P, N, M, C]) setMode(v uint32) claim.Lease { return p.rewrite(v, 0) }
func (p Pin[P, N, M, C]) setCnf(v uint32) claim.Lease  { return p.rewrite(v, device.GPIO_CNF_Off) }

// SetInput switches p to input and keeps its configuration. An alternate
// open-drain output becomes the reserved Input+Cnf3, which Read refuses;
// follow it with SetFloatingInput, SetAnalog or SetPullUpDown.
func (p Pin[P, N, M, C]) SetInput() Pin[P, N, Input, C] {
	return Pin[P, N, Input, C]{p.regs, p.setMode(Input{}.modeBits())}
}

func (p Pin[P, N, M, C]) SetOutput10MHz() Pin[P, N, Output10MHz, C] {
	return Pin[P, N, Output10MHz, C]{p.regs, p.setMode(Output10MHz{}.modeBits())}
}

func (p Pin[P, N, M, C]) SetOutput2MHz() Pin[P, N, Output2MHz, C] {
	return Pin[P, N, Output2MHz, C]{p.regs, p.setMode(Output2MHz{}.modeBits())}
}

func (p Pin[P, N, M, C]) SetOutput50MHz() Pin[P, N, Output50MHz, C] {
	return Pin[P, N, Output50MHz, C]{p.regs, p.setMode(Output50MHz{}.modeBits())}
}

func (p Pin[P, N, M, C]) SetCnf0() Pin[P, N, M, Cnf0] {
	return Pin[P, N, M, Cnf0]{p.regs, p.setCnf(Cnf0{}.cnfBits())}
}

func (p Pin[P, N, M, C]) SetCnf1() Pin[P, N, M, Cnf1] {
	return Pin[P, N, M, Cnf1]{p.regs, p.setCnf(Cnf1{}.cnfBits())}
}

func (p Pin[P, N, M, C]) SetCnf2() Pin[P, N, M, Cnf2] {
	return Pin[P, N, M, Cnf2]{p.regs, p.setCnf(Cnf2{}.cnfBits())}
}

func (p Pin[P, N, M, C]) SetCnf3() Pin[P, N, M, Cnf3] {
	return Pin[P, N, M, Cnf3]{p.regs, p.setCnf(Cnf3{}.cnfBits())}
}
