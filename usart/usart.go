// Package usart drives USART1-3 as asynchronous serial ports.
//
// New programs the frame format and baud rate and enables the peripheral;
// Split hands out the transmit and receive halves, which can then be owned
// by different parts of a program (or an interrupt handler).
package usart

import (
	"io"

	"f1hal/afio"
	"f1hal/debug"
	"f1hal/device"
	"f1hal/internal/claim"
	"f1hal/nb"
	"f1hal/rcc"
	"f1hal/units"
)

var (
	_ io.Writer = (*Tx[device.USART1])(nil)
	_ io.Reader = (*Rx[device.USART1])(nil)
)

// Instance is the closed set of USART peripherals.
type Instance interface {
	device.USART1 | device.USART2 | device.USART3
	ID() device.ID
	Regs() *device.USART_Type
}

// Error is a receive fault.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrParity  Error = "usart: parity error"
	ErrFraming Error = "usart: framing error"
	ErrNoise   Error = "usart: noise"
	ErrOverrun Error = "usart: overrun"
)

// WordLength is CR1.M. The parity bit, when enabled, is the frame's last
// data bit.
type WordLength uint8

const (
	DataBits8 WordLength = iota
	DataBits9
)

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// StopBits is the CR2.STOP encoding.
type StopBits uint8

const (
	StopBits1   StopBits = 0b00
	StopBits0_5 StopBits = 0b01
	StopBits2   StopBits = 0b10
	StopBits1_5 StopBits = 0b11
)

// Config is the frame format. The zero value other than Baud is 8N1.
type Config struct {
	Baud       units.Bps
	WordLength WordLength
	Parity     Parity
	StopBits   StopBits
}

var serialSlots [device.NumIDs]claim.Slot

// Serial is an enabled USART waiting to be split.
type Serial[P Instance, S afio.State] struct {
	regs  *device.USART_Type
	lease claim.Lease
}

// divisor returns BRR for baud out of pclk.
func divisor(pclk uint32, baud units.Bps) uint32 {
	if baud == 0 {
		panic("usart: zero baud rate")
	}
	brr := pclk / uint32(baud)
	if brr < 16 {
		panic("usart: baud rate too high for the peripheral clock")
	}
	if brr > 0xFFFF {
		panic("usart: baud rate too low for the peripheral clock")
	}
	return brr
}

// New programs the USART and enables it with both directions on. It
// consumes ports and clk. USART1 is clocked from APB2, the others from
// APB1.
func New[P Instance, S afio.State](raw P, ports Ports[P, S], clk rcc.Enabled[P], cfg Config, clocks rcc.Clocks) Serial[P, S] {
	regs := raw.Regs()
	if regs == nil {
		panic("usart: raw " + raw.ID().String() + " handle not obtained from device.Take")
	}
	clocks.Must("usart")
	ports.consume()
	clk.Consume()

	brr := divisor(uint32(clocks.Bus(raw.ID())), cfg.Baud)
	cr1 := uint32(device.USART_CR1_RE | device.USART_CR1_TE)
	if cfg.WordLength == DataBits9 {
		cr1 |= device.USART_CR1_M
	}
	switch cfg.Parity {
	case ParityEven:
		cr1 |= device.USART_CR1_PCE
	case ParityOdd:
		cr1 |= device.USART_CR1_PCE | device.USART_CR1_PS
	}

	regs.BRR.Set(brr)
	regs.CR2.ReplaceBits(uint32(cfg.StopBits), device.USART_CR2_STOP_Msk, device.USART_CR2_STOP_Pos)
	regs.CR1.Set(cr1)
	regs.CR1.SetBits(device.USART_CR1_UE)
	debug.Record(debug.EvtPeriphInit, uint8(raw.ID()), brr, cr1)

	return Serial[P, S]{regs: regs, lease: serialSlots[raw.ID()].Issue()}
}

// Split consumes s and returns its halves, both using nb.Spin.
func (s Serial[P, S]) Split() (*Tx[P], *Rx[P]) {
	s.lease.Retire("usart: serial")
	return &Tx[P]{regs: s.regs, policy: nb.Spin}, &Rx[P]{regs: s.regs, policy: nb.Spin}
}
