// Package spi drives SPI1 and SPI2 as full-duplex masters.
package spi

import (
	"f1hal/afio"
	"f1hal/debug"
	"f1hal/device"
	"f1hal/internal/irq"
	"f1hal/nb"
	"f1hal/rcc"
	"f1hal/units"

	"tinygo.org/x/drivers"
)

var (
	_ drivers.SPI = (*SPI[device.SPI1, afio.NotRemapped])(nil)
	_ drivers.SPI = (*SPI[device.SPI1, afio.Remapped])(nil)
	_ drivers.SPI = (*SPI[device.SPI2, afio.NotRemapped])(nil)
)

// Instance is the closed set of SPI peripherals.
type Instance interface {
	device.SPI1 | device.SPI2
	ID() device.ID
	Regs() *device.SPI_Type
}

// Error is a hardware fault reported by a status probe.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrOverrun   Error = "spi: overrun"
	ErrModeFault Error = "spi: mode fault"
	ErrCrcError  Error = "spi: CRC error"
)

// Mode is the clock polarity and phase, numbered the usual way: bit 1 is
// CPOL, bit 0 is CPHA. The numbering matches the CR1 bit layout.
type Mode uint8

const (
	Mode0 Mode = iota // idle low, sample on first edge
	Mode1             // idle low, sample on second edge
	Mode2             // idle high, sample on first edge
	Mode3             // idle high, sample on second edge
)

// Config is the bus setup.
type Config struct {
	Mode      Mode
	Frequency units.Hertz
	LSBFirst  bool
}

// Event selects an interrupt source for Listen and Unlisten.
type Event uint32

const (
	EventTxEmpty    Event = device.SPI_CR2_TXEIE
	EventRxNotEmpty Event = device.SPI_CR2_RXNEIE
	EventError      Event = device.SPI_CR2_ERRIE
)

// SPI is an initialised SPI master.
type SPI[P Instance, S afio.State] struct {
	regs   *device.SPI_Type
	policy nb.Policy
}

// baudRate returns the CR1.BR code dividing pclk down to at most f.
func baudRate(pclk uint32, f units.Hertz) uint32 {
	if f == 0 {
		panic("spi: zero bus frequency")
	}
	ratio := pclk / uint32(f)
	switch {
	case ratio == 0:
		panic("spi: bus frequency above the peripheral clock")
	case ratio <= 2:
		return 0
	case ratio <= 5:
		return 1
	case ratio <= 11:
		return 2
	case ratio <= 23:
		return 3
	case ratio <= 47:
		return 4
	case ratio <= 95:
		return 5
	case ratio <= 191:
		return 6
	case ratio <= 383:
		return 7
	}
	panic("spi: bus frequency too low for the peripheral clock")
}

// New programs the peripheral as master and enables it. It consumes ports
// and clk. SPI1 is clocked from APB2, SPI2 from APB1.
func New[P Instance, S afio.State](raw P, ports Ports[P, S], clk rcc.Enabled[P], cfg Config, clocks rcc.Clocks) *SPI[P, S] {
	regs := raw.Regs()
	if regs == nil {
		panic("spi: raw " + raw.ID().String() + " handle not obtained from device.Take")
	}
	clocks.Must("spi")
	ports.consume()
	clk.Consume()

	br := baudRate(uint32(clocks.Bus(raw.ID())), cfg.Frequency)
	cr1 := uint32(cfg.Mode)&(device.SPI_CR1_CPOL|device.SPI_CR1_CPHA) |
		device.SPI_CR1_MSTR | br<<device.SPI_CR1_BR_Pos
	if cfg.LSBFirst {
		cr1 |= device.SPI_CR1_LSBFIRST
	}

	regs.CR2.SetBits(device.SPI_CR2_SSOE)
	regs.CR1.Set(cr1)
	regs.CR1.SetBits(device.SPI_CR1_SPE)
	debug.Record(debug.EvtPeriphInit, uint8(raw.ID()), cr1, 0)

	return &SPI[P, S]{regs: regs, policy: nb.Spin}
}

// SetPolicy sets how Transfer and Tx wait on the probes.
func (s *SPI[P, S]) SetPolicy(p nb.Policy) {
	s.policy = p
}

// Enable sets SPE. With SSOE the hardware drives NSS low.
func (s *SPI[P, S]) Enable() { s.regs.CR1.SetBits(device.SPI_CR1_SPE) }

// Disable clears SPE, releasing NSS.
func (s *SPI[P, S]) Disable() { s.regs.CR1.ClearBits(device.SPI_CR1_SPE) }

// IsBusy reports BSY.
func (s *SPI[P, S]) IsBusy() bool { return s.regs.SR.HasBits(device.SPI_SR_BSY) }

// Listen enables interrupt source ev.
func (s *SPI[P, S]) Listen(ev Event) {
	irq.Do(func() { s.regs.CR2.SetBits(uint32(ev)) })
}

// Unlisten disables interrupt source ev.
func (s *SPI[P, S]) Unlisten(ev Event) {
	irq.Do(func() { s.regs.CR2.ClearBits(uint32(ev)) })
}

func faultOf(sr uint32) error {
	switch {
	case sr&device.SPI_SR_OVR != 0:
		return ErrOverrun
	case sr&device.SPI_SR_MODF != 0:
		return ErrModeFault
	case sr&device.SPI_SR_CRCERR != 0:
		return ErrCrcError
	}
	return nil
}

// Send writes b to DR if the transmit buffer is empty. It reads SR once.
func (s *SPI[P, S]) Send(b byte) error {
	sr := s.regs.SR.Get()
	if err := faultOf(sr); err != nil {
		return err
	}
	if sr&device.SPI_SR_TXE == 0 {
		return nb.ErrWouldBlock
	}
	s.regs.DR.Set(uint32(b))
	return nil
}

// Receive returns the byte in DR if one has arrived. It reads SR once.
func (s *SPI[P, S]) Receive() (byte, error) {
	sr := s.regs.SR.Get()
	if err := faultOf(sr); err != nil {
		return 0, err
	}
	if sr&device.SPI_SR_RXNE == 0 {
		return 0, nb.ErrWouldBlock
	}
	return byte(s.regs.DR.Get()), nil
}

// ClearErrors clears the fault flags the way RM0008 asks: OVR by a DR read
// followed by an SR read, MODF by that SR read followed by a CR1 write that
// restores MSTR and SPE, CRCERR by writing it to zero. The byte in DR is
// lost.
func (s *SPI[P, S]) ClearErrors() {
	s.regs.DR.Get()
	sr := s.regs.SR.Get()
	if sr&device.SPI_SR_MODF != 0 {
		s.regs.CR1.SetBits(device.SPI_CR1_MSTR | device.SPI_CR1_SPE)
	}
	if sr&device.SPI_SR_CRCERR != 0 {
		s.regs.SR.ClearBits(device.SPI_SR_CRCERR)
	}
}

// Transfer clocks out b and returns the byte clocked in.
func (s *SPI[P, S]) Transfer(b byte) (byte, error) {
	if err := nb.Block(s.policy, func() error { return s.Send(b) }); err != nil {
		return 0, err
	}
	var in byte
	err := nb.Block(s.policy, func() error {
		var err error
		in, err = s.Receive()
		return err
	})
	return in, err
}

// Tx implements tinygo.org/x/drivers.SPI. A nil w sends zeros; a nil r
// discards what comes back. Unlike Transfer it leaves the peripheral usable
// after a fault by clearing the flags.
func (s *SPI[P, S]) Tx(w, r []byte) error {
	err := s.tx(w, r)
	if _, fault := err.(Error); fault {
		var p P
		debug.Record(debug.EvtBusError, uint8(p.ID()), s.regs.SR.Get(), 0)
		s.ClearErrors()
	}
	return err
}

func (s *SPI[P, S]) tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	for k := 0; k < n; k++ {
		var out byte
		if k < len(w) {
			out = w[k]
		}
		in, err := s.Transfer(out)
		if err != nil {
			return err
		}
		if k < len(r) {
			r[k] = in
		}
	}
	return nil
}
