// Package i2c drives the I2C1 and I2C2 masters.
//
// New only accepts a Ports proof whose pins were put in alternate open-drain
// mode and whose remap decision matches them, plus the clock proof and the
// frozen clock tree it derives the bus timing from. The transfer layer is a
// set of non-blocking probes; the composites (Write, Read, WriteRead, Tx)
// repeat them under the bus's nb.Policy.
package i2c

import (
	"f1hal/afio"
	"f1hal/debug"
	"f1hal/device"
	"f1hal/nb"
	"f1hal/rcc"
	"f1hal/units"

	"tinygo.org/x/drivers"
)

var (
	_ drivers.I2C = (*I2C[device.I2C1, afio.NotRemapped])(nil)
	_ drivers.I2C = (*I2C[device.I2C1, afio.Remapped])(nil)
	_ drivers.I2C = (*I2C[device.I2C2, afio.NotRemapped])(nil)
)

// Instance is the closed set of I2C peripherals.
type Instance interface {
	device.I2C1 | device.I2C2
	ID() device.ID
	Regs() *device.I2C_Type
}

// Error is a hardware fault reported by a status probe.
type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrTimeout                Error = "i2c: timeout"
	ErrAcknowledgementFailure Error = "i2c: acknowledgement failure"
	ErrArbitrationLost        Error = "i2c: arbitration lost"
	ErrOverrun                Error = "i2c: overrun"
	ErrBusError               Error = "i2c: bus error"

	// ErrAddressRange rejects addresses that do not fit in 7 bits.
	ErrAddressRange Error = "i2c: address beyond 7 bits"
)

// DutyCycle is the fast mode SCL low/high ratio.
type DutyCycle uint8

const (
	Duty2    DutyCycle = iota // Tlow/Thigh = 2
	Duty16_9                  // Tlow/Thigh = 16/9
)

// StandardModeMax is the fastest standard mode SCL; anything above runs in
// fast mode.
const StandardModeMax = 100_000

// Config is the bus timing.
type Config struct {
	Frequency units.Hertz
	DutyCycle DutyCycle
}

// Event selects an interrupt source for Listen and Unlisten.
type Event uint32

const (
	EventBuffer Event = device.I2C_CR2_ITBUFEN // TxE/RxNE
	EventEvent  Event = device.I2C_CR2_ITEVTEN // SB, ADDR, BTF, STOPF
	EventError  Event = device.I2C_CR2_ITERREN // BERR, ARLO, AF, OVR, TIMEOUT
)

// I2C is an initialised I2C master. S records the pin mapping it was built
// with.
type I2C[P Instance, S afio.State] struct {
	regs   *device.I2C_Type
	policy nb.Policy
}

// timing is the computed register image for a bus configuration.
type timing struct {
	freq  uint32
	ccr   uint32
	trise uint32
}

func computeTiming(pclk1 uint32, cfg Config) timing {
	freq := pclk1 / 1_000_000
	if freq < 2 || freq > 36 {
		panic("i2c: APB1 clock must be between 2 and 36 MHz")
	}
	f := uint32(cfg.Frequency)
	if f == 0 {
		panic("i2c: zero bus frequency")
	}
	var t timing
	t.freq = freq
	if f <= StandardModeMax {
		t.ccr = pclk1 / (2 * f)
		if t.ccr < 4 {
			panic("i2c: standard mode CCR below 4")
		}
		t.trise = freq + 1
	} else {
		if cfg.DutyCycle == Duty2 {
			t.ccr = pclk1 / (3 * f)
		} else {
			t.ccr = pclk1 / (25 * f)
		}
		if t.ccr == 0 {
			panic("i2c: bus frequency too high for APB1 clock")
		}
		t.trise = freq*300/1000 + 1
	}
	if t.ccr > device.I2C_CCR_CCR_Msk {
		panic("i2c: bus frequency too low for APB1 clock")
	}
	if f > StandardModeMax {
		t.ccr |= device.I2C_CCR_FS
		if cfg.DutyCycle == Duty16_9 {
			t.ccr |= device.I2C_CCR_DUTY
		}
	}
	return t
}

// New programs the peripheral and enables it. It consumes ports and clk.
func New[P Instance, S afio.State](raw P, ports Ports[P, S], clk rcc.Enabled[P], cfg Config, clocks rcc.Clocks) *I2C[P, S] {
	regs := raw.Regs()
	if regs == nil {
		panic("i2c: raw " + raw.ID().String() + " handle not obtained from device.Take")
	}
	clocks.Must("i2c")
	ports.consume()
	clk.Consume()

	t := computeTiming(uint32(clocks.Pclk1()), cfg)

	regs.CR1.ClearBits(device.I2C_CR1_PE)
	regs.CR2.ReplaceBits(t.freq, device.I2C_CR2_FREQ_Msk, device.I2C_CR2_FREQ_Pos)
	regs.CCR.Set(t.ccr)
	regs.TRISE.Set(t.trise)
	regs.CR1.SetBits(device.I2C_CR1_PE)
	debug.Record(debug.EvtPeriphInit, uint8(raw.ID()), t.ccr, t.trise)

	return &I2C[P, S]{regs: regs, policy: nb.Spin}
}

// SetPolicy sets how the composite transfers wait on the probes.
func (i *I2C[P, S]) SetPolicy(p nb.Policy) {
	i.policy = p
}

func (i *I2C[P, S]) wait(probe func() error) error {
	return nb.Block(i.policy, probe)
}
