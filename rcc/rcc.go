// Package rcc gates peripheral clocks and freezes the clock tree.
//
// New consumes the chip's RCC handle and returns one Disabled token per
// peripheral. Enable turns a Disabled token into the Enabled proof that GPIO
// banks, AFIO and the serial peripherals require before they touch their
// registers.
package rcc

import (
	"f1hal/debug"
	"f1hal/device"
	"f1hal/internal/claim"
)

// Gated is the closed set of peripherals with a clock gate.
type Gated interface {
	device.AFIO | device.GPIOA | device.GPIOB | device.GPIOC | device.GPIOD | device.GPIOE |
		device.USART1 | device.USART2 | device.USART3 | device.TIM2 |
		device.I2C1 | device.I2C2 | device.SPI1 | device.SPI2
	ID() device.ID
}

var (
	gateSlots [device.NumIDs]claim.Slot
	cfgrSlot  claim.Slot
)

// RCC is the split reset and clock controller.
type RCC struct {
	CFGR        CFGR
	Peripherals Peripherals
}

// Peripherals holds one clock gate token per peripheral, all Disabled.
type Peripherals struct {
	AFIO   Disabled[device.AFIO]
	GPIOA  Disabled[device.GPIOA]
	GPIOB  Disabled[device.GPIOB]
	GPIOC  Disabled[device.GPIOC]
	GPIOD  Disabled[device.GPIOD]
	GPIOE  Disabled[device.GPIOE]
	USART1 Disabled[device.USART1]
	USART2 Disabled[device.USART2]
	USART3 Disabled[device.USART3]
	TIM2   Disabled[device.TIM2]
	I2C1   Disabled[device.I2C1]
	I2C2   Disabled[device.I2C2]
	SPI1   Disabled[device.SPI1]
	SPI2   Disabled[device.SPI2]
}

// New consumes the raw RCC handle. Tokens issued by an earlier New are
// invalidated.
func New(raw device.RCC) RCC {
	r := raw.Regs()
	if r == nil {
		panic("rcc: raw RCC handle not obtained from device.Take")
	}
	return RCC{
		CFGR: CFGR{regs: r, lease: cfgrSlot.Issue()},
		Peripherals: Peripherals{
			AFIO:   disabled[device.AFIO](r),
			GPIOA:  disabled[device.GPIOA](r),
			GPIOB:  disabled[device.GPIOB](r),
			GPIOC:  disabled[device.GPIOC](r),
			GPIOD:  disabled[device.GPIOD](r),
			GPIOE:  disabled[device.GPIOE](r),
			USART1: disabled[device.USART1](r),
			USART2: disabled[device.USART2](r),
			USART3: disabled[device.USART3](r),
			TIM2:   disabled[device.TIM2](r),
			I2C1:   disabled[device.I2C1](r),
			I2C2:   disabled[device.I2C2](r),
			SPI1:   disabled[device.SPI1](r),
			SPI2:   disabled[device.SPI2](r),
		},
	}
}

func idOf[P Gated]() device.ID {
	var p P
	return p.ID()
}

func disabled[P Gated](r *device.RCC_Type) Disabled[P] {
	return Disabled[P]{regs: r, lease: gateSlots[idOf[P]()].Issue()}
}

// Disabled proves P's clock has not been enabled through this HAL.
type Disabled[P Gated] struct {
	regs  *device.RCC_Type
	lease claim.Lease
}

// Enabled proves P's bus clock is running.
type Enabled[P Gated] struct {
	regs  *device.RCC_Type
	lease claim.Lease
}

// Enable sets P's enable bit with one read-modify-write and consumes d.
func (d Disabled[P]) Enable() Enabled[P] {
	next := d.lease.Renew("rcc: clock gate")
	id := idOf[P]()
	g := gates[id]
	enableReg(d.regs, g.bus).SetBits(g.bit)
	debug.Record(debug.EvtClockEnable, uint8(id), uint32(g.bus), g.bit)
	return Enabled[P]{regs: d.regs, lease: next}
}

// Reset pulses P's reset bit and hands the token back unchanged.
func (d Disabled[P]) Reset() Disabled[P] {
	d.lease.Must("rcc: clock gate")
	pulseReset[P](d.regs)
	return d
}

// Reset pulses P's reset bit and hands the token back unchanged.
func (e Enabled[P]) Reset() Enabled[P] {
	e.lease.Must("rcc: clock gate")
	pulseReset[P](e.regs)
	return e
}

// Consume retires the proof. Constructors that take ownership of P call it so
// the same proof cannot build a second driver.
func (e Enabled[P]) Consume() {
	e.lease.Retire("rcc: clock gate")
}

func pulseReset[P Gated](r *device.RCC_Type) {
	id := idOf[P]()
	g := gates[id]
	rst := resetReg(r, g.bus)
	rst.SetBits(g.bit)
	rst.ClearBits(g.bit)
	debug.Record(debug.EvtClockReset, uint8(id), uint32(g.bus), g.bit)
}
