package rcc

import (
	"f1hal/debug"
	"f1hal/device"
	"f1hal/flash"
	"f1hal/internal/claim"
	"f1hal/units"
)

// HSI is the internal RC oscillator frequency.
const HSI = 8_000_000

// Maximum bus frequencies accepted by Freeze.
const (
	maxSysclk = 72_000_000
	maxHclk   = 72_000_000
	maxPclk1  = 36_000_000
	maxPclk2  = 72_000_000
)

// CFGR collects the requested clock tree. Unset targets keep the reset
// configuration: HSI straight to the core, every bus unscaled.
type CFGR struct {
	regs  *device.RCC_Type
	lease claim.Lease

	sysclk units.Hertz
	hclk   units.Hertz
	pclk1  units.Hertz
	pclk2  units.Hertz
}

// Sysclk requests a core clock. The PLL runs from HSI/2, so the result is
// rounded down to a multiple of 4 MHz.
func (c CFGR) Sysclk(f units.Hertz) CFGR {
	c.sysclk = f
	return c
}

// Hclk requests an AHB clock.
func (c CFGR) Hclk(f units.Hertz) CFGR {
	c.hclk = f
	return c
}

// Pclk1 requests an APB1 clock.
func (c CFGR) Pclk1(f units.Hertz) CFGR {
	c.pclk1 = f
	return c
}

// Pclk2 requests an APB2 clock.
func (c CFGR) Pclk2(f units.Hertz) CFGR {
	c.pclk2 = f
	return c
}

// prescaler is one row of a divider lookup: ratios up to max select bits.
type prescaler struct {
	max  uint32
	bits uint32
	div  uint32
}

// AHB: HPRE 0xxx is "not divided".
var ahbTable = []prescaler{
	{1, 0b0000, 1},
	{2, 0b1000, 2},
	{5, 0b1001, 4},
	{11, 0b1010, 8},
	{39, 0b1011, 16},
	{95, 0b1100, 64},
	{191, 0b1101, 128},
	{383, 0b1110, 256},
	{^uint32(0), 0b1111, 512},
}

// APB: PPREx 0xx is "not divided".
var apbTable = []prescaler{
	{1, 0b000, 1},
	{2, 0b100, 2},
	{5, 0b101, 4},
	{11, 0b110, 8},
	{^uint32(0), 0b111, 16},
}

func lookup(table []prescaler, ratio uint32) prescaler {
	for _, p := range table {
		if ratio <= p.max {
			return p
		}
	}
	return table[len(table)-1]
}

// divide resolves the prescaler for target out of src. An unset target
// leaves the bus unscaled.
func divide(table []prescaler, src uint32, target units.Hertz, what string) prescaler {
	if target == 0 {
		return table[0]
	}
	ratio := src / uint32(target)
	if ratio == 0 {
		panic("rcc: " + what + " above its source clock")
	}
	return lookup(table, ratio)
}

// pllMul returns the multiplier for the requested sysclk. 2 means no PLL.
func pllMul(sysclk units.Hertz) uint32 {
	if sysclk == 0 {
		sysclk = HSI
	}
	mul := 2 * uint32(sysclk) / HSI
	if mul > 16 {
		panic("rcc: sysclk needs a PLL multiplier above 16")
	}
	if mul < 2 {
		mul = 2
	}
	return mul
}

// Freeze applies the clock tree and consumes c. The flash wait states are
// raised before the core clock is switched. acr must come from flash.New.
func (c CFGR) Freeze(acr *flash.ACR) Clocks {
	c.lease.Retire("rcc: CFGR")

	mul := pllMul(c.sysclk)
	sysclk := mul * HSI / 2
	if sysclk >= maxSysclk {
		panic("rcc: sysclk out of range")
	}

	hpre := divide(ahbTable, sysclk, c.hclk, "hclk")
	hclk := sysclk / hpre.div
	if hclk >= maxHclk {
		panic("rcc: hclk out of range")
	}

	ppre1 := divide(apbTable, hclk, c.pclk1, "pclk1")
	pclk1 := hclk / ppre1.div
	if pclk1 > maxPclk1 {
		panic("rcc: pclk1 above 36 MHz")
	}

	ppre2 := divide(apbTable, hclk, c.pclk2, "pclk2")
	pclk2 := hclk / ppre2.div
	if pclk2 >= maxPclk2 {
		panic("rcc: pclk2 out of range")
	}

	acr.SetLatency(flash.LatencyFor(sysclk))

	r := c.regs
	prescalers := hpre.bits<<device.RCC_CFGR_HPRE_Pos |
		ppre1.bits<<device.RCC_CFGR_PPRE1_Pos |
		ppre2.bits<<device.RCC_CFGR_PPRE2_Pos
	if mul != 2 {
		// PLL source is HSI/2 (PLLSRC cleared by the plain write).
		r.CFGR.Set((mul - 2) << device.RCC_CFGR_PLLMUL_Pos)
		r.CR.SetBits(device.RCC_CR_PLLON)
		for !r.CR.HasBits(device.RCC_CR_PLLRDY) {
		}
		const mask = device.RCC_CFGR_HPRE_Msk<<device.RCC_CFGR_HPRE_Pos |
			device.RCC_CFGR_PPRE1_Msk<<device.RCC_CFGR_PPRE1_Pos |
			device.RCC_CFGR_PPRE2_Msk<<device.RCC_CFGR_PPRE2_Pos |
			device.RCC_CFGR_SW_Msk<<device.RCC_CFGR_SW_Pos
		r.CFGR.ReplaceBits(prescalers|device.RCC_CFGR_SW_PLL, mask, 0)
	} else {
		r.CFGR.Set(prescalers | device.RCC_CFGR_SW_HSI)
	}
	debug.Record(debug.EvtFreeze, 0, sysclk, mul)

	return Clocks{
		sysclk: units.Hertz(sysclk),
		hclk:   units.Hertz(hclk),
		pclk1:  units.Hertz(pclk1),
		pclk2:  units.Hertz(pclk2),
		ppre1:  uint8(ppre1.div),
		ppre2:  uint8(ppre2.div),
		pllmul: uint8(mul),
	}
}

// Clocks is the frozen clock tree. Only Freeze produces a valid value; the
// zero value reports Frozen() == false and peripheral constructors reject it.
type Clocks struct {
	sysclk units.Hertz
	hclk   units.Hertz
	pclk1  units.Hertz
	pclk2  units.Hertz
	ppre1  uint8
	ppre2  uint8
	pllmul uint8
}

// Frozen reports whether c came from Freeze.
func (c Clocks) Frozen() bool { return c.sysclk != 0 }

// Must panics with a what-prefixed message unless c came from Freeze.
func (c Clocks) Must(what string) {
	if !c.Frozen() {
		panic(what + ": clocks not frozen")
	}
}

func (c Clocks) Sysclk() units.Hertz { return c.sysclk }
func (c Clocks) Hclk() units.Hertz   { return c.hclk }
func (c Clocks) Pclk1() units.Hertz  { return c.pclk1 }
func (c Clocks) Pclk2() units.Hertz  { return c.pclk2 }

// Ppre1 is the APB1 divider (1, 2, 4, 8 or 16).
func (c Clocks) Ppre1() uint8 { return c.ppre1 }

// Ppre2 is the APB2 divider.
func (c Clocks) Ppre2() uint8 { return c.ppre2 }

// PLLMul is the PLL multiplier; 2 means the PLL is bypassed.
func (c Clocks) PLLMul() uint8 { return c.pllmul }

// Pclk1Tim is the APB1 timer clock, doubled whenever APB1 is prescaled.
func (c Clocks) Pclk1Tim() units.Hertz {
	if c.ppre1 == 1 {
		return c.pclk1
	}
	return c.pclk1 * 2
}

// Pclk2Tim is the APB2 timer clock.
func (c Clocks) Pclk2Tim() units.Hertz {
	if c.ppre2 == 1 {
		return c.pclk2
	}
	return c.pclk2 * 2
}

// Bus returns the clock of the bus peripheral id sits on.
func (c Clocks) Bus(id device.ID) units.Hertz {
	if BusOf(id) == APB1 {
		return c.pclk1
	}
	return c.pclk2
}
