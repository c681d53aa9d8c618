// Package simchip builds a simulated STM32F103 for host tests: a fresh
// register file with the few hardware reactions the HAL waits on.
package simchip

import (
	"f1hal/device"
	"f1hal/mmio/sim"
)

// New binds a fresh chip. RCC.CR reports PLLRDY as soon as PLLON is set,
// GPIO control registers start at their reset value and BSRR/BRR drive ODR.
func New() (*sim.Memory, *device.Peripherals) {
	mem := sim.New()
	p := device.Bind(mem)
	for _, port := range []string{"GPIOA", "GPIOB", "GPIOC", "GPIOD", "GPIOE"} {
		mem.Reg(port + ".CRL").Poke(0x4444_4444)
		mem.Reg(port + ".CRH").Poke(0x4444_4444)
		odr := mem.Reg(port + ".ODR")
		mem.Reg(port + ".BSRR").OnWrite = func(_ *sim.Reg, _, v uint32) uint32 {
			odr.Poke(odr.Peek()&^(v>>16) | v&0xFFFF)
			return 0
		}
		mem.Reg(port + ".BRR").OnWrite = func(_ *sim.Reg, _, v uint32) uint32 {
			odr.Poke(odr.Peek() &^ (v & 0xFFFF))
			return 0
		}
	}
	mem.Reg("RCC.CR").OnWrite = func(_ *sim.Reg, _, v uint32) uint32 {
		if v&device.RCC_CR_PLLON != 0 {
			v |= device.RCC_CR_PLLRDY
		} else {
			v &^= device.RCC_CR_PLLRDY
		}
		return v
	}
	return mem, p
}

// Writes returns the write and modify events of the named registers, in
// order. With no names it returns every write.
func Writes(mem *sim.Memory, names ...string) []sim.Event {
	return mem.Journal.Filter(func(e sim.Event) bool {
		if e.Op == sim.OpRead {
			return false
		}
		if len(names) == 0 {
			return true
		}
		for _, n := range names {
			if e.Name == n {
				return true
			}
		}
		return false
	})
}
