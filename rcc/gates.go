package rcc

import (
	"f1hal/device"
	"f1hal/mmio"
)

// Bus is the peripheral bus a clock gate sits on.
type Bus uint8

const (
	APB1 Bus = iota + 1
	APB2
)

func (b Bus) String() string {
	switch b {
	case APB1:
		return "APB1"
	case APB2:
		return "APB2"
	default:
		return "unknown"
	}
}

// gate locates a peripheral's enable bit. The reset registers share the
// enable layout, so the same bit pulses the reset.
type gate struct {
	bus Bus
	bit uint32
}

var gates = [device.NumIDs]gate{
	device.IDAFIO:   {APB2, device.RCC_APB2ENR_AFIOEN},
	device.IDGPIOA:  {APB2, device.RCC_APB2ENR_IOPAEN},
	device.IDGPIOB:  {APB2, device.RCC_APB2ENR_IOPBEN},
	device.IDGPIOC:  {APB2, device.RCC_APB2ENR_IOPCEN},
	device.IDGPIOD:  {APB2, device.RCC_APB2ENR_IOPDEN},
	device.IDGPIOE:  {APB2, device.RCC_APB2ENR_IOPEEN},
	device.IDSPI1:   {APB2, device.RCC_APB2ENR_SPI1EN},
	device.IDUSART1: {APB2, device.RCC_APB2ENR_USART1EN},
	device.IDTIM2:   {APB1, device.RCC_APB1ENR_TIM2EN},
	device.IDSPI2:   {APB1, device.RCC_APB1ENR_SPI2EN},
	device.IDUSART2: {APB1, device.RCC_APB1ENR_USART2EN},
	device.IDUSART3: {APB1, device.RCC_APB1ENR_USART3EN},
	device.IDI2C1:   {APB1, device.RCC_APB1ENR_I2C1EN},
	device.IDI2C2:   {APB1, device.RCC_APB1ENR_I2C2EN},
}

// BusOf returns the bus peripheral id is clocked from.
func BusOf(id device.ID) Bus {
	return gates[id].bus
}

func enableReg(r *device.RCC_Type, b Bus) mmio.Register32 {
	if b == APB1 {
		return r.APB1ENR
	}
	return r.APB2ENR
}

func resetReg(r *device.RCC_Type, b Bus) mmio.Register32 {
	if b == APB1 {
		return r.APB1RSTR
	}
	return r.APB2RSTR
}
