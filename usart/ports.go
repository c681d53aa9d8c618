package usart

import (
	"f1hal/afio"
	"f1hal/device"
	"f1hal/gpio"
	"f1hal/internal/claim"
)

var portSlots [device.NumIDs]claim.Slot

// Ports proves P's TX pin is an alternate push-pull output and its RX pin a
// floating input, for mapping S.
type Ports[P Instance, S afio.State] struct {
	lease claim.Lease
}

func wired[P Instance, S afio.State]() Ports[P, S] {
	var p P
	return Ports[P, S]{lease: portSlots[p.ID()].Issue()}
}

func (p Ports[P, S]) consume() {
	p.lease.Retire("usart: ports")
}

func route[P Instance, S afio.State, G gpio.Port, TN, RN gpio.Index, M gpio.OutputMode](
	tx gpio.Pin[G, TN, M, gpio.Cnf2], rx gpio.Pin[G, RN, gpio.Input, gpio.Cnf1], remap afio.Remap[P, S],
) Ports[P, S] {
	tx.Consume()
	rx.Consume()
	remap.Consume()
	return wired[P, S]()
}

// USART1Ports wires USART1 to TX PA9, RX PA10.
func USART1Ports[M gpio.OutputMode](
	tx gpio.Pin[device.GPIOA, gpio.P9, M, gpio.Cnf2], rx gpio.Pin[device.GPIOA, gpio.P10, gpio.Input, gpio.Cnf1],
	remap afio.Remap[device.USART1, afio.NotRemapped],
) Ports[device.USART1, afio.NotRemapped] {
	return route(tx, rx, remap)
}

// USART1RemappedPorts wires USART1 to TX PB6, RX PB7.
func USART1RemappedPorts[M gpio.OutputMode](
	tx gpio.Pin[device.GPIOB, gpio.P6, M, gpio.Cnf2], rx gpio.Pin[device.GPIOB, gpio.P7, gpio.Input, gpio.Cnf1],
	remap afio.Remap[device.USART1, afio.Remapped],
) Ports[device.USART1, afio.Remapped] {
	return route(tx, rx, remap)
}

// USART2Ports wires USART2 to TX PA2, RX PA3.
func USART2Ports[M gpio.OutputMode](
	tx gpio.Pin[device.GPIOA, gpio.P2, M, gpio.Cnf2], rx gpio.Pin[device.GPIOA, gpio.P3, gpio.Input, gpio.Cnf1],
	remap afio.Remap[device.USART2, afio.NotRemapped],
) Ports[device.USART2, afio.NotRemapped] {
	return route(tx, rx, remap)
}

// USART2RemappedPorts wires USART2 to TX PD5, RX PD6.
func USART2RemappedPorts[M gpio.OutputMode](
	tx gpio.Pin[device.GPIOD, gpio.P5, M, gpio.Cnf2], rx gpio.Pin[device.GPIOD, gpio.P6, gpio.Input, gpio.Cnf1],
	remap afio.Remap[device.USART2, afio.Remapped],
) Ports[device.USART2, afio.Remapped] {
	return route(tx, rx, remap)
}

// USART3Ports wires USART3 to TX PB10, RX PB11.
func USART3Ports[M gpio.OutputMode](
	tx gpio.Pin[device.GPIOB, gpio.P10, M, gpio.Cnf2], rx gpio.Pin[device.GPIOB, gpio.P11, gpio.Input, gpio.Cnf1],
	remap afio.Remap[device.USART3, afio.NotRemapped],
) Ports[device.USART3, afio.NotRemapped] {
	return route(tx, rx, remap)
}

// USART3PartiallyRemappedPorts wires USART3 to TX PC10, RX PC11.
func USART3PartiallyRemappedPorts[M gpio.OutputMode](
	tx gpio.Pin[device.GPIOC, gpio.P10, M, gpio.Cnf2], rx gpio.Pin[device.GPIOC, gpio.P11, gpio.Input, gpio.Cnf1],
	remap afio.Remap[device.USART3, afio.PartiallyRemapped],
) Ports[device.USART3, afio.PartiallyRemapped] {
	return route(tx, rx, remap)
}

// USART3RemappedPorts wires USART3 to TX PD8, RX PD9.
func USART3RemappedPorts[M gpio.OutputMode](
	tx gpio.Pin[device.GPIOD, gpio.P8, M, gpio.Cnf2], rx gpio.Pin[device.GPIOD, gpio.P9, gpio.Input, gpio.Cnf1],
	remap afio.Remap[device.USART3, afio.Remapped],
) Ports[device.USART3, afio.Remapped] {
	return route(tx, rx, remap)
}
