package spi

import (
	"f1hal/afio"
	"f1hal/device"
	"f1hal/gpio"
	"f1hal/internal/claim"
)

var portSlots [device.NumIDs]claim.Slot

// Ports proves P's NSS, SCK and MOSI pins are alternate push-pull outputs and
// MISO a floating input, for mapping S.
type Ports[P Instance, S afio.State] struct {
	lease claim.Lease
}

func wired[P Instance, S afio.State]() Ports[P, S] {
	var p P
	return Ports[P, S]{lease: portSlots[p.ID()].Issue()}
}

func (p Ports[P, S]) consume() {
	p.lease.Retire("spi: ports")
}

// SPI1Ports wires SPI1 to NSS PA4, SCK PA5, MISO PA6, MOSI PA7.
func SPI1Ports[M gpio.OutputMode](
	nss gpio.Pin[device.GPIOA, gpio.P4, M, gpio.Cnf2],
	sck gpio.Pin[device.GPIOA, gpio.P5, M, gpio.Cnf2],
	miso gpio.Pin[device.GPIOA, gpio.P6, gpio.Input, gpio.Cnf1],
	mosi gpio.Pin[device.GPIOA, gpio.P7, M, gpio.Cnf2],
	remap afio.Remap[device.SPI1, afio.NotRemapped],
) Ports[device.SPI1, afio.NotRemapped] {
	nss.Consume()
	sck.Consume()
	miso.Consume()
	mosi.Consume()
	remap.Consume()
	return wired[device.SPI1, afio.NotRemapped]()
}

// SPI1RemappedPorts wires SPI1 to NSS PA15, SCK PB3, MISO PB4, MOSI PB5.
// These pins come out of reset as JTAG, so the debug port must have been
// released first.
func SPI1RemappedPorts[M gpio.OutputMode](
	nss gpio.Pin[device.GPIOA, gpio.P15, M, gpio.Cnf2],
	sck gpio.Pin[device.GPIOB, gpio.P3, M, gpio.Cnf2],
	miso gpio.Pin[device.GPIOB, gpio.P4, gpio.Input, gpio.Cnf1],
	mosi gpio.Pin[device.GPIOB, gpio.P5, M, gpio.Cnf2],
	remap afio.Remap[device.SPI1, afio.Remapped],
	jtag afio.JTAGReleased,
) Ports[device.SPI1, afio.Remapped] {
	nss.Consume()
	sck.Consume()
	miso.Consume()
	mosi.Consume()
	remap.Consume()
	jtag.Consume()
	return wired[device.SPI1, afio.Remapped]()
}

// SPI2Ports wires SPI2 to NSS PB12, SCK PB13, MISO PB14, MOSI PB15.
func SPI2Ports[M gpio.OutputMode](
	nss gpio.Pin[device.GPIOB, gpio.P12, M, gpio.Cnf2],
	sck gpio.Pin[device.GPIOB, gpio.P13, M, gpio.Cnf2],
	miso gpio.Pin[device.GPIOB, gpio.P14, gpio.Input, gpio.Cnf1],
	mosi gpio.Pin[device.GPIOB, gpio.P15, M, gpio.Cnf2],
) Ports[device.SPI2, afio.NotRemapped] {
	nss.Consume()
	sck.Consume()
	miso.Consume()
	mosi.Consume()
	return wired[device.SPI2, afio.NotRemapped]()
}
