package i2c

import (
	"f1hal/afio"
	"f1hal/device"
	"f1hal/gpio"
	"f1hal/internal/claim"
)

var portSlots [device.NumIDs]claim.Slot

// Ports proves P's SCL and SDA pins are in alternate open-drain mode for
// mapping S. It performs no register writes.
type Ports[P Instance, S afio.State] struct {
	lease claim.Lease
}

func wired[P Instance, S afio.State]() Ports[P, S] {
	var p P
	return Ports[P, S]{lease: portSlots[p.ID()].Issue()}
}

func (p Ports[P, S]) consume() {
	p.lease.Retire("i2c: ports")
}

// I2C1Ports wires I2C1 to SCL PB6, SDA PB7.
func I2C1Ports[M gpio.OutputMode](
	scl gpio.Pin[device.GPIOB, gpio.P6, M, gpio.Cnf3],
	sda gpio.Pin[device.GPIOB, gpio.P7, M, gpio.Cnf3],
	remap afio.Remap[device.I2C1, afio.NotRemapped],
) Ports[device.I2C1, afio.NotRemapped] {
	scl.Consume()
	sda.Consume()
	remap.Consume()
	return wired[device.I2C1, afio.NotRemapped]()
}

// I2C1RemappedPorts wires I2C1 to SCL PB8, SDA PB9.
func I2C1RemappedPorts[M gpio.OutputMode](
	scl gpio.Pin[device.GPIOB, gpio.P8, M, gpio.Cnf3],
	sda gpio.Pin[device.GPIOB, gpio.P9, M, gpio.Cnf3],
	remap afio.Remap[device.I2C1, afio.Remapped],
) Ports[device.I2C1, afio.Remapped] {
	scl.Consume()
	sda.Consume()
	remap.Consume()
	return wired[device.I2C1, afio.Remapped]()
}

// I2C2Ports wires I2C2 to SCL PB10, SDA PB11. I2C2 has no remap.
func I2C2Ports[M gpio.OutputMode](
	scl gpio.Pin[device.GPIOB, gpio.P10, M, gpio.Cnf3],
	sda gpio.Pin[device.GPIOB, gpio.P11, M, gpio.Cnf3],
) Ports[device.I2C2, afio.NotRemapped] {
	scl.Consume()
	sda.Consume()
	return wired[device.I2C2, afio.NotRemapped]()
}
