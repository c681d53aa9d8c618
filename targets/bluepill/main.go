//go:build stm32f103

// Firmware for a Blue Pill board: brings the chip up through the typed HAL,
// reports what it finds on I2C1 and SPI1, then echoes frames on USART1.
//
// The HAL owns RCC, so build with a target whose runtime leaves the clock
// tree at its reset state.
package main

import (
	_ "embed"

	"f1hal/afio"
	"f1hal/config"
	"f1hal/debug"
	"f1hal/device"
	"f1hal/flash"
	"f1hal/gpio"
	"f1hal/i2c"
	"f1hal/internal/boardcheck"
	"f1hal/nb"
	"f1hal/protocol"
	"f1hal/rcc"
	"f1hal/spi"
	"f1hal/usart"
)

//go:embed board.json
var boardJSON []byte

// busPolicy bounds every I2C and SPI wait so a missing device cannot hang
// start-up.
const busPolicy = nb.Bounded(100_000)

func main() {
	board, err := config.Load(boardJSON)
	if err != nil {
		panic(err.Error())
	}

	dp := device.MustTake()
	r := rcc.New(dp.RCC)
	fl := flash.New(dp.FLASH)
	clocks := board.Clocks.Tree(r.CFGR).Freeze(&fl.ACR)

	pa := gpio.Split(dp.GPIOA, r.Peripherals.GPIOA.Enable())
	pb := gpio.Split(dp.GPIOB, r.Peripherals.GPIOB.Enable())
	pc := gpio.Split(dp.GPIOC, r.Peripherals.GPIOC.Enable())
	af := afio.New(dp.AFIO, r.Peripherals.AFIO.Enable())

	led := gpio.SetOutputPushPull(pc.P13.SetOutput2MHz())
	gpio.High(led)

	// USART2 (PA2/PA3) carries the debug log so USART1 stays a clean link.
	logPorts := usart.USART2Ports(
		gpio.SetAltOutputPushPull(pa.P2.SetOutput2MHz()),
		gpio.SetFloatingInput(pa.P3),
		af.USART2.SetNotRemapped(),
	)
	logTx, _ := usart.New(dp.USART2, logPorts, r.Peripherals.USART2.Enable(),
		board.USART.HAL(), clocks).Split()
	debug.SetWriter(func(s string) {
		logTx.Write([]byte(s))
		logTx.Write([]byte("\r\n"))
	})
	debug.SetEnabled(true)

	consolePorts := usart.USART1Ports(
		gpio.SetAltOutputPushPull(pa.P9.SetOutput50MHz()),
		gpio.SetFloatingInput(pa.P10),
		af.USART1.SetNotRemapped(),
	)
	tx, rx := usart.New(dp.USART1, consolePorts, r.Peripherals.USART1.Enable(),
		board.USART.HAL(), clocks).Split()

	i2cPorts := i2c.I2C1Ports(
		gpio.SetAltOutputOpenDrain(pb.P6.SetOutput2MHz()),
		gpio.SetAltOutputOpenDrain(pb.P7.SetOutput2MHz()),
		af.I2C1.SetNotRemapped(),
	)
	bus := i2c.New(dp.I2C1, i2cPorts, r.Peripherals.I2C1.Enable(), board.I2C.HAL(), clocks)
	bus.SetPolicy(busPolicy)

	spiPorts := spi.SPI1Ports(
		gpio.SetAltOutputPushPull(pa.P4.SetOutput50MHz()),
		gpio.SetAltOutputPushPull(pa.P5.SetOutput50MHz()),
		gpio.SetFloatingInput(pa.P6),
		gpio.SetAltOutputPushPull(pa.P7.SetOutput50MHz()),
		af.SPI1.SetNotRemapped(),
	)
	nor := spi.New(dp.SPI1, spiPorts, r.Peripherals.SPI1.Enable(), board.SPI.HAL(), clocks)
	nor.SetPolicy(busPolicy)
	nor.Disable()

	debug.Println("sysclk " + itoa(uint32(clocks.Sysclk())) + " Hz")
	for _, addr := range boardcheck.ScanI2C(bus) {
		debug.Println("i2c: device at " + itoa(uint32(addr)))
	}
	id, err := boardcheck.ReadJEDEC(nor, func(on bool) {
		if on {
			nor.Enable()
		} else {
			nor.Disable()
		}
	})
	switch {
	case err != nil:
		debug.Println("spi: " + err.Error())
	case id.Present():
		debug.Println("spi: flash " + itoa(uint32(id.Manufacturer)) + "/" +
			itoa(uint32(id.MemoryType)) + "/" + itoa(uint32(id.Capacity)))
	}
	debug.Dump()

	gpio.Low(led)
	echo := protocol.NewEchoer(256)
	for {
		if err := echo.Poll(rx, tx); err != nil {
			debug.Println("echo: " + err.Error())
			gpio.Toggle(led)
		}
	}
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
