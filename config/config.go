// Package config loads the JSON board description shared by the firmware
// target and the host tools, and turns it into HAL configuration values.
package config

import (
	"encoding/json"
	"fmt"

	"f1hal/i2c"
	"f1hal/rcc"
	"f1hal/spi"
	"f1hal/units"
	"f1hal/usart"
)

// Load parses a JSON board description and fills in defaults.
func Load(data []byte) (*Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	applyDefaults(&b)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func applyDefaults(b *Board) {
	if b.Clocks.Sysclk == 0 {
		b.Clocks.Sysclk = 64_000_000
	}
	if b.Clocks.Pclk1 == 0 && b.Clocks.Sysclk > 36_000_000 {
		b.Clocks.Pclk1 = b.Clocks.Sysclk / 2
	}
	if b.I2C.Frequency == 0 {
		b.I2C.Frequency = 100_000
	}
	if b.SPI.Frequency == 0 {
		b.SPI.Frequency = 1_000_000
	}
	if b.USART.Baud == 0 {
		b.USART.Baud = 115200
	}
	if b.USART.Parity == "" {
		b.USART.Parity = "none"
	}
	if b.USART.StopBits == "" {
		b.USART.StopBits = "1"
	}
	if b.Console.Device == "" {
		b.Console.Device = "/dev/ttyUSB0"
	}
	if b.Console.Baud == 0 {
		b.Console.Baud = int(b.USART.Baud)
	}
	if b.Console.TimeoutMS == 0 {
		b.Console.TimeoutMS = 500
	}
}

// Default is the description Load returns for "{}".
func Default() *Board {
	var b Board
	applyDefaults(&b)
	return &b
}

// Validate rejects descriptions the HAL would panic on. Clock dividers that
// cannot be met exactly are left to rcc.
func (b *Board) Validate() error {
	c := b.Clocks
	switch {
	case c.Sysclk >= 72_000_000:
		return fmt.Errorf("config: sysclk %d Hz must be below 72 MHz", c.Sysclk)
	case c.Hclk >= 72_000_000:
		return fmt.Errorf("config: hclk %d Hz must be below 72 MHz", c.Hclk)
	case c.Pclk1 > 36_000_000:
		return fmt.Errorf("config: pclk1 %d Hz above 36 MHz", c.Pclk1)
	case c.Pclk1 == 0 && c.Sysclk > 36_000_000:
		return fmt.Errorf("config: pclk1 must be set when sysclk is above 36 MHz")
	case b.SPI.Mode > 3:
		return fmt.Errorf("config: spi mode %d out of range", b.SPI.Mode)
	case b.Console.Baud <= 0:
		return fmt.Errorf("config: console baud %d", b.Console.Baud)
	}
	if _, ok := parities[b.USART.Parity]; !ok {
		return fmt.Errorf("config: unknown parity %q", b.USART.Parity)
	}
	if _, ok := stopBits[b.USART.StopBits]; !ok {
		return fmt.Errorf("config: unknown stop bits %q", b.USART.StopBits)
	}
	return nil
}

var parities = map[string]usart.Parity{
	"none": usart.ParityNone,
	"even": usart.ParityEven,
	"odd":  usart.ParityOdd,
}

var stopBits = map[string]usart.StopBits{
	"0.5": usart.StopBits0_5,
	"1":   usart.StopBits1,
	"1.5": usart.StopBits1_5,
	"2":   usart.StopBits2,
}

// Tree applies the clock targets to cfgr. Zero targets are left to rcc's
// defaults.
func (c Clocks) Tree(cfgr rcc.CFGR) rcc.CFGR {
	if c.Sysclk != 0 {
		cfgr = cfgr.Sysclk(units.Hz(c.Sysclk))
	}
	if c.Hclk != 0 {
		cfgr = cfgr.Hclk(units.Hz(c.Hclk))
	}
	if c.Pclk1 != 0 {
		cfgr = cfgr.Pclk1(units.Hz(c.Pclk1))
	}
	if c.Pclk2 != 0 {
		cfgr = cfgr.Pclk2(units.Hz(c.Pclk2))
	}
	return cfgr
}

func (c I2C) HAL() i2c.Config {
	cfg := i2c.Config{Frequency: units.Hz(c.Frequency)}
	if c.FastDuty {
		cfg.DutyCycle = i2c.Duty16_9
	}
	return cfg
}

func (c SPI) HAL() spi.Config {
	return spi.Config{Mode: spi.Mode(c.Mode), Frequency: units.Hz(c.Frequency), LSBFirst: c.LSBFirst}
}

// HAL converts a validated USART section. Parity takes the ninth data bit so
// the payload stays eight bits wide.
func (c USART) HAL() usart.Config {
	cfg := usart.Config{
		Baud:     units.Baud(c.Baud),
		Parity:   parities[c.Parity],
		StopBits: stopBits[c.StopBits],
	}
	if cfg.Parity != usart.ParityNone {
		cfg.WordLength = usart.DataBits9
	}
	return cfg
}
