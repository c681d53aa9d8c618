// Package serial opens the host end of the board's USART console.
package serial

import (
	"io"
	"time"

	"f1hal/config"
)

// Port is an open serial line. Read returns io.EOF when the read timeout
// expires with nothing received.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input and unsent output.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	Baud int

	// Parity and StopBits use the board description's spelling: "none",
	// "even" or "odd", and "1", "1.5" or "2". Empty means none and 1.
	Parity   string
	StopBits string

	// ReadTimeout bounds a single Read; 0 blocks.
	ReadTimeout time.Duration
}

// FromBoard builds a Config from a board description: the device and
// timing from its console section, the framing from its USART section so
// both ends agree on parity and stop bits.
func FromBoard(b *config.Board) *Config {
	return &Config{
		Device:      b.Console.Device,
		Baud:        b.Console.Baud,
		Parity:      b.USART.Parity,
		StopBits:    b.USART.StopBits,
		ReadTimeout: time.Duration(b.Console.TimeoutMS) * time.Millisecond,
	}
}
