// Package protocol implements the framed echo link between the board's
// USART console and the host checker.
//
// A frame on the wire is
//
//	0x7E | len | seq | payload[len] | crc hi | crc lo
//
// The CRC covers len, seq and the payload. The board sends every valid frame
// back unchanged, so a host can measure loss and latency of the whole path
// (host UART, wiring, USART, clock tree) with nothing but this package.
package protocol

import "errors"

const (
	Sync          = 0x7E
	FrameOverhead = 5 // sync, len, seq, crc
	FrameMax      = 64
	PayloadMax    = FrameMax - FrameOverhead
)

var (
	ErrPayloadTooLarge = errors.New("protocol: payload too large")
	ErrBadLength       = errors.New("protocol: frame length out of range")
	ErrBadCRC          = errors.New("protocol: frame CRC mismatch")
)

// Frame is one decoded frame. Payload aliases the buffer it was parsed from.
type Frame struct {
	Seq     uint8
	Payload []byte
}
