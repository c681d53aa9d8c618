// Package units holds the frequency and bit-rate types used by clock and
// peripheral configuration.
package units

// Hertz is a frequency in cycles per second.
type Hertz uint32

// Bps is a serial bit rate.
type Bps uint32

func Hz(n uint32) Hertz  { return Hertz(n) }
func KHz(n uint32) Hertz { return Hertz(n * 1_000) }
func MHz(n uint32) Hertz { return Hertz(n * 1_000_000) }

// Baud is the bit rate for n symbols per second.
func Baud(n uint32) Bps { return Bps(n) }

// Uint32 returns f as a plain integer for register arithmetic.
func (f Hertz) Uint32() uint32 { return uint32(f) }

// Uint32 returns b as a plain integer for register arithmetic.
func (b Bps) Uint32() uint32 { return uint32(b) }
