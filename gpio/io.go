package gpio

// Read samples an input pin through IDR.
func Read[P Port, N Index, C InputCnf](p Pin[P, N, Input, C]) bool {
	p.lease.Must("gpio: pin")
	return p.regs.IDR.HasBits(1 << p.Index())
}

// Set drives a general purpose output through BSRR.
func Set[P Port, N Index, M OutputMode, C GeneralCnf](p Pin[P, N, M, C], high bool) {
	p.lease.Must("gpio: pin")
	n := p.Index()
	if !high {
		n += 16
	}
	p.regs.BSRR.Set(1 << n)
}

func High[P Port, N Index, M OutputMode, C GeneralCnf](p Pin[P, N, M, C]) { Set(p, true) }
func Low[P Port, N Index, M OutputMode, C GeneralCnf](p Pin[P, N, M, C])  { Set(p, false) }

// IsSetHigh reports the level last written to the output latch (ODR).
func IsSetHigh[P Port, N Index, M OutputMode, C GeneralCnf](p Pin[P, N, M, C]) bool {
	p.lease.Must("gpio: pin")
	return p.regs.ODR.HasBits(1 << p.Index())
}

// Toggle inverts the output latch.
func Toggle[P Port, N Index, M OutputMode, C GeneralCnf](p Pin[P, N, M, C]) {
	Set(p, !IsSetHigh(p))
}
