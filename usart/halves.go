package usart

import (
	"f1hal/device"
	"f1hal/internal/irq"
	"f1hal/nb"
)

// TxEvent selects a transmit interrupt source.
type TxEvent uint32

const (
	EventTxEmpty              TxEvent = device.USART_CR1_TXEIE
	EventTransmissionComplete TxEvent = device.USART_CR1_TCIE
)

// RxEvent selects a receive interrupt source.
type RxEvent uint32

const (
	EventRxNotEmpty RxEvent = device.USART_CR1_RXNEIE
	EventIdle       RxEvent = device.USART_CR1_IDLEIE
)

// Both halves toggle CR1 interrupt enables, so each update runs with
// interrupts disabled.
func listen(regs *device.USART_Type, bits uint32) {
	irq.Do(func() { regs.CR1.SetBits(bits) })
}

func unlisten(regs *device.USART_Type, bits uint32) {
	irq.Do(func() { regs.CR1.ClearBits(bits) })
}

// Tx is the transmit half.
type Tx[P Instance] struct {
	regs   *device.USART_Type
	policy nb.Policy
}

// SetPolicy sets how Write waits on Send.
func (t *Tx[P]) SetPolicy(p nb.Policy) { t.policy = p }

// Send writes b to DR if the transmit register is empty.
func (t *Tx[P]) Send(b byte) error {
	if !t.regs.SR.HasBits(device.USART_SR_TXE) {
		return nb.ErrWouldBlock
	}
	t.regs.DR.Set(uint32(b))
	return nil
}

// Flush reports whether the last frame has left the shift register.
func (t *Tx[P]) Flush() error {
	if !t.regs.SR.HasBits(device.USART_SR_TC) {
		return nb.ErrWouldBlock
	}
	return nil
}

// Write sends p byte by byte under the policy. It implements io.Writer.
func (t *Tx[P]) Write(p []byte) (int, error) {
	for n, b := range p {
		if err := nb.Block(t.policy, func() error { return t.Send(b) }); err != nil {
			return n, err
		}
	}
	return len(p), nil
}

func (t *Tx[P]) Listen(ev TxEvent)   { listen(t.regs, uint32(ev)) }
func (t *Tx[P]) Unlisten(ev TxEvent) { unlisten(t.regs, uint32(ev)) }

// Rx is the receive half.
type Rx[P Instance] struct {
	regs   *device.USART_Type
	policy nb.Policy
}

// SetPolicy sets how Read waits for its first byte.
func (r *Rx[P]) SetPolicy(p nb.Policy) { r.policy = p }

func faultOf(sr uint32) error {
	switch {
	case sr&device.USART_SR_PE != 0:
		return ErrParity
	case sr&device.USART_SR_FE != 0:
		return ErrFraming
	case sr&device.USART_SR_NE != 0:
		return ErrNoise
	case sr&device.USART_SR_ORE != 0:
		return ErrOverrun
	}
	return nil
}

// Receive returns the next byte. On a fault the offending frame is read out
// of DR, which clears the flag together with the SR read, and the fault is
// returned.
func (r *Rx[P]) Receive() (byte, error) {
	sr := r.regs.SR.Get()
	if err := faultOf(sr); err != nil {
		r.regs.DR.Get()
		return 0, err
	}
	if sr&device.USART_SR_RXNE == 0 {
		return 0, nb.ErrWouldBlock
	}
	return byte(r.regs.DR.Get()), nil
}

// Read waits under the policy for the first byte, then takes whatever else
// is already waiting, up to len(p). It implements io.Reader.
func (r *Rx[P]) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	err := nb.Block(r.policy, func() error {
		b, err := r.Receive()
		p[0] = b
		return err
	})
	if err != nil {
		return 0, err
	}
	n := 1
	for n < len(p) {
		b, err := r.Receive()
		if err == nb.ErrWouldBlock {
			break
		}
		if err != nil {
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (r *Rx[P]) Listen(ev RxEvent)   { listen(r.regs, uint32(ev)) }
func (r *Rx[P]) Unlisten(ev RxEvent) { unlisten(r.regs, uint32(ev)) }
