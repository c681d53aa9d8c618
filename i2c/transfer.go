package i2c

import (
	"f1hal/debug"
	"f1hal/device"
	"f1hal/internal/irq"
	"f1hal/nb"
)

// faultOf maps SR1 error flags to an Error, highest priority first.
func faultOf(sr1 uint32) error {
	switch {
	case sr1&device.I2C_SR1_TIMEOUT != 0:
		return ErrTimeout
	case sr1&device.I2C_SR1_AF != 0:
		return ErrAcknowledgementFailure
	case sr1&device.I2C_SR1_ARLO != 0:
		return ErrArbitrationLost
	case sr1&device.I2C_SR1_OVR != 0:
		return ErrOverrun
	case sr1&device.I2C_SR1_BERR != 0:
		return ErrBusError
	}
	return nil
}

const faultMask = device.I2C_SR1_TIMEOUT | device.I2C_SR1_AF | device.I2C_SR1_ARLO |
	device.I2C_SR1_OVR | device.I2C_SR1_BERR

// probe reads SR1 once: a fault wins over readiness.
func (i *I2C[P, S]) probe(flag uint32) error {
	sr1 := i.regs.SR1.Get()
	if err := faultOf(sr1); err != nil {
		return err
	}
	if sr1&flag == 0 {
		return nb.ErrWouldBlock
	}
	return nil
}

// StartComplete reports SB: the start condition went out.
func (i *I2C[P, S]) StartComplete() error { return i.probe(device.I2C_SR1_SB) }

// AddrComplete reports ADDR: the slave acknowledged its address.
func (i *I2C[P, S]) AddrComplete() error { return i.probe(device.I2C_SR1_ADDR) }

// TransmitEmpty reports TxE.
func (i *I2C[P, S]) TransmitEmpty() error { return i.probe(device.I2C_SR1_TxE) }

// ReceiveNotEmpty reports RxNE.
func (i *I2C[P, S]) ReceiveNotEmpty() error { return i.probe(device.I2C_SR1_RxNE) }

// ByteTransferFinished reports BTF.
func (i *I2C[P, S]) ByteTransferFinished() error { return i.probe(device.I2C_SR1_BTF) }

func (i *I2C[P, S]) GenerateStart() { i.regs.CR1.SetBits(device.I2C_CR1_START) }
func (i *I2C[P, S]) GenerateStop()  { i.regs.CR1.SetBits(device.I2C_CR1_STOP) }

// WriteAddress sends the 7-bit addr with the direction bit.
func (i *I2C[P, S]) WriteAddress(addr uint8, read bool) {
	b := uint32(addr) << 1
	if read {
		b |= 1
	}
	i.regs.DR.Set(b)
}

func (i *I2C[P, S]) WriteData(b byte) { i.regs.DR.Set(uint32(b)) }
func (i *I2C[P, S]) ReadData() byte   { return byte(i.regs.DR.Get()) }

// ClearAddr releases the ADDR latch by reading SR2 (SR1 was read by the
// probe that saw ADDR).
func (i *I2C[P, S]) ClearAddr() { i.regs.SR2.Get() }

// SetAck enables or disables acknowledging received bytes.
func (i *I2C[P, S]) SetAck(on bool) {
	if on {
		i.regs.CR1.SetBits(device.I2C_CR1_ACK)
	} else {
		i.regs.CR1.ClearBits(device.I2C_CR1_ACK)
	}
}

// State is what an event interrupt handler should do next.
type State uint8

const (
	StateUnknown  State = iota
	StateStarted        // SB: send the address
	StateCanWrite       // ADDR or TxE: write the next byte
	StateCanRead        // RxNE: take the next byte
)

// State reads SR1 once and tells an event handler what the bus is waiting
// for, SB first. When it finds ADDR it also reads SR2, which releases the
// latch.
func (i *I2C[P, S]) State() State {
	sr1 := i.regs.SR1.Get()
	switch {
	case sr1&device.I2C_SR1_SB != 0:
		return StateStarted
	case sr1&device.I2C_SR1_ADDR != 0:
		i.ClearAddr()
		return StateCanWrite
	case sr1&device.I2C_SR1_TxE != 0:
		return StateCanWrite
	case sr1&device.I2C_SR1_RxNE != 0:
		return StateCanRead
	}
	return StateUnknown
}

// IsMaster reports MSL: the peripheral holds the bus as master.
func (i *I2C[P, S]) IsMaster() bool { return i.regs.SR2.HasBits(device.I2C_SR2_MSL) }

// IsBusy reports a communication on the bus.
func (i *I2C[P, S]) IsBusy() bool { return i.regs.SR2.HasBits(device.I2C_SR2_BUSY) }

// ClearErrors drops the latched SR1 fault flags.
func (i *I2C[P, S]) ClearErrors() { i.regs.SR1.ClearBits(faultMask) }

// Listen enables interrupt source ev. Interrupt handlers may toggle CR2 too,
// so the update runs with interrupts disabled.
func (i *I2C[P, S]) Listen(ev Event) {
	irq.Do(func() { i.regs.CR2.SetBits(uint32(ev)) })
}

// Unlisten disables interrupt source ev.
func (i *I2C[P, S]) Unlisten(ev Event) {
	irq.Do(func() { i.regs.CR2.ClearBits(uint32(ev)) })
}

// start issues START and the address byte and waits for the slave's ACK.
func (i *I2C[P, S]) start(addr uint8, read bool) error {
	i.GenerateStart()
	if err := i.wait(i.StartComplete); err != nil {
		return err
	}
	i.WriteAddress(addr, read)
	return i.wait(i.AddrComplete)
}

func (i *I2C[P, S]) writeBytes(addr uint8, data []byte) error {
	if err := i.start(addr, false); err != nil {
		return err
	}
	i.ClearAddr()
	for _, b := range data {
		i.WriteData(b)
		if err := i.wait(i.TransmitEmpty); err != nil {
			return err
		}
	}
	return nil
}

// readBytes receives len(buf) bytes and ends with STOP. The last byte is
// NACKed: for a single byte ACK is dropped before ADDR is cleared, otherwise
// after the second to last byte has been read.
func (i *I2C[P, S]) readBytes(addr uint8, buf []byte) error {
	i.SetAck(len(buf) > 1)
	if err := i.start(addr, true); err != nil {
		return err
	}
	i.ClearAddr()
	if len(buf) == 1 {
		i.GenerateStop()
	}
	for k := range buf {
		if err := i.wait(i.ReceiveNotEmpty); err != nil {
			return err
		}
		buf[k] = i.ReadData()
		if k == len(buf)-2 {
			i.SetAck(false)
			i.GenerateStop()
		}
	}
	return nil
}

// Write sends data to the slave at addr:
// START, addr+W, then each byte after TxE, then STOP. addr is the 7-bit
// address without the direction bit; WriteAddress shifts it into place. The first fault aborts
// the transfer with no further register writes.
func (i *I2C[P, S]) Write(addr uint8, data []byte) error {
	if err := i.writeBytes(addr, data); err != nil {
		return err
	}
	i.GenerateStop()
	return nil
}

// Read fills buf from the slave at 7-bit addr.
func (i *I2C[P, S]) Read(addr uint8, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	return i.readBytes(addr, buf)
}

// WriteRead sends data, then reads into buf after a repeated START.
func (i *I2C[P, S]) WriteRead(addr uint8, data, buf []byte) error {
	if len(buf) == 0 {
		return i.Write(addr, data)
	}
	if len(data) > 0 {
		if err := i.writeBytes(addr, data); err != nil {
			return err
		}
		if err := i.wait(i.ByteTransferFinished); err != nil {
			return err
		}
	}
	return i.readBytes(addr, buf)
}

// Tx implements tinygo.org/x/drivers.I2C. Unlike the composites it leaves
// the bus usable after a fault: the flags are cleared and a STOP issued.
// Only 7-bit addresses are supported.
func (i *I2C[P, S]) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return ErrAddressRange
	}
	var err error
	switch {
	case len(r) == 0:
		err = i.Write(uint8(addr), w)
	case len(w) == 0:
		err = i.Read(uint8(addr), r)
	default:
		err = i.WriteRead(uint8(addr), w, r)
	}
	if err != nil {
		debug.Record(debug.EvtBusError, uint8(addr), i.regs.SR1.Get(), 0)
		i.ClearErrors()
		i.GenerateStop()
	}
	return err
}
