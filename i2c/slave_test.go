package i2c

import (
	"fmt"

	"f1hal/device"
	"f1hal/mmio/sim"
)

// slave plays the I2C peripheral and the device on the bus behind the
// simulated registers. A flag armed by a register access shows up in SR1
// on the delay-th poll.
type slave struct {
	mem               *sim.Memory
	name              string
	cr1, sr1, sr2, dr *sim.Reg

	delay   int
	armed   uint32
	polls   int
	reading bool
	rx      []byte

	arms    int
	faultAt int    // replace the faultAt-th armed flag (1-based) with fault
	fault   uint32 // SR1 error flag
}

func attach(mem *sim.Memory, name string) *slave {
	s := &slave{
		mem:   mem,
		name:  name,
		cr1:   mem.Reg(name + ".CR1"),
		sr1:   mem.Reg(name + ".SR1"),
		sr2:   mem.Reg(name + ".SR2"),
		dr:    mem.Reg(name + ".DR"),
		delay: 1,
	}
	s.cr1.OnWrite = func(_ *sim.Reg, old, v uint32) uint32 {
		if v&device.I2C_CR1_START != 0 && old&device.I2C_CR1_START == 0 {
			s.arm(device.I2C_SR1_SB)
		}
		return v &^ (device.I2C_CR1_START | device.I2C_CR1_STOP)
	}
	s.sr1.OnRead = func(r *sim.Reg) {
		if s.armed == 0 {
			return
		}
		s.polls++
		if s.polls >= s.delay {
			r.Poke(r.Peek() | s.armed)
			s.armed = 0
		}
	}
	s.dr.OnWrite = func(_ *sim.Reg, _, v uint32) uint32 {
		sr1 := s.sr1.Peek()
		if sr1&device.I2C_SR1_SB != 0 {
			s.sr1.Poke(sr1 &^ device.I2C_SR1_SB)
			s.reading = v&1 != 0
			s.arm(device.I2C_SR1_ADDR)
			return v
		}
		s.sr1.Poke(sr1 &^ (device.I2C_SR1_TxE | device.I2C_SR1_BTF))
		s.arm(device.I2C_SR1_TxE | device.I2C_SR1_BTF)
		return v
	}
	s.sr2.OnRead = func(*sim.Reg) {
		sr1 := s.sr1.Peek()
		if sr1&device.I2C_SR1_ADDR == 0 {
			return
		}
		s.sr1.Poke(sr1 &^ device.I2C_SR1_ADDR)
		if s.reading {
			s.arm(device.I2C_SR1_RxNE)
		}
	}
	s.dr.OnRead = func(r *sim.Reg) {
		if !s.reading || len(s.rx) == 0 {
			return
		}
		r.Poke(uint32(s.rx[0]))
		s.rx = s.rx[1:]
		s.sr1.Poke(s.sr1.Peek() &^ device.I2C_SR1_RxNE)
		if len(s.rx) > 0 {
			s.arm(device.I2C_SR1_RxNE)
		}
	}
	return s
}

func (s *slave) arm(flag uint32) {
	s.arms++
	s.polls = 0
	if s.arms == s.faultAt {
		flag = s.fault
	}
	s.armed = flag
}

// trace condenses the journal from mark into the bus-level steps the master
// took. Consecutive SR1 polls collapse into one "poll".
func (s *slave) trace(mark int) []string {
	var out []string
	for _, e := range s.mem.Journal.Since(mark) {
		var step string
		switch {
		case e.Name == s.name+".SR1" && e.Op == sim.OpRead:
			step = "poll"
			if len(out) > 0 && out[len(out)-1] == step {
				continue
			}
		case e.Name == s.name+".SR2" && e.Op == sim.OpRead:
			step = "SR2"
		case e.Name == s.name+".DR" && e.Op == sim.OpRead:
			step = fmt.Sprintf("DR>%02x", e.New)
		case e.Name == s.name+".DR":
			step = fmt.Sprintf("DR=%02x", e.Value)
		case e.Name == s.name+".CR1" && e.Op != sim.OpRead:
			step = cr1Step(e)
		default:
			continue
		}
		out = append(out, step)
	}
	return out
}

// cr1Step names a CR1 write. After init the master only touches START, STOP
// and ACK.
func cr1Step(e sim.Event) string {
	switch {
	case e.Value&device.I2C_CR1_START != 0:
		return "START"
	case e.Value&device.I2C_CR1_STOP != 0:
		return "STOP"
	case e.Value&device.I2C_CR1_ACK != 0:
		return "ACK"
	default:
		return "NACK"
	}
}
