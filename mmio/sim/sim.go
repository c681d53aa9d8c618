// Package sim is a simulated register file for exercising the HAL on the host.
//
// Every access goes through a shared Journal so tests can check both the bits
// that were written and the order in which registers were touched. Peripheral
// behaviour (flags that latch after a write, bits cleared by a read) is plugged
// in per register with OnRead and OnWrite hooks.
package sim

import (
	"fmt"
	"sort"

	"f1hal/mmio"
)

// Op is the kind of register access recorded in the journal.
type Op uint8

const (
	OpRead   Op = iota + 1 // Get or HasBits
	OpWrite                // Set
	OpModify               // SetBits, ClearBits, ReplaceBits
)

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpModify:
		return "modify"
	default:
		return "unknown"
	}
}

// Event is one recorded register access.
type Event struct {
	Op   Op
	Name string
	Addr uintptr
	Old  uint32 // value before the access
	New  uint32 // value after the access (equal to Old for reads)

	// Value is what the CPU put on the bus. It differs from New when an
	// OnWrite hook models write-only or self-clearing bits.
	Value uint32
}

func (e Event) String() string {
	if e.Op == OpRead {
		return fmt.Sprintf("%s %s = %#08x", e.Op, e.Name, e.New)
	}
	return fmt.Sprintf("%s %s %#08x (%#08x -> %#08x)", e.Op, e.Name, e.Value, e.Old, e.New)
}

// Journal is the ordered access log shared by all registers of a Memory.
type Journal struct {
	events []Event
	paused int
}

// Events returns a copy of everything recorded so far.
func (j *Journal) Events() []Event {
	return append([]Event(nil), j.events...)
}

// Len is the number of recorded events.
func (j *Journal) Len() int { return len(j.events) }

// Reset drops all recorded events.
func (j *Journal) Reset() { j.events = j.events[:0] }

// Since returns the events recorded after mark (a previous Len()).
func (j *Journal) Since(mark int) []Event {
	if mark > len(j.events) {
		return nil
	}
	return append([]Event(nil), j.events[mark:]...)
}

// Filter returns the events accepted by keep.
func (j *Journal) Filter(keep func(Event) bool) []Event {
	var out []Event
	for _, e := range j.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Index returns the position of the first event accepted by match, or -1.
func (j *Journal) Index(match func(Event) bool) int {
	for i, e := range j.events {
		if match(e) {
			return i
		}
	}
	return -1
}

func (j *Journal) record(e Event) {
	if j.paused > 0 {
		return
	}
	j.events = append(j.events, e)
}

// Quiet runs fn without journaling. Hooks use it to poke other registers.
func (j *Journal) Quiet(fn func()) {
	j.paused++
	defer func() { j.paused-- }()
	fn()
}

// Reg is a simulated 32-bit register.
type Reg struct {
	Addr    uintptr
	Name    string
	value   uint32
	journal *Journal

	// OnRead runs before a plain read and may change the stored value
	// (status flags that become ready after some polls).
	OnRead func(r *Reg)

	// OnWrite runs after every write or modify with the old and new values and
	// returns the value the register actually holds (write-1-to-clear bits,
	// self-clearing bits, latched side effects).
	OnWrite func(r *Reg, old, new uint32) uint32
}

var _ mmio.Register32 = (*Reg)(nil)

// Peek returns the stored value without journaling or hooks.
func (r *Reg) Peek() uint32 { return r.value }

// Poke stores v without journaling or hooks.
func (r *Reg) Poke(v uint32) { r.value = v }

func (r *Reg) read() uint32 {
	if r.OnRead != nil {
		r.OnRead(r)
	}
	r.journal.record(Event{Op: OpRead, Name: r.Name, Addr: r.Addr, Old: r.value, New: r.value, Value: r.value})
	return r.value
}

func (r *Reg) store(op Op, v uint32) {
	old, wrote := r.value, v
	if r.OnWrite != nil {
		v = r.OnWrite(r, old, v)
	}
	r.value = v
	r.journal.record(Event{Op: op, Name: r.Name, Addr: r.Addr, Old: old, New: v, Value: wrote})
}

func (r *Reg) Get() uint32 { return r.read() }

func (r *Reg) Set(value uint32) { r.store(OpWrite, value) }

func (r *Reg) SetBits(value uint32) { r.store(OpModify, r.value|value) }

func (r *Reg) ClearBits(value uint32) { r.store(OpModify, r.value&^value) }

func (r *Reg) HasBits(value uint32) bool { return r.read()&value > 0 }

func (r *Reg) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.store(OpModify, r.value&^(mask<<pos)|(value&mask)<<pos)
}

// Memory is a sparse register file implementing mmio.Mapper.
type Memory struct {
	Journal *Journal
	regs    map[uintptr]*Reg
	names   map[string]*Reg
}

// New returns an empty register file; every register reads as zero until
// written.
func New() *Memory {
	return &Memory{
		Journal: &Journal{},
		regs:    make(map[uintptr]*Reg),
		names:   make(map[string]*Reg),
	}
}

// Map implements mmio.Mapper.
func (m *Memory) Map(addr uintptr, name string) mmio.Register32 {
	if r, ok := m.regs[addr]; ok {
		return r
	}
	r := &Reg{Addr: addr, Name: name, journal: m.Journal}
	m.regs[addr] = r
	m.names[name] = r
	return r
}

// Reg returns the register mapped under name. It panics for unknown names so a
// typo in a test fails loudly.
func (m *Memory) Reg(name string) *Reg {
	r, ok := m.names[name]
	if !ok {
		panic("sim: no register named " + name)
	}
	return r
}

// Names lists every mapped register name, sorted.
func (m *Memory) Names() []string {
	out := make([]string, 0, len(m.names))
	for n := range m.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
