// Package debug carries the HAL's diagnostic output: an optional line writer
// the board wires to a console, and a fixed-size event ring every
// configuration step records into.
package debug

// Writer is a function type for writing debug messages
type Writer func(string)

// Event captures one configuration step for post-mortem analysis
type Event struct {
	Kind   Kind   // Event type code
	ID     uint8  // Peripheral ID (device.ID) or pin number
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Kind is an event type code.
type Kind uint8

// Event type codes
const (
	EvtClockEnable Kind = iota + 1 // peripheral clock gate opened, v1=bus, v2=bit
	EvtClockReset                  // peripheral reset pulsed
	EvtPinMode                     // pin field rewritten, id=port, v1=pin, v2=bits within the 4-bit field
	EvtRemap                       // AFIO MAPR field written, v1=pos, v2=value
	EvtFreeze                      // clock tree frozen, v1=sysclk, v2=pllmul
	EvtFlashLatency                // flash wait states, v1=latency
	EvtPeriphInit                  // peripheral enabled, v1=main divider, v2=ctrl
	EvtBusError                    // runtime bus fault, v1=status register
)

func (k Kind) String() string {
	switch k {
	case EvtClockEnable:
		return "CLK_EN"
	case EvtClockReset:
		return "CLK_RST"
	case EvtPinMode:
		return "PIN"
	case EvtRemap:
		return "REMAP"
	case EvtFreeze:
		return "FREEZE"
	case EvtFlashLatency:
		return "FLASH_LAT"
	case EvtPeriphInit:
		return "INIT"
	case EvtBusError:
		return "BUS_ERR!"
	default:
		return "UNKNOWN"
	}
}

const (
	RingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// writeln is the global debug print function (can be set by board code)
	writeln Writer = func(s string) {} // No-op by default

	// enabled controls whether Println output is active
	enabled bool

	ring     [RingSize]Event
	ringHead uint8 // Next write position
)

// SetWriter sets the board-specific debug output function
// This allows boards to redirect debug output to a USART console
func SetWriter(w Writer) {
	if w == nil {
		w = func(string) {}
	}
	writeln = w
}

// SetEnabled enables or disables Println output. Recording into the ring is
// unaffected.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled returns whether debug output is enabled
func Enabled() bool {
	return enabled
}

// Println writes a debug message using the board writer
func Println(msg string) {
	if enabled {
		writeln(msg)
	}
}

// Record captures an event in the ring buffer. It never blocks or allocates.
func Record(kind Kind, id uint8, v1, v2 uint32) {
	idx := ringHead
	ring[idx] = Event{Kind: kind, ID: id, Value1: v1, Value2: v2}
	ringHead = (idx + 1) % RingSize
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	out := make([]Event, 0, RingSize)
	for i := uint8(0); i < RingSize; i++ {
		evt := ring[(ringHead+i)%RingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// Dump writes the ring through the writer regardless of SetEnabled (call on
// fault).
func Dump() {
	writeln("[HAL] === event ring ===")
	for _, evt := range Events() {
		writeln("[HAL] " + evt.Kind.String() +
			" id=" + utoa(uint32(evt.ID)) +
			" v1=" + hex(evt.Value1) +
			" v2=" + hex(evt.Value2))
	}
	writeln("[HAL] === end ===")
}

// Clear empties the ring
func Clear() {
	for i := range ring {
		ring[i] = Event{}
	}
	ringHead = 0
}
