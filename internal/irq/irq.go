// Package irq provides the critical section used around register fields that
// interrupt handlers and mainline code may both modify (interrupt-enable bits).
package irq

// Do runs fn with interrupts disabled.
func Do(fn func()) {
	state := Disable()
	defer Restore(state)
	fn()
}
