// Package claim backs capability tokens with a runtime ownership check.
//
// Tokens are consumed by value, but Go cannot stop a caller from keeping a
// copy of a consumed token or from writing a zero-value token literal. Every
// token therefore carries a Lease on a static Slot. Consuming a token advances
// the slot's generation, so any copy left behind is stale and the next
// operation on it panics instead of touching hardware.
package claim

// Slot is the static ownership record for one hardware resource (a pin, a
// clock gate, a remap field). Slots live in package-level arrays so issuing a
// lease never allocates.
type Slot struct {
	gen uint32
}

// Lease is a token's claim on a Slot.
type Lease struct {
	slot *Slot
	gen  uint32
}

// Issue invalidates every outstanding lease on s and returns a fresh one.
func (s *Slot) Issue() Lease {
	s.gen++
	return Lease{slot: s, gen: s.gen}
}

// Live reports whether l is the slot's current lease.
func (l Lease) Live() bool {
	return l.slot != nil && l.slot.gen == l.gen
}

// Must panics unless l is live. what names the token for the message.
func (l Lease) Must(what string) {
	if l.slot == nil {
		panic(what + ": token was not issued by the HAL")
	}
	if l.slot.gen != l.gen {
		panic(what + ": token already consumed")
	}
}

// Renew consumes l and returns the lease for the successor token.
func (l Lease) Renew(what string) Lease {
	l.Must(what)
	return l.slot.Issue()
}

// Retire consumes l without issuing a successor.
func (l Lease) Retire(what string) {
	l.Must(what)
	l.slot.gen++
}
