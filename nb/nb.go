// Package nb is the HAL's non-blocking convention.
//
// Every status probe in the HAL returns immediately: nil when the hardware is
// ready, ErrWouldBlock when it is not yet, or a peripheral error. Blocking
// behaviour is the caller's choice, expressed as a Policy that repeats a probe.
package nb

import (
	"context"
	"errors"
)

var (
	// ErrWouldBlock means the operation cannot complete yet; try again.
	ErrWouldBlock = errors.New("nb: would block")

	// ErrExhausted is returned by Bounded once its retry budget is spent.
	ErrExhausted = errors.New("nb: retries exhausted")
)

// Policy decides how long to keep retrying a probe that would block.
// Wait returns nil once the probe succeeds, or the first error that is not
// ErrWouldBlock.
type Policy interface {
	Wait(probe func() error) error
}

// Spin retries forever.
var Spin Policy = spin{}

type spin struct{}

func (spin) Wait(probe func() error) error {
	for {
		if err := probe(); err != ErrWouldBlock {
			return err
		}
	}
}

// Bounded retries at most n times after the first attempt.
type Bounded uint32

func (n Bounded) Wait(probe func() error) error {
	for i := uint32(0); ; i++ {
		err := probe()
		if err != ErrWouldBlock {
			return err
		}
		if i >= uint32(n) {
			return ErrExhausted
		}
	}
}

// Context retries until ctx is done.
func Context(ctx context.Context) Policy {
	return ctxPolicy{ctx}
}

type ctxPolicy struct {
	ctx context.Context
}

func (p ctxPolicy) Wait(probe func() error) error {
	for {
		err := probe()
		if err != ErrWouldBlock {
			return err
		}
		if err := p.ctx.Err(); err != nil {
			return err
		}
	}
}

// Block runs probe under policy, or Spin when policy is nil.
func Block(policy Policy, probe func() error) error {
	if policy == nil {
		policy = Spin
	}
	return policy.Wait(probe)
}
