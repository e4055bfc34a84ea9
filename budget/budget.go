// Package budget tracks the remaining spend and the optional latency ceiling
// shared by all steps of a run, and answers admission questions for the
// orchestration loop.
package budget

import "time"

// Budget holds the remaining spend in USD and an optional per-step latency
// ceiling. The ceiling is a static comparison value: it is never decremented
// by elapsed run time and cannot pre-empt a running call, it only gates
// whether an observed step latency was acceptable after the fact.
//
// A Budget is owned exclusively by the orchestration loop for the lifetime of
// a run; it is not safe for concurrent use.
type Budget struct {
	remaining   float64
	deadline    time.Duration
	hasDeadline bool
}

// New creates a Budget with the given remaining spend and no latency ceiling.
func New(usd float64) *Budget {
	return &Budget{remaining: usd}
}

// NewWithDeadline creates a Budget with a per-step latency ceiling.
func NewWithDeadline(usd float64, deadline time.Duration) *Budget {
	return &Budget{remaining: usd, deadline: deadline, hasDeadline: true}
}

// Allow reports whether a step with the given cost and latency is admissible.
// It is a pure predicate with no side effect: false iff the cost exceeds the
// remaining spend, or a ceiling is set and the latency exceeds it.
func (b *Budget) Allow(cost float64, latency time.Duration) bool {
	if cost > b.remaining {
		return false
	}
	if b.hasDeadline && latency > b.deadline {
		return false
	}
	return true
}

// Charge unconditionally subtracts cost from the remaining spend. No floor is
// enforced: calling Charge without a prior Allow check may push the remaining
// spend negative.
func (b *Budget) Charge(cost float64) { b.remaining -= cost }

// Remaining returns the current remaining spend in USD.
func (b *Budget) Remaining() float64 { return b.remaining }

// Deadline returns the latency ceiling and whether one is set.
func (b *Budget) Deadline() (time.Duration, bool) { return b.deadline, b.hasDeadline }
