package syncutil

import "sync/atomic"

// Flag is a single atomic boolean, the Go realization of the source
// contract's atomic flag with a "relaxed by default" memory ordering
// overload set. Go's sync/atomic operations are always sequentially
// consistent (there is no relaxed-ordering variant to opt into), so the
// "default relaxed, optional acquire/release/seq_cst overload" surface of
// the original API collapses to a single, always-sequentially-consistent
// set of accessors; see DESIGN.md for why this simplification is safe.
//
// Grounded on the bare atomic.Bool fields scattered through
// eventloop.Loop (e.g. fastPathEnabled, forceNonBlockingPoll's sibling
// fields), generalized into a standalone reusable type.
type Flag struct {
	v atomic.Bool
}

// NewFlag returns a Flag initialized to the given value.
func NewFlag(initial bool) *Flag {
	f := &Flag{}
	f.v.Store(initial)
	return f
}

// IsSet reports the current value.
func (f *Flag) IsSet() bool {
	return f.v.Load()
}

// Set stores true.
func (f *Flag) Set() {
	f.v.Store(true)
}

// Clear stores false.
func (f *Flag) Clear() {
	f.v.Store(false)
}

// Swap atomically stores val, returning the previous value.
func (f *Flag) Swap(val bool) bool {
	return f.v.Swap(val)
}

// CompareAndSwap atomically sets the flag to val if its current value is
// old, reporting whether the swap took place.
func (f *Flag) CompareAndSwap(old, val bool) bool {
	return f.v.CompareAndSwap(old, val)
}
