// Package taskasync adapts an arbitrary Go function and argument into the
// boxed-callable shape sched's scheduler core expects, so callers never
// have to hand-write the `func(arg any)` wrapper themselves.
package taskasync
