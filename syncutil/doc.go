// Package syncutil provides the low-level synchronization primitives
// consumed by package sched: a guard-scoped reader/writer lock, an
// auto-reset waitable event, an atomic boolean flag, a generic guarded
// resource wrapper, and a handful of thread-identity helpers.
//
// None of these types are specific to task scheduling; they exist so the
// scheduler core's locks and repeatable wakeups go through guard and event
// types, keeping its locking discipline auditable at the call site. The one
// bare channel the core keeps is Thread's close-once termination signal.
package syncutil
