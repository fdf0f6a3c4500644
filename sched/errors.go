package sched

import (
	"errors"
	"fmt"
)

// Sentinel errors for precondition failures. None of these are ever raised
// across a task's execution boundary; they are returned to the caller of
// the operation that failed its precondition, per the "never raise"
// propagation policy of the source contract.
var (
	// ErrThreadTerminated is returned by ScheduleTask when the target
	// Thread has already terminated.
	ErrThreadTerminated = errors.New("sched: thread is terminated")

	// ErrPoolClosed is returned by ThreadPool operations once the pool has
	// been closed.
	ErrPoolClosed = errors.New("sched: pool is closed")

	// ErrAllocation names the source contract's allocation-failure outcome
	// for a QueuedTask node. No function in this package returns it: a
	// failed Go allocation is a fatal runtime error, not a recoverable one.
	ErrAllocation = errors.New("sched: failed to allocate queued task")
)

// CancellationResult enumerates the possible outcomes of Task.Cancel.
type CancellationResult int

const (
	CancelSuccess CancellationResult = iota
	CancelAlreadyCanceled
	CancelTaskNotRegistered
)

func (r CancellationResult) String() string {
	switch r {
	case CancelSuccess:
		return "success"
	case CancelAlreadyCanceled:
		return "already_canceled"
	case CancelTaskNotRegistered:
		return "task_not_registered"
	default:
		return "unknown"
	}
}

// PanicError wraps a value recovered from a panicking task callable. The
// worker never lets a task-body panic escape (spec.md §7): it is caught,
// the task transitions to TaskInterrupted, and the completion event still
// fires. PanicError exists only for diagnostics (e.g. via logging), never
// returned to a caller as an error value that must be handled, since the
// propagation policy forbids raising across the API boundary. Adapted from
// eventloop.errors.go's PanicError, generalized (that type only unwraps
// error-typed panics; this one also carries the stack captured at the
// recover site via runtime/debug.Stack, since there is no promise chain
// here to carry the cause).
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sched: task panicked: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is itself an
// error, enabling errors.Is/errors.As through the cause chain.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
