package taskasync

import "github.com/joeycumines/go-taskrt/sched"

// Scheduler is satisfied by both *sched.Thread and *sched.ThreadPool,
// letting Go operate uniformly over a single worker or a load-balanced
// pool. Generalized from a C++ template over "any type exposing a
// schedule method"; Go expresses the same genericity as an interface
// instead of a template parameter.
type Scheduler interface {
	ScheduleTask(callable func(arg any), arg any, priority sched.TaskPriority, opts ...sched.ScheduleOption) (sched.Task, error)
}

// Go schedules fn(arg) on s at the given priority, returning the resulting
// Task handle. Unlike sched.Thread/ThreadPool's own ScheduleTask, which
// takes an untyped `func(arg any)` plus a separate `any` argument so the
// scheduler core stays generic-free, Go lets the caller work with a
// concrete argument type: fn and arg are captured by a closure, boxed
// exactly once on the Go heap, with no manual release required (the
// garbage collector frees the closure once the task completes and nothing
// else references it).
func Go[A any](s Scheduler, fn func(A), arg A, priority sched.TaskPriority, opts ...sched.ScheduleOption) (sched.Task, error) {
	return s.ScheduleTask(func(any) { fn(arg) }, nil, priority, opts...)
}
