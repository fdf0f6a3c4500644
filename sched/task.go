package sched

import "context"

// Task is a cheap, movable handle to a task previously scheduled on a
// Thread. It never owns the worker or the task itself: every operation
// resolves (worker, id) into the live QueuedTask, if any, via the worker's
// queue.
type Task struct {
	id     uint64
	worker *Thread
}

// IsRegistered reports whether the handle references a worker at all. A
// zero-value Task, or one that Reset was called on, is unregistered.
func (t Task) IsRegistered() bool {
	return t.worker != nil && t.id != 0
}

// Reset returns the zero-value (unregistered) Task, modeling Go's closest
// equivalent to a moved-from handle: callers that move a Task forward
// (e.g. storing it elsewhere then discarding the original variable) should
// assign the original to t.Reset() to make the move explicit.
func (t Task) Reset() Task {
	return Task{}
}

// State returns the task's current lifecycle state, or TaskNone if the
// handle is unregistered or the task is no longer linked in its queue
// (already executed to completion and removed, or dropped by Clear).
func (t Task) State() TaskState {
	task := t.resolve()
	if task == nil {
		return TaskNone
	}
	return task.State()
}

// Priority returns the task's scheduling priority, or PriorityNone if the
// task can no longer be resolved.
func (t Task) Priority() TaskPriority {
	task := t.resolve()
	if task == nil {
		return PriorityNone
	}
	return task.Priority()
}

// Cancel attempts to prevent the task from ever executing. It is
// best-effort: cancellation only succeeds if observed before the worker's
// claim (should_execute) check; a task already claimed for execution runs
// to completion regardless. The CAS only ever transitions out of
// TaskEnqueued, so any other state — running, done, interrupted, or
// already canceled — reports CancelAlreadyCanceled; see DESIGN.md for why
// that name is kept for the running/done/interrupted cases too.
func (t Task) Cancel() CancellationResult {
	task := t.resolve()
	if task == nil {
		return CancelTaskNotRegistered
	}
	if task.state.TryTransition(uint32(TaskEnqueued), uint32(TaskCanceled)) {
		t.worker.metrics.recordCanceled()
		return CancelSuccess
	}
	return CancelAlreadyCanceled
}

// WaitUntilDone blocks until the task reaches a terminal state, or the
// context is done. If the task is not currently enqueued or running (it
// has already finished, was never registered, or was dropped by a queue
// clear), it returns immediately rather than waiting on an event that may
// never fire again.
func (t Task) WaitUntilDone(ctx context.Context) {
	task := t.resolve()
	if task == nil {
		return
	}
	switch task.State() {
	case TaskEnqueued, TaskRunning:
		task.completion.Wait(ctx)
	default:
	}
}

func (t Task) resolve() *QueuedTask {
	if !t.IsRegistered() {
		return nil
	}
	return t.worker.queue.Find(t.id)
}
