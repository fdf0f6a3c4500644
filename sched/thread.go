package sched

import (
	"runtime"
	"runtime/debug"
	"sync/atomic"

	"github.com/joeycumines/go-taskrt/sched/internal/logging"
	"github.com/joeycumines/go-taskrt/syncutil"
)

var threadIDCounter atomic.Uint64

// ScheduleOption configures an individual ScheduleTask call.
type ScheduleOption interface {
	applySchedule(*scheduleOptions)
}

type scheduleOptions struct {
	resume bool
}

type scheduleOptionFunc func(*scheduleOptions)

func (f scheduleOptionFunc) applySchedule(o *scheduleOptions) { f(o) }

// WithResume controls whether scheduling a task onto a currently waiting
// Thread wakes it immediately (the default) or leaves it parked, as a
// batch-enqueue pattern the caller drains with an explicit Resume later.
func WithResume(resume bool) ScheduleOption {
	return scheduleOptionFunc(func(o *scheduleOptions) { o.resume = resume })
}

func resolveScheduleOptions(opts []ScheduleOption) scheduleOptions {
	cfg := scheduleOptions{resume: true}
	for _, opt := range opts {
		if opt != nil {
			opt.applySchedule(&cfg)
		}
	}
	return cfg
}

// Thread is a managed worker: an OS thread (realized as a goroutine pinned
// for its lifetime via runtime.LockOSThread, the closest idiomatic Go
// equivalent of "owns an OS thread") draining a private TaskQueue in
// priority order. Construct with NewThread; release with Terminate.
type Thread struct {
	id     uint64
	native atomic.Uint64 // best-effort goroutine id, set once the loop starts

	queue   TaskQueue
	counter *taskCounter

	state      atomicState // ThreadState
	stateEvent *syncutil.Event

	done chan struct{} // closed exactly once, by the worker routine itself

	logger  logging.Logger
	metrics *Metrics
}

// NewThread constructs a Thread in the ThreadWaiting state and starts its
// worker goroutine.
func NewThread(opts ...ThreadOption) (*Thread, error) {
	cfg, err := resolveThreadOptions(opts)
	if err != nil {
		return nil, err
	}

	w := &Thread{
		id:         threadIDCounter.Add(1),
		counter:    newTaskCounter(),
		state:      newAtomicState(ThreadWaiting),
		stateEvent: syncutil.NewEvent(),
		done:       make(chan struct{}),
		logger:     cfg.logger,
		metrics:    cfg.metrics,
	}
	go w.run()
	return w, nil
}

// GetID returns the Thread's synthetic, process-unique identifier
// (assigned at construction; distinct from the OS/goroutine identity of
// the underlying worker).
func (w *Thread) GetID() uint64 { return w.id }

// NativeHandle returns the best-effort goroutine id of the worker's own
// loop, and whether it has been observed yet (it is set from inside the
// loop goroutine on its first iteration).
func (w *Thread) NativeHandle() (uint64, bool) {
	id := w.native.Load()
	return id, id != 0
}

// State returns the worker's current lifecycle state.
func (w *Thread) State() ThreadState {
	return ThreadState(w.state.Load())
}

// PendingTasks returns the number of tasks still awaiting execution.
func (w *Thread) PendingTasks() int {
	return w.queue.Len()
}

// ScheduleTask enqueues callable(arg) at the given priority, returning a
// Task handle. It returns an unregistered handle if the worker has already
// terminated. Unless WithResume(false) is supplied, a currently-waiting
// worker is woken to drain the new task immediately.
func (w *Thread) ScheduleTask(callable func(arg any), arg any, priority TaskPriority, opts ...ScheduleOption) (Task, error) {
	if w.State() == ThreadTerminated {
		return Task{}, ErrThreadTerminated
	}

	cfg := resolveScheduleOptions(opts)

	id := w.counter.Next()
	task := &QueuedTask{
		id:         id,
		priority:   priority,
		callable:   callable,
		arg:        arg,
		state:      newAtomicState(TaskEnqueued),
		completion: syncutil.NewEvent(),
	}
	w.queue.Enqueue(task)
	w.metrics.recordScheduled()

	if cfg.resume && w.state.TryTransition(uint32(ThreadWaiting), uint32(ThreadWorking)) {
		w.stateEvent.Notify()
	}

	w.log(logging.LevelDebug, "task scheduled", id, nil)
	return Task{id: id, worker: w}, nil
}

// Suspend transitions a working worker to waiting. An in-progress task
// runs to completion; the worker's own loop observes the new state on its
// next iteration rather than being preempted mid-task. It reports false if
// the worker was not in ThreadWorking.
func (w *Thread) Suspend() bool {
	ok := w.state.TryTransition(uint32(ThreadWorking), uint32(ThreadWaiting))
	if ok {
		w.log(logging.LevelInfo, "thread suspended", 0, nil)
	}
	return ok
}

// Resume transitions a waiting worker to working and wakes it. It reports
// false if the worker was not in ThreadWaiting.
func (w *Thread) Resume() bool {
	ok := w.state.TryTransition(uint32(ThreadWaiting), uint32(ThreadWorking))
	if ok {
		w.stateEvent.Notify()
		w.log(logging.LevelInfo, "thread resumed", 0, nil)
	}
	return ok
}

// Terminate requests the worker exit, waking it if currently waiting, then
// blocks until its routine actually returns. It is idempotent: a second
// call on an already-terminated (or terminating) Thread still blocks until
// the routine has exited, but performs no further state mutation.
func (w *Thread) Terminate() {
	prev := ThreadState(w.state.Swap(uint32(ThreadTerminated)))
	if prev == ThreadWaiting {
		w.stateEvent.Notify()
	}
	if prev != ThreadTerminated {
		w.log(logging.LevelInfo, "thread terminating", 0, nil)
	}
	<-w.done
	// Any task still pending (not yet claimed) is dropped, never executed;
	// a task already claimed ran to completion before the loop observed
	// ThreadTerminated and returned, so Clear here never touches it.
	w.queue.Clear()
}

// CancelAllPendingTasks drops every task not currently running; already
// executing tasks are unaffected.
func (w *Thread) CancelAllPendingTasks() {
	w.queue.Clear()
}

func (w *Thread) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	if id, ok := syncutil.CurrentGoroutineID(); ok {
		w.native.Store(id)
	}

	wasIdle := false
	for {
		switch ThreadState(w.state.Load()) {
		case ThreadTerminated:
			w.log(logging.LevelInfo, "thread terminated", 0, nil)
			return

		case ThreadWaiting:
			w.stateEvent.WaitTimeout(syncutil.Forever)

		case ThreadWorking:
			if !w.queue.Empty() {
				wasIdle = false
				w.executeOne()
				continue
			}
			// Idle-debounce: overwriting straight to ThreadWaiting on the
			// first empty observation risks erasing a termination request
			// that raced in between our queue check and this store. Give
			// the terminator a second chance to be observed first.
			if !wasIdle {
				wasIdle = true
				continue
			}
			wasIdle = false
			w.state.TryTransition(uint32(ThreadWorking), uint32(ThreadWaiting))
		}
	}
}

func (w *Thread) executeOne() {
	task, ok := w.queue.Claim()
	if !ok {
		return
	}

	if task.State() != TaskRunning {
		// Already canceled before we could claim it: should_execute is
		// false, so the callable is never invoked, but the node is still
		// removed.
		w.queue.Remove(task.ID())
		w.log(logging.LevelDebug, "task skipped (canceled before start)", task.ID(), nil)
		return
	}

	w.runTask(task)
}

func (w *Thread) runTask(task *QueuedTask) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				task.state.Store(uint32(TaskInterrupted))
				w.metrics.recordInterrupted()
				w.log(logging.LevelError, "task interrupted", task.ID(), &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		task.callable(task.arg)
		task.state.Store(uint32(TaskDone))
		w.metrics.recordDone()
	}()

	// Notify unconditionally: every terminal outcome (done or interrupted)
	// wakes waiters. Remove only after notifying, so any caller that found
	// the task via TaskQueue.Find while it was still running can safely
	// observe the completion event before the node disappears.
	task.completion.Notify()
	w.queue.Remove(task.ID())
}

func (w *Thread) log(level logging.Level, msg string, taskID uint64, err error) {
	if w.logger == nil || !w.logger.IsEnabled(level) {
		return
	}
	w.logger.Log(logging.Entry{
		Level:    level,
		Category: "thread",
		ThreadID: w.id,
		TaskID:   taskID,
		Message:  msg,
		Err:      err,
	})
}
