package sched

import "github.com/joeycumines/go-taskrt/syncutil"

// QueuedTask is a single unit of work submitted to a Thread. It is
// constructed on Enqueue and destroyed (unlinked from its TaskQueue) either
// immediately, if the worker finds it already canceled when its turn
// comes, or after its completion event has fired — see TaskQueue's doc
// comment for why a running task stays linked until then.
type QueuedTask struct {
	id         uint64
	state      atomicState // holds a TaskState value
	priority   TaskPriority
	callable   func(arg any)
	arg        any
	completion *syncutil.Event
}

// ID returns the task's queue-unique, nonzero identifier. The sentinel
// empty task returned by TaskQueue.Claim on an empty queue has ID() == 0.
func (t *QueuedTask) ID() uint64 { return t.id }

// State returns the task's current lifecycle state.
func (t *QueuedTask) State() TaskState { return TaskState(t.state.Load()) }

// Priority returns the task's scheduling priority.
func (t *QueuedTask) Priority() TaskPriority { return t.priority }

func sentinelTask() *QueuedTask {
	t := &QueuedTask{
		priority: PriorityIdle,
		state:    newAtomicState(TaskCanceled),
	}
	return t
}

// queueNode is a singly linked list node, per spec.md §3's TaskQueue data
// model (head/tail pointers, a size counter, guarded by a reader/writer
// lock). A slice-backed ring or container/heap was considered and rejected:
// see SPEC_FULL.md §3 for why FIFO-within-priority rules out container/heap
// without an extra tiebreaker that reintroduces this same linear walk.
type queueNode struct {
	task *QueuedTask
	next *queueNode
}

// TaskQueue is a per-worker priority queue: nodes are ordered so that for
// every adjacent pair (a, b), either a has strictly higher priority than b,
// or they're equal and a was enqueued first — except that PriorityIdle
// nodes always sort after every non-idle node, in FIFO order among
// themselves, regardless of when they were enqueued relative to non-idle
// nodes.
//
// A task that has been claimed for execution (Claim) remains linked until
// Remove is called, rather than being unlinked at claim time. This is the
// resolution to the dangling-node hazard spec.md §4.3/§9 calls out as an
// open issue: a concurrent Task.State/Task.Cancel/Task.WaitUntilDone call
// can still Find the task — and safely read its completion event — for the
// task's entire running lifetime, not just while merely enqueued. Go's
// garbage collector makes this free: nothing has to reference-count the
// completion event independently, since the QueuedTask (and the event it
// embeds) stays alive as long as anything holds a pointer to it.
type TaskQueue struct {
	lock    syncutil.RWLock
	head    *queueNode
	tail    *queueNode
	pending int // count of linked nodes not yet claimed (enqueued, or canceled before claim)
}

// Empty reports whether the queue has no pending (not yet claimed) tasks.
// The value may be stale the instant after it is observed.
func (q *TaskQueue) Empty() bool {
	return q.Len() == 0
}

// Len returns the number of pending (enqueued, not yet claimed) tasks. A
// task currently executing (claimed but not yet removed) does not count,
// matching the spec's "pending_tasks" semantics used by ThreadPool's
// routing policy.
func (q *TaskQueue) Len() int {
	g := q.lock.RLock()
	defer g.Release()
	return q.pending
}

// Enqueue inserts task preserving the priority+FIFO ordering invariant.
// Node allocation happens before the lock is acquired; only the splice is
// performed under the exclusive lock, per spec.md §4.1.
func (q *TaskQueue) Enqueue(task *QueuedTask) {
	n := &queueNode{task: task}

	g := q.lock.Lock()
	defer g.Release()

	q.insertLocked(n)
	q.pending++
}

func (q *TaskQueue) insertLocked(n *queueNode) {
	if n.task.priority == PriorityIdle {
		if q.tail == nil {
			q.head, q.tail = n, n
		} else {
			q.tail.next = n
			q.tail = n
		}
		return
	}

	if q.head == nil {
		q.head, q.tail = n, n
		return
	}

	if q.head.task.priority < n.task.priority {
		n.next = q.head
		q.head = n
		return
	}

	prev := q.head
	cur := q.head.next
	for cur != nil && cur.task.priority >= n.task.priority {
		prev = cur
		cur = cur.next
	}
	n.next = cur
	prev.next = n
	if cur == nil {
		q.tail = n
	}
}

// Claim pops the head of the pending backlog for execution: it CAS-
// transitions the head task from TaskEnqueued to TaskRunning (a no-op if
// the task was externally canceled first — the worker's should_execute
// check is exactly this CAS's success), decrements the pending count, and
// returns the task, still linked in the queue. It reports false (with the
// sentinel empty task) if there is nothing pending.
func (q *TaskQueue) Claim() (*QueuedTask, bool) {
	g := q.lock.Lock()
	defer g.Release()

	if q.head == nil {
		return sentinelTask(), false
	}
	task := q.head.task
	task.state.TryTransition(uint32(TaskEnqueued), uint32(TaskRunning))
	q.pending--
	return task, true
}

// Find locates the task with the given id by linear scan under the shared
// lock. It returns nil if no such task is linked (already removed, or
// never enqueued in this queue).
func (q *TaskQueue) Find(id uint64) *QueuedTask {
	g := q.lock.RLock()
	defer g.Release()
	for n := q.head; n != nil; n = n.next {
		if n.task.id == id {
			return n.task
		}
	}
	return nil
}

// Remove unlinks the task with the given id, reporting whether it was
// found. Called by the worker after a task's completion event has fired,
// or immediately for a task found already canceled at claim time.
func (q *TaskQueue) Remove(id uint64) bool {
	g := q.lock.Lock()
	defer g.Release()

	var prev *queueNode
	for n := q.head; n != nil; n = n.next {
		if n.task.id == id {
			if prev == nil {
				q.head = n.next
			} else {
				prev.next = n.next
			}
			if n == q.tail {
				q.tail = prev
			}
			return true
		}
		prev = n
	}
	return false
}

// Clear drops every pending (non-running) task; a task currently running
// is left untouched, per spec.md §4.2 ("already-running tasks are not
// affected"). Handles of dropped tasks observe TaskState() == TaskNone on
// their next Find, per the Open Question resolution in SPEC_FULL.md §9:
// cleared tasks are destroyed outright, not marked TaskCanceled.
func (q *TaskQueue) Clear() {
	g := q.lock.Lock()
	defer g.Release()

	var newHead, newTail *queueNode
	for n := q.head; n != nil; n = n.next {
		if n.task.State() == TaskRunning {
			n.next = nil
			if newHead == nil {
				newHead = n
			} else {
				newTail.next = n
			}
			newTail = n
		}
	}
	q.head, q.tail = newHead, newTail
	q.pending = 0
}
