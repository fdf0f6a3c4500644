package sched

import (
	"sync"

	"github.com/joeycumines/go-taskrt/sched/internal/logging"
	"github.com/joeycumines/go-taskrt/syncutil"
)

// PoolState mirrors ThreadState at the pool level: Working if any worker is
// working, Waiting if every live worker is idle, Closed once Close has run.
type PoolState int

const (
	PoolWaiting PoolState = iota
	PoolWorking
	PoolClosed
)

func (s PoolState) String() string {
	switch s {
	case PoolWaiting:
		return "waiting"
	case PoolWorking:
		return "working"
	case PoolClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ThreadPool is a fixed-but-resizable collection of Thread workers sharing
// a single routing policy: ScheduleTask always lands on whichever worker
// the policy judges least loaded, rather than a caller picking a specific
// Thread. Construct with NewThreadPool; release with Close.
type ThreadPool struct {
	mu      syncutil.RWLock
	workers []*Thread
	closed  bool

	metrics *Metrics
	logger  logging.Logger
}

// NewThreadPool constructs a pool of count running workers. Construction
// with count == 0 yields a pool that is already PoolClosed, per spec.
func NewThreadPool(count int, opts ...PoolOption) (*ThreadPool, error) {
	cfg, err := resolvePoolOptions(opts)
	if err != nil {
		return nil, err
	}

	p := &ThreadPool{logger: cfg.logger}
	if cfg.metricsEnabled {
		p.metrics = &Metrics{}
	}

	if count == 0 {
		p.closed = true
		return p, nil
	}

	p.workers = make([]*Thread, 0, count)
	for i := 0; i < count; i++ {
		w, err := NewThread(WithThreadLogger(p.logger), withThreadMetrics(p.metrics))
		if err != nil {
			p.terminateAll()
			return nil, err
		}
		p.workers = append(p.workers, w)
	}

	return p, nil
}

// State reports PoolClosed once Close has run; otherwise PoolWorking if any
// worker is currently working, else PoolWaiting.
func (p *ThreadPool) State() PoolState {
	g := p.mu.RLock()
	defer g.Release()

	if p.closed {
		return PoolClosed
	}
	for _, w := range p.workers {
		if w.State() == ThreadWorking {
			return PoolWorking
		}
	}
	return PoolWaiting
}

// ThreadCount returns the number of workers currently owned by the pool.
func (p *ThreadPool) ThreadCount() int {
	g := p.mu.RLock()
	defer g.Release()
	return len(p.workers)
}

// PoolStatistics is the core, always-available observer spec.md §4.4
// requires: a live snapshot of how many workers are waiting, how many are
// working, and how much work is still pending across the pool.
type PoolStatistics struct {
	WaitingThreads int
	WorkingThreads int
	PendingTasks   int
}

// CollectStatistics returns a snapshot of {waiting_threads, working_threads,
// pending_tasks}, computed directly from each worker's current State and
// PendingTasks — unlike Metrics, this is always accurate, not gated behind
// WithMetrics.
func (p *ThreadPool) CollectStatistics() PoolStatistics {
	g := p.mu.RLock()
	defer g.Release()

	var stats PoolStatistics
	for _, w := range p.workers {
		switch w.State() {
		case ThreadWaiting:
			stats.WaitingThreads++
		case ThreadWorking:
			stats.WorkingThreads++
		}
		stats.PendingTasks += w.PendingTasks()
	}
	return stats
}

// Metrics returns a snapshot of the pool's running task counters
// (scheduled/done/canceled/interrupted). It is the zero value unless
// WithMetrics was supplied at construction — an opt-in expansion on top of
// CollectStatistics, not a replacement for it.
func (p *ThreadPool) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// ScheduleTask routes callable(arg) to the worker selected by the pool's
// ideal-worker policy: when the pool is working, prefer any currently
// waiting worker (so it wakes and starts immediately rather than queuing
// behind busy peers); when every worker is waiting, prefer whichever has
// the fewest pending tasks, so a burst of scheduling calls spreads evenly
// rather than piling onto worker zero.
func (p *ThreadPool) ScheduleTask(callable func(arg any), arg any, priority TaskPriority, opts ...ScheduleOption) (Task, error) {
	g := p.mu.RLock()
	if p.closed {
		g.Release()
		return Task{}, ErrPoolClosed
	}
	workers := p.workers
	g.Release()

	target := p.selectWorker(workers)
	if target == nil {
		return Task{}, ErrPoolClosed
	}
	return target.ScheduleTask(callable, arg, priority, opts...)
}

func (p *ThreadPool) selectWorker(workers []*Thread) *Thread {
	if len(workers) == 0 {
		return nil
	}

	var waiting []*Thread
	for _, w := range workers {
		if w.State() == ThreadWaiting {
			waiting = append(waiting, w)
		}
	}
	// Some worker is awake: wake a waiting one first. When every worker is
	// waiting, fall through to fewest pending.
	if len(waiting) > 0 && len(waiting) < len(workers) {
		return waiting[0]
	}

	best := workers[0]
	bestPending := best.PendingTasks()
	for _, w := range workers[1:] {
		if n := w.PendingTasks(); n < bestPending {
			best, bestPending = w, n
		}
	}
	return best
}

// SetThreadCount adjusts the pool's worker count up or down to target. The
// original's thread_count is overloaded on arity (a 0-arg getter and a
// 1-arg setter); Go has no arity-based overloading, so the setter gets its
// own name here. Shrinking to 0 closes the pool, same as Close.
func (p *ThreadPool) SetThreadCount(target int) error {
	if target < 0 {
		target = 0
	}

	current := p.ThreadCount()
	switch {
	case target > current:
		return p.IncreaseThreadCount(target - current)
	case target < current:
		return p.DecreaseThreadCount(current - target)
	default:
		return nil
	}
}

// IncreaseThreadCount adds n new workers to the pool.
func (p *ThreadPool) IncreaseThreadCount(n int) error {
	if n <= 0 {
		return nil
	}

	g := p.mu.Lock()
	defer g.Release()

	if p.closed {
		return ErrPoolClosed
	}
	for i := 0; i < n; i++ {
		w, err := NewThread(WithThreadLogger(p.logger), withThreadMetrics(p.metrics))
		if err != nil {
			return err
		}
		p.workers = append(p.workers, w)
	}
	return nil
}

// DecreaseThreadCount removes up to n workers from the pool, preferring to
// remove the least-loaded ones. It runs three passes over the candidate
// set, each widening the search:
//
//  1. workers already Waiting with nothing pending are selected first —
//     nothing to drain, they can terminate immediately;
//  2. remaining Waiting candidates (parked with an undrained backlog, e.g.
//     from WithResume(false)) are selected next;
//  3. any still-Working candidates are selected last.
//
// Every selected worker is resumed (if parked) and left to drain its own
// backlog to completion before being terminated — a removed worker's
// pending tasks are never cancelled or migrated, so nothing scheduled on
// it is lost. Removing every worker transitions the pool to PoolClosed,
// per spec; DecreaseThreadCount does not floor at one survivor.
func (p *ThreadPool) DecreaseThreadCount(n int) error {
	if n <= 0 {
		return nil
	}

	g := p.mu.Lock()
	if p.closed {
		g.Release()
		return ErrPoolClosed
	}

	keep := len(p.workers) - n
	if keep < 0 {
		keep = 0
	}
	toRemove := len(p.workers) - keep
	if toRemove <= 0 {
		g.Release()
		return nil
	}

	// Pass 1: idle, empty workers are the cheapest to drop.
	var removed []*Thread
	remaining := p.workers[:0:0]
	remaining = append(remaining, p.workers...)

	pick := func(pred func(*Thread) bool) {
		kept := remaining[:0]
		for _, w := range remaining {
			if len(removed) < toRemove && pred(w) {
				removed = append(removed, w)
				continue
			}
			kept = append(kept, w)
		}
		remaining = kept
	}

	pick(func(w *Thread) bool { return w.State() == ThreadWaiting && w.PendingTasks() == 0 })
	// Pass 2: idle workers with a backlog.
	pick(func(w *Thread) bool { return w.State() == ThreadWaiting })
	// Pass 3: whatever's left, including currently-working workers.
	pick(func(w *Thread) bool { return true })

	p.workers = remaining
	if len(remaining) == 0 {
		p.closed = true
	}
	g.Release()

	var wg sync.WaitGroup
	wg.Add(len(removed))
	for _, w := range removed {
		w := w
		go func() {
			defer wg.Done()
			p.drainAndTerminate(w)
		}()
	}
	wg.Wait()
	return nil
}

// drainAndTerminate waits for a soon-to-be-removed worker's current and
// pending work to finish, then terminates it. Resume wakes a worker parked
// with an undrained backlog so it actually makes progress instead of
// waiting forever.
func (p *ThreadPool) drainAndTerminate(w *Thread) {
	w.Resume()
	for w.PendingTasks() > 0 || w.State() == ThreadWorking {
		syncutil.Yield()
	}
	w.Terminate()
}

// Suspend suspends every worker currently working, reporting aggregate
// success: true only if every worker in the pool was actually transitioned
// (i.e. was Working at the time of its own Suspend call).
func (p *ThreadPool) Suspend() bool {
	g := p.mu.RLock()
	workers := append([]*Thread(nil), p.workers...)
	g.Release()

	ok := true
	for _, w := range workers {
		ok = w.Suspend() && ok
	}
	return ok
}

// Resume resumes every worker currently waiting, reporting aggregate
// success: true only if every worker in the pool was actually transitioned
// (i.e. was Waiting at the time of its own Resume call).
func (p *ThreadPool) Resume() bool {
	g := p.mu.RLock()
	workers := append([]*Thread(nil), p.workers...)
	g.Release()

	ok := true
	for _, w := range workers {
		ok = w.Resume() && ok
	}
	return ok
}

// CancelAllPendingTasks clears every worker's pending backlog.
func (p *ThreadPool) CancelAllPendingTasks() {
	g := p.mu.RLock()
	workers := append([]*Thread(nil), p.workers...)
	g.Release()

	for _, w := range workers {
		w.CancelAllPendingTasks()
	}
}

// Close terminates every worker and marks the pool closed. It is
// idempotent; subsequent ScheduleTask calls return ErrPoolClosed.
func (p *ThreadPool) Close() {
	g := p.mu.Lock()
	if p.closed {
		g.Release()
		return
	}
	p.closed = true
	workers := p.workers
	p.workers = nil
	g.Release()

	var wg sync.WaitGroup
	wg.Add(len(workers))
	for _, w := range workers {
		w := w
		go func() {
			defer wg.Done()
			w.Terminate()
		}()
	}
	wg.Wait()
}

func (p *ThreadPool) terminateAll() {
	for _, w := range p.workers {
		w.Terminate()
	}
	p.workers = nil
}
