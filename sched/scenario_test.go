package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Scenario 1: single immediate task.
func TestScenario_SingleImmediateTask(t *testing.T) {
	w, err := NewThread()
	require.NoError(t, err)
	defer w.Terminate()

	x := 0
	task, err := w.ScheduleTask(func(any) { x++ }, nil, PriorityNormal)
	require.NoError(t, err)

	task.WaitUntilDone(context.Background())
	require.Equal(t, 1, x)
}

// Scenario 2: priority inversion check.
func TestScenario_PriorityInversionCheck(t *testing.T) {
	w, err := NewThread()
	require.NoError(t, err)
	defer w.Terminate()
	require.True(t, w.Suspend() || w.State() == ThreadWaiting)

	type entry struct {
		name string
	}
	var mu sync.Mutex
	var order []string

	priorities := []struct {
		name     string
		priority TaskPriority
	}{
		{"normal", PriorityNormal},
		{"idle", PriorityIdle},
		{"real_time", PriorityRealTime},
		{"above_normal", PriorityAboveNormal},
		{"normal", PriorityNormal},
	}

	var tasks []Task
	for _, p := range priorities {
		name := p.name
		tk, err := w.ScheduleTask(func(any) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}, nil, p.priority, WithResume(false))
		require.NoError(t, err)
		tasks = append(tasks, tk)
	}

	w.Resume()
	for _, tk := range tasks {
		tk.WaitUntilDone(context.Background())
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"real_time", "above_normal", "normal", "normal", "idle"}, order)
}

// Scenario 3: cancellation before start.
func TestScenario_CancellationBeforeStart(t *testing.T) {
	w, err := NewThread()
	require.NoError(t, err)
	defer w.Terminate()
	w.Suspend()

	x := 0
	a, err := w.ScheduleTask(func(any) {
		time.Sleep(50 * time.Millisecond)
		x++
	}, nil, PriorityNormal, WithResume(false))
	require.NoError(t, err)

	result := a.Cancel()
	require.Equal(t, CancelSuccess, result)

	w.Resume()
	time.Sleep(200 * time.Millisecond)

	require.Equal(t, 0, x)
	state := a.State()
	require.True(t, state == TaskCanceled || state == TaskNone, "got state %v", state)
}

// Scenario 4: cancellation during run is a no-op for completion.
func TestScenario_CancellationDuringRunIsNoop(t *testing.T) {
	w, err := NewThread()
	require.NoError(t, err)
	defer w.Terminate()

	x := 0
	b, err := w.ScheduleTask(func(any) {
		time.Sleep(100 * time.Millisecond)
		x++
	}, nil, PriorityNormal)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	result := b.Cancel()
	require.Equal(t, CancelAlreadyCanceled, result)

	b.WaitUntilDone(context.Background())
	require.Equal(t, 1, x)
}

// Scenario 5: pool load balancing.
func TestScenario_PoolLoadBalancing(t *testing.T) {
	p, err := NewThreadPool(3, WithMetrics(true))
	require.NoError(t, err)
	defer p.Close()

	for i := 0; i < 30; i++ {
		_, err := p.ScheduleTask(func(any) { time.Sleep(10 * time.Millisecond) }, nil, PriorityNormal)
		require.NoError(t, err)
	}

	stats := p.CollectStatistics()
	require.LessOrEqual(t, stats.PendingTasks, 30)

	pending := make([]int, len(p.workers))
	g := p.mu.RLock()
	for i, w := range p.workers {
		pending[i] = w.PendingTasks()
	}
	g.Release()

	minPending, maxPending := pending[0], pending[0]
	for _, n := range pending {
		if n < minPending {
			minPending = n
		}
		if n > maxPending {
			maxPending = n
		}
	}
	require.LessOrEqual(t, maxPending-minPending, 1)

	time.Sleep(500 * time.Millisecond)
	final := p.CollectStatistics()
	require.Zero(t, final.PendingTasks)
	require.Zero(t, final.WorkingThreads)
}

// Scenario 6: terminate-while-empty race.
func TestScenario_TerminateWhileEmptyRace(t *testing.T) {
	const n = 100
	workers := make([]*Thread, n)
	for i := range workers {
		w, err := NewThread()
		require.NoError(t, err)
		workers[i] = w
	}

	done := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		wg.Add(n)
		for _, w := range workers {
			w := w
			go func() {
				defer wg.Done()
				w.Terminate()
			}()
		}
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("terminate-while-empty race did not complete within 1s")
	}

	for _, w := range workers {
		require.Equal(t, ThreadTerminated, w.State())
	}
}
