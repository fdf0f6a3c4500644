package taskasync

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/joeycumines/go-taskrt/sched"
	"github.com/stretchr/testify/require"
)

func TestGo_RunsOnThread(t *testing.T) {
	w, err := sched.NewThread()
	require.NoError(t, err)
	defer w.Terminate()

	var got atomic.Int64
	tk, err := Go(w, func(n int) { got.Store(int64(n)) }, 42, sched.PriorityNormal)
	require.NoError(t, err)
	tk.WaitUntilDone(context.Background())

	require.Equal(t, int64(42), got.Load())
}

func TestGo_RunsOnThreadPool(t *testing.T) {
	p, err := sched.NewThreadPool(2)
	require.NoError(t, err)
	defer p.Close()

	var got atomic.Value
	tk, err := Go(p, func(s string) { got.Store(s) }, "hello", sched.PriorityAboveNormal)
	require.NoError(t, err)
	tk.WaitUntilDone(context.Background())

	require.Equal(t, "hello", got.Load())
}

func TestGo_AfterThreadTerminatedReturnsError(t *testing.T) {
	w, err := sched.NewThread()
	require.NoError(t, err)
	w.Terminate()

	_, err = Go(w, func(int) {}, 0, sched.PriorityNormal)
	require.ErrorIs(t, err, sched.ErrThreadTerminated)
}
