package syncutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_NotifyWaitTimeout(t *testing.T) {
	e := NewEvent()
	assert.False(t, e.WaitTimeout(10*time.Millisecond), "should time out when never notified")

	e.Notify()
	require.True(t, e.WaitTimeout(time.Second))

	// auto-reset: signal is consumed, a second wait without a new notify
	// times out.
	assert.False(t, e.WaitTimeout(10*time.Millisecond))
}

func TestEvent_NotifyIsIdempotentUntilConsumed(t *testing.T) {
	e := NewEvent()
	e.Notify()
	e.Notify()
	e.Notify()

	require.True(t, e.WaitTimeout(time.Second))
	assert.False(t, e.WaitTimeout(10*time.Millisecond), "extra notifies must not queue")
}

func TestEvent_Reset(t *testing.T) {
	e := NewEvent()
	assert.False(t, e.Reset())
	e.Notify()
	assert.True(t, e.Reset())
	assert.False(t, e.Reset())
}

func TestEvent_Forever(t *testing.T) {
	e := NewEvent()
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.WaitTimeout(Forever)
	}()

	select {
	case <-done:
		t.Fatal("should still be blocked")
	case <-time.After(20 * time.Millisecond):
	}

	e.Notify()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("did not wake after notify")
	}
}

func TestEvent_Close(t *testing.T) {
	e := NewEvent()
	require.True(t, e.Valid())

	done := make(chan bool, 1)
	go func() { done <- e.Wait(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	e.Close()

	select {
	case woke := <-done:
		assert.False(t, woke)
	case <-time.After(time.Second):
		t.Fatal("close did not wake waiter")
	}
	assert.False(t, e.Valid())

	// closing again is a no-op, waits after close return immediately
	e.Close()
	assert.False(t, e.Wait(context.Background()))
}

func TestEvent_WaitContextCancel(t *testing.T) {
	e := NewEvent()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, e.Wait(ctx))
}
