package syncutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRWLock_WithLock(t *testing.T) {
	var l RWLock
	n := 0
	l.WithLock(func() { n++ })
	assert.Equal(t, 1, n)
}

func TestRWLock_GuardDoubleReleasePanics(t *testing.T) {
	var l RWLock
	g := l.Lock()
	g.Release()
	assert.Panics(t, func() { g.Release() })
}

func TestRWLock_SharedReaders(t *testing.T) {
	var l RWLock
	g1 := l.RLock()
	g2 := l.RLock()
	g1.Release()
	g2.Release()

	// exclusive lock still obtainable afterwards
	assert.NotPanics(t, func() {
		g := l.Lock()
		g.Release()
	})
}
