package sched

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskCounter_StartsAtOneAndIncrements(t *testing.T) {
	c := newTaskCounter()
	require.Equal(t, uint64(1), c.Next())
	require.Equal(t, uint64(2), c.Next())
	require.Equal(t, uint64(3), c.Next())
}

func TestTaskCounter_SkipsZeroOnWraparound(t *testing.T) {
	c := newTaskCounter()
	c.v.Store(math.MaxUint64)
	require.Equal(t, uint64(1), c.Next(), "must skip the zero landing from wraparound")
}
