package syncutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentGoroutineID(t *testing.T) {
	id, ok := CurrentGoroutineID()
	assert.True(t, ok)
	assert.NotZero(t, id)
}

func TestHardwareConcurrency(t *testing.T) {
	assert.Greater(t, HardwareConcurrency(), 0)
	// cached: repeated calls agree
	assert.Equal(t, HardwareConcurrency(), HardwareConcurrency())
}

func TestSleepForAndYield(t *testing.T) {
	start := time.Now()
	SleepFor(10 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	Yield()
}
