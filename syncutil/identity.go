package syncutil

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"time"
)

// CurrentGoroutineID returns the runtime-assigned id of the calling
// goroutine, best-effort, by parsing the leading "goroutine N [...]" line of
// a runtime.Stack trace. It reports false if the id could not be parsed.
//
// This is the Go stand-in for the source contract's current_thread_id(): Go
// has no stable public API for goroutine identity (by design, since
// goroutines are not OS threads and the runtime is free to move them between
// Ms), but the scheduler core still wants a coarse identity for logging and
// the worker's own bookkeeping of "am I running on my own loop goroutine",
// the same problem eventloop.Loop solves with its loopGoroutineID field
// (populated once, from inside the loop goroutine itself, rather than by
// asking an arbitrary caller for its id).
func CurrentGoroutineID() (uint64, bool) {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0, false
	}
	b = b[len(prefix):]
	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		return 0, false
	}
	id, err := strconv.ParseUint(string(b[:end]), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Yield hands the processor to another runnable goroutine, mirroring the
// source contract's yield_current_thread().
func Yield() {
	runtime.Gosched()
}

// SleepFor blocks the calling goroutine for d, mirroring the source
// contract's sleep_for(millis); taking a time.Duration rather than a raw
// millisecond count is the idiomatic Go rendition.
func SleepFor(d time.Duration) {
	time.Sleep(d)
}

var hardwareConcurrency = sync.OnceValue(runtime.NumCPU)

// HardwareConcurrency returns the number of logical CPUs usable by the
// process, computed once and cached thereafter (runtime.NumCPU is itself
// cheap, but the source contract specifies a lazily initialized constant,
// so the caching is made explicit rather than relying on runtime internals).
func HardwareConcurrency() int {
	return hardwareConcurrency()
}
