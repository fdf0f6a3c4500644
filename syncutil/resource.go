package syncutil

// Resource is a generic guarded value: every access to T goes through a
// scoped guard or a visitor closure, so the zero value can never be read or
// written outside of the lock. Generic parameterization follows the same
// style as catrate's ringBuffer[E] and microbatch's Batcher[Job]/JobResult[Job].
type Resource[T any] struct {
	lock RWLock
	val  T
}

// NewResource wraps initial as a guarded resource.
func NewResource[T any](initial T) *Resource[T] {
	return &Resource[T]{val: initial}
}

// ResourceGuard grants exclusive access to the wrapped value until Release
// is called.
type ResourceGuard[T any] struct {
	g   *Guard
	res *Resource[T]
}

// Get returns a pointer to the guarded value, valid until Release.
func (g *ResourceGuard[T]) Get() *T {
	return &g.res.val
}

// Release releases the exclusive lock. Safe to defer.
func (g *ResourceGuard[T]) Release() {
	g.g.Release()
}

// ResourceRGuard grants shared (read-only) access to the wrapped value
// until Release is called.
type ResourceRGuard[T any] struct {
	g   *RGuard
	res *Resource[T]
}

// Get returns the guarded value by copy, valid to use after Release (since
// it is a copy, not a reference into the resource).
func (g *ResourceRGuard[T]) Get() T {
	return g.res.val
}

// Release releases the shared lock. Safe to defer.
func (g *ResourceRGuard[T]) Release() {
	g.g.Release()
}

// Lock acquires exclusive access, returning a guard the caller must
// Release exactly once.
func (r *Resource[T]) Lock() *ResourceGuard[T] {
	return &ResourceGuard[T]{g: r.lock.Lock(), res: r}
}

// RLock acquires shared access, returning a guard the caller must Release
// exactly once.
func (r *Resource[T]) RLock() *ResourceRGuard[T] {
	return &ResourceRGuard[T]{g: r.lock.RLock(), res: r}
}

// Visit runs fn with exclusive access to the guarded value, releasing the
// lock unconditionally before returning. fn may mutate the value in place.
func (r *Resource[T]) Visit(fn func(*T)) {
	r.lock.WithLock(func() {
		fn(&r.val)
	})
}

// VisitShared runs fn with a read-only copy of the guarded value, while
// holding the shared lock; fn must not retain any reference into the value
// beyond its own call.
func (r *Resource[T]) VisitShared(fn func(T)) {
	r.lock.WithRLock(func() {
		fn(r.val)
	})
}
