package sched

import "github.com/joeycumines/go-taskrt/sched/internal/logging"

// threadOptions holds configuration resolved from a ThreadOption list,
// mirroring the shape of eventloop.loopOptions / resolveLoopOptions.
type threadOptions struct {
	logger  logging.Logger
	metrics *Metrics
}

// ThreadOption configures a Thread at construction time.
type ThreadOption interface {
	applyThread(*threadOptions) error
}

type threadOptionFunc func(*threadOptions) error

func (f threadOptionFunc) applyThread(o *threadOptions) error { return f(o) }

// WithThreadLogger installs a structured logger for a single Thread,
// overriding the package-level default.
func WithThreadLogger(logger logging.Logger) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) error {
		o.logger = logger
		return nil
	})
}

// withThreadMetrics attaches a shared Metrics instance, used internally by
// ThreadPool to aggregate counters across every worker it owns. Unexported:
// an individual standalone Thread has no pool-level counters to share.
func withThreadMetrics(m *Metrics) ThreadOption {
	return threadOptionFunc(func(o *threadOptions) error {
		o.metrics = m
		return nil
	})
}

func resolveThreadOptions(opts []ThreadOption) (*threadOptions, error) {
	cfg := &threadOptions{logger: logging.Global()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyThread(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// poolOptions holds configuration resolved from a PoolOption list.
type poolOptions struct {
	logger         logging.Logger
	metricsEnabled bool
}

// PoolOption configures a ThreadPool at construction time.
type PoolOption interface {
	applyPool(*poolOptions) error
}

type poolOptionFunc func(*poolOptions) error

func (f poolOptionFunc) applyPool(o *poolOptions) error { return f(o) }

// WithPoolLogger installs a structured logger shared by the pool and every
// worker it constructs.
func WithPoolLogger(logger logging.Logger) PoolOption {
	return poolOptionFunc(func(o *poolOptions) error {
		o.logger = logger
		return nil
	})
}

// WithMetrics enables the pool's running Metrics counters (scheduled,
// executed, canceled, interrupted task counts). Disabled by default, since
// the counters add a handful of atomic increments to every task's
// lifecycle; mirrors eventloop.WithMetrics's opt-in design.
func WithMetrics(enabled bool) PoolOption {
	return poolOptionFunc(func(o *poolOptions) error {
		o.metricsEnabled = enabled
		return nil
	})
}

func resolvePoolOptions(opts []PoolOption) (*poolOptions, error) {
	cfg := &poolOptions{logger: logging.Global()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyPool(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
