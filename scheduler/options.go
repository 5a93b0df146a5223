package scheduler

import "github.com/joeycumines/go-dataflow/graph"

// schedulerOptions holds configuration resolved from Option values,
// mirroring the teacher's loopOptions/resolveLoopOptions pattern
// (eventloop/options.go).
type schedulerOptions struct {
	logger         Logger
	metricsEnabled bool
	parkTimeoutMs  int
}

// Option configures a Scheduler.
type Option interface {
	apply(*schedulerOptions)
}

type optionFunc func(*schedulerOptions)

func (f optionFunc) apply(o *schedulerOptions) { f(o) }

// WithLogger installs a structured logger on the Scheduler. Without
// this option, logging is a no-op.
func WithLogger(l Logger) Option {
	return optionFunc(func(o *schedulerOptions) { o.logger = l })
}

// WithMetrics enables run-duration percentile tracking, retrievable
// via Scheduler.Metrics.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(o *schedulerOptions) { o.metricsEnabled = enabled })
}

// WithParkTimeout bounds how long RunAsync blocks waiting for an
// external wake-up before re-checking for quiescence, as a safety net
// against a missed wake-up. Default 1000ms.
func WithParkTimeout(ms int) Option {
	return optionFunc(func(o *schedulerOptions) { o.parkTimeoutMs = ms })
}

func resolveOptions(opts []Option) *schedulerOptions {
	cfg := &schedulerOptions{
		logger:        noOpLogger{},
		parkTimeoutMs: 1000,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}
	return cfg
}

// graphRegistry is the minimal surface the scheduler needs from
// graph.Registry: the Scheduler's registry field has this type, while
// New itself takes a *graph.Registry.
type graphRegistry interface {
	Subgraphs() []*graph.Subgraph
	Subgraph(id graph.SubgraphID) (*graph.Subgraph, bool)
	RunTickHooks(tick uint64)
	DrainPending() int
	HasPending() bool
	SetDriving(bool)
	CheckStratumCycles() error
}
