// Package graph holds the structural record of a dataflow instance:
// subgraphs, the handoffs and state cells they're bound to, and the
// topology derived from those bindings. It has no notion of "now" —
// driving execution is the scheduler package's job, which implements
// the Context interface this package defines.
package graph

import (
	"reflect"

	"github.com/joeycumines/go-dataflow/handoff"
)

// SubgraphID identifies a subgraph within a Registry.
type SubgraphID uint64

// StateID identifies a state cell within a Registry.
type StateID uint64

// Stratum is a non-negative ordinal within a tick; stratum s+1 never
// runs until stratum s has fully quiesced.
type Stratum uint32

// Context is the capability set a running subgraph's closure receives.
// It is implemented by the scheduler, not by this package, to avoid a
// dependency cycle: graph describes structure, scheduler drives time.
type Context interface {
	// Tick returns the current logical tick.
	Tick() uint64
	// Stratum returns the current stratum within the tick.
	Stratum() uint32
	// Schedule enqueues a subgraph to run again, in its own stratum's
	// ready queue; it is a no-op while the subgraph is already queued
	// (see scheduler's self-reschedule policy).
	Schedule(id SubgraphID)
	// ScheduleExternal is the cross-thread-safe variant of Schedule,
	// for use by goroutines outside the scheduler's own loop (e.g. an
	// I/O callback waking a source operator).
	ScheduleExternal(id SubgraphID)
}

// Closure is a subgraph's execution body: read bound input handoffs,
// write bound output handoffs, using ctx for time/scheduling queries.
// Panics propagate unchanged to the scheduler as an OperatorPanic.
type Closure func(ctx Context) error

// Port names one handoff binding on a subgraph, input or output. Type
// is recorded so Bind can reject a mismatched handoff synchronously at
// construction.
type Port struct {
	Name string
	Type reflect.Type
	meta handoff.Meta
}

// Meta returns the handoff metadata this port is bound to, for the
// scheduler's pending-input check (handoff.Meta.IsEmpty) and the
// registry's edge bookkeeping (handoff.Meta.ID).
func (p Port) Meta() handoff.Meta { return p.meta }

// NewPort records a port bound to the given handoff's metadata view and
// the Go type T it carries.
func NewPort[T any](name string, meta handoff.Meta) Port {
	var zero T
	return Port{Name: name, Type: reflect.TypeOf(zero), meta: meta}
}

// Subgraph is a unit of scheduling: a stable identity, the closure
// that does its work, its stratum, laziness, and the handoffs it's
// wired to (for topology rendering and reachability computation).
type Subgraph struct {
	ID      SubgraphID
	Name    string
	Stratum Stratum
	Lazy    bool
	Inputs  []Port
	Outputs []Port
	Closure Closure

	// scheduled is the scheduled-this-tick flag, mutated only by the
	// scheduler (single-threaded, so a bare bool is safe).
	scheduled bool
}

// Scheduled reports the scheduled-this-tick flag.
func (s *Subgraph) Scheduled() bool { return s.scheduled }

// SetScheduled is for the scheduler's exclusive use.
func (s *Subgraph) SetScheduled(v bool) { s.scheduled = v }

// StateCell is a process-wide indexed slot an operator's closures
// mutate across ticks: accumulating folds, joins, caches. TickHook, if
// set, runs at every tick boundary (e.g. to clear a per-tick delta
// view).
type StateCell struct {
	ID       StateID
	Value    any
	TickHook func(tick uint64, value any) any
}
