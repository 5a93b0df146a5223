// Package dataflow is the root facade a front-end (a surface-syntax
// compiler, a REPL, or the cmd/dfr CLI) drives a dataflow program
// through: it pairs one graph.Registry with the scheduler.Scheduler
// that runs it, exposing subgraph/handoff/state construction,
// scheduling, tick/stratum queries, and topology introspection as
// methods of one value, instead of making every caller wire a
// Registry and Scheduler up by hand.
package dataflow

import (
	"context"

	"github.com/joeycumines/go-dataflow/graph"
	"github.com/joeycumines/go-dataflow/graph/render"
	"github.com/joeycumines/go-dataflow/handoff"
	"github.com/joeycumines/go-dataflow/scheduler"
)

// Runtime is one dataflow program: its structural registry and the
// scheduler driving it.
type Runtime struct {
	Registry  *graph.Registry
	Scheduler *scheduler.Scheduler
}

// New constructs an empty Runtime. opts configure the underlying
// Scheduler (logging, metrics, park timeout).
func New(opts ...scheduler.Option) (*Runtime, error) {
	reg := graph.NewRegistry()
	sched, err := scheduler.New(reg, opts...)
	if err != nil {
		return nil, err
	}
	return &Runtime{Registry: reg, Scheduler: sched}, nil
}

// AddSubgraph registers a subgraph. See graph.Registry.AddSubgraph.
func (r *Runtime) AddSubgraph(name string, stratum graph.Stratum, lazy bool, inputs, outputs []graph.Port, closure graph.Closure) (graph.SubgraphID, error) {
	return r.Registry.AddSubgraph(name, stratum, lazy, inputs, outputs, closure)
}

// AddState registers a state cell. See graph.Registry.AddState.
func (r *Runtime) AddState(init any, tickHook func(tick uint64, value any) any) graph.StateID {
	return r.Registry.AddState(init, tickHook)
}

// AddVecHandoff constructs a Vec[T]-backed handoff bound to this
// Runtime's registry. A Vec is single-writer/single-reader, so send
// and recv are the same
// underlying buffer — the split is a naming convention for call sites,
// not a capability restriction (handoff.SendPort[T]/RecvPort[T] exist
// for callers who want a narrower static type for one side). Bind the
// result (via graph.Bind) to whichever subgraphs produce and consume
// it; *handoff.Vec[T] satisfies handoff.Meta for either role.
func AddVecHandoff[T any](r *Runtime) (send, recv *handoff.Vec[T]) {
	v := handoff.NewVec[T](r.Registry.NextHandoffID())
	return v, v
}

// AddTeeHandoff constructs a Tee[T]-backed handoff with one initial
// reader, for a single producer broadcasting to multiple consumers.
// Additional readers are obtained by calling AddReader on the returned
// *handoff.Tee[T].
func AddTeeHandoff[T any](r *Runtime) (*handoff.Tee[T], *handoff.TeeReaderPort[T]) {
	return handoff.NewTee[T](r.Registry.NextHandoffID)
}

// Schedule re-enters the given subgraph in its own stratum's ready
// queue. Call it from within a running subgraph's own closure, or from
// the goroutine that drives the Runtime while no run is in progress
// (e.g. to seed a lazy source before RunAvailable); other goroutines
// use ScheduleExternal. Prefer ctx.Schedule when a graph.Context is
// already in hand.
func (r *Runtime) Schedule(id graph.SubgraphID) { r.Scheduler.Schedule(id) }

// ScheduleExternal is the cross-goroutine-safe counterpart to Schedule,
// for a source's I/O callback or any goroutine outside the scheduler's
// own driving loop.
func (r *Runtime) ScheduleExternal(id graph.SubgraphID) { r.Scheduler.ScheduleExternal(id) }

// CurrentTick returns the scheduler's current logical tick.
func (r *Runtime) CurrentTick() uint64 { return r.Scheduler.Tick() }

// CurrentStratum returns the stratum presently executing.
func (r *Runtime) CurrentStratum() uint32 { return r.Scheduler.Stratum() }

// MetaGraph returns a serializable view of the program's topology,
// suitable for external dot/mermaid rendering.
func (r *Runtime) MetaGraph() graph.TopologyView { return r.Registry.MetaGraph() }

// RenderDot renders the current topology as a Graphviz dot graph.
func (r *Runtime) RenderDot() string { return render.Dot(r.MetaGraph()) }

// RenderMermaid renders the current topology as a Mermaid flowchart.
func (r *Runtime) RenderMermaid() string { return render.Mermaid(r.MetaGraph()) }

// RunAvailable runs the program to quiescence, never yielding.
func (r *Runtime) RunAvailable() error { return r.Scheduler.RunAvailable() }

// RunTick runs exactly one tick.
func (r *Runtime) RunTick() error { return r.Scheduler.RunTick() }

// RunAsync runs until ctx is cancelled, parking between rounds of work
// instead of busy-polling.
func (r *Runtime) RunAsync(ctx context.Context) error { return r.Scheduler.RunAsync(ctx) }

// Shutdown requests a running RunAsync loop stop at its next wake-up.
func (r *Runtime) Shutdown() { r.Scheduler.Shutdown() }

// Close releases the Runtime's async waker resources. Call once the
// program is done; RunAvailable/RunTick don't need it.
func (r *Runtime) Close() error { return r.Scheduler.Close() }
