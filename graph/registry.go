package graph

import (
	"fmt"
	"sync"

	"github.com/joeycumines/go-dataflow/handoff"
)

// handoffEdge is recorded once per Bind call, tying a handoff's Meta to
// the subgraph(s) on either side, so Registry can derive topology and
// check for stratum cycles.
type handoffEdge struct {
	meta      handoff.Meta
	name      string
	producers []SubgraphID
	consumers []SubgraphID
}

// Registry is the structural record of one dataflow instance: every
// subgraph, state cell, and handoff binding added to it, plus the
// queue of pending dynamic additions the scheduler drains between
// subgraph runs, so a running closure can grow the graph itself.
//
// Registry itself does no scheduling; it is built up once (mostly)
// before the first tick, though AddSubgraph/AddState may also be
// called from within a running subgraph's closure, in which case the
// addition is queued rather than applied immediately — see
// DrainPending and HasPending.
type Registry struct {
	mu sync.Mutex

	nextSubgraph SubgraphID
	nextState    StateID
	nextHandoff  handoff.ID

	subgraphs map[SubgraphID]*Subgraph
	states    map[StateID]*StateCell
	edges     map[handoff.ID]*handoffEdge
	order     []SubgraphID // insertion order, for stable iteration/rendering

	pending []func(*Registry)

	// driving reports whether the registry is presently inside a
	// scheduler-driven tick; additions made while true are queued
	// instead of applied in place.
	driving bool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		subgraphs: make(map[SubgraphID]*Subgraph),
		states:    make(map[StateID]*StateCell),
		edges:     make(map[handoff.ID]*handoffEdge),
	}
}

// NextHandoffID hands out handoff IDs from the registry's own counter,
// so callers construct handoff.Vec/Tee instances with IDs guaranteed
// unique within this registry, then register them with Bind.
func (r *Registry) NextHandoffID() handoff.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextHandoff++
	return r.nextHandoff
}

// SetDriving is for the scheduler's exclusive use: it marks whether
// the registry is currently inside a tick, which determines whether
// AddSubgraph/AddState apply immediately or are queued.
func (r *Registry) SetDriving(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.driving = v
}

// AddSubgraph registers a new subgraph. inputs and outputs name the
// handoff bindings this subgraph reads and writes, already constructed
// via Bind; their element types were checked at Bind time, so
// AddSubgraph itself only needs to wire up the edge bookkeeping used
// for topology and stratum-cycle detection.
//
// Called while the scheduler is driving a tick, the addition is
// deferred: it takes effect before the next subgraph runs, per spec
// §9's dynamic sub-pipeline semantics. The returned ID is final, but
// until the addition has been applied Subgraph does not find it and
// scheduling it has no effect.
func (r *Registry) AddSubgraph(name string, stratum Stratum, lazy bool, inputs, outputs []Port, closure Closure) (SubgraphID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSubgraph++
	id := r.nextSubgraph

	apply := func(reg *Registry) {
		sg := &Subgraph{
			ID:      id,
			Name:    name,
			Stratum: stratum,
			Lazy:    lazy,
			Inputs:  inputs,
			Outputs: outputs,
			Closure: closure,
		}
		reg.subgraphs[id] = sg
		reg.order = append(reg.order, id)
		for _, p := range inputs {
			reg.linkConsumer(p, id)
		}
		for _, p := range outputs {
			reg.linkProducer(p, id)
		}
	}

	if r.driving {
		r.pending = append(r.pending, apply)
	} else {
		apply(r)
	}
	return id, nil
}

func (r *Registry) linkConsumer(p Port, id SubgraphID) {
	e := r.edgeFor(p)
	e.consumers = append(e.consumers, id)
}

func (r *Registry) linkProducer(p Port, id SubgraphID) {
	e := r.edgeFor(p)
	e.producers = append(e.producers, id)
}

func (r *Registry) edgeFor(p Port) *handoffEdge {
	e, ok := r.edges[p.meta.ID()]
	if !ok {
		e = &handoffEdge{meta: p.meta, name: p.Name}
		r.edges[p.meta.ID()] = e
	}
	return e
}

// AddState registers a new state cell holding init, optionally driven
// by a tick hook.
func (r *Registry) AddState(init any, hook func(tick uint64, value any) any) StateID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextState++
	id := r.nextState

	apply := func(reg *Registry) {
		reg.states[id] = &StateCell{ID: id, Value: init, TickHook: hook}
	}
	if r.driving {
		r.pending = append(r.pending, apply)
	} else {
		apply(r)
	}
	return id
}

// State returns the current value of a state cell and whether it
// exists.
func (r *Registry) State(id StateID) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.states[id]
	if !ok {
		return nil, false
	}
	return c.Value, true
}

// SetState overwrites a state cell's value in place.
func (r *Registry) SetState(id StateID, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.states[id]; ok {
		c.Value = value
	}
}

// RunTickHooks invokes every state cell's TickHook in registration
// order, for the scheduler to call at tick rollover (grounded on
// original_source/dfir_rs/src/util/monotonic_map.rs's per-tick sweep).
func (r *Registry) RunTickHooks(tick uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := StateID(1); id <= r.nextState; id++ {
		c, ok := r.states[id]
		if !ok || c.TickHook == nil {
			continue
		}
		c.Value = c.TickHook(tick, c.Value)
	}
}

// Subgraph returns the subgraph record for id, if it has been applied
// (pending additions aren't visible until drained).
func (r *Registry) Subgraph(id SubgraphID) (*Subgraph, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sg, ok := r.subgraphs[id]
	return sg, ok
}

// Subgraphs returns every applied subgraph in registration order.
func (r *Registry) Subgraphs() []*Subgraph {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Subgraph, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.subgraphs[id])
	}
	return out
}

// DrainPending applies every queued dynamic addition, in the order
// they were requested, and reports how many were applied. The
// scheduler calls this between subgraph executions.
func (r *Registry) DrainPending() int {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	for _, apply := range pending {
		r.mu.Lock()
		apply(r)
		r.mu.Unlock()
	}
	return len(pending)
}

// HasPending reports whether any dynamic addition is queued.
func (r *Registry) HasPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending) > 0
}

// CheckStratumCycles walks the subgraph→subgraph edges induced by
// shared handoffs and reports a StratumCycleError for any cycle found,
// including a self-loop. A tick barrier isn't a handoff edge at all in
// this design — it's a StateCell read and written across repeated
// RunTick calls, so a fixpoint loop is driven by an external caller
// re-invoking RunTick rather than by a subgraph feeding its own
// handoff within one tick. So any cycle this walk finds, same stratum
// or not, is a pure intra-tick cycle and is rejected.
func (r *Registry) CheckStratumCycles() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	adj := make(map[SubgraphID][]SubgraphID)
	for _, e := range r.edges {
		for _, p := range e.producers {
			adj[p] = append(adj[p], e.consumers...)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[SubgraphID]int)
	var stack []SubgraphID

	var visit func(id SubgraphID) []SubgraphID
	visit = func(id SubgraphID) []SubgraphID {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range adj[id] {
			switch color[next] {
			case white:
				if cyc := visit(next); cyc != nil {
					return cyc
				}
			case gray:
				// found a cycle: extract the portion of stack from next's
				// first occurrence onward.
				for i, s := range stack {
					if s == next {
						return append(append([]SubgraphID{}, stack[i:]...), next)
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for _, id := range r.order {
		if color[id] == white {
			if cyc := visit(id); cyc != nil {
				return r.cycleError(cyc)
			}
		}
	}
	return nil
}

func (r *Registry) cycleError(cyc []SubgraphID) error {
	names := make([]string, 0, len(cyc))
	for _, id := range cyc {
		names = append(names, r.subgraphs[id].Name)
	}
	return &StratumCycleError{Subgraphs: names}
}

// Bind constructs a Port bound to meta, checking that T matches the
// type the handoff was declared to carry (meta must be a
// handoff.SendPort[T] or a handoff.RecvPort[T]) and returning a
// ConstructionError on mismatch. An interface-typed T is also rejected,
// since NewPort's reflect.TypeOf records no concrete element type for
// it.
func Bind[T any](subgraphName, portName string, meta handoff.Meta) (Port, error) {
	p := NewPort[T](portName, meta)
	if p.Type == nil {
		return Port{}, &ConstructionError{
			Subgraph: subgraphName,
			Port:     portName,
			Reason:   fmt.Sprintf("cannot bind interface-typed port without a concrete element type"),
		}
	}
	_, sends := meta.(handoff.SendPort[T])
	_, recvs := meta.(handoff.RecvPort[T])
	if !sends && !recvs {
		return Port{}, &ConstructionError{
			Subgraph: subgraphName,
			Port:     portName,
			Reason:   fmt.Sprintf("handoff does not carry elements of type %v", p.Type),
		}
	}
	return p, nil
}
