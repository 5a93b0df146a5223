// Package ratelimit adapts a rate limiter over an externally-arriving
// stream into a dataflow source operator, per the "Backpressure ... is
// the caller's responsibility via explicit rate limiting" contract
// (spec §4.2): the caller supplies the limiter, this package supplies
// the buffering and admission bookkeeping a source subgraph needs.
package ratelimit

import (
	"sync"
	"time"

	"github.com/joeycumines/go-catrate"

	"github.com/joeycumines/go-dataflow/graph"
	"github.com/joeycumines/go-dataflow/handoff"
)

// externalScheduler is the slice of graph.Context a Source needs: just
// enough to wake its bound subgraph from Feed, called by a goroutine
// outside the scheduler's own driving loop.
type externalScheduler interface {
	ScheduleExternal(id graph.SubgraphID)
}

// Source buffers items handed to it by an external producer (e.g. a
// socket read loop) and admits them into a subgraph's output handoff
// one rate-limited batch at a time. A single category is used for all
// admission decisions; construct one Source per category if more than
// one is needed.
type Source[T any] struct {
	mu       sync.Mutex
	buffered []T

	limiter  *catrate.Limiter
	category any

	sched externalScheduler
	id    graph.SubgraphID
	bound bool
}

// NewSource wraps limiter, admitting under category on every Drain.
// limiter may be nil, in which case admission is unconditional (no rate
// limiting applied), matching catrate.Limiter's own nil-receiver
// behavior.
func NewSource[T any](limiter *catrate.Limiter, category any) *Source[T] {
	return &Source[T]{limiter: limiter, category: category}
}

// Bind wires the Source to the subgraph it feeds, so Feed can wake it.
// Call this once, before the producer goroutine starts calling Feed.
func (s *Source[T]) Bind(sched externalScheduler, id graph.SubgraphID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched = sched
	s.id = id
	s.bound = true
}

// Feed hands the Source a newly-arrived item, to be admitted on some
// future Drain call. Safe to call from any goroutine, including
// concurrently with Drain.
func (s *Source[T]) Feed(item T) {
	s.mu.Lock()
	s.buffered = append(s.buffered, item)
	sched, id, bound := s.sched, s.id, s.bound
	s.mu.Unlock()

	if bound {
		sched.ScheduleExternal(id)
	}
}

// Drain is called from within the bound subgraph's own closure. If the
// limiter admits an event for category, every currently buffered item
// is moved to out and admitted reports how many. If the limiter
// declines, nothing is moved and next reports the earliest time a
// retry might succeed.
func (s *Source[T]) Drain(out *handoff.Vec[T]) (admitted int, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buffered) == 0 {
		return 0, time.Time{}
	}

	t, ok := s.limiter.Allow(s.category)
	if !ok {
		return 0, t
	}

	out.GiveVec(s.buffered)
	admitted = len(s.buffered)
	s.buffered = s.buffered[:0]
	return admitted, time.Time{}
}

// Pending reports whether Drain would have anything to admit, without
// consulting the rate limiter — used by a source subgraph to decide
// whether it has work this tick at all before paying for an Allow call.
func (s *Source[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffered) != 0
}
