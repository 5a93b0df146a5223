// Package scheduler drives a graph.Registry through ticks and strata:
// it decides, stratum by stratum, which subgraphs have work and runs
// them until each stratum quiesces before advancing, adapted from the
// teacher's event loop (eventloop/loop.go) — same run/park state
// machine and chunked ready queue, generalized from "run callbacks
// until the microtask queue drains" to "run subgraphs until a stratum
// drains, then advance".
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/joeycumines/go-dataflow/graph"
	"github.com/joeycumines/go-dataflow/internal/poller"
)

// Scheduler drives one graph.Registry. It implements graph.Context so
// a subgraph's own closure can query the current tick/stratum and
// reschedule itself or another subgraph.
type Scheduler struct {
	registry graphRegistry
	opts     *schedulerOptions
	metrics  *Metrics

	state *atomicRunState

	tick    uint64
	stratum uint32

	ready map[graph.Stratum]*readyQueue

	extMu sync.Mutex
	extQ  []graph.SubgraphID

	// waker is what RunAsync parks on between rounds of work: an
	// eventfd/epoll-backed wake-up on Linux (internal/poller's
	// poller_linux.go, adapted from eventloop's FastPoller), a channel
	// on other platforms (poller_other.go). ScheduleExternal and
	// Shutdown both arm it via wake().
	waker *poller.Waker
}

// New constructs a Scheduler over reg. It fails construction if the
// registry's current subgraphs form a stratum cycle (spec §9's
// construction-time check), since such a cycle can never quiesce; the
// returned error wraps both ErrStratumCycle and the
// *graph.StratumCycleError.
func New(reg *graph.Registry, opts ...Option) (*Scheduler, error) {
	if err := reg.CheckStratumCycles(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStratumCycle, err)
	}
	cfg := resolveOptions(opts)
	wk, err := poller.New()
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		registry: reg,
		opts:     cfg,
		state:    newAtomicRunState(),
		ready:    make(map[graph.Stratum]*readyQueue),
		waker:    wk,
	}
	if cfg.metricsEnabled {
		s.metrics = NewMetrics()
	}
	return s, nil
}

// Metrics returns the scheduler's run statistics, or nil if
// WithMetrics wasn't enabled.
func (s *Scheduler) Metrics() *Metrics { return s.metrics }

// Tick implements graph.Context.
func (s *Scheduler) Tick() uint64 { return s.tick }

// Stratum implements graph.Context.
func (s *Scheduler) Stratum() uint32 { return s.stratum }

// Schedule implements graph.Context: called from within a running
// subgraph's own closure (same goroutine), it enqueues id into its
// declared stratum's ready queue. Per spec §9's resolved open
// question, self-reschedule re-enters the *current* stratum's queue
// rather than re-running immediately, so a fixpoint loop (S1/S6) makes
// forward progress one subgraph-run at a time instead of recursing.
func (s *Scheduler) Schedule(id graph.SubgraphID) {
	sg, ok := s.registry.Subgraph(id)
	if !ok {
		return
	}
	if sg.Scheduled() {
		return
	}
	sg.SetScheduled(true)
	s.queueFor(sg.Stratum).Push(id)
}

// ScheduleExternal implements graph.Context: the cross-goroutine-safe
// entry point, for a source's I/O callback or a timer waking a
// subgraph outside the scheduler's own driving goroutine. It queues
// the request and wakes a parked RunAsync.
func (s *Scheduler) ScheduleExternal(id graph.SubgraphID) {
	s.extMu.Lock()
	s.extQ = append(s.extQ, id)
	s.extMu.Unlock()
	s.wake()
}

func (s *Scheduler) wake() {
	_ = s.waker.Wake()
}

func (s *Scheduler) queueFor(stratum graph.Stratum) *readyQueue {
	q, ok := s.ready[stratum]
	if !ok {
		q = newReadyQueue()
		s.ready[stratum] = q
	}
	return q
}

// drainExternal moves every externally-scheduled ID into its stratum's
// ready queue, honoring the same dedupe flag as Schedule.
func (s *Scheduler) drainExternal() {
	s.extMu.Lock()
	pending := s.extQ
	s.extQ = nil
	s.extMu.Unlock()

	for _, id := range pending {
		s.Schedule(id)
	}
}

// seedStratum enqueues every subgraph at this stratum that isn't
// already queued but has work. A subgraph with input ports only runs
// when one of them has pending data — Lazy is irrelevant there, the
// data itself is the trigger. A subgraph with no input ports is a
// source: it runs every tick unconditionally unless flagged Lazy, in
// which case it only runs when explicitly scheduled (spec §4.4's
// laziness rule — "does not run when it would be the sole remaining
// work... with no external inputs" applies precisely to a source with
// nothing upstream to observe).
func (s *Scheduler) seedStratum(stratum graph.Stratum, subgraphs []*graph.Subgraph) {
	q := s.queueFor(stratum)
	for _, sg := range subgraphs {
		if sg.Stratum != stratum || sg.Scheduled() {
			continue
		}
		if s.isSource(sg) {
			if !sg.Lazy {
				sg.SetScheduled(true)
				q.Push(sg.ID)
			}
			continue
		}
		if s.hasPendingInput(sg) {
			sg.SetScheduled(true)
			q.Push(sg.ID)
		}
	}
}

func (s *Scheduler) isSource(sg *graph.Subgraph) bool {
	return len(sg.Inputs) == 0
}

func (s *Scheduler) hasPendingInput(sg *graph.Subgraph) bool {
	for _, p := range sg.Inputs {
		if m := p.Meta(); m != nil && !m.IsEmpty() {
			return true
		}
	}
	return false
}

// enqueueNewlyReady implements spec §4.4 Step 1: once a subgraph has
// run, any handoff it wrote that is now non-empty must cause its
// downstream consumer to be enqueued in the same tick, not just at the
// next tick's seed. A producer's output port and a Tee reader's input
// port carry distinct handoff IDs (each reader owns its own cursor),
// so there's no single edge-key to look the consumer up by; instead
// this re-scans every subgraph at or after the current stratum and
// schedules whichever now has pending input, same trigger condition
// seedStratum already uses. Strata below the current one are left
// alone: they've already quiesced this tick, and any handoff still
// holding data for them is picked up by next tick's ordinary seed.
func (s *Scheduler) enqueueNewlyReady(subgraphs []*graph.Subgraph) {
	for _, sg := range subgraphs {
		if sg.Scheduled() || sg.Stratum < graph.Stratum(s.stratum) || s.isSource(sg) {
			continue
		}
		if s.hasPendingInput(sg) {
			sg.SetScheduled(true)
			s.queueFor(sg.Stratum).Push(sg.ID)
		}
	}
}

// RunTick runs every stratum, in order, to quiescence exactly once,
// then advances the tick counter and runs tick hooks. It returns the
// first error encountered, if any: an error returned by a closure or
// an OperatorPanic. The tick still runs to completion after such an
// error (every remaining stratum, then the tick hooks) before
// returning, matching the teacher's "let in-flight work settle before
// surfacing an error" behavior (eventloop's panic handling drains
// microtasks before propagating).
//
// Within a stratum, seedStratum only primes the initial queue; after
// each subgraph runs, any queued dynamic additions are applied and
// enqueueNewlyReady re-checks for newly-pending input (spec §4.4 Step
// 1) so a producer and its same-stratum or later-stratum consumer can
// both run within one tick, instead of the consumer waiting for the
// next tick's seed. The strata visited are fixed when the tick starts:
// a subgraph added in a stratum that no subgraph occupied at that point
// first runs in the next tick.
func (s *Scheduler) RunTick() error {
	s.registry.SetDriving(true)
	defer s.registry.SetDriving(false)

	subgraphs := s.registry.Subgraphs()
	for _, sg := range subgraphs {
		sg.SetScheduled(false)
	}

	strata := distinctStrata(subgraphs)
	var firstErr error

	for _, stratum := range strata {
		s.stratum = uint32(stratum)
		s.drainExternal()
		s.seedStratum(stratum, subgraphs)

		q := s.queueFor(stratum)
		for {
			id, ok := q.Pop()
			if !ok {
				break
			}
			sg, ok := s.registry.Subgraph(id)
			if !ok {
				continue
			}
			sg.SetScheduled(false)
			if err := s.run(sg); err != nil && firstErr == nil {
				firstErr = err
			}
			if s.registry.DrainPending() > 0 {
				subgraphs = s.registry.Subgraphs()
			}
			s.enqueueNewlyReady(subgraphs)
		}
	}

	s.tick++
	s.registry.RunTickHooks(s.tick)
	s.registry.DrainPending()
	return firstErr
}

func (s *Scheduler) run(sg *graph.Subgraph) (err error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.recordRun(time.Since(start))
		}
		if r := recover(); r != nil {
			if s.metrics != nil {
				s.metrics.Panics++
			}
			err = &OperatorPanic{
				Subgraph: sg.ID,
				Name:     sg.Name,
				Tick:     s.tick,
				Stratum:  s.stratum,
				Value:    r,
			}
			s.opts.logger.Log(LogEntry{
				Level: LevelError, Category: "panic", Tick: s.tick, Stratum: s.stratum,
				Subgraph: sg.Name, Message: "subgraph panicked", Err: err,
			})
		}
	}()
	return sg.Closure(s)
}

// RunAvailable runs ticks back-to-back until no subgraph has pending
// work and no external schedule is queued: the "drain everything now"
// mode, equivalent to the teacher's synchronous Run(). A tick that
// returns an error (such as an OperatorPanic) ends the run: that error
// is returned and no further tick is started.
func (s *Scheduler) RunAvailable() error {
	if !s.state.TryTransition(StateIdle, StateRunning) {
		if !s.state.TryTransition(StateParked, StateRunning) {
			if s.state.Load() == StateTerminating {
				return ErrShutdown
			}
			return nil
		}
	}
	defer s.state.Store(StateIdle)

	for {
		err := s.RunTick()
		if s.metrics != nil {
			s.metrics.Ticks++
		}
		if err != nil {
			return err
		}
		if !s.hasMoreWork() {
			return nil
		}
	}
}

func (s *Scheduler) hasMoreWork() bool {
	if s.registry.HasPending() {
		return true
	}
	s.extMu.Lock()
	pending := len(s.extQ) > 0
	s.extMu.Unlock()
	if pending {
		return true
	}
	for _, sg := range s.registry.Subgraphs() {
		if s.isSource(sg) {
			if !sg.Lazy {
				return true
			}
			continue
		}
		if s.hasPendingInput(sg) {
			return true
		}
	}
	return false
}

// RunAsync runs RunAvailable repeatedly, parking between rounds to
// wait for an external wake-up (ScheduleExternal, or the park timeout
// as a safety net) instead of busy-polling, until ctx is cancelled.
func (s *Scheduler) RunAsync(ctx context.Context) error {
	// Forward ctx cancellation into the same waker ScheduleExternal
	// uses, so a parked Wait call returns promptly instead of riding
	// out the full park timeout.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.wake()
		case <-stop:
		}
	}()

	for {
		if err := s.RunAvailable(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			s.state.Store(StateTerminated)
			return ctx.Err()
		}
		if !s.state.TryTransition(StateIdle, StateParked) {
			return ErrShutdown // Shutdown raced us.
		}
		if s.metrics != nil {
			s.metrics.ParkCount++
		}
		s.opts.logger.Log(LogEntry{Level: LevelDebug, Category: "park", Tick: s.tick, Message: "parking for external wake-up"})

		if _, err := s.waker.Wait(s.opts.parkTimeoutMs); err != nil {
			s.state.Store(StateTerminated)
			return err
		}
		if ctx.Err() != nil {
			s.state.Store(StateTerminated)
			return ctx.Err()
		}
		s.state.TryTransition(StateParked, StateIdle)
	}
}

// Close releases the scheduler's async waker resources (an eventfd and
// epoll instance on Linux). Safe to call once a Runtime/Scheduler is no
// longer needed; RunAvailable/RunTick don't use it at all.
func (s *Scheduler) Close() error {
	return s.waker.Close()
}

// Shutdown marks the scheduler as terminating; a concurrently blocked
// RunAsync will observe it on its next wake and return.
func (s *Scheduler) Shutdown() {
	s.state.Store(StateTerminating)
	s.wake()
}

// distinctStrata returns every stratum present among subgraphs, sorted
// ascending, so strictly-increasing stratum order (spec §4.4) is
// enforced by construction of the run loop itself.
func distinctStrata(subgraphs []*graph.Subgraph) []graph.Stratum {
	seen := make(map[graph.Stratum]bool)
	var out []graph.Stratum
	for _, sg := range subgraphs {
		if !seen[sg.Stratum] {
			seen[sg.Stratum] = true
			out = append(out, sg.Stratum)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

