// Package batch coalesces a sink subgraph's per-tick output into
// wire-sized batches before handing them to a network write, using
// microbatch's size/interval-triggered batching underneath — kept out
// of the handoff layer itself so a plain Vec.Give stays
// allocation-free.
package batch

import (
	"context"

	"github.com/joeycumines/go-microbatch"
)

// Sink batches individual items of type T, flushing them to write in
// groups bounded by size or time, whichever triggers first.
type Sink[T any] struct {
	batcher *microbatch.Batcher[T]
}

// NewSink wraps write as a microbatch.BatchProcessor. config may be nil
// to accept microbatch's defaults (16 items or 50ms, whichever first).
func NewSink[T any](config *microbatch.BatcherConfig, write func(ctx context.Context, items []T) error) *Sink[T] {
	return &Sink[T]{
		batcher: microbatch.NewBatcher(config, microbatch.BatchProcessor[T](write)),
	}
}

// Submit hands one item to the batcher for a future flush, returning
// once the item has been assigned to a batch (not once the batch has
// been written — call Wait on the result for that).
func (s *Sink[T]) Submit(ctx context.Context, item T) (*microbatch.JobResult[T], error) {
	return s.batcher.Submit(ctx, item)
}

// SubmitAll hands every item in items to the batcher, then waits for
// all of their batches to finish writing, returning the first error
// encountered, if any. This is the shape a sink subgraph's closure
// wants: drain a handoff's TakeInner result, submit it, wait.
func (s *Sink[T]) SubmitAll(ctx context.Context, items []T) error {
	results := make([]*microbatch.JobResult[T], 0, len(items))
	for _, item := range items {
		r, err := s.batcher.Submit(ctx, item)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	var firstErr error
	for _, r := range results {
		if err := r.Wait(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Shutdown flushes any partial batch and waits for in-flight writes to
// complete.
func (s *Sink[T]) Shutdown(ctx context.Context) error {
	return s.batcher.Shutdown(ctx)
}

// Close cancels in-flight writes and tears the batcher down
// immediately.
func (s *Sink[T]) Close() error {
	return s.batcher.Close()
}
