// Package handoff implements the typed single-writer buffers that
// carry data between subgraphs: the scheduler polls their is-empty
// predicate to decide what to run next, and never inspects their
// contents.
package handoff

// ID uniquely identifies a handoff (or a single reader of a Tee
// handoff) within a graph's registry, for scheduler bookkeeping that
// doesn't need to know the element type.
type ID uint64

// Meta is the type-erased view of a handoff that the scheduler needs:
// enough to decide whether a downstream subgraph has work waiting,
// without knowing the element type T.
type Meta interface {
	// ID returns the handoff's identity within its registry.
	ID() ID
	// IsEmpty reports whether a subsequent take would yield no items.
	IsEmpty() bool
}

// SendPort is the write-side capability set of a handoff: append one
// item, an iterator of items, or a whole slice. *Vec[T] and *Tee[T]
// both satisfy it.
type SendPort[T any] interface {
	Give(item T)
	GiveIter(seq func(yield func(T) bool))
	GiveVec(items []T)
}

// RecvPort is the read-side capability set of a handoff: take the
// whole buffer, or swap in an empty one for zero-allocation reuse.
// *Vec[T] and *TeeReaderPort[T] both satisfy it.
type RecvPort[T any] interface {
	Meta
	TakeInner() []T
	SwapInner(empty []T) []T
}
