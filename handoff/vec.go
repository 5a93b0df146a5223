package handoff

// Vec is a FIFO buffer of T, appended to in place and drained
// atomically (from the single writer/reader's perspective — there is
// no internal locking, since the scheduler guarantees a Vec handoff is
// never touched concurrently, per the single-threaded cooperative
// model). Appends are O(1) amortized; SwapInner is the zero-allocation
// fast path the scheduler uses to hand the consumer an already-sized
// buffer.
type Vec[T any] struct {
	buf []T
	id  ID
}

// NewVec allocates a fresh, empty Vec handoff with the given identity.
func NewVec[T any](id ID) *Vec[T] {
	return &Vec[T]{id: id}
}

func (v *Vec[T]) ID() ID { return v.id }

// Give appends a single item.
func (v *Vec[T]) Give(item T) {
	v.buf = append(v.buf, item)
}

// GiveIter appends every item yielded by seq.
func (v *Vec[T]) GiveIter(seq func(yield func(T) bool)) {
	seq(func(item T) bool {
		v.buf = append(v.buf, item)
		return true
	})
}

// GiveVec appends an entire slice at once.
func (v *Vec[T]) GiveVec(items []T) {
	v.buf = append(v.buf, items...)
}

// TakeInner removes and returns the whole buffer, leaving the handoff
// empty. Equivalent to Rust's mem::take.
func (v *Vec[T]) TakeInner() []T {
	out := v.buf
	v.buf = nil
	return out
}

// SwapInner returns the current buffer and installs empty (truncated
// to zero length, capacity retained) as the new one, avoiding an
// allocation when the caller recycles buffers across ticks.
func (v *Vec[T]) SwapInner(empty []T) []T {
	out := v.buf
	v.buf = empty[:0]
	return out
}

// IsEmpty reports whether the buffer currently holds no items.
func (v *Vec[T]) IsEmpty() bool {
	return len(v.buf) == 0
}
