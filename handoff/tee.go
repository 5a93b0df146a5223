package handoff

// Tee is a multi-consumer broadcast handoff: every write is
// replicated to every current reader's own queue, and readers drain
// independently at their own pace. New readers may be added at any
// time (the scheduler treats each new reader as a fresh recv-side
// handoff with its own id).
//
// Reader removal (spec §9, open question) is observed lazily, applied
// at the next Write rather than at drain time: a reader marked removed
// still holds whatever it already buffered, but stops receiving new
// items as of the next write after removal, and is compacted out of
// the family at that point. This mirrors the family's write path being
// the only place that needs to know the current reader set.
type Tee[T any] struct {
	family *teeFamily[T]
	id     ID
}

type teeFamily[T any] struct {
	readers []*teeReader[T]
	nextID  func() ID
}

type teeReader[T any] struct {
	id      ID
	buf     []T
	removed bool
}

// NewTee creates a new Tee handoff family with a single initial
// reader (so a Tee always has at least one consumer by construction;
// additional consumers are added with Tee.AddReader).
func NewTee[T any](nextID func() ID) (*Tee[T], *TeeReaderPort[T]) {
	family := &teeFamily[T]{nextID: nextID}
	root := &Tee[T]{family: family, id: nextID()}
	return root, root.AddReader()
}

// ID identifies the Tee family itself, for binding the producer side
// as a subgraph's output port (each reader has its own distinct ID for
// the consumer side).
func (t *Tee[T]) ID() ID { return t.id }

// IsEmpty always reports true: a Tee's producer side has no queue of
// its own for the scheduler to poll, only its readers do.
func (t *Tee[T]) IsEmpty() bool { return true }

// AddReader joins a new reader to the family, starting with an empty
// queue; it observes every write issued after it joins.
func (t *Tee[T]) AddReader() *TeeReaderPort[T] {
	r := &teeReader[T]{id: t.family.nextID()}
	t.family.readers = append(t.family.readers, r)
	return &TeeReaderPort[T]{family: t.family, reader: r}
}

// Give clones item once per reader after the first, moving the final
// copy into the last reader's queue, per spec §4.2's "N-1 clones + 1
// move" accounting. Removed readers are compacted out first.
func (t *Tee[T]) Give(item T) {
	t.compact()
	readers := t.family.readers
	if len(readers) == 0 {
		return
	}
	for _, r := range readers[:len(readers)-1] {
		r.buf = append(r.buf, item)
	}
	last := readers[len(readers)-1]
	last.buf = append(last.buf, item)
}

// GiveIter tees every item yielded by seq.
func (t *Tee[T]) GiveIter(seq func(yield func(T) bool)) {
	seq(func(item T) bool {
		t.Give(item)
		return true
	})
}

// GiveVec tees an entire slice.
func (t *Tee[T]) GiveVec(items []T) {
	for _, item := range items {
		t.Give(item)
	}
}

// compact drops readers marked removed since the last write.
func (t *Tee[T]) compact() {
	family := t.family
	write := 0
	for _, r := range family.readers {
		if r.removed {
			continue
		}
		family.readers[write] = r
		write++
	}
	family.readers = family.readers[:write]
}

// TeeReaderPort is one reader's view onto a Tee family: it sees every
// item written to the family since it joined, in write order,
// independent of how fast any other reader drains.
type TeeReaderPort[T any] struct {
	family *teeFamily[T]
	reader *teeReader[T]
}

func (p *TeeReaderPort[T]) ID() ID { return p.reader.id }

func (p *TeeReaderPort[T]) IsEmpty() bool {
	return len(p.reader.buf) == 0
}

func (p *TeeReaderPort[T]) TakeInner() []T {
	out := p.reader.buf
	p.reader.buf = nil
	return out
}

func (p *TeeReaderPort[T]) SwapInner(empty []T) []T {
	out := p.reader.buf
	p.reader.buf = empty[:0]
	return out
}

// Remove marks this reader for removal; it stops receiving new writes
// starting with the family's next Write call, per the lazy-removal
// policy documented on Tee.
func (p *TeeReaderPort[T]) Remove() {
	p.reader.removed = true
}
