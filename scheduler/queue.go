package scheduler

import "github.com/joeycumines/go-dataflow/graph"

// readyChunkSize mirrors the teacher's ChunkedIngress chunk size: large
// enough to amortize allocation, small enough to keep a chunk within a
// cache line's worth of cost to scan.
const readyChunkSize = 128

// readyQueue is a chunked linked-list FIFO of subgraph IDs awaiting a
// run within one stratum, adapted from eventloop's ChunkedIngress:
// same O(1) push/pop via cursors into fixed-size chunks, generalized
// from func() tasks to graph.SubgraphID. Not safe for concurrent use;
// the scheduler only touches it from its own driving goroutine, and
// cross-goroutine wake-ups go through the separate external queue
// (see scheduler.go's ScheduleExternal).
type readyQueue struct {
	head   *readyChunk
	tail   *readyChunk
	length int
}

type readyChunk struct {
	items   [readyChunkSize]graph.SubgraphID
	next    *readyChunk
	readPos int
	pos     int
}

func newReadyQueue() *readyQueue { return &readyQueue{} }

func (q *readyQueue) Push(id graph.SubgraphID) {
	if q.tail == nil {
		q.tail = &readyChunk{}
		q.head = q.tail
	}
	if q.tail.pos == len(q.tail.items) {
		next := &readyChunk{}
		q.tail.next = next
		q.tail = next
	}
	q.tail.items[q.tail.pos] = id
	q.tail.pos++
	q.length++
}

func (q *readyQueue) Pop() (graph.SubgraphID, bool) {
	if q.head == nil {
		return 0, false
	}
	if q.head.readPos >= q.head.pos {
		if q.head == q.tail {
			q.head.pos = 0
			q.head.readPos = 0
			return 0, false
		}
		q.head = q.head.next
	}
	if q.head.readPos >= q.head.pos {
		return 0, false
	}
	id := q.head.items[q.head.readPos]
	q.head.readPos++
	q.length--
	if q.head.readPos >= q.head.pos && q.head == q.tail {
		q.head.pos = 0
		q.head.readPos = 0
	}
	return id, true
}

func (q *readyQueue) Len() int { return q.length }
