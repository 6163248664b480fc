// Package chunkqueue orders pending chunk work by priority.
//
// Updates never search the heap. Each push is tagged with a fresh
// generation, and a side table remembers the current generation per
// address; heap entries whose generation no longer matches are stale and
// are dropped when they surface. The queue is not safe for concurrent use.
package chunkqueue

import (
	"container/heap"

	"github.com/Faultbox/planetgrid/pkg/cubesphere"
)

const (
	// compactMinHeap is the heap size below which stale entries are
	// never swept eagerly.
	compactMinHeap = 256
	// compactFactor triggers a sweep once the heap holds this many
	// entries per live address.
	compactFactor = 4
)

// Entry is one queued chunk.
type Entry struct {
	Address    cubesphere.ChunkAddress `json:"address"`
	Priority   float64                 `json:"priority"`
	Generation uint64                  `json:"generation"`
}

// entryHeap is a max-heap on priority. Equal priorities pop in push order.
type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].Generation < h[j].Generation
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(Entry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type liveEntry struct {
	generation uint64
	priority   float64
}

// Stats describes the queue's internal state.
type Stats struct {
	Live           int    `json:"live"`
	HeapSize       int    `json:"heap_size"`
	StaleDiscarded uint64 `json:"stale_discarded"`
}

// Queue is a priority queue of chunk addresses with O(log n) updates.
type Queue struct {
	heap    entryHeap
	current map[cubesphere.ChunkAddress]liveEntry
	nextGen uint64
	stale   uint64
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{current: make(map[cubesphere.ChunkAddress]liveEntry)}
}

// Push queues addr with priority, replacing any earlier priority for it.
func (q *Queue) Push(addr cubesphere.ChunkAddress, priority float64) {
	q.nextGen++
	gen := q.nextGen
	q.current[addr] = liveEntry{generation: gen, priority: priority}
	heap.Push(&q.heap, Entry{Address: addr, Priority: priority, Generation: gen})

	if len(q.heap) > compactMinHeap && len(q.heap) > compactFactor*len(q.current) {
		q.Compact()
	}
}

// Pop removes and returns the highest-priority live entry.
func (q *Queue) Pop() (Entry, bool) {
	for len(q.heap) > 0 {
		e := heap.Pop(&q.heap).(Entry)
		if !q.isLive(e) {
			q.stale++
			continue
		}
		delete(q.current, e.Address)
		return e, true
	}
	return Entry{}, false
}

// Peek returns the highest-priority live entry without removing it.
// Stale entries at the top are discarded along the way.
func (q *Queue) Peek() (Entry, bool) {
	for len(q.heap) > 0 {
		if e := q.heap[0]; q.isLive(e) {
			return e, true
		}
		heap.Pop(&q.heap)
		q.stale++
	}
	return Entry{}, false
}

func (q *Queue) isLive(e Entry) bool {
	live, ok := q.current[e.Address]
	return ok && live.generation == e.Generation
}

// Remove drops addr from the queue. It reports whether addr was queued.
func (q *Queue) Remove(addr cubesphere.ChunkAddress) bool {
	if _, ok := q.current[addr]; !ok {
		return false
	}
	delete(q.current, addr)
	return true
}

// Contains reports whether addr is queued.
func (q *Queue) Contains(addr cubesphere.ChunkAddress) bool {
	_, ok := q.current[addr]
	return ok
}

// Priority returns addr's current priority.
func (q *Queue) Priority(addr cubesphere.ChunkAddress) (float64, bool) {
	live, ok := q.current[addr]
	return live.priority, ok
}

// Len returns the number of live entries.
func (q *Queue) Len() int {
	return len(q.current)
}

// IsEmpty reports whether no live entries remain.
func (q *Queue) IsEmpty() bool {
	return len(q.current) == 0
}

// Clear drops every entry. Generations keep counting up.
func (q *Queue) Clear() {
	q.heap = q.heap[:0]
	clear(q.current)
}

// Compact rebuilds the heap from live entries only.
func (q *Queue) Compact() {
	live := q.heap[:0]
	for _, e := range q.heap {
		if q.isLive(e) {
			live = append(live, e)
		} else {
			q.stale++
		}
	}
	clear(q.heap[len(live):])
	q.heap = live
	heap.Init(&q.heap)
}

// Stats reports the live count, raw heap size and stale entries dropped so far.
func (q *Queue) Stats() Stats {
	return Stats{Live: len(q.current), HeapSize: len(q.heap), StaleDiscarded: q.stale}
}
