package pathfinder

import "github.com/nao1215/wikirace/internal/model"

// pathQueue is a FIFO of frontier paths.
// Popped slots are released so long searches don't pin every path ever
// enqueued; the backing slice is compacted once the dead prefix dominates.
type pathQueue struct {
	items []model.Path
	head  int
}

func newPathQueue() *pathQueue {
	return &pathQueue{items: make([]model.Path, 0, 64)}
}

// Push appends p to the tail.
func (q *pathQueue) Push(p model.Path) {
	q.items = append(q.items, p)
}

// Pop removes and returns the head. It must not be called on an empty queue.
func (q *pathQueue) Pop() model.Path {
	p := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return p
}

// Len returns the number of queued paths.
func (q *pathQueue) Len() int {
	return len(q.items) - q.head
}
