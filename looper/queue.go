package looper

import (
	"container/heap"
	"time"
)

// task is a posted unit of work.
type task struct {
	fn   func()
	when time.Duration // virtual time the task becomes due
	seq  uint64        // submission order, breaks ties on when
}

// taskHeap orders tasks by (when, seq), so tasks due at the same time run in
// submission order.
type taskHeap []task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].when != h[j].when {
		return h[i].when < h[j].when
	}
	return h[i].seq < h[j].seq
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = task{} // release the closure
	*h = old[:n-1]
	return t
}

// push adds a task.
//
// CALLER MUST HOLD THE LOOPER MUTEX.
func (h *taskHeap) push(t task) {
	heap.Push(h, t)
}

// peek returns the next task without removing it.
//
// CALLER MUST HOLD THE LOOPER MUTEX.
func (h *taskHeap) peek() (task, bool) {
	if len(*h) == 0 {
		return task{}, false
	}
	return (*h)[0], true
}

// popDue removes and returns the next task if it is due at or before limit.
//
// CALLER MUST HOLD THE LOOPER MUTEX.
func (h *taskHeap) popDue(limit time.Duration) (task, bool) {
	t, ok := h.peek()
	if !ok || t.when > limit {
		return task{}, false
	}
	return heap.Pop(h).(task), true
}

// last returns the latest scheduled time in the heap.
//
// CALLER MUST HOLD THE LOOPER MUTEX.
func (h taskHeap) last() (time.Duration, bool) {
	if len(h) == 0 {
		return 0, false
	}
	latest := h[0].when
	for _, t := range h[1:] {
		if t.when > latest {
			latest = t.when
		}
	}
	return latest, true
}

// reset drops every task.
//
// CALLER MUST HOLD THE LOOPER MUTEX.
func (h *taskHeap) reset() {
	clear(*h)
	*h = (*h)[:0]
}
