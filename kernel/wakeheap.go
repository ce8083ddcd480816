package kernel

import "container/heap"

// wake is a single scheduled resumption of a process.
//
// Ordering: time -> sequence. Sequence is assigned at registration time,
// so two wakes requested at the same virtual instant fire in the order
// they were requested, matching the FIFO-at-equal-time guarantee in the
// kernel's concurrency contract.
type wake struct {
	time float64
	seq  uint64
	proc *Process
}

// wakeHeap implements a priority queue of pending wakeups with
// deterministic ordering: time, then sequence.
//
// Adapted from the teacher's cluster.EventHeap (timestamp -> type
// priority -> event ID); here there is no event-type priority tier
// because a kernel wake has no type, only a requesting process.
type wakeHeap struct {
	items []*wake
}

func (h *wakeHeap) Len() int { return len(h.items) }

func (h *wakeHeap) Less(i, j int) bool {
	wi, wj := h.items[i], h.items[j]
	if wi.time != wj.time {
		return wi.time < wj.time
	}
	return wi.seq < wj.seq
}

func (h *wakeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *wakeHeap) Push(x any) { h.items = append(h.items, x.(*wake)) }

func (h *wakeHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[0 : n-1]
	return item
}

func newWakeHeap() *wakeHeap {
	h := &wakeHeap{items: make([]*wake, 0)}
	heap.Init(h)
	return h
}

func (h *wakeHeap) schedule(w *wake) { heap.Push(h, w) }

func (h *wakeHeap) popNext() *wake {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*wake)
}
