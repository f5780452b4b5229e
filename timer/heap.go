package timer

import (
	"github.com/godyy/gutils/container/heap"
)

// heapQueue 最小堆, arm/cancel为O(log n). 游标规则与sortedList相同
type heapQueue struct {
	timers *heap.Heap[*Timer]
	cursor Tick
	firing bool
}

func newHeapQueue() *heapQueue {
	return &heapQueue{
		timers: heap.NewHeap[*Timer](),
	}
}

func (h *heapQueue) Insert(t *Timer, now Tick) {
	if h.timers.Len() == 0 && !h.firing && now > h.cursor {
		h.cursor = now
	}
	t.due = max(t.tick, h.cursor)
	h.timers.Push(t)
}

func (h *heapQueue) Remove(t *Timer) {
	if t.heapIndex < 0 || t.heapIndex >= h.timers.Len() {
		return
	}
	h.timers.Remove(t.heapIndex)
	t.heapIndex = -1
}

func (h *heapQueue) Expire(now Tick, fire func(t *Timer)) {
	h.firing = true
	defer func() {
		h.firing = false
	}()
	for h.timers.Len() > 0 {
		t := h.timers.Top()
		if t.due > now {
			if now >= h.cursor {
				h.cursor = now + 1
			}
			return
		}
		h.cursor = t.due + 1
		h.timers.Remove(0)
		t.heapIndex = -1
		fire(t)
	}
	if now > h.cursor {
		h.cursor = now
	}
}

func (h *heapQueue) Issue() (Tick, bool) {
	if h.timers.Len() == 0 {
		return 0, false
	}
	return h.timers.Top().due, true
}

func (h *heapQueue) Len() int {
	return h.timers.Len()
}
