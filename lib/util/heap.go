// Package util provides the DeadlineHeap used by the blocking-op registry
// to find and discard deadline-elapsed waiters without a full key scan.
//
// It combines a binary min-heap ordered by deadline with a hash map keyed
// by waiter id, giving:
//
//   - O(1) to see the next waiter due to expire (PeekMin), O(log n) to
//     remove it (PopMin)
//   - O(1) existence checks by id
//   - O(log n) removal by id, used when a waiter is served or disconnects
//     before its deadline
//
// Not safe for concurrent use; callers serialize access to it themselves
// (the keyspace actor already does, since it owns the registry).
package util

import (
	"container/heap"
)

// deadlineEntry is a single waiter tracked by a DeadlineHeap.
type deadlineEntry struct {
	ID       uint64 // waiter id, unique for the lifetime of the registry
	Deadline int64  // unix nanoseconds; waiters with no deadline are never added
	index    int    // position in the heap, maintained by container/heap
}

// DeadlineHeap is a priority queue of waiters ordered by deadline, with
// O(1) lookup and O(log n) removal by waiter id.
type DeadlineHeap struct {
	entries []*deadlineEntry
	byID    map[uint64]*deadlineEntry
}

// NewDeadlineHeap creates an empty DeadlineHeap.
func NewDeadlineHeap() *DeadlineHeap {
	return &DeadlineHeap{
		entries: make([]*deadlineEntry, 0),
		byID:    make(map[uint64]*deadlineEntry),
	}
}

// Len implements heap.Interface.
func (h *DeadlineHeap) Len() int { return len(h.entries) }

// Less implements heap.Interface: earliest deadline first.
func (h *DeadlineHeap) Less(i, j int) bool {
	return h.entries[i].Deadline < h.entries[j].Deadline
}

// Swap implements heap.Interface.
func (h *DeadlineHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].index = i
	h.entries[j].index = j
}

// Push implements heap.Interface. Use Add instead of calling this directly.
func (h *DeadlineHeap) Push(x interface{}) {
	e := x.(*deadlineEntry)
	e.index = len(h.entries)
	h.entries = append(h.entries, e)
	h.byID[e.ID] = e
}

// Pop implements heap.Interface. Use PopMin instead of calling this directly.
func (h *DeadlineHeap) Pop() interface{} {
	old := h.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	h.entries = old[:n-1]
	delete(h.byID, e.ID)
	return e
}

// Add inserts a waiter with the given id and deadline, or updates its
// deadline if the id is already tracked.
func (h *DeadlineHeap) Add(id uint64, deadline int64) {
	if e, exists := h.byID[id]; exists {
		e.Deadline = deadline
		heap.Fix(h, e.index)
		return
	}
	heap.Push(h, &deadlineEntry{ID: id, Deadline: deadline})
}

// Remove drops the waiter with the given id, if tracked.
func (h *DeadlineHeap) Remove(id uint64) (deadline int64, ok bool) {
	e, exists := h.byID[id]
	if !exists {
		return 0, false
	}
	heap.Remove(h, e.index)
	return e.Deadline, true
}

// PeekMin returns the id and deadline of the waiter due to expire soonest,
// without removing it.
func (h *DeadlineHeap) PeekMin() (id uint64, deadline int64, ok bool) {
	if len(h.entries) == 0 {
		return 0, 0, false
	}
	return h.entries[0].ID, h.entries[0].Deadline, true
}

// PopMin removes and returns the waiter due to expire soonest.
func (h *DeadlineHeap) PopMin() (id uint64, deadline int64, ok bool) {
	if len(h.entries) == 0 {
		return 0, 0, false
	}
	e := heap.Pop(h).(*deadlineEntry)
	return e.ID, e.Deadline, true
}

// Contains reports whether id is currently tracked.
func (h *DeadlineHeap) Contains(id uint64) bool {
	_, exists := h.byID[id]
	return exists
}
