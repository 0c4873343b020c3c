package util

import (
	"sort"
	"testing"
)

func TestNewDeadlineHeap(t *testing.T) {
	h := NewDeadlineHeap()
	if h.Len() != 0 {
		t.Errorf("new heap should be empty, has length %d", h.Len())
	}
}

func TestDeadlineHeapAdd(t *testing.T) {
	h := NewDeadlineHeap()

	h.Add(1, 100)
	h.Add(2, 200)
	h.Add(3, 50)

	if h.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", h.Len())
	}
	if !h.Contains(1) || !h.Contains(2) || !h.Contains(3) {
		t.Error("heap should contain all added ids")
	}

	id, deadline, ok := h.PeekMin()
	if !ok {
		t.Fatal("PeekMin should return a value")
	}
	if id != 3 || deadline != 50 {
		t.Errorf("expected min (3,50), got (%d,%d)", id, deadline)
	}
}

func TestDeadlineHeapUpdate(t *testing.T) {
	h := NewDeadlineHeap()

	h.Add(1, 100)
	h.Add(2, 200)

	// re-adding the same id updates its deadline in place
	h.Add(1, 300)

	id, deadline, ok := h.PeekMin()
	if !ok || id != 2 || deadline != 200 {
		t.Errorf("expected min (2,200), got (%d,%d)", id, deadline)
	}

	h.Add(2, 50)

	id, deadline, ok = h.PeekMin()
	if !ok || id != 2 || deadline != 50 {
		t.Errorf("expected min (2,50), got (%d,%d)", id, deadline)
	}
}

func TestDeadlineHeapRemove(t *testing.T) {
	h := NewDeadlineHeap()

	h.Add(1, 100)
	h.Add(2, 200)
	h.Add(3, 300)

	deadline, ok := h.Remove(2)
	if !ok || deadline != 200 {
		t.Fatalf("Remove(2) = (%d, %v), want (200, true)", deadline, ok)
	}
	if h.Len() != 2 {
		t.Errorf("expected 2 entries after removal, got %d", h.Len())
	}
	if h.Contains(2) {
		t.Error("heap should not contain removed id")
	}

	if _, ok := h.Remove(99); ok {
		t.Error("Remove of unknown id should report false")
	}
}

func TestDeadlineHeapPopOrder(t *testing.T) {
	h := NewDeadlineHeap()

	entries := []struct {
		id       uint64
		deadline int64
	}{
		{5, 50}, {3, 30}, {1, 10}, {4, 40}, {2, 20},
	}
	for _, e := range entries {
		h.Add(e.id, e.deadline)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].deadline < entries[j].deadline })

	for i, want := range entries {
		if h.Len() == 0 {
			t.Fatalf("heap emptied after %d pops, expected %d", i, len(entries))
		}
		id, deadline, ok := h.PopMin()
		if !ok || id != want.id || deadline != want.deadline {
			t.Errorf("pop %d: want (%d,%d), got (%d,%d)", i, want.id, want.deadline, id, deadline)
		}
	}

	if h.Len() != 0 {
		t.Errorf("heap should be empty, has %d entries", h.Len())
	}
}

func TestDeadlineHeapPeekEmpty(t *testing.T) {
	h := NewDeadlineHeap()
	if _, _, ok := h.PeekMin(); ok {
		t.Error("PeekMin on empty heap should report ok=false")
	}
	if _, _, ok := h.PopMin(); ok {
		t.Error("PopMin on empty heap should report ok=false")
	}
}
