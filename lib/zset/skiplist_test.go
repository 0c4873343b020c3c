package zset

import (
	"reflect"
	"testing"
)

func b(s string) []byte { return []byte(s) }

func TestAddAndScore(t *testing.T) {
	s := New()
	if !s.Add(b("a"), 1) {
		t.Fatal("expected a to be newly added")
	}
	if s.Add(b("a"), 2) {
		t.Fatal("re-adding existing member should not report new")
	}
	score, ok := s.Score(b("a"))
	if !ok || score != 2 {
		t.Fatalf("Score(a) = (%v, %v), want (2, true)", score, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestRemove(t *testing.T) {
	s := New()
	s.Add(b("a"), 1)
	s.Add(b("b"), 2)

	if !s.Remove(b("a")) {
		t.Fatal("Remove(a) should succeed")
	}
	if s.Remove(b("a")) {
		t.Fatal("Remove(a) twice should report false")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if _, ok := s.Score(b("a")); ok {
		t.Fatal("a should no longer be present")
	}
}

func TestRankTieBreakByMember(t *testing.T) {
	s := New()
	s.Add(b("c"), 1)
	s.Add(b("a"), 1)
	s.Add(b("b"), 1)

	// equal scores break ties lexicographically by member
	if got := s.Rank(b("a"), false); got != 0 {
		t.Errorf("Rank(a) = %d, want 0", got)
	}
	if got := s.Rank(b("b"), false); got != 1 {
		t.Errorf("Rank(b) = %d, want 1", got)
	}
	if got := s.Rank(b("c"), false); got != 2 {
		t.Errorf("Rank(c) = %d, want 2", got)
	}
	if got := s.Rank(b("c"), true); got != 0 {
		t.Errorf("reverse Rank(c) = %d, want 0", got)
	}
}

func TestRangeAscendingOrder(t *testing.T) {
	s := New()
	s.Add(b("a"), 1)
	s.Add(b("b"), 2)
	s.Add(b("c"), 3)

	got := s.Range(0, -1+s.Len(), false)
	want := []Member{{b("a"), 1}, {b("b"), 2}, {b("c"), 3}}
	assertMembers(t, got, want)

	got = s.Range(0, s.Len()-1, true)
	want = []Member{{b("c"), 3}, {b("b"), 2}, {b("a"), 1}}
	assertMembers(t, got, want)
}

func TestRangeByScoreBounds(t *testing.T) {
	s := New()
	s.Add(b("a"), 1)
	s.Add(b("b"), 2)
	s.Add(b("c"), 3)

	got := s.RangeByScore(Bound{Value: 1}, Bound{Value: 2}, false, 0, -1)
	want := []Member{{b("a"), 1}, {b("b"), 2}}
	assertMembers(t, got, want)

	got = s.RangeByScore(Bound{Value: 1, Exclusive: true}, Bound{Value: 3}, false, 0, -1)
	want = []Member{{b("b"), 2}, {b("c"), 3}}
	assertMembers(t, got, want)

	got = s.RangeByScore(Inf(-1), Inf(1), false, 0, -1)
	want = []Member{{b("a"), 1}, {b("b"), 2}, {b("c"), 3}}
	assertMembers(t, got, want)

	got = s.RangeByScore(Inf(-1), Inf(1), true, 0, -1)
	want = []Member{{b("c"), 3}, {b("b"), 2}, {b("a"), 1}}
	assertMembers(t, got, want)
}

func TestRangeByScoreMissing(t *testing.T) {
	s := New()
	got := s.RangeByScore(Inf(-1), Inf(1), false, 0, -1)
	if len(got) != 0 {
		t.Fatalf("expected empty range for empty set, got %v", got)
	}
}

func TestCount(t *testing.T) {
	s := New()
	s.Add(b("a"), 1)
	s.Add(b("b"), 2)
	s.Add(b("c"), 3)

	if got := s.Count(Bound{Value: 1}, Bound{Value: 2}); got != 2 {
		t.Errorf("Count(1,2) = %d, want 2", got)
	}
	if got := s.Count(Inf(-1), Inf(1)); got != 3 {
		t.Errorf("Count(-inf,+inf) = %d, want 3", got)
	}
}

func TestByRank(t *testing.T) {
	s := New()
	for i, m := range []string{"a", "b", "c", "d"} {
		s.Add(b(m), float64(i))
	}

	for rank, want := range []string{"a", "b", "c", "d"} {
		m, ok := s.ByRank(rank, false)
		if !ok || string(m.Member) != want {
			t.Errorf("ByRank(%d) = %v, want %s", rank, m, want)
		}
	}

	m, ok := s.ByRank(0, true)
	if !ok || string(m.Member) != "d" {
		t.Errorf("reverse ByRank(0) = %v, want d", m)
	}

	if _, ok := s.ByRank(100, false); ok {
		t.Error("out-of-range ByRank should report false")
	}
}

func assertMembers(t *testing.T, got, want []Member) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if !reflect.DeepEqual(got[i].Member, want[i].Member) || got[i].Score != want[i].Score {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
