package keyspace

import (
	"bytes"
	"testing"
)

func TestListPushPop(t *testing.T) {
	a := newTestActor(t)

	res := mustOK(t, a, "RPUSH", b("l"), b("a"), b("b"), b("c"))
	if res.Value.(int64) != 3 {
		t.Fatalf("RPUSH len = %d, want 3", res.Value)
	}
	res = mustOK(t, a, "LPUSH", b("l"), b("z"))
	if res.Value.(int64) != 4 {
		t.Fatalf("LPUSH len = %d, want 4", res.Value)
	}

	res = mustOK(t, a, "LRANGE", b("l"), b("0"), b("-1"))
	want := [][]byte{b("z"), b("a"), b("b"), b("c")}
	got := res.Value.([][]byte)
	if len(got) != len(want) {
		t.Fatalf("LRANGE = %v, want %v", got, want)
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Fatalf("LRANGE[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	popRes := mustOK(t, a, "LPOP", b("l"))
	if !bytes.Equal(popRes.Value.([]byte), b("z")) {
		t.Fatalf("LPOP = %q, want z", popRes.Value)
	}
	popRes = mustOK(t, a, "RPOP", b("l"))
	if !bytes.Equal(popRes.Value.([]byte), b("c")) {
		t.Fatalf("RPOP = %q, want c", popRes.Value)
	}
}

func TestListPushXOnMissingKey(t *testing.T) {
	a := newTestActor(t)
	res := mustOK(t, a, "LPUSHX", b("missing"), b("v"))
	if res.Value.(int64) != 0 {
		t.Fatal("LPUSHX on a missing key should be a no-op")
	}
	res = mustOK(t, a, "EXISTS", b("missing"))
	if res.Value.(bool) != false {
		t.Fatal("LPUSHX must not create the key")
	}
}

func TestListPopEmptiesKey(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("only"))
	mustOK(t, a, "LPOP", b("l"))

	res := mustOK(t, a, "EXISTS", b("l"))
	if res.Value.(bool) != false {
		t.Fatal("popping the last element should delete the key")
	}
}

func TestListIndexAndLen(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"), b("b"), b("c"))

	res := mustOK(t, a, "LINDEX", b("l"), b("1"))
	if !bytes.Equal(res.Value.([]byte), b("b")) {
		t.Fatalf("LINDEX(1) = %q, want b", res.Value)
	}
	res = mustOK(t, a, "LINDEX", b("l"), b("-1"))
	if !bytes.Equal(res.Value.([]byte), b("c")) {
		t.Fatalf("LINDEX(-1) = %q, want c", res.Value)
	}
	res = mustOK(t, a, "LLEN", b("l"))
	if res.Value.(int64) != 3 {
		t.Fatalf("LLEN = %d, want 3", res.Value)
	}
}

func TestListInsert(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"), b("c"))

	res := mustOK(t, a, "LINSERT", b("l"), b("BEFORE"), b("c"), b("b"))
	if res.Value.(int64) != 3 {
		t.Fatalf("LINSERT len = %d, want 3", res.Value)
	}
	res = mustOK(t, a, "LRANGE", b("l"), b("0"), b("-1"))
	got := res.Value.([][]byte)
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if string(got[i]) != w {
			t.Fatalf("LRANGE = %v, want %v", got, want)
		}
	}
}

func TestListRem(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"), b("b"), b("a"), b("c"), b("a"))

	res := mustOK(t, a, "LREM", b("l"), b("2"), b("a"))
	if res.Value.(int64) != 2 {
		t.Fatalf("LREM count = %d, want 2", res.Value)
	}
	res = mustOK(t, a, "LRANGE", b("l"), b("0"), b("-1"))
	got := res.Value.([][]byte)
	want := []string{"b", "c", "a"}
	if len(got) != len(want) {
		t.Fatalf("LRANGE after LREM = %v, want %v", got, want)
	}
	for i, w := range want {
		if string(got[i]) != w {
			t.Fatalf("LRANGE[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestListSet(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"), b("b"))
	mustOK(t, a, "LSET", b("l"), b("0"), b("z"))

	res := mustOK(t, a, "LINDEX", b("l"), b("0"))
	if !bytes.Equal(res.Value.([]byte), b("z")) {
		t.Fatalf("LINDEX(0) after LSET = %q, want z", res.Value)
	}
}

func TestListSetOutOfRange(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"))
	wantErr(t, a, ErrOutOfRange, "LSET", b("l"), b("5"), b("z"))
}

func TestListTrim(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"), b("b"), b("c"), b("d"))
	mustOK(t, a, "LTRIM", b("l"), b("1"), b("2"))

	res := mustOK(t, a, "LRANGE", b("l"), b("0"), b("-1"))
	got := res.Value.([][]byte)
	if len(got) != 2 || string(got[0]) != "b" || string(got[1]) != "c" {
		t.Fatalf("LRANGE after LTRIM = %v, want [b c]", got)
	}
}

func TestListRangeEndBeforeStart(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"), b("b"), b("c"))

	res := mustOK(t, a, "LRANGE", b("l"), b("0"), b("-100"))
	got := res.Value.([][]byte)
	if len(got) != 1 || string(got[0]) != "a" {
		t.Fatalf("LRANGE with end clamped below 0 = %v, want [a]", got)
	}
}

func TestListRPopLPush(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("src"), b("a"), b("b"), b("c"))

	res := mustOK(t, a, "RPOPLPUSH", b("src"), b("dst"))
	if !bytes.Equal(res.Value.([]byte), b("c")) {
		t.Fatalf("RPOPLPUSH moved value = %q, want c", res.Value)
	}
	res = mustOK(t, a, "LRANGE", b("dst"), b("0"), b("-1"))
	got := res.Value.([][]byte)
	if len(got) != 1 || string(got[0]) != "c" {
		t.Fatalf("LRANGE(dst) = %v, want [c]", got)
	}
}
