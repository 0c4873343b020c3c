package keyspace

import (
	"testing"
)

func TestZSetAddCardScore(t *testing.T) {
	a := newTestActor(t)

	res := mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"))
	if res.Value.(int64) != 2 {
		t.Fatalf("ZADD added = %d, want 2", res.Value)
	}
	res = mustOK(t, a, "ZCARD", b("z"))
	if res.Value.(int64) != 2 {
		t.Fatalf("ZCARD = %d, want 2", res.Value)
	}
	res = mustOK(t, a, "ZSCORE", b("z"), b("a"))
	if string(res.Value.([]byte)) != "1" {
		t.Fatalf("ZSCORE(a) = %q, want 1", res.Value)
	}
	res = mustOK(t, a, "ZSCORE", b("z"), b("missing"))
	if res.Value != nil {
		t.Fatalf("ZSCORE(missing) = %v, want nil", res.Value)
	}
}

func TestZSetAddUpdatesExistingMember(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"))
	res := mustOK(t, a, "ZADD", b("z"), b("5"), b("a"))
	if res.Value.(int64) != 0 {
		t.Fatalf("ZADD on an existing member = %d, want 0 new", res.Value)
	}
	score := mustOK(t, a, "ZSCORE", b("z"), b("a"))
	if string(score.Value.([]byte)) != "5" {
		t.Fatalf("ZSCORE(a) after update = %q, want 5", score.Value)
	}
}

func TestZSetIncrBy(t *testing.T) {
	a := newTestActor(t)
	res := mustOK(t, a, "ZINCRBY", b("z"), b("5"), b("a"))
	if res.Value.(float64) != 5 {
		t.Fatalf("ZINCRBY on missing member = %v, want 5", res.Value)
	}
	res = mustOK(t, a, "ZINCRBY", b("z"), b("-2"), b("a"))
	if res.Value.(float64) != 3 {
		t.Fatalf("ZINCRBY = %v, want 3", res.Value)
	}
}

func TestZSetCount(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"), b("3"), b("c"))

	res := mustOK(t, a, "ZCOUNT", b("z"), b("1"), b("2"))
	if res.Value.(int64) != 2 {
		t.Fatalf("ZCOUNT[1,2] = %d, want 2", res.Value)
	}
	res = mustOK(t, a, "ZCOUNT", b("z"), b("(1"), b("3"))
	if res.Value.(int64) != 2 {
		t.Fatalf("ZCOUNT((1,3] = %d, want 2", res.Value)
	}
	res = mustOK(t, a, "ZCOUNT", b("z"), b("-inf"), b("+inf"))
	if res.Value.(int64) != 3 {
		t.Fatalf("ZCOUNT[-inf,+inf] = %d, want 3", res.Value)
	}
}

func TestZSetRange(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"), b("3"), b("c"))

	res := mustOK(t, a, "ZRANGE", b("z"), b("0"), b("-1"))
	got := res.Value.([][]byte)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("ZRANGE = %v, want %v", got, want)
	}
	for i, w := range want {
		if string(got[i]) != w {
			t.Fatalf("ZRANGE[%d] = %q, want %q", i, got[i], w)
		}
	}

	res = mustOK(t, a, "ZREVRANGE", b("z"), b("0"), b("0"))
	got = res.Value.([][]byte)
	if len(got) != 1 || string(got[0]) != "c" {
		t.Fatalf("ZREVRANGE top = %v, want [c]", got)
	}
}

func TestZSetRangeEndBeforeStart(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"), b("3"), b("c"))

	res := mustOK(t, a, "ZRANGE", b("z"), b("0"), b("-100"))
	got := res.Value.([][]byte)
	if len(got) != 1 || string(got[0]) != "a" {
		t.Fatalf("ZRANGE with end clamped below 0 = %v, want [a]", got)
	}
}

func TestZSetRangeWithScores(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"))

	res := mustOK(t, a, "ZRANGE", b("z"), b("0"), b("-1"), b("WITHSCORES"))
	got := res.Value.([][]byte)
	if len(got) != 4 {
		t.Fatalf("ZRANGE WITHSCORES len = %d, want 4", len(got))
	}
	if string(got[0]) != "a" || string(got[1]) != "1" {
		t.Fatalf("ZRANGE WITHSCORES[0:2] = %v, want [a 1]", got[:2])
	}
}

func TestZSetRangeByScore(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"), b("3"), b("c"))

	res := mustOK(t, a, "ZRANGEBYSCORE", b("z"), b("2"), b("+inf"))
	got := res.Value.([][]byte)
	if len(got) != 2 || string(got[0]) != "b" || string(got[1]) != "c" {
		t.Fatalf("ZRANGEBYSCORE[2,+inf] = %v, want [b c]", got)
	}
}

func TestZSetRank(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"), b("3"), b("c"))

	res := mustOK(t, a, "ZRANK", b("z"), b("b"))
	if res.Value.(int64) != 1 {
		t.Fatalf("ZRANK(b) = %d, want 1", res.Value)
	}
	res = mustOK(t, a, "ZREVRANK", b("z"), b("b"))
	if res.Value.(int64) != 1 {
		t.Fatalf("ZREVRANK(b) = %d, want 1", res.Value)
	}
	res = mustOK(t, a, "ZRANK", b("z"), b("missing"))
	if res.Value != nil {
		t.Fatalf("ZRANK(missing) = %v, want nil", res.Value)
	}
}

func TestZSetRemEmptiesKey(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"))

	res := mustOK(t, a, "ZREM", b("z"), b("a"))
	if res.Value.(int64) != 1 {
		t.Fatalf("ZREM count = %d, want 1", res.Value)
	}
	existsRes := mustOK(t, a, "EXISTS", b("z"))
	if existsRes.Value.(bool) != false {
		t.Fatal("removing the last member should delete the zset key")
	}
}

func TestZSetRemRangeByRank(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"), b("3"), b("c"))

	res := mustOK(t, a, "ZREMRANGEBYRANK", b("z"), b("0"), b("1"))
	if res.Value.(int64) != 2 {
		t.Fatalf("ZREMRANGEBYRANK removed = %d, want 2", res.Value)
	}
	res = mustOK(t, a, "ZRANGE", b("z"), b("0"), b("-1"))
	got := res.Value.([][]byte)
	if len(got) != 1 || string(got[0]) != "c" {
		t.Fatalf("ZRANGE after ZREMRANGEBYRANK = %v, want [c]", got)
	}
}

func TestZSetRemRangeByScore(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z"), b("1"), b("a"), b("2"), b("b"), b("3"), b("c"))

	res := mustOK(t, a, "ZREMRANGEBYSCORE", b("z"), b("-inf"), b("2"))
	if res.Value.(int64) != 2 {
		t.Fatalf("ZREMRANGEBYSCORE removed = %d, want 2", res.Value)
	}
}

func TestZSetInterStore(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("z1"), b("1"), b("a"), b("2"), b("b"))
	mustOK(t, a, "ZADD", b("z2"), b("10"), b("b"), b("10"), b("c"))

	res := mustOK(t, a, "ZINTERSTORE", b("dest"), b("2"), b("z1"), b("z2"))
	if res.Value.(int64) != 1 {
		t.Fatalf("ZINTERSTORE card = %d, want 1", res.Value)
	}
	score := mustOK(t, a, "ZSCORE", b("dest"), b("b"))
	if string(score.Value.([]byte)) != "12" {
		t.Fatalf("ZINTERSTORE summed score = %q, want 12", score.Value)
	}
}

func TestZSetUnionStoreEmptyDeletesDest(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "ZADD", b("dest"), b("1"), b("placeholder"))
	mustOK(t, a, "ZREM", b("dest"), b("placeholder"))

	res := mustOK(t, a, "ZUNIONSTORE", b("dest"), b("2"), b("empty1"), b("empty2"))
	if res.Value.(int64) != 0 {
		t.Fatalf("ZUNIONSTORE of two missing keys = %d, want 0", res.Value)
	}
	existsRes := mustOK(t, a, "EXISTS", b("dest"))
	if existsRes.Value.(bool) != false {
		t.Fatal("ZUNIONSTORE with an empty result should delete the destination key")
	}
}

func TestZSetWrongType(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("k"), b("v"))
	wantErr(t, a, ErrWrongType, "ZCARD", b("k"))
}
