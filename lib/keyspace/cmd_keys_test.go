package keyspace

import (
	"sort"
	"testing"

	"github.com/puzpuzpuz/xsync/v3"
)

func TestKeysDelExists(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("a"), b("1"))
	mustOK(t, a, "SET", b("b"), b("2"))

	res := mustOK(t, a, "EXISTS", b("a"))
	if res.Value.(bool) != true {
		t.Fatal("EXISTS(a) should be true")
	}

	res = mustOK(t, a, "DEL", b("a"), b("b"), b("missing"))
	if res.Value.(int64) != 2 {
		t.Fatalf("DEL count = %d, want 2", res.Value)
	}

	res = mustOK(t, a, "EXISTS", b("a"))
	if res.Value.(bool) != false {
		t.Fatal("EXISTS(a) should be false after DEL")
	}
}

func TestKeysExpireAndTTL(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("k"), b("v"))

	res := mustOK(t, a, "TTL", b("k"))
	if res.Value.(int64) != -1 {
		t.Fatalf("TTL on a key with no expiry = %d, want -1", res.Value)
	}

	res = mustOK(t, a, "EXPIRE", b("k"), b("100"))
	if res.Value.(bool) != true {
		t.Fatal("EXPIRE should report true for an existing key")
	}

	res = mustOK(t, a, "TTL", b("k"))
	ttl := res.Value.(int64)
	if ttl <= 0 || ttl > 100 {
		t.Fatalf("TTL = %d, want in (0,100]", ttl)
	}

	res = mustOK(t, a, "PERSIST", b("k"))
	if res.Value.(bool) != true {
		t.Fatal("PERSIST should report true when an expiry was cleared")
	}
	res = mustOK(t, a, "TTL", b("k"))
	if res.Value.(int64) != -1 {
		t.Fatal("TTL should be -1 again after PERSIST")
	}
}

func TestKeysExpireDeletesImmediatelyInThePast(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("k"), b("v"))
	mustOK(t, a, "EXPIRE", b("k"), b("-1"))

	res := mustOK(t, a, "EXISTS", b("k"))
	if res.Value.(bool) != false {
		t.Fatal("a key given a past expiry should be gone immediately")
	}
}

func TestKeysRename(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("src"), b("v"))
	mustOK(t, a, "RENAME", b("src"), b("dst"))

	res := mustOK(t, a, "EXISTS", b("src"))
	if res.Value.(bool) != false {
		t.Fatal("RENAME should remove the source key")
	}
	res = mustOK(t, a, "GET", b("dst"))
	if string(res.Value.([]byte)) != "v" {
		t.Fatalf("GET(dst) = %q, want v", res.Value)
	}
}

func TestKeysRenameMissingSource(t *testing.T) {
	a := newTestActor(t)
	wantErr(t, a, ErrNoSuchKey, "RENAME", b("missing"), b("dst"))
}

func TestKeysRenameNX(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("src"), b("v1"))
	mustOK(t, a, "SET", b("dst"), b("v2"))

	res := mustOK(t, a, "RENAMENX", b("src"), b("dst"))
	if res.Value.(bool) != false {
		t.Fatal("RENAMENX should fail when the destination already exists")
	}
	res = mustOK(t, a, "GET", b("dst"))
	if string(res.Value.([]byte)) != "v2" {
		t.Fatal("RENAMENX should leave an existing destination untouched")
	}
}

func TestKeysType(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("s"), b("v"))
	mustOK(t, a, "LPUSH", b("l"), b("v"))
	mustOK(t, a, "SADD", b("set"), b("v"))

	for key, want := range map[string]string{"s": "string", "l": "list", "set": "set", "missing": "none"} {
		res := mustOK(t, a, "TYPE", b(key))
		if res.Value.(string) != want {
			t.Errorf("TYPE(%s) = %s, want %s", key, res.Value, want)
		}
	}
}

func TestKeysKeysPattern(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("user:1"), b("a"))
	mustOK(t, a, "SET", b("user:2"), b("b"))
	mustOK(t, a, "SET", b("other"), b("c"))

	res := mustOK(t, a, "KEYS", b("^user:"))
	got := res.Value.([][]byte)
	var names []string
	for _, k := range got {
		names = append(names, string(k))
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "user:1" || names[1] != "user:2" {
		t.Fatalf("KEYS(^user:) = %v, want [user:1 user:2]", names)
	}
}

func TestKeysBadPattern(t *testing.T) {
	a := newTestActor(t)
	wantErr(t, a, ErrBadPattern, "KEYS", b("("))
}

func TestKeysObjectIdletime(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("k"), b("v"))

	res := mustOK(t, a, "OBJECT", b("IDLETIME"), b("k"))
	if res.Value.(int64) != 0 {
		t.Fatalf("freshly-stamped key's idletime = %d, want 0", res.Value)
	}
}

func TestKeysMoveAcrossShards(t *testing.T) {
	a1 := newTestActor(t)
	a2 := newTestActor(t)

	// MOVE requires a router that can find the destination actor by
	// index; build one directly rather than going through NewRouter's
	// on-disk shard bootstrap.
	actors := xsync.NewMapOf[int, *Actor]()
	actors.Store(0, a1)
	actors.Store(1, a2)
	a1.router = &Router{actors: actors}

	mustOK(t, a1, "SET", b("k"), b("v"))
	res := mustOK(t, a1, "MOVE", b("k"), b("1"))
	if res.Value.(bool) != true {
		t.Fatal("MOVE should report true on success")
	}

	existsOnSrc := mustOK(t, a1, "EXISTS", b("k"))
	if existsOnSrc.Value.(bool) != false {
		t.Fatal("MOVE should remove the key from the source shard")
	}
	existsOnDst := mustOK(t, a2, "GET", b("k"))
	if string(existsOnDst.Value.([]byte)) != "v" {
		t.Fatal("MOVE should deliver the key to the destination shard")
	}
}
