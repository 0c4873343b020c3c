package keyspace

import (
	"bytes"
	"testing"
)

func TestStringSetGet(t *testing.T) {
	a := newTestActor(t)

	mustOK(t, a, "SET", b("k"), b("v1"))
	res := mustOK(t, a, "GET", b("k"))
	if !bytes.Equal(res.Value.([]byte), b("v1")) {
		t.Fatalf("GET = %q, want v1", res.Value)
	}

	mustOK(t, a, "SET", b("k"), b("v2"))
	res = mustOK(t, a, "GET", b("k"))
	if !bytes.Equal(res.Value.([]byte), b("v2")) {
		t.Fatalf("GET after overwrite = %q, want v2", res.Value)
	}
}

func TestStringGetMissing(t *testing.T) {
	a := newTestActor(t)
	res := mustOK(t, a, "GET", b("missing"))
	if res.Value != nil {
		t.Fatalf("GET(missing) = %v, want nil", res.Value)
	}
}

func TestStringAppend(t *testing.T) {
	a := newTestActor(t)
	res := mustOK(t, a, "APPEND", b("k"), b("hello"))
	if res.Value.(int64) != 5 {
		t.Fatalf("APPEND len = %d, want 5", res.Value)
	}
	res = mustOK(t, a, "APPEND", b("k"), b(" world"))
	if res.Value.(int64) != 11 {
		t.Fatalf("APPEND len = %d, want 11", res.Value)
	}
	res = mustOK(t, a, "GET", b("k"))
	if !bytes.Equal(res.Value.([]byte), b("hello world")) {
		t.Fatalf("GET = %q, want 'hello world'", res.Value)
	}
}

func TestStringSetNX(t *testing.T) {
	a := newTestActor(t)
	res := mustOK(t, a, "SETNX", b("k"), b("v1"))
	if res.Value.(bool) != true {
		t.Fatal("SETNX on missing key should return true")
	}
	res = mustOK(t, a, "SETNX", b("k"), b("v2"))
	if res.Value.(bool) != false {
		t.Fatal("SETNX on existing key should return false")
	}
	res = mustOK(t, a, "GET", b("k"))
	if !bytes.Equal(res.Value.([]byte), b("v1")) {
		t.Fatal("SETNX should not overwrite an existing key")
	}
}

func TestStringMSetMSetNX(t *testing.T) {
	a := newTestActor(t)

	mustOK(t, a, "MSET", b("a"), b("1"), b("b"), b("2"))
	res := mustOK(t, a, "GET", b("a"))
	if !bytes.Equal(res.Value.([]byte), b("1")) {
		t.Fatalf("GET(a) = %q, want 1", res.Value)
	}

	res = mustOK(t, a, "MSETNX", b("a"), b("9"), b("c"), b("3"))
	if res.Value.(bool) != false {
		t.Fatal("MSETNX should fail when any target key already exists")
	}
	res = mustOK(t, a, "GET", b("c"))
	if res.Value != nil {
		t.Fatal("MSETNX should be all-or-nothing: c must not have been written")
	}

	res = mustOK(t, a, "MSETNX", b("d"), b("4"), b("e"), b("5"))
	if res.Value.(bool) != true {
		t.Fatal("MSETNX on entirely fresh keys should succeed")
	}
}

func TestStringIncrDecr(t *testing.T) {
	a := newTestActor(t)

	res := mustOK(t, a, "INCR", b("counter"))
	if res.Value.(int64) != 1 {
		t.Fatalf("INCR on missing key = %d, want 1", res.Value)
	}
	res = mustOK(t, a, "INCRBY", b("counter"), b("10"))
	if res.Value.(int64) != 11 {
		t.Fatalf("INCRBY = %d, want 11", res.Value)
	}
	res = mustOK(t, a, "DECR", b("counter"))
	if res.Value.(int64) != 10 {
		t.Fatalf("DECR = %d, want 10", res.Value)
	}
	res = mustOK(t, a, "DECRBY", b("counter"), b("4"))
	if res.Value.(int64) != 6 {
		t.Fatalf("DECRBY = %d, want 6", res.Value)
	}
}

func TestStringIncrNonInteger(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("k"), b("not-a-number"))
	wantErr(t, a, ErrNotInteger, "INCR", b("k"))
}

func TestStringGetRange(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("k"), b("Hello World"))

	res := mustOK(t, a, "GETRANGE", b("k"), b("0"), b("4"))
	if !bytes.Equal(res.Value.([]byte), b("Hello")) {
		t.Fatalf("GETRANGE = %q, want Hello", res.Value)
	}
	res = mustOK(t, a, "GETRANGE", b("k"), b("-5"), b("-1"))
	if !bytes.Equal(res.Value.([]byte), b("World")) {
		t.Fatalf("GETRANGE negative = %q, want World", res.Value)
	}
}

func TestStringGetRangeEndBeforeStart(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("foo"), b("Hello World"))

	res := mustOK(t, a, "GETRANGE", b("foo"), b("0"), b("-100"))
	if !bytes.Equal(res.Value.([]byte), b("H")) {
		t.Fatalf("GETRANGE with end clamped below 0 = %q, want H", res.Value)
	}
}

func TestStringSetRangeGrowsValue(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SETRANGE", b("k"), b("5"), b("World"))
	res := mustOK(t, a, "GET", b("k"))
	want := append(make([]byte, 5), []byte("World")...)
	if !bytes.Equal(res.Value.([]byte), want) {
		t.Fatalf("SETRANGE result = %q, want %q", res.Value, want)
	}
}

func TestStringBits(t *testing.T) {
	a := newTestActor(t)

	res := mustOK(t, a, "SETBIT", b("k"), b("7"), b("1"))
	if res.Value.(int64) != 0 {
		t.Fatalf("SETBIT old value = %d, want 0", res.Value)
	}
	res = mustOK(t, a, "GETBIT", b("k"), b("7"))
	if res.Value.(int64) != 1 {
		t.Fatalf("GETBIT = %d, want 1", res.Value)
	}
	res = mustOK(t, a, "GETBIT", b("k"), b("6"))
	if res.Value.(int64) != 0 {
		t.Fatalf("GETBIT(6) = %d, want 0", res.Value)
	}
}

func TestStringStrLen(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "SET", b("k"), b("hello"))
	res := mustOK(t, a, "STRLEN", b("k"))
	if res.Value.(int64) != 5 {
		t.Fatalf("STRLEN = %d, want 5", res.Value)
	}
	res = mustOK(t, a, "STRLEN", b("missing"))
	if res.Value.(int64) != 0 {
		t.Fatalf("STRLEN(missing) = %d, want 0", res.Value)
	}
}

func TestStringWrongType(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "LPUSH", b("k"), b("v"))
	wantErr(t, a, ErrWrongType, "GET", b("k"))
}
