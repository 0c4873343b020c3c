// Package storetest provides a shared conformance suite that any
// store.Engine implementation can run against - no TTLs or write indices
// here, since expiry lives one layer up in the keyspace actor.
package storetest

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/edisdb/edis/lib/store"
)

// Factory creates a fresh, already-open Engine rooted at a unique
// temporary path each time it's called.
type Factory func(t *testing.T) store.Engine

// RunEngineTests runs the full conformance suite against factory under a
// subtest named name.
func RunEngineTests(t *testing.T, name string, factory Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("PutGet", func(t *testing.T) { testPutGet(t, factory(t)) })
		t.Run("Delete", func(t *testing.T) { testDelete(t, factory(t)) })
		t.Run("IsEmpty", func(t *testing.T) { testIsEmpty(t, factory(t)) })
		t.Run("Write", func(t *testing.T) { testWrite(t, factory(t)) })
		t.Run("FoldOrder", func(t *testing.T) { testFoldOrder(t, factory(t)) })
		t.Run("FoldBounds", func(t *testing.T) { testFoldBounds(t, factory(t)) })
		t.Run("FoldStop", func(t *testing.T) { testFoldStop(t, factory(t)) })
		t.Run("FoldKeysOnly", func(t *testing.T) { testFoldKeysOnly(t, factory(t)) })
		t.Run("ConcurrentAccess", func(t *testing.T) { testConcurrentAccess(t, factory(t)) })
	})
}

// TempDir returns a fresh scratch directory for an Engine under test,
// registered for cleanup.
func TempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "edis-storetest-*")
	if err != nil {
		t.Fatalf("creating temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func testPutGet(t *testing.T, e store.Engine) {
	defer e.Close()

	_, found, err := e.Get([]byte("missing"))
	if err != nil || found {
		t.Fatalf("Get(missing) = (found=%v, err=%v), want (false, nil)", found, err)
	}

	if err := e.Put([]byte("k"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, found, err := e.Get([]byte("k"))
	if err != nil || !found || !bytes.Equal(v, []byte("v1")) {
		t.Fatalf("Get(k) = (%q, %v, %v), want (v1, true, nil)", v, found, err)
	}

	if err := e.Put([]byte("k"), []byte("v2")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	v, found, _ = e.Get([]byte("k"))
	if !found || !bytes.Equal(v, []byte("v2")) {
		t.Fatalf("Get(k) after overwrite = %q, want v2", v)
	}
}

func testDelete(t *testing.T, e store.Engine) {
	defer e.Close()

	e.Put([]byte("k"), []byte("v"))
	if err := e.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, found, _ := e.Get([]byte("k"))
	if found {
		t.Fatal("key should be gone after Delete")
	}

	if err := e.Delete([]byte("never-existed")); err != nil {
		t.Fatalf("Delete of absent key should not error: %v", err)
	}
}

func testIsEmpty(t *testing.T, e store.Engine) {
	defer e.Close()

	empty, err := e.IsEmpty()
	if err != nil || !empty {
		t.Fatalf("IsEmpty() = (%v, %v), want (true, nil)", empty, err)
	}

	e.Put([]byte("k"), []byte("v"))
	empty, _ = e.IsEmpty()
	if empty {
		t.Fatal("IsEmpty() should be false after Put")
	}

	e.Delete([]byte("k"))
	empty, _ = e.IsEmpty()
	if !empty {
		t.Fatal("IsEmpty() should be true again after deleting the only key")
	}
}

func testWrite(t *testing.T, e store.Engine) {
	defer e.Close()

	e.Put([]byte("a"), []byte("1"))

	var batch store.Batch
	batch.Put([]byte("a"), []byte("2"))
	batch.Put([]byte("b"), []byte("3"))
	batch.Delete([]byte("missing"))

	if err := e.Write(batch); err != nil {
		t.Fatalf("Write: %v", err)
	}

	v, found, _ := e.Get([]byte("a"))
	if !found || !bytes.Equal(v, []byte("2")) {
		t.Fatalf("Get(a) = %q, want 2", v)
	}
	v, found, _ = e.Get([]byte("b"))
	if !found || !bytes.Equal(v, []byte("3")) {
		t.Fatalf("Get(b) = %q, want 3", v)
	}
}

func testFoldOrder(t *testing.T, e store.Engine) {
	defer e.Close()

	keys := []string{"c", "a", "e", "b", "d"}
	for _, k := range keys {
		e.Put([]byte(k), []byte(k))
	}

	var got []string
	err := e.Fold(func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	}, store.FoldOptions{})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	want := []string{"a", "b", "c", "d", "e"}
	assertStrings(t, got, want)

	got = nil
	err = e.Fold(func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	}, store.FoldOptions{Reverse: true})
	if err != nil {
		t.Fatalf("Fold reverse: %v", err)
	}
	want = []string{"e", "d", "c", "b", "a"}
	assertStrings(t, got, want)
}

func testFoldBounds(t *testing.T, e store.Engine) {
	defer e.Close()

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		e.Put([]byte(k), []byte(k))
	}

	var got []string
	err := e.Fold(func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	}, store.FoldOptions{LowerBound: []byte("b"), UpperBound: []byte("d")})
	if err != nil {
		t.Fatalf("Fold bounded: %v", err)
	}
	// UpperBound is exclusive.
	assertStrings(t, got, []string{"b", "c"})

	got = nil
	err = e.Fold(func(key, value []byte) error {
		got = append(got, string(key))
		return nil
	}, store.FoldOptions{Limit: 2})
	if err != nil {
		t.Fatalf("Fold limited: %v", err)
	}
	assertStrings(t, got, []string{"a", "b"})
}

func testFoldStop(t *testing.T, e store.Engine) {
	defer e.Close()

	for _, k := range []string{"a", "b", "c"} {
		e.Put([]byte(k), []byte(k))
	}

	var got []string
	err := e.Fold(func(key, value []byte) error {
		got = append(got, string(key))
		if string(key) == "b" {
			return store.ErrStop
		}
		return nil
	}, store.FoldOptions{})
	if err != nil {
		t.Fatalf("Fold with ErrStop should not surface an error: %v", err)
	}
	assertStrings(t, got, []string{"a", "b"})
}

func testFoldKeysOnly(t *testing.T, e store.Engine) {
	defer e.Close()

	e.Put([]byte("a"), []byte("value-a"))
	e.Put([]byte("b"), []byte("value-b"))

	var got []string
	err := e.FoldKeys(func(key []byte) error {
		got = append(got, string(key))
		return nil
	}, store.FoldOptions{})
	if err != nil {
		t.Fatalf("FoldKeys: %v", err)
	}
	assertStrings(t, got, []string{"a", "b"})
}

func testConcurrentAccess(t *testing.T, e store.Engine) {
	defer e.Close()

	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := []byte(fmt.Sprintf("w%d-%d", id, i))
				e.Put(key, key)
				e.Get(key)
			}
		}(w)
	}
	wg.Wait()

	empty, err := e.IsEmpty()
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if empty {
		t.Fatal("expected entries after concurrent writes")
	}
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
