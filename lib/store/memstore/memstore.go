// Package memstore implements store.Engine as an in-memory tree ordered by
// github.com/google/btree. It backs the keyspace actor's unit tests and
// anywhere else a fast, disposable store is preferable to a real pebble
// database on disk.
//
// A sharded map with a lock per shard would help if callers raced each
// other, but they don't: the keyspace actor already serializes every
// command against a shard, so a single unsharded tree under one mutex
// (guarding against concurrent test harnesses, not the actor itself) is
// simpler and just as correct.
package memstore

import (
	"bytes"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/btree"

	"github.com/edisdb/edis/lib/store"
)

type item struct {
	key   []byte
	value []byte
}

func (a item) Less(b btree.Item) bool {
	return bytes.Compare(a.key, b.(item).key) < 0
}

// Engine is a store.Engine backed by an in-memory B-tree. Nothing is
// persisted: Open ignores path and createIfMissing beyond bookkeeping for
// Destroy, and Close discards the tree.
type Engine struct {
	mu   sync.Mutex
	tree *btree.BTree
	path string
}

// New creates an unopened Engine. Call Open before use.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) Open(path string, createIfMissing bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree = btree.New(32)
	e.path = path
	return nil
}

func (e *Engine) Get(key []byte) ([]byte, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	found := e.tree.Get(item{key: key})
	if found == nil {
		return nil, false, nil
	}
	v := found.(item).value
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (e *Engine) Put(key, value []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.put(key, value)
	return nil
}

func (e *Engine) put(key, value []byte) {
	k := make([]byte, len(key))
	copy(k, key)
	v := make([]byte, len(value))
	copy(v, value)
	e.tree.ReplaceOrInsert(item{key: k, value: v})
}

func (e *Engine) Delete(key []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree.Delete(item{key: key})
	return nil
}

func (e *Engine) Write(batch store.Batch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, op := range batch.Ops {
		switch op.Kind {
		case store.OpPut:
			e.put(op.Key, op.Value)
		case store.OpDelete:
			e.tree.Delete(item{key: op.Key})
		}
	}
	return nil
}

func (e *Engine) IsEmpty() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.Len() == 0, nil
}

func (e *Engine) Fold(fn func(key, value []byte) error, opts store.FoldOptions) error {
	return e.fold(opts, func(it item) error { return fn(it.key, it.value) })
}

func (e *Engine) FoldKeys(fn func(key []byte) error, opts store.FoldOptions) error {
	return e.fold(opts, func(it item) error { return fn(it.key) })
}

func (e *Engine) fold(opts store.FoldOptions, visit func(item) error) error {
	e.mu.Lock()
	snapshot := make([]item, 0, e.tree.Len())
	e.tree.Ascend(func(bi btree.Item) bool {
		snapshot = append(snapshot, bi.(item))
		return true
	})
	e.mu.Unlock()

	if opts.Reverse {
		for i, j := 0, len(snapshot)-1; i < j; i, j = i+1, j-1 {
			snapshot[i], snapshot[j] = snapshot[j], snapshot[i]
		}
	}

	visited := 0
	for _, it := range snapshot {
		if opts.LowerBound != nil && bytes.Compare(it.key, opts.LowerBound) < 0 {
			continue
		}
		if opts.UpperBound != nil && bytes.Compare(it.key, opts.UpperBound) >= 0 {
			continue
		}
		if opts.Limit > 0 && visited >= opts.Limit {
			break
		}
		if err := visit(it); err != nil {
			if errors.Is(err, store.ErrStop) {
				return nil
			}
			return err
		}
		visited++
	}
	return nil
}

func (e *Engine) Status(property string) (string, error) {
	return "", nil
}

func (e *Engine) Destroy(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree = btree.New(32)
	return os.RemoveAll(path)
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tree = nil
	return nil
}
