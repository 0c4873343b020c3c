// Package store defines the ordered key-value store the keyspace actor
// treats as an external collaborator: something that durably orders and
// persists raw bytes, with no notion of Redis types, TTLs or encoding.
// Everything above that line - codecs, expiry, command semantics - lives
// in lib/keyspace and talks to an Engine through this package's interface
// alone.
//
// Two engines implement it:
//
//   - pstore: an embedded LSM store backed by github.com/cockroachdb/pebble.
//     This is the production engine; data survives a restart.
//
//   - memstore: an in-memory engine ordered by github.com/google/btree.
//     Used by actor unit tests and anywhere a fast, disposable store is
//     useful. It keeps a single unsharded tree under one mutex: the
//     keyspace actor already serializes every mutation, so no per-shard
//     locking is needed.
package store

import "fmt"

// OpKind distinguishes the operations inside a Batch.
type OpKind uint8

const (
	OpPut OpKind = iota
	OpDelete
)

// BatchOp is one write inside a Batch.
type BatchOp struct {
	Kind  OpKind
	Key   []byte
	Value []byte // unused for OpDelete
}

// Batch is an ordered list of writes applied atomically by Engine.Write.
type Batch struct {
	Ops []BatchOp
}

// Put appends a Put op to the batch.
func (b *Batch) Put(key, value []byte) {
	b.Ops = append(b.Ops, BatchOp{Kind: OpPut, Key: key, Value: value})
}

// Delete appends a Delete op to the batch.
func (b *Batch) Delete(key []byte) {
	b.Ops = append(b.Ops, BatchOp{Kind: OpDelete, Key: key})
}

// Len reports how many ops are queued.
func (b *Batch) Len() int { return len(b.Ops) }

// FoldOptions bounds a Fold/FoldKeys traversal to a key range and/or a
// maximum number of visited entries. A nil LowerBound or UpperBound means
// unbounded in that direction; UpperBound is exclusive. Limit <= 0 means
// unbounded.
type FoldOptions struct {
	LowerBound []byte
	UpperBound []byte
	Limit      int
	Reverse    bool
}

// ErrStop is returned by a Fold/FoldKeys callback to stop iteration early
// without that being reported as a failure.
var ErrStop = fmt.Errorf("store: fold stopped")

// Engine is the ordered key-value store abstraction every command handler
// ultimately reads from and writes to, through the keyspace actor.
//
// All methods except Open/Close/Destroy may be called concurrently by
// multiple goroutines - today that's only ever the single actor goroutine
// per shard, but nothing in this interface assumes that.
type Engine interface {
	// Open opens (and, if createIfMissing, creates) the store rooted at
	// path. Must be called before any other method, and again after
	// Close/Destroy to reuse the engine (as FLUSHDB does).
	Open(path string, createIfMissing bool) error

	// Get returns the value stored for key. found is false if key is
	// absent. The returned slice is safe to retain.
	Get(key []byte) (value []byte, found bool, err error)

	// Put inserts or overwrites key with value.
	Put(key, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error

	// Write applies every op in batch atomically.
	Write(batch Batch) error

	// IsEmpty reports whether the store currently holds zero keys.
	IsEmpty() (bool, error)

	// Fold visits every (key, value) pair within opts' bounds in key
	// order (or reverse key order if opts.Reverse), calling fn for each.
	// Returning ErrStop from fn ends iteration early without propagating
	// an error from Fold itself; any other error aborts and is returned.
	Fold(fn func(key, value []byte) error, opts FoldOptions) error

	// FoldKeys is Fold without materializing values, for callers (e.g.
	// KEYS, DBSIZE, RANDOMKEY) that only need key order.
	FoldKeys(fn func(key []byte) error, opts FoldOptions) error

	// Status returns engine-specific diagnostic text for property (e.g.
	// an LSM level summary). Implementations may support only a subset
	// of properties and return an empty string for the rest.
	Status(property string) (string, error)

	// Destroy removes all on-disk state at path. The engine must be
	// closed first.
	Destroy(path string) error

	// Close releases resources held by the engine. Safe to call on an
	// engine that was never Open'd.
	Close() error
}
