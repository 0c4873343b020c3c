// Package pstore implements store.Engine on top of github.com/cockroachdb/pebble,
// an embedded ordered LSM store. This is the production engine: one pebble
// database per shard, rooted at <data_dir>/edis-<index>.
package pstore

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/edisdb/edis/lib/store"
)

// Engine is a store.Engine backed by a single pebble database.
type Engine struct {
	db *pebble.DB
}

// New creates an unopened Engine. Call Open before use.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) Open(path string, createIfMissing bool) error {
	opts := &pebble.Options{
		ErrorIfNotExists: !createIfMissing,
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return errors.Wrapf(err, "pstore: opening %s", path)
	}
	e.db = db
	return nil
}

func (e *Engine) Get(key []byte) ([]byte, bool, error) {
	value, closer, err := e.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "pstore: get")
	}
	out := make([]byte, len(value))
	copy(out, value)
	if cerr := closer.Close(); cerr != nil {
		return nil, false, errors.Wrap(cerr, "pstore: get closer")
	}
	return out, true, nil
}

func (e *Engine) Put(key, value []byte) error {
	if err := e.db.Set(key, value, pebble.Sync); err != nil {
		return errors.Wrap(err, "pstore: put")
	}
	return nil
}

func (e *Engine) Delete(key []byte) error {
	if err := e.db.Delete(key, pebble.Sync); err != nil {
		return errors.Wrap(err, "pstore: delete")
	}
	return nil
}

func (e *Engine) Write(batch store.Batch) error {
	b := e.db.NewBatch()
	defer b.Close()

	for _, op := range batch.Ops {
		var err error
		switch op.Kind {
		case store.OpPut:
			err = b.Set(op.Key, op.Value, nil)
		case store.OpDelete:
			err = b.Delete(op.Key, nil)
		}
		if err != nil {
			return errors.Wrap(err, "pstore: build batch")
		}
	}
	if err := e.db.Apply(b, pebble.Sync); err != nil {
		return errors.Wrap(err, "pstore: apply batch")
	}
	return nil
}

func (e *Engine) IsEmpty() (bool, error) {
	iter := e.db.NewIter(nil)
	defer iter.Close()
	return !iter.First(), nil
}

func (e *Engine) Fold(fn func(key, value []byte) error, opts store.FoldOptions) error {
	return e.fold(opts, func(iter *pebble.Iterator) error {
		return fn(iter.Key(), iter.Value())
	})
}

func (e *Engine) FoldKeys(fn func(key []byte) error, opts store.FoldOptions) error {
	return e.fold(opts, func(iter *pebble.Iterator) error {
		return fn(iter.Key())
	})
}

func (e *Engine) fold(opts store.FoldOptions, visit func(*pebble.Iterator) error) error {
	iter := e.db.NewIter(&pebble.IterOptions{
		LowerBound: opts.LowerBound,
		UpperBound: opts.UpperBound,
	})
	defer iter.Close()

	var valid bool
	if opts.Reverse {
		valid = iter.Last()
	} else {
		valid = iter.First()
	}

	visited := 0
	for valid {
		if opts.Limit > 0 && visited >= opts.Limit {
			break
		}
		if err := visit(iter); err != nil {
			if errors.Is(err, store.ErrStop) {
				return nil
			}
			return err
		}
		visited++
		if opts.Reverse {
			valid = iter.Prev()
		} else {
			valid = iter.Next()
		}
	}
	return iter.Error()
}

func (e *Engine) Status(property string) (string, error) {
	if e.db == nil {
		return "", nil
	}
	switch property {
	case "metrics":
		return e.db.Metrics().String(), nil
	default:
		return "", nil
	}
}

func (e *Engine) Destroy(path string) error {
	if e.db != nil {
		if err := e.Close(); err != nil {
			return err
		}
	}
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, "pstore: destroying %s", path)
	}
	return nil
}

func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	if err != nil {
		return errors.Wrap(err, "pstore: close")
	}
	return nil
}
