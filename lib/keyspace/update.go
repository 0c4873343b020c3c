package keyspace

import (
	"time"

	"github.com/edisdb/edis/lib/store"
)

// updateFn is the read-modify-write step passed to the update helpers. It
// receives the current item (already type- and expiry-checked) and
// returns a reply fragment for the caller plus either a replacement item
// or del=true meaning "this item is now empty; delete key instead of
// writing it back".
type updateFn func(it *Item) (reply any, next *Item, del bool, err error)

// updateRequired implements the first update() variant: fails with
// error(not_found) if key is absent. Used by commands that only make
// sense on an existing key (e.g. EXPIRE).
func updateRequired(eng store.Engine, key []byte, expected ExpectedType, now time.Time, fn updateFn) (any, error) {
	it, found, err := getItem(eng, expected, key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(ErrNotFound)
	}
	return applyUpdate(eng, key, it, fn)
}

// updateOrDefault implements the second update() variant: when key is
// absent, returns defaultOnAbsent unchanged and performs no write.
func updateOrDefault(eng store.Engine, key []byte, expected ExpectedType, now time.Time, fn updateFn, defaultOnAbsent any) (any, error) {
	it, found, err := getItem(eng, expected, key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return defaultOnAbsent, nil
	}
	return applyUpdate(eng, key, it, fn)
}

// newItemFn builds the fresh Item used when updateOrCreate finds no
// existing record. typ/enc are applied by updateOrCreate itself.
type newItemFn func() *Item

// updateOrCreate implements the third update() variant: when key is
// absent, constructs a fresh Item{key,type,encoding,value=default} and
// applies fn to it as if it had just been read.
func updateOrCreate(eng store.Engine, key []byte, typ ValueType, enc Encoding, now time.Time, fn updateFn, makeDefault newItemFn) (any, error) {
	it, found, err := getItem(eng, Typed(typ), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		it = makeDefault()
		it.Key = key
		it.Type = typ
		it.Encoding = enc
	}
	return applyUpdate(eng, key, it, fn)
}

func applyUpdate(eng store.Engine, key []byte, it *Item, fn updateFn) (any, error) {
	reply, next, del, err := fn(it)
	if err != nil {
		return nil, err
	}
	if del {
		if err := deleteItem(eng, key); err != nil {
			return nil, err
		}
		return reply, nil
	}

	if next == nil {
		next = it
	}
	// Empty aggregate containers are never persisted.
	if isEmptyContainer(next) {
		if err := deleteItem(eng, key); err != nil {
			return nil, err
		}
		return reply, nil
	}

	if err := putItem(eng, next); err != nil {
		return nil, err
	}
	return reply, nil
}

func isEmptyContainer(it *Item) bool {
	switch it.Type {
	case TypeHash:
		return len(it.Hash) == 0
	case TypeList:
		return len(it.List) == 0
	case TypeSet:
		return len(it.Set) == 0
	case TypeZSet:
		return it.ZSet == nil || it.ZSet.Len() == 0
	default:
		return false
	}
}
