package keyspace

import (
	"strconv"
	"time"
)

// execHash dispatches the hash-family commands, all operating on a
// field->value mapping with canonical encoding hashtable.
func (a *Actor) execHash(cmd command, now time.Time) (any, error) {
	args := cmd.Args
	switch cmd.Cmd {
	case "HGET":
		return a.hashGet(args, now)
	case "HSET":
		return a.hashSet(args, now)
	case "HSETNX":
		return a.hashSetNX(args, now)
	case "HMSET":
		return a.hashSet(args, now)
	case "HDEL":
		return a.hashDel(args, now)
	case "HGETALL":
		return a.hashGetAll(args, now)
	case "HINCRBY":
		return a.hashIncrBy(args, now)
	case "HKEYS":
		return a.hashFields(args, now, true)
	case "HVALS":
		return a.hashFields(args, now, false)
	case "HLEN":
		return a.hashLen(args, now)
	case "HEXISTS":
		return a.hashExists(args, now)
	case "HMGET":
		return a.hashMGet(args, now)
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

func newHashItem() *Item { return &Item{Hash: make(map[string][]byte)} }

func (a *Actor) hashGet(args [][]byte, now time.Time) (any, error) {
	key, field := args[0], args[1]
	it, found, err := getItem(a.store, Typed(TypeHash), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return []byte(nil), nil
	}
	a.stamp(key, now)
	val, ok := it.Hash[string(field)]
	if !ok {
		return []byte(nil), nil
	}
	return append([]byte{}, val...), nil
}

// hashSet implements HSET (single field) and HMSET (variadic pairs),
// both returning the number of newly added fields.
func (a *Actor) hashSet(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	pairs := args[1:]
	reply, err := updateOrCreate(a.store, key, TypeHash, EncodingHashTable, now,
		func(it *Item) (any, *Item, bool, error) {
			added := int64(0)
			for i := 0; i+1 < len(pairs); i += 2 {
				field := string(pairs[i])
				if _, existed := it.Hash[field]; !existed {
					added++
				}
				it.Hash[field] = append([]byte{}, pairs[i+1]...)
			}
			return added, it, false, nil
		},
		newHashItem,
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) hashSetNX(args [][]byte, now time.Time) (any, error) {
	key, field, value := args[0], args[1], args[2]
	reply, err := updateOrCreate(a.store, key, TypeHash, EncodingHashTable, now,
		func(it *Item) (any, *Item, bool, error) {
			f := string(field)
			if _, existed := it.Hash[f]; existed {
				return false, it, false, nil
			}
			it.Hash[f] = append([]byte{}, value...)
			return true, it, false, nil
		},
		newHashItem,
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

// hashDel may empty the hash, triggering update.go's empty-container
// deletion via its isEmptyContainer check.
func (a *Actor) hashDel(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	fields := args[1:]
	reply, err := updateOrDefault(a.store, key, Typed(TypeHash), now,
		func(it *Item) (any, *Item, bool, error) {
			var removed int64
			for _, f := range fields {
				if _, ok := it.Hash[string(f)]; ok {
					delete(it.Hash, string(f))
					removed++
				}
			}
			return removed, it, false, nil
		},
		int64(0),
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

// hashGetAll returns the alternating [field, value, ...] flat list in
// map-iteration order (unspecified, but stable within a single call).
func (a *Actor) hashGetAll(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeHash), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return [][]byte{}, nil
	}
	a.stamp(key, now)
	out := make([][]byte, 0, len(it.Hash)*2)
	for f, v := range it.Hash {
		out = append(out, []byte(f), append([]byte{}, v...))
	}
	return out, nil
}

// hashIncrBy creates a missing field with the increment value.
func (a *Actor) hashIncrBy(args [][]byte, now time.Time) (any, error) {
	key, field := args[0], args[1]
	delta, err := parseInt(args[2])
	if err != nil {
		return nil, err
	}
	reply, err := updateOrCreate(a.store, key, TypeHash, EncodingHashTable, now,
		func(it *Item) (any, *Item, bool, error) {
			f := string(field)
			var cur int64
			if existing, ok := it.Hash[f]; ok {
				n, perr := strconv.ParseInt(string(existing), 10, 64)
				if perr != nil {
					return nil, nil, false, NewError(ErrNotInteger)
				}
				cur = n
			}
			cur += delta
			it.Hash[f] = []byte(strconv.FormatInt(cur, 10))
			return cur, it, false, nil
		},
		newHashItem,
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) hashFields(args [][]byte, now time.Time, keys bool) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeHash), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return [][]byte{}, nil
	}
	a.stamp(key, now)
	out := make([][]byte, 0, len(it.Hash))
	for f, v := range it.Hash {
		if keys {
			out = append(out, []byte(f))
		} else {
			out = append(out, append([]byte{}, v...))
		}
	}
	return out, nil
}

func (a *Actor) hashLen(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeHash), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}
	a.stamp(key, now)
	return int64(len(it.Hash)), nil
}

func (a *Actor) hashExists(args [][]byte, now time.Time) (any, error) {
	key, field := args[0], args[1]
	it, found, err := getItem(a.store, Typed(TypeHash), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return false, nil
	}
	a.stamp(key, now)
	_, ok := it.Hash[string(field)]
	return ok, nil
}

func (a *Actor) hashMGet(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	fields := args[1:]
	it, found, err := getItem(a.store, Typed(TypeHash), key, now)
	out := make([][]byte, len(fields))
	if err != nil {
		return nil, err
	}
	if !found {
		return out, nil
	}
	a.stamp(key, now)
	for i, f := range fields {
		if v, ok := it.Hash[string(f)]; ok {
			out[i] = append([]byte{}, v...)
		}
	}
	return out, nil
}
