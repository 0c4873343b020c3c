package keyspace

import (
	"strconv"
	"time"
)

// execString dispatches the string-family commands. now gates expiry
// for every read through getItem/update.
func (a *Actor) execString(cmd command, now time.Time) (any, error) {
	args := cmd.Args
	switch cmd.Cmd {
	case "GET":
		return a.strGet(args, now)
	case "APPEND":
		return a.strAppend(args, now)
	case "GETRANGE":
		return a.strGetRange(args, now)
	case "GETSET":
		return a.strGetSet(args, now)
	case "GETBIT":
		return a.strGetBit(args, now)
	case "SET":
		return a.strSet(args, now)
	case "SETEX":
		return a.strSetEx(args, now)
	case "SETNX":
		return a.strSetNX(args, now)
	case "MSET":
		return a.strMSet(args, now)
	case "MSETNX":
		return a.strMSetNX(args, now)
	case "SETRANGE":
		return a.strSetRange(args, now)
	case "SETBIT":
		return a.strSetBit(args, now)
	case "STRLEN":
		return a.strLen(args, now)
	case "INCR":
		return a.strIncrBy(args[0], 1, now)
	case "INCRBY":
		n, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		return a.strIncrBy(args[0], n, now)
	case "DECR":
		return a.strIncrBy(args[0], -1, now)
	case "DECRBY":
		n, err := parseInt(args[1])
		if err != nil {
			return nil, err
		}
		return a.strIncrBy(args[0], -n, now)
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

func parseInt(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, NewError(ErrNotInteger)
	}
	return n, nil
}

func (a *Actor) strGet(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeString), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	a.stamp(key, now)
	return append([]byte{}, it.Str...), nil
}

func (a *Actor) strAppend(args [][]byte, now time.Time) (any, error) {
	key, suffix := args[0], args[1]
	reply, err := updateOrCreate(a.store, key, TypeString, EncodingRaw, now,
		func(it *Item) (any, *Item, bool, error) {
			it.Str = append(it.Str, suffix...)
			return int64(len(it.Str)), it, false, nil
		},
		func() *Item { return &Item{Str: []byte{}} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) strGetRange(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	start, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	end, err := parseInt(args[2])
	if err != nil {
		return nil, err
	}
	it, found, err := getItem(a.store, Typed(TypeString), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return []byte{}, nil
	}
	a.stamp(key, now)
	s, e := normalizeRange(start, end, len(it.Str))
	if s > e {
		return []byte{}, nil
	}
	return append([]byte{}, it.Str[s:e+1]...), nil
}

// normalizeRange implements GETRANGE's negative-index normalization,
// also reused by LRANGE/LTRIM over list length.
func normalizeRange(start, end int64, length int) (int, int) {
	if length <= 0 {
		return 0, -1
	}
	n := int64(length)
	if start < 0 {
		start += n
	}
	if start >= n {
		return 0, -1
	}
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end += n
	}
	if end >= n {
		end = n - 1
	}
	if end < 0 {
		end = 0
	}
	return int(start), int(end)
}

func (a *Actor) strGetSet(args [][]byte, now time.Time) (any, error) {
	key, value := args[0], args[1]
	reply, err := updateOrCreate(a.store, key, TypeString, EncodingRaw, now,
		func(it *Item) (any, *Item, bool, error) {
			old := it.Str
			it.Str = append([]byte{}, value...)
			it.Expire = time.Time{}
			return old, it, false, nil
		},
		func() *Item { return &Item{Str: []byte{}} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	if reply == nil {
		return []byte(nil), nil
	}
	return reply, nil
}

func (a *Actor) strGetBit(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	offset, err := parseInt(args[1])
	if err != nil || offset < 0 {
		return nil, NewError(ErrOutOfRange)
	}
	it, found, err := getItem(a.store, Typed(TypeString), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}
	a.stamp(key, now)
	byteIdx := int(offset / 8)
	if byteIdx >= len(it.Str) {
		return int64(0), nil
	}
	bitIdx := uint(7 - offset%8)
	return int64((it.Str[byteIdx] >> bitIdx) & 1), nil
}

func (a *Actor) strSet(args [][]byte, now time.Time) (any, error) {
	key, value := args[0], args[1]
	_, err := updateOrCreate(a.store, key, TypeString, EncodingRaw, now,
		func(it *Item) (any, *Item, bool, error) {
			it.Str = append([]byte{}, value...)
			it.Expire = time.Time{}
			return nil, it, false, nil
		},
		func() *Item { return &Item{} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return nil, nil
}

func (a *Actor) strSetEx(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	seconds, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	value := args[2]
	_, err = updateOrCreate(a.store, key, TypeString, EncodingRaw, now,
		func(it *Item) (any, *Item, bool, error) {
			it.Str = append([]byte{}, value...)
			it.Expire = now.Add(time.Duration(seconds) * time.Second)
			return nil, it, false, nil
		},
		func() *Item { return &Item{} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return nil, nil
}

func (a *Actor) strSetNX(args [][]byte, now time.Time) (any, error) {
	key, value := args[0], args[1]
	exists, err := existsItem(a.store, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return false, nil
	}
	if err := putItem(a.store, &Item{Key: key, Type: TypeString, Encoding: EncodingRaw, Str: append([]byte{}, value...)}); err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return true, nil
}

func (a *Actor) strMSet(args [][]byte, now time.Time) (any, error) {
	for i := 0; i+1 < len(args); i += 2 {
		key, value := args[i], args[i+1]
		if err := putItem(a.store, &Item{Key: key, Type: TypeString, Encoding: EncodingRaw, Str: append([]byte{}, value...)}); err != nil {
			return nil, err
		}
		a.stamp(key, now)
	}
	return nil, nil
}

// strMSetNX is all-or-nothing: a no-op if any target key already
// exists.
func (a *Actor) strMSetNX(args [][]byte, now time.Time) (any, error) {
	for i := 0; i < len(args); i += 2 {
		exists, err := existsItem(a.store, args[i])
		if err != nil {
			return nil, err
		}
		if exists {
			return false, nil
		}
	}
	for i := 0; i+1 < len(args); i += 2 {
		key, value := args[i], args[i+1]
		if err := putItem(a.store, &Item{Key: key, Type: TypeString, Encoding: EncodingRaw, Str: append([]byte{}, value...)}); err != nil {
			return nil, err
		}
		a.stamp(key, now)
	}
	return true, nil
}

func (a *Actor) strSetRange(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	offset, err := parseInt(args[1])
	if err != nil || offset < 0 {
		return nil, NewError(ErrOutOfRange)
	}
	patch := args[2]
	reply, err := updateOrCreate(a.store, key, TypeString, EncodingRaw, now,
		func(it *Item) (any, *Item, bool, error) {
			needed := int(offset) + len(patch)
			if len(it.Str) < needed {
				grown := make([]byte, needed)
				copy(grown, it.Str)
				it.Str = grown
			}
			copy(it.Str[offset:], patch)
			return int64(len(it.Str)), it, false, nil
		},
		func() *Item { return &Item{Str: []byte{}} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

// strSetBit sets the bit at offset to the new value, leaving every
// other bit unchanged.
func (a *Actor) strSetBit(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	offset, err := parseInt(args[1])
	if err != nil || offset < 0 {
		return nil, NewError(ErrOutOfRange)
	}
	bitVal, err := parseInt(args[2])
	if err != nil || (bitVal != 0 && bitVal != 1) {
		return nil, NewError(ErrOutOfRange)
	}

	reply, err := updateOrCreate(a.store, key, TypeString, EncodingRaw, now,
		func(it *Item) (any, *Item, bool, error) {
			byteIdx := int(offset / 8)
			if len(it.Str) <= byteIdx {
				grown := make([]byte, byteIdx+1)
				copy(grown, it.Str)
				it.Str = grown
			}
			bitIdx := uint(7 - offset%8)
			old := (it.Str[byteIdx] >> bitIdx) & 1
			if bitVal == 1 {
				it.Str[byteIdx] |= 1 << bitIdx
			} else {
				it.Str[byteIdx] &^= 1 << bitIdx
			}
			return int64(old), it, false, nil
		},
		func() *Item { return &Item{Str: []byte{}} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) strLen(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeString), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}
	a.stamp(key, now)
	return int64(len(it.Str)), nil
}

// strIncrBy implements INCR/INCRBY/DECR/DECRBY: a missing key starts
// from "0"; the stored value must parse as a signed integer or the
// call fails with not_integer.
func (a *Actor) strIncrBy(key []byte, delta int64, now time.Time) (any, error) {
	reply, err := updateOrCreate(a.store, key, TypeString, EncodingInt, now,
		func(it *Item) (any, *Item, bool, error) {
			var cur int64
			if len(it.Str) > 0 {
				n, perr := strconv.ParseInt(string(it.Str), 10, 64)
				if perr != nil {
					return nil, nil, false, NewError(ErrNotInteger)
				}
				cur = n
			}
			cur += delta
			it.Str = []byte(strconv.FormatInt(cur, 10))
			return cur, it, false, nil
		},
		func() *Item { return &Item{Str: []byte{}} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}
