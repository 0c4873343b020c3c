package keyspace

import (
	"bytes"
	"time"
)

// execList dispatches the list-family commands, including the three
// blocking variants (BLPOP, BRPOP, BRPOPLPUSH).
func (a *Actor) execList(req *request, now time.Time) (any, error) {
	cmd := req.cmd
	args := cmd.Args
	switch cmd.Cmd {
	case "LPUSH":
		return a.pushSide(args, now, true, false)
	case "RPUSH":
		return a.pushSide(args, now, false, false)
	case "LPUSHX":
		return a.pushSide(args, now, true, true)
	case "RPUSHX":
		return a.pushSide(args, now, false, true)
	case "LPOP":
		return a.popSide(args[0], now, true)
	case "RPOP":
		return a.popSide(args[0], now, false)
	case "LINDEX":
		return a.listIndex(args, now)
	case "LINSERT":
		return a.listInsert(args, now)
	case "LLEN":
		return a.listLen(args, now)
	case "LRANGE":
		return a.listRange(args, now)
	case "LTRIM":
		return a.listTrim(args, now)
	case "LREM":
		return a.listRem(args, now)
	case "LSET":
		return a.listSet(args, now)
	case "RPOPLPUSH":
		v, err := a.rpoplpushTry(args[0], args[1], now)
		return v, err
	case "BLPOP":
		return a.blockingPop(req, now, true)
	case "BRPOP":
		return a.blockingPop(req, now, false)
	case "BRPOPLPUSH":
		return a.blockingRPopLPush(req, now)
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

func keyStrings(keys [][]byte) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

// writeback persists it under key via the shared update helper so
// update.go's empty-container deletion stays in one place.
func (a *Actor) writeback(key []byte, it *Item) error {
	_, err := applyUpdate(a.store, key, it, func(*Item) (any, *Item, bool, error) {
		return nil, it, false, nil
	})
	return err
}

func (a *Actor) pushSide(args [][]byte, now time.Time, left, failIfAbsent bool) (any, error) {
	key := args[0]
	values := args[1:]

	if failIfAbsent {
		exists, err := existsItem(a.store, key)
		if err != nil {
			return nil, err
		}
		if !exists {
			return int64(0), nil
		}
	}

	reply, err := updateOrCreate(a.store, key, TypeList, EncodingLinkedList, now,
		func(it *Item) (any, *Item, bool, error) {
			for _, v := range values {
				nv := append([]byte{}, v...)
				if left {
					it.List = append([][]byte{nv}, it.List...)
				} else {
					it.List = append(it.List, nv)
				}
			}
			return int64(len(it.List)), it, false, nil
		},
		func() *Item { return &Item{} },
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	a.registry.onPush(a, string(key), now)
	return reply, nil
}

// tryPopSide is the non-blocking core shared by LPOP/RPOP and the
// blocking variants' retries: error(not_found) means "nothing to give".
func (a *Actor) tryPopSide(key []byte, now time.Time, left bool) (any, error) {
	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(ErrNotFound)
	}
	return applyUpdate(a.store, key, it, func(it *Item) (any, *Item, bool, error) {
		var v []byte
		if left {
			v, it.List = it.List[0], it.List[1:]
		} else {
			n := len(it.List) - 1
			v, it.List = it.List[n], it.List[:n]
		}
		return v, it, false, nil
	})
}

func (a *Actor) popSide(key []byte, now time.Time, left bool) (any, error) {
	v, err := a.tryPopSide(key, now, left)
	if err != nil {
		if Is(err, ErrNotFound) {
			return []byte(nil), nil
		}
		return nil, err
	}
	a.stamp(key, now)
	return v, nil
}

func (a *Actor) listIndex(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	idx, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return []byte(nil), nil
	}
	a.stamp(key, now)
	n := int64(len(it.List))
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return []byte(nil), nil
	}
	return append([]byte{}, it.List[idx]...), nil
}

// listInsert implements LINSERT key BEFORE|AFTER pivot value.
func (a *Actor) listInsert(args [][]byte, now time.Time) (any, error) {
	key, where, pivot, value := args[0], string(args[1]), args[2], args[3]
	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}

	pos := -1
	for i, v := range it.List {
		if bytes.Equal(v, pivot) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return int64(-1), nil
	}
	insertAt := pos
	if where == "AFTER" {
		insertAt = pos + 1
	}

	newList := make([][]byte, 0, len(it.List)+1)
	newList = append(newList, it.List[:insertAt]...)
	newList = append(newList, append([]byte{}, value...))
	newList = append(newList, it.List[insertAt:]...)
	it.List = newList

	if err := a.writeback(key, it); err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return int64(len(it.List)), nil
}

func (a *Actor) listLen(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}
	a.stamp(key, now)
	return int64(len(it.List)), nil
}

func (a *Actor) listRange(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	start, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	end, err := parseInt(args[2])
	if err != nil {
		return nil, err
	}
	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return [][]byte{}, nil
	}
	a.stamp(key, now)
	s, e := normalizeRange(start, end, len(it.List))
	if s > e {
		return [][]byte{}, nil
	}
	out := make([][]byte, 0, e-s+1)
	for i := s; i <= e; i++ {
		out = append(out, append([]byte{}, it.List[i]...))
	}
	return out, nil
}

func (a *Actor) listTrim(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	start, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	end, err := parseInt(args[2])
	if err != nil {
		return nil, err
	}
	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	s, e := normalizeRange(start, end, len(it.List))
	if s > e {
		it.List = nil
	} else {
		it.List = append([][]byte{}, it.List[s:e+1]...)
	}
	if err := a.writeback(key, it); err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return nil, nil
}

// listRem implements LREM count value: count>0 removes the first count
// matches scanning head->tail, count<0 the last |count| scanning
// tail->head, count=0 removes every match.
func (a *Actor) listRem(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	count, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	value := args[2]

	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}

	var removed int64
	var kept [][]byte

	if count >= 0 {
		limit := count
		for _, v := range it.List {
			if (limit == 0 || removed < limit) && bytes.Equal(v, value) {
				removed++
				continue
			}
			kept = append(kept, v)
		}
	} else {
		limit := -count
		for i := len(it.List) - 1; i >= 0; i-- {
			v := it.List[i]
			if removed < limit && bytes.Equal(v, value) {
				removed++
				continue
			}
			kept = append([][]byte{v}, kept...)
		}
	}

	it.List = kept
	if err := a.writeback(key, it); err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return removed, nil
}

func (a *Actor) listSet(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	idx, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	value := args[2]

	it, found, err := getItem(a.store, Typed(TypeList), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(ErrNoSuchKey)
	}
	n := int64(len(it.List))
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return nil, NewError(ErrOutOfRange)
	}
	it.List[idx] = append([]byte{}, value...)
	if err := a.writeback(key, it); err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return nil, nil
}

// rpoplpushTry is RPOPLPUSH's non-blocking core, shared with
// BRPOPLPUSH's retry: atomically moves tail(src) to head(dst); a
// self-move rotates in place. Returns error(not_found) if src is empty.
func (a *Actor) rpoplpushTry(src, dst []byte, now time.Time) (any, error) {
	srcIt, found, err := getItem(a.store, Typed(TypeList), src, now)
	if err != nil {
		return nil, err
	}
	if !found || len(srcIt.List) == 0 {
		return nil, NewError(ErrNotFound)
	}

	n := len(srcIt.List) - 1
	v := srcIt.List[n]
	srcIt.List = srcIt.List[:n]

	if bytes.Equal(src, dst) {
		srcIt.List = append([][]byte{v}, srcIt.List...)
		if err := a.writeback(src, srcIt); err != nil {
			return nil, err
		}
		a.stamp(src, now)
		a.registry.onPush(a, string(src), now)
		return v, nil
	}

	if err := a.writeback(src, srcIt); err != nil {
		return nil, err
	}

	_, err = updateOrCreate(a.store, dst, TypeList, EncodingLinkedList, now,
		func(it *Item) (any, *Item, bool, error) {
			it.List = append([][]byte{append([]byte{}, v...)}, it.List...)
			return nil, it, false, nil
		},
		func() *Item { return &Item{} },
	)
	if err != nil {
		return nil, err
	}

	a.stamp(src, now)
	a.stamp(dst, now)
	a.registry.onPush(a, string(dst), now)
	return v, nil
}

// blockingPop implements BLPOP/BRPOP: try every key in order, reply
// immediately on the first hit (clearing the caller's own stale waiters
// on these keys), otherwise park on every key with cmd.Expire as the
// deadline (nil means never time out).
func (a *Actor) blockingPop(req *request, now time.Time, left bool) (any, error) {
	keys := req.cmd.Args

	for _, key := range keys {
		v, err := a.tryPopSide(key, now, left)
		if err != nil {
			if Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		a.stamp(key, now)
		a.registry.removeWaitersForCaller(req.caller, keyStrings(keys))
		return []any{append([]byte{}, key...), v}, nil
	}

	var deadline time.Time
	hasDeadline := req.cmd.Expire != nil
	if hasDeadline {
		deadline = *req.cmd.Expire
	}
	retry := func(a *Actor, now time.Time) (any, error) {
		for _, key := range keys {
			v, err := a.tryPopSide(key, now, left)
			if err != nil {
				if Is(err, ErrNotFound) {
					continue
				}
				return nil, err
			}
			a.stamp(key, now)
			return []any{append([]byte{}, key...), v}, nil
		}
		return nil, NewError(ErrNotFound)
	}
	a.registry.park(req.caller, keyStrings(keys), hasDeadline, deadline, retry, req.reply)
	return suspended, nil
}

// blockingRPopLPush implements BRPOPLPUSH: try RPOPLPUSH once, park on
// src alone if it comes back not_found.
func (a *Actor) blockingRPopLPush(req *request, now time.Time) (any, error) {
	src, dst := req.cmd.Args[0], req.cmd.Args[1]

	v, err := a.rpoplpushTry(src, dst, now)
	if err == nil {
		a.registry.removeWaitersForCaller(req.caller, []string{string(src)})
		return v, nil
	}
	if !Is(err, ErrNotFound) {
		return nil, err
	}

	var deadline time.Time
	hasDeadline := req.cmd.Expire != nil
	if hasDeadline {
		deadline = *req.cmd.Expire
	}
	retry := func(a *Actor, now time.Time) (any, error) {
		return a.rpoplpushTry(src, dst, now)
	}
	a.registry.park(req.caller, []string{string(src)}, hasDeadline, deadline, retry, req.reply)
	return suspended, nil
}
