package keyspace

import (
	"regexp"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/edisdb/edis/lib/store"
)

// internalReceiveCmd is MOVE's second leg: a synthetic command the
// source actor sends into the destination actor's own queue (via
// runInternal) so the destination's serialization is never bypassed.
// Never issued by an external dispatcher.
const internalReceiveCmd = "__RECEIVE__"

func (a *Actor) execKeys(cmd command, now time.Time) (any, error) {
	args := cmd.Args
	switch cmd.Cmd {
	case "DEL":
		return a.keyDel(args, now)
	case "EXISTS":
		return a.keyExists(args, now)
	case "EXPIRE":
		return a.keyExpire(args, now, false)
	case "EXPIREAT":
		return a.keyExpire(args, now, true)
	case "PERSIST":
		return a.keyPersist(args, now)
	case "KEYS":
		return a.keyKeys(args, now)
	case "MOVE":
		return a.keyMove(args, now)
	case "RANDOMKEY":
		return a.keyRandom(now)
	case "RENAME":
		return a.keyRename(args, now, false)
	case "RENAMENX":
		return a.keyRename(args, now, true)
	case "TTL":
		return a.keyTTL(args, now)
	case "TYPE":
		return a.keyType(args, now)
	case "OBJECT":
		return a.keyObject(args, now)
	case internalReceiveCmd:
		return a.keyReceive(args, now)
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

func (a *Actor) keyDel(args [][]byte, now time.Time) (any, error) {
	var count int64
	for _, key := range args {
		exists, err := existsItem(a.store, key)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		if err := deleteItem(a.store, key); err != nil {
			return nil, err
		}
		count++
		a.stamp(key, now)
	}
	return count, nil
}

func (a *Actor) keyExists(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	_, found, err := getItem(a.store, AnyType(), key, now)
	if err != nil {
		if Is(err, ErrWrongType) {
			a.stamp(key, now)
			return true, nil
		}
		return nil, err
	}
	a.stamp(key, now)
	return found, nil
}

// keyExpire implements EXPIRE (seconds relative to now) and EXPIREAT
// (absolute unix seconds). A deadline at or before now deletes the key
// immediately. Returns true iff a key was actually affected.
func (a *Actor) keyExpire(args [][]byte, now time.Time, absolute bool) (any, error) {
	key := args[0]
	n, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}

	var deadline time.Time
	if absolute {
		deadline = time.Unix(n, 0)
	} else {
		deadline = now.Add(time.Duration(n) * time.Second)
	}

	_, found, err := getItem(a.store, AnyType(), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return false, nil
	}

	if !deadline.After(now) {
		if err := deleteItem(a.store, key); err != nil {
			return nil, err
		}
		a.stamp(key, now)
		return true, nil
	}

	_, err = updateRequired(a.store, key, AnyType(), now, func(it *Item) (any, *Item, bool, error) {
		it.Expire = deadline
		return nil, it, false, nil
	})
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return true, nil
}

func (a *Actor) keyPersist(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, AnyType(), key, now)
	if err != nil {
		return nil, err
	}
	if !found || !it.HasExpire() {
		return false, nil
	}
	it.Expire = time.Time{}
	if err := putItem(a.store, it); err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return true, nil
}

// keyKeys implements KEYS pattern: a POSIX-style regex scan over the
// whole shard, excluding lazily-expired entries.
func (a *Actor) keyKeys(args [][]byte, now time.Time) (any, error) {
	re, err := regexp.Compile(string(args[0]))
	if err != nil {
		return nil, NewError(ErrBadPattern)
	}

	var result [][]byte
	err = a.store.FoldKeys(func(key []byte) error {
		if !re.Match(key) {
			return nil
		}
		_, found, ferr := getItem(a.store, AnyType(), key, now)
		if ferr != nil && !Is(ferr, ErrWrongType) {
			return ferr
		}
		if found || Is(ferr, ErrWrongType) {
			result = append(result, append([]byte{}, key...))
		}
		return nil
	}, store.FoldOptions{})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Actor) keyRandom(now time.Time) (any, error) {
	key, found, err := a.randomKey(now)
	if err != nil {
		return nil, err
	}
	if !found {
		return []byte(nil), nil
	}
	return key, nil
}

// keyRename implements RENAME/RENAMENX: read source, optionally reject
// if destination exists (NX), write destination, delete source. Fails
// with no_such_key if the source is missing.
func (a *Actor) keyRename(args [][]byte, now time.Time, nx bool) (any, error) {
	src, dst := args[0], args[1]
	it, found, err := getItem(a.store, AnyType(), src, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(ErrNoSuchKey)
	}

	if nx {
		dstExists, derr := existsItem(a.store, dst)
		if derr != nil {
			return nil, derr
		}
		if dstExists {
			return false, nil
		}
	}

	renamed := &Item{Key: dst, Type: it.Type, Encoding: it.Encoding, Expire: it.Expire,
		Str: it.Str, Hash: it.Hash, List: it.List, Set: it.Set, ZSet: it.ZSet}
	if err := putItem(a.store, renamed); err != nil {
		return nil, err
	}
	if err := deleteItem(a.store, src); err != nil {
		return nil, err
	}
	a.stamp(src, now)
	a.stamp(dst, now)
	if nx {
		return true, nil
	}
	return nil, nil
}

func (a *Actor) keyTTL(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, AnyType(), key, now)
	if err != nil {
		return nil, err
	}
	if !found || !it.HasExpire() {
		return int64(-1), nil
	}
	remaining := int64(it.Expire.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (a *Actor) keyType(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, AnyType(), key, now)
	if err != nil {
		if Is(err, ErrWrongType) {
			return "none", nil
		}
		return nil, err
	}
	if !found {
		return "none", nil
	}
	return it.Type.String(), nil
}

// keyObject implements OBJECT REFCOUNT|ENCODING|IDLETIME.
func (a *Actor) keyObject(args [][]byte, now time.Time) (any, error) {
	sub, key := string(args[0]), args[1]
	it, found, err := getItem(a.store, AnyType(), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, NewError(ErrNoSuchKey)
	}
	switch sub {
	case "REFCOUNT":
		return int64(1), nil
	case "ENCODING":
		return it.Encoding.String(), nil
	case "IDLETIME":
		return a.idleTime(key, now), nil
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

// keyMove implements cross-actor MOVE: read source, synchronously hand
// the item to the destination actor's own queue, delete the source on
// success, compensate by deleting the already-written destination
// record if anything downstream fails.
func (a *Actor) keyMove(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	destIdx, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	if a.router == nil {
		return nil, NewError(ErrUnexpectedRequest)
	}
	dest, ok := a.router.Actor(int(destIdx))
	if !ok {
		return nil, NewError(ErrUnexpectedRequest)
	}
	if dest == a {
		return false, nil
	}

	it, found, err := getItem(a.store, AnyType(), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return false, nil
	}

	raw, err := encodeItem(it)
	if err != nil {
		return nil, storageErr(err)
	}

	res := dest.runInternal(command{Cmd: internalReceiveCmd, Args: [][]byte{key, raw}})
	if res.IsError() {
		if res.ErrKind == string(ErrFound) {
			return false, nil
		}
		return nil, WrapError(ErrKind(res.ErrKind), errors.Newf("move: destination: %s", res.ErrMsg))
	}

	if err := deleteItem(a.store, key); err != nil {
		// compensate: the destination already has the key, remove it
		// again so MOVE never duplicates data across shards.
		dest.runInternal(command{Cmd: "DEL", Args: [][]byte{key}})
		return nil, err
	}
	a.stamp(key, now)
	return true, nil
}

// keyReceive is the destination side of keyMove: fails with error(found)
// if the key already exists here, otherwise writes the raw item as-is.
func (a *Actor) keyReceive(args [][]byte, now time.Time) (any, error) {
	key, raw := args[0], args[1]
	exists, err := existsItem(a.store, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewError(ErrFound)
	}
	it, err := decodeItem(key, raw)
	if err != nil {
		return nil, storageErr(err)
	}
	if err := putItem(a.store, it); err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return nil, nil
}
