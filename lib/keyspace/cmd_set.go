package keyspace

import (
	"bytes"
	"sort"
	"time"
)

// execSet dispatches the set-family commands. Sets are stored as
// [][]byte sorted ascending by bytes.Compare, both for deterministic
// iteration and so SPOP's "smallest element" behavior is a simple slice
// index.
func (a *Actor) execSet(cmd command, now time.Time) (any, error) {
	args := cmd.Args
	switch cmd.Cmd {
	case "SADD":
		return a.setAdd(args, now)
	case "SCARD":
		return a.setCard(args, now)
	case "SREM":
		return a.setRem(args, now)
	case "SISMEMBER":
		return a.setIsMember(args, now)
	case "SMEMBERS":
		return a.setMembers(args, now)
	case "SMOVE":
		return a.setMove(args, now)
	case "SPOP":
		return a.setPop(args, now)
	case "SRANDMEMBER":
		return a.setRandMember(args, now)
	case "SDIFF":
		return a.setOpReply(args, now, setDiff)
	case "SINTER":
		return a.setOpReply(args, now, setInter)
	case "SUNION":
		return a.setOpReply(args, now, setUnion)
	case "SDIFFSTORE":
		return a.setOpStore(args, now, setDiff)
	case "SINTERSTORE":
		return a.setOpStore(args, now, setInter)
	case "SUNIONSTORE":
		return a.setOpStore(args, now, setUnion)
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

func newSetItem() *Item { return &Item{Set: [][]byte{}} }

// setIndex returns the insertion point of member in a sorted set slice
// and whether member is already present at that point.
func setIndex(set [][]byte, member []byte) (int, bool) {
	i := sort.Search(len(set), func(i int) bool { return bytes.Compare(set[i], member) >= 0 })
	return i, i < len(set) && bytes.Equal(set[i], member)
}

func setInsert(set [][]byte, member []byte) ([][]byte, bool) {
	i, present := setIndex(set, member)
	if present {
		return set, false
	}
	out := make([][]byte, 0, len(set)+1)
	out = append(out, set[:i]...)
	out = append(out, append([]byte{}, member...))
	out = append(out, set[i:]...)
	return out, true
}

func setRemove(set [][]byte, member []byte) ([][]byte, bool) {
	i, present := setIndex(set, member)
	if !present {
		return set, false
	}
	out := make([][]byte, 0, len(set)-1)
	out = append(out, set[:i]...)
	out = append(out, set[i+1:]...)
	return out, true
}

func (a *Actor) setAdd(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	members := args[1:]
	reply, err := updateOrCreate(a.store, key, TypeSet, EncodingHashTable, now,
		func(it *Item) (any, *Item, bool, error) {
			var added int64
			for _, m := range members {
				var ok bool
				it.Set, ok = setInsert(it.Set, m)
				if ok {
					added++
				}
			}
			return added, it, false, nil
		},
		newSetItem,
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) setCard(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}
	a.stamp(key, now)
	return int64(len(it.Set)), nil
}

// setRem may empty the set, which then triggers update.go's
// empty-container deletion.
func (a *Actor) setRem(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	members := args[1:]
	reply, err := updateOrDefault(a.store, key, Typed(TypeSet), now,
		func(it *Item) (any, *Item, bool, error) {
			var removed int64
			for _, m := range members {
				var ok bool
				it.Set, ok = setRemove(it.Set, m)
				if ok {
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

func (a *Actor) setIsMember(args [][]byte, now time.Time) (any, error) {
	key, member := args[0], args[1]
	it, found, err := getItem(a.store, Typed(TypeSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return false, nil
	}
	a.stamp(key, now)
	_, present := setIndex(it.Set, member)
	return present, nil
}

func (a *Actor) setMembers(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return [][]byte{}, nil
	}
	a.stamp(key, now)
	out := make([][]byte, len(it.Set))
	for i, m := range it.Set {
		out[i] = append([]byte{}, m...)
	}
	return out, nil
}

// setMove implements SMOVE: atomic dec source (possibly deleting it if
// it empties), add to dest.
func (a *Actor) setMove(args [][]byte, now time.Time) (any, error) {
	src, dst, member := args[0], args[1], args[2]

	srcIt, found, err := getItem(a.store, Typed(TypeSet), src, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return false, nil
	}
	newSrc, removed := setRemove(srcIt.Set, member)
	if !removed {
		return false, nil
	}
	srcIt.Set = newSrc
	if err := a.writeback(src, srcIt); err != nil {
		return nil, err
	}

	_, err = updateOrCreate(a.store, dst, TypeSet, EncodingHashTable, now,
		func(it *Item) (any, *Item, bool, error) {
			it.Set, _ = setInsert(it.Set, member)
			return nil, it, false, nil
		},
		newSetItem,
	)
	if err != nil {
		return nil, err
	}
	a.stamp(src, now)
	a.stamp(dst, now)
	return true, nil
}

// setPop removes the smallest element by value order rather than a
// random one - deterministic, and simpler than maintaining a random
// index into a slice that mutates on every pop.
func (a *Actor) setPop(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	reply, err := updateOrDefault(a.store, key, Typed(TypeSet), now,
		func(it *Item) (any, *Item, bool, error) {
			if len(it.Set) == 0 {
				return []byte(nil), it, false, nil
			}
			v := it.Set[0]
			it.Set = it.Set[1:]
			return v, it, false, nil
		},
		[]byte(nil),
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

// setRandMember draws uniformly over the set's current size using the
// actor's shared, once-seeded sampler - it is never reseeded per call.
func (a *Actor) setRandMember(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found || len(it.Set) == 0 {
		return []byte(nil), nil
	}
	a.stamp(key, now)
	idx := a.sampler.intn(len(it.Set))
	return append([]byte{}, it.Set[idx]...), nil
}

type setOp func(sets [][][]byte, allFound []bool) [][]byte

// setDiff implements SDIFF: members of the first set absent from every
// other input. A missing non-first key is treated as empty.
func setDiff(sets [][][]byte, allFound []bool) [][]byte {
	if len(sets) == 0 || !allFound[0] {
		return nil
	}
	var out [][]byte
	for _, m := range sets[0] {
		excluded := false
		for i := 1; i < len(sets); i++ {
			if _, ok := setIndex(sets[i], m); ok {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, m)
		}
	}
	return out
}

// setInter implements SINTER: empty if any input key is absent.
func setInter(sets [][][]byte, allFound []bool) [][]byte {
	for _, found := range allFound {
		if !found {
			return nil
		}
	}
	if len(sets) == 0 {
		return nil
	}
	var out [][]byte
	for _, m := range sets[0] {
		inAll := true
		for i := 1; i < len(sets); i++ {
			if _, ok := setIndex(sets[i], m); !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, m)
		}
	}
	return out
}

// setUnion implements SUNION: missing keys behave as empty sets.
func setUnion(sets [][][]byte, allFound []bool) [][]byte {
	var out [][]byte
	for _, set := range sets {
		for _, m := range set {
			var ok bool
			out, ok = setInsert(out, m)
			_ = ok
		}
	}
	return out
}

func (a *Actor) loadSets(keys [][]byte, now time.Time) ([][][]byte, []bool, error) {
	sets := make([][][]byte, len(keys))
	found := make([]bool, len(keys))
	for i, key := range keys {
		it, ok, err := getItem(a.store, Typed(TypeSet), key, now)
		if err != nil {
			return nil, nil, err
		}
		found[i] = ok
		if ok {
			sets[i] = it.Set
			a.stamp(key, now)
		}
	}
	return sets, found, nil
}

func (a *Actor) setOpReply(args [][]byte, now time.Time, op setOp) (any, error) {
	sets, found, err := a.loadSets(args, now)
	if err != nil {
		return nil, err
	}
	result := op(sets, found)
	out := make([][]byte, len(result))
	for i, m := range result {
		out[i] = append([]byte{}, m...)
	}
	return out, nil
}

// setOpStore implements the *STORE variants: write the computed set to
// dest, deleting dest if the result is empty.
func (a *Actor) setOpStore(args [][]byte, now time.Time, op setOp) (any, error) {
	dest := args[0]
	sets, found, err := a.loadSets(args[1:], now)
	if err != nil {
		return nil, err
	}
	result := op(sets, found)

	if len(result) == 0 {
		if err := deleteItem(a.store, dest); err != nil {
			return nil, err
		}
		a.stamp(dest, now)
		return int64(0), nil
	}

	out := make([][]byte, len(result))
	copy(out, result)
	if err := putItem(a.store, &Item{Key: dest, Type: TypeSet, Encoding: EncodingHashTable, Set: out}); err != nil {
		return nil, err
	}
	a.stamp(dest, now)
	return int64(len(out)), nil
}
