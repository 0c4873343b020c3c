package keyspace

import (
	"strconv"
	"strings"
	"time"

	"github.com/edisdb/edis/lib/zset"
)

// execZSet dispatches the sorted-set commands.
func (a *Actor) execZSet(cmd command, now time.Time) (any, error) {
	args := cmd.Args
	switch cmd.Cmd {
	case "ZADD":
		return a.zsetAdd(args, now)
	case "ZCARD":
		return a.zsetCard(args, now)
	case "ZCOUNT":
		return a.zsetCount(args, now)
	case "ZINCRBY":
		return a.zsetIncrBy(args, now)
	case "ZRANGE":
		return a.zsetRange(args, now, false)
	case "ZREVRANGE":
		return a.zsetRange(args, now, true)
	case "ZRANGEBYSCORE":
		return a.zsetRangeByScore(args, now, false)
	case "ZREVRANGEBYSCORE":
		return a.zsetRangeByScore(args, now, true)
	case "ZRANK":
		return a.zsetRank(args, now, false)
	case "ZREVRANK":
		return a.zsetRank(args, now, true)
	case "ZREM":
		return a.zsetRem(args, now)
	case "ZREMRANGEBYRANK":
		return a.zsetRemRangeByRank(args, now)
	case "ZREMRANGEBYSCORE":
		return a.zsetRemRangeByScore(args, now)
	case "ZSCORE":
		return a.zsetScore(args, now)
	case "ZINTERSTORE":
		return a.zsetOpStore(args, now, true)
	case "ZUNIONSTORE":
		return a.zsetOpStore(args, now, false)
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

func newZSetItem() *Item { return &Item{ZSet: zset.New()} }

func parseFloat(b []byte) (float64, error) {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, NewError(ErrNotFloat)
	}
	return f, nil
}

// parseScoreBound parses a ZCOUNT/ZRANGEBYSCORE endpoint: "-inf"/"+inf"
// for an unbounded end, a "(" prefix for exclusive, otherwise an
// inclusive finite score.
func parseScoreBound(b []byte) (zset.Bound, error) {
	s := string(b)
	switch s {
	case "-inf":
		return zset.Inf(-1), nil
	case "+inf", "inf":
		return zset.Inf(1), nil
	}
	exclusive := false
	if strings.HasPrefix(s, "(") {
		exclusive = true
		s = s[1:]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return zset.Bound{}, NewError(ErrNotFloat)
	}
	return zset.Bound{Value: f, Exclusive: exclusive}, nil
}

func (a *Actor) zsetAdd(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	pairs := args[1:]
	reply, err := updateOrCreate(a.store, key, TypeZSet, EncodingSkiplist, now,
		func(it *Item) (any, *Item, bool, error) {
			var added int64
			for i := 0; i+1 < len(pairs); i += 2 {
				score, err := parseFloat(pairs[i])
				if err != nil {
					return nil, nil, false, err
				}
				if it.ZSet.Add(pairs[i+1], score) {
					added++
				}
			}
			return added, it, false, nil
		},
		newZSetItem,
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) zsetCard(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	it, found, err := getItem(a.store, Typed(TypeZSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}
	a.stamp(key, now)
	return int64(it.ZSet.Len()), nil
}

func (a *Actor) zsetCount(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	min, err := parseScoreBound(args[1])
	if err != nil {
		return nil, err
	}
	max, err := parseScoreBound(args[2])
	if err != nil {
		return nil, err
	}
	it, found, err := getItem(a.store, Typed(TypeZSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return int64(0), nil
	}
	a.stamp(key, now)
	return int64(it.ZSet.Count(min, max)), nil
}

// zsetIncrBy: a missing member starts at 0.
func (a *Actor) zsetIncrBy(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	delta, err := parseFloat(args[1])
	if err != nil {
		return nil, err
	}
	member := args[2]
	reply, err := updateOrCreate(a.store, key, TypeZSet, EncodingSkiplist, now,
		func(it *Item) (any, *Item, bool, error) {
			cur, _ := it.ZSet.Score(member)
			next := cur + delta
			it.ZSet.Add(member, next)
			return next, it, false, nil
		},
		newZSetItem,
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func flattenMembers(members []zset.Member, withScores bool) [][]byte {
	if !withScores {
		out := make([][]byte, len(members))
		for i, m := range members {
			out[i] = append([]byte{}, m.Member...)
		}
		return out
	}
	out := make([][]byte, 0, len(members)*2)
	for _, m := range members {
		out = append(out, append([]byte{}, m.Member...), []byte(strconv.FormatFloat(m.Score, 'g', -1, 64)))
	}
	return out
}

func (a *Actor) zsetRange(args [][]byte, now time.Time, reverse bool) (any, error) {
	key := args[0]
	start, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	stop, err := parseInt(args[2])
	if err != nil {
		return nil, err
	}
	withScores := len(args) > 3 && strings.EqualFold(string(args[3]), "WITHSCORES")

	it, found, err := getItem(a.store, Typed(TypeZSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return [][]byte{}, nil
	}
	a.stamp(key, now)

	n := it.ZSet.Len()
	s, e := normalizeRange(start, stop, n)
	if s > e {
		return [][]byte{}, nil
	}
	return flattenMembers(it.ZSet.Range(s, e, reverse), withScores), nil
}

func (a *Actor) zsetRangeByScore(args [][]byte, now time.Time, reverse bool) (any, error) {
	key := args[0]
	var minArg, maxArg []byte
	if reverse {
		maxArg, minArg = args[1], args[2]
	} else {
		minArg, maxArg = args[1], args[2]
	}
	min, err := parseScoreBound(minArg)
	if err != nil {
		return nil, err
	}
	max, err := parseScoreBound(maxArg)
	if err != nil {
		return nil, err
	}
	withScores := false
	offset, count := 0, -1
	for i := 3; i < len(args); i++ {
		switch strings.ToUpper(string(args[i])) {
		case "WITHSCORES":
			withScores = true
		case "LIMIT":
			if i+2 < len(args) {
				o, oerr := parseInt(args[i+1])
				if oerr == nil {
					offset = int(o)
				}
				c, cerr := parseInt(args[i+2])
				if cerr == nil {
					count = int(c)
				}
				i += 2
			}
		}
	}

	it, found, err := getItem(a.store, Typed(TypeZSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		// return [], never the legacy 0, for a missing key.
		return [][]byte{}, nil
	}
	a.stamp(key, now)
	return flattenMembers(it.ZSet.RangeByScore(min, max, reverse, offset, count), withScores), nil
}

func (a *Actor) zsetRank(args [][]byte, now time.Time, reverse bool) (any, error) {
	key, member := args[0], args[1]
	it, found, err := getItem(a.store, Typed(TypeZSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	a.stamp(key, now)
	rank := it.ZSet.Rank(member, reverse)
	if rank < 0 {
		return nil, nil
	}
	return int64(rank), nil
}

// zsetRem removes members; an emptied zset is deleted outright rather
// than persisted as an empty container.
func (a *Actor) zsetRem(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	members := args[1:]
	reply, err := updateOrDefault(a.store, key, Typed(TypeZSet), now,
		func(it *Item) (any, *Item, bool, error) {
			var removed int64
			for _, m := range members {
				if it.ZSet.Remove(m) {
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

// zsetRemRangeByRank composes RANGE then REM.
func (a *Actor) zsetRemRangeByRank(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	start, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	stop, err := parseInt(args[2])
	if err != nil {
		return nil, err
	}
	reply, err := updateOrDefault(a.store, key, Typed(TypeZSet), now,
		func(it *Item) (any, *Item, bool, error) {
			s, e := normalizeRange(start, stop, it.ZSet.Len())
			if s > e {
				return int64(0), it, false, nil
			}
			victims := it.ZSet.Range(s, e, false)
			for _, m := range victims {
				it.ZSet.Remove(m.Member)
			}
			return int64(len(victims)), it, false, nil
		},
		int64(0),
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) zsetRemRangeByScore(args [][]byte, now time.Time) (any, error) {
	key := args[0]
	min, err := parseScoreBound(args[1])
	if err != nil {
		return nil, err
	}
	max, err := parseScoreBound(args[2])
	if err != nil {
		return nil, err
	}
	reply, err := updateOrDefault(a.store, key, Typed(TypeZSet), now,
		func(it *Item) (any, *Item, bool, error) {
			victims := it.ZSet.RangeByScore(min, max, false, 0, -1)
			for _, m := range victims {
				it.ZSet.Remove(m.Member)
			}
			return int64(len(victims)), it, false, nil
		},
		int64(0),
	)
	if err != nil {
		return nil, err
	}
	a.stamp(key, now)
	return reply, nil
}

func (a *Actor) zsetScore(args [][]byte, now time.Time) (any, error) {
	key, member := args[0], args[1]
	it, found, err := getItem(a.store, Typed(TypeZSet), key, now)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	a.stamp(key, now)
	score, ok := it.ZSet.Score(member)
	if !ok {
		return nil, nil
	}
	return []byte(strconv.FormatFloat(score, 'g', -1, 64)), nil
}

// zsetOpStore implements ZINTERSTORE/ZUNIONSTORE: dest numkeys key
// [key ...] [WEIGHTS w ...] [AGGREGATE SUM|MIN|MAX].
func (a *Actor) zsetOpStore(args [][]byte, now time.Time, inter bool) (any, error) {
	dest := args[0]
	numKeys, err := parseInt(args[1])
	if err != nil {
		return nil, err
	}
	n := int(numKeys)
	if n < 0 || 2+n > len(args) {
		return nil, NewError(ErrOutOfRange)
	}
	keys := args[2 : 2+n]
	rest := args[2+n:]

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}
	aggName := "sum"

	for i := 0; i < len(rest); i++ {
		switch strings.ToUpper(string(rest[i])) {
		case "WEIGHTS":
			for j := 0; j < n && i+1+j < len(rest); j++ {
				w, werr := parseFloat(rest[i+1+j])
				if werr != nil {
					return nil, werr
				}
				weights[j] = w
			}
			i += n
		case "AGGREGATE":
			if i+1 < len(rest) {
				aggName = strings.ToLower(string(rest[i+1]))
				i++
			}
		}
	}

	agg, ok := aggregation(aggName)
	if !ok {
		return nil, NewError(ErrUnexpectedRequest)
	}

	inputs := make([]weightedInput, n)
	for i, key := range keys {
		it, found, ferr := getItem(a.store, Typed(TypeZSet), key, now)
		if ferr != nil {
			return nil, ferr
		}
		if found {
			inputs[i] = weightedInput{set: it.ZSet, weight: weights[i]}
			a.stamp(key, now)
		} else {
			inputs[i] = weightedInput{set: nil, weight: weights[i]}
		}
	}

	var result *zset.Set
	if inter {
		result = zinter(inputs, agg)
	} else {
		result = zunion(inputs, agg)
	}

	if result.Len() == 0 {
		if err := deleteItem(a.store, dest); err != nil {
			return nil, err
		}
		a.stamp(dest, now)
		return int64(0), nil
	}

	if err := putItem(a.store, &Item{Key: dest, Type: TypeZSet, Encoding: EncodingSkiplist, ZSet: result}); err != nil {
		return nil, err
	}
	a.stamp(dest, now)
	return int64(result.Len()), nil
}
