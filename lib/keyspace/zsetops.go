package keyspace

import "github.com/edisdb/edis/lib/zset"

// aggFn combines two already-weighted scores. sum/min/max are the only
// supported aggregations.
type aggFn func(a, b float64) float64

func aggregation(name string) (aggFn, bool) {
	switch name {
	case "sum":
		return func(a, b float64) float64 { return a + b }, true
	case "min":
		return func(a, b float64) float64 {
			if a < b {
				return a
			}
			return b
		}, true
	case "max":
		return func(a, b float64) float64 {
			if a > b {
				return a
			}
			return b
		}, true
	default:
		return nil, false
	}
}

// weightedInput is one (zset, weight) pair; set is nil for a missing
// key, which both operators treat as an empty zset.
type weightedInput struct {
	set    *zset.Set
	weight float64
}

// zunion computes a weighted union: every member appearing in at
// least one input contributes agg(score*weight) over
// only the inputs that contain it - a member absent from an input
// contributes nothing to that combination, so the identity element is
// simply "skip it" rather than a neutral zero/±inf value.
func zunion(inputs []weightedInput, agg aggFn) *zset.Set {
	out := zset.New()
	for _, in := range inputs {
		if in.set == nil {
			continue
		}
		for _, m := range in.set.Members() {
			weighted := m.Score * in.weight
			if cur, ok := out.Score(m.Member); ok {
				out.Add(m.Member, agg(cur, weighted))
			} else {
				out.Add(m.Member, weighted)
			}
		}
	}
	return out
}

// zinter computes a weighted intersection: only members present in
// every input survive; any missing input key empties the
// result entirely.
func zinter(inputs []weightedInput, agg aggFn) *zset.Set {
	out := zset.New()
	if len(inputs) == 0 {
		return out
	}
	for _, in := range inputs {
		if in.set == nil {
			return out
		}
	}

	base := inputs[0].set
	for _, m := range base.Members() {
		score := m.Score * inputs[0].weight
		inAll := true
		for i := 1; i < len(inputs); i++ {
			s, ok := inputs[i].set.Score(m.Member)
			if !ok {
				inAll = false
				break
			}
			score = agg(score, s*inputs[i].weight)
		}
		if inAll {
			out.Add(m.Member, score)
		}
	}
	return out
}
