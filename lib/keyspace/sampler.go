package keyspace

import (
	"math/rand"
	"time"

	"github.com/edisdb/edis/lib/store"
)

const randomKeySampleBound = 500

// stamp records the most recent access time for key, in seconds since
// actor start.
func (a *Actor) stamp(key []byte, now time.Time) {
	a.accesses[string(key)] = int64(now.Sub(a.startTime).Seconds())
}

// idleTime implements OBJECT IDLETIME: now - start_time - accesses[key],
// or 0 if key was never stamped.
func (a *Actor) idleTime(key []byte, now time.Time) int64 {
	offset, ok := a.accesses[string(key)]
	if !ok {
		return 0
	}
	elapsed := int64(now.Sub(a.startTime).Seconds())
	idle := elapsed - offset
	if idle < 0 {
		return 0
	}
	return idle
}

// randomKeySampler draws uniformly from the actor's shared, once-seeded
// math/rand source. RANDOMKEY and SRANDMEMBER both go through here so
// neither reseeds per call.
type randomKeySampler struct {
	rnd *rand.Rand
}

func newRandomKeySampler(seed uint64) *randomKeySampler {
	return &randomKeySampler{rnd: rand.New(rand.NewSource(int64(seed)))}
}

// intn returns a uniform value in [0, n).
func (s *randomKeySampler) intn(n int) int { return s.rnd.Intn(n) }

// randomKey is a bounded RANDOMKEY sampler: pick an offset uniformly in
// [1,500], then return the key at that ordinal
// (1-based) in the store's natural key order among non-expired keys,
// wrapping to the start if fewer than `offset` such keys exist. Lazily
// expired keys are deleted along the way and never counted.
//
// Implemented as two folds (count survivors, then walk to the wrapped
// index) rather than an open-ended wrap loop, so it always terminates in
// O(store size) regardless of how few live keys remain.
func (a *Actor) randomKey(now time.Time) ([]byte, bool, error) {
	total := 0
	err := a.store.FoldKeys(func(key []byte) error {
		_, found, err := getItem(a.store, AnyType(), key, now)
		if err != nil {
			return err
		}
		if found {
			total++
		}
		return nil
	}, store.FoldOptions{})
	if err != nil {
		return nil, false, err
	}
	if total == 0 {
		return nil, false, nil
	}

	offset := 1 + a.sampler.intn(randomKeySampleBound)
	idx := (offset - 1) % total

	var result []byte
	counted := 0
	err = a.store.FoldKeys(func(key []byte) error {
		_, found, err := getItem(a.store, AnyType(), key, now)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		if counted == idx {
			result = append([]byte{}, key...)
			return store.ErrStop
		}
		counted++
		return nil
	}, store.FoldOptions{})
	if err != nil {
		return nil, false, err
	}
	if result == nil {
		return nil, false, nil
	}
	return result, true, nil
}
