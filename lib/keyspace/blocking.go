package keyspace

import (
	"container/list"
	"time"

	"github.com/edisdb/edis/common"
	"github.com/edisdb/edis/lib/util"
)

// CallerHandle identifies the client that issued a command, supplied by
// the dispatcher (out of scope) at Run time. It is opaque to the actor:
// used only for "does this caller already have a waiter parked here" and
// liveness checks.
type CallerHandle string

// LivenessChecker asks the runtime whether a parked caller is still
// reachable. The zero value (nil) is never passed to the registry
// directly; Actor substitutes alwaysAlive when none is supplied at
// construction, so a disconnect with no liveness checker wired in is
// caught only by deadline expiry.
type LivenessChecker interface {
	IsAlive(handle CallerHandle) bool
}

type alwaysAlive struct{}

func (alwaysAlive) IsAlive(CallerHandle) bool { return true }

// retryFn re-attempts a parked blocking command's non-blocking core (e.g.
// BLPOP's internal LPOP try) against the current store state. Returning
// error(not_found) means "still nothing to give this waiter"; any other
// error or a nil error with a value means the waiter should be woken.
type retryFn func(a *Actor, now time.Time) (value any, err error)

type waiter struct {
	id          uint64
	handle      CallerHandle
	hasDeadline bool
	deadline    time.Time
	keys        []string
	elems       map[string]*list.Element
	retry       retryFn
	reply       chan common.Result
}

// registry tracks blocking-op waiters: per-key FIFO waiter lists, plus a
// deadline-ordered index (util.DeadlineHeap) for O(log n) expiry sweeps
// without scanning every key.
//
// The registry is only ever touched from the actor's own goroutine - no
// locking, since the actor already serializes every command.
type registry struct {
	byKey  map[string]*list.List
	byID   map[uint64]*waiter
	heap   *util.DeadlineHeap
	nextID uint64
}

func newRegistry() *registry {
	return &registry{
		byKey: make(map[string]*list.List),
		byID:  make(map[uint64]*waiter),
		heap:  util.NewDeadlineHeap(),
	}
}

// park registers a new waiter across every key in keys, in FIFO position
// at the back of each key's list.
func (r *registry) park(handle CallerHandle, keys []string, hasDeadline bool, deadline time.Time, retry retryFn, reply chan common.Result) uint64 {
	r.nextID++
	id := r.nextID

	w := &waiter{
		id:          id,
		handle:      handle,
		hasDeadline: hasDeadline,
		deadline:    deadline,
		keys:        keys,
		elems:       make(map[string]*list.Element, len(keys)),
		retry:       retry,
		reply:       reply,
	}
	for _, k := range keys {
		l := r.byKey[k]
		if l == nil {
			l = list.New()
			r.byKey[k] = l
		}
		w.elems[k] = l.PushBack(w)
	}
	if hasDeadline {
		r.heap.Add(id, deadline.UnixNano())
	}
	r.byID[id] = w
	return id
}

// removeWaiter drops a waiter from every key it was parked on and from
// the deadline index.
func (r *registry) removeWaiter(id uint64) {
	w, ok := r.byID[id]
	if !ok {
		return
	}
	for k, elem := range w.elems {
		if l := r.byKey[k]; l != nil {
			l.Remove(elem)
			if l.Len() == 0 {
				delete(r.byKey, k)
			}
		}
	}
	r.heap.Remove(id)
	delete(r.byID, id)
}

// removeWaitersForCaller drops every waiter belonging to handle that is
// parked on any of keys - used by BLPOP/BRPOP to clear a caller's own
// stale waiters before an immediate (non-blocking) success.
func (r *registry) removeWaitersForCaller(handle CallerHandle, keys []string) {
	seen := make(map[uint64]bool)
	for _, k := range keys {
		l := r.byKey[k]
		if l == nil {
			continue
		}
		for e := l.Front(); e != nil; e = e.Next() {
			w := e.Value.(*waiter)
			if w.handle == handle {
				seen[w.id] = true
			}
		}
	}
	for id := range seen {
		r.removeWaiter(id)
	}
}

// sweepExpired discards every waiter whose deadline has elapsed, waking
// each with ok(undefined); a waiter whose reply channel is already gone
// is simply dropped.
func (r *registry) sweepExpired(now time.Time) {
	for {
		id, deadlineNano, ok := r.heap.PeekMin()
		if !ok || deadlineNano > now.UnixNano() {
			return
		}
		r.heap.PopMin()
		w, exists := r.byID[id]
		if !exists {
			continue
		}
		r.removeWaiter(id)
		if w.reply != nil {
			w.reply <- common.OkValue(nil)
		}
	}
}

// onPush runs the push-triggered wake-up: walk key's waiters in FIFO
// order, dropping expired/dead ones, re-executing the rest until one
// yields not_found (stop) or the list is exhausted.
func (r *registry) onPush(a *Actor, key string, now time.Time) {
	l := r.byKey[key]
	if l == nil {
		return
	}

	e := l.Front()
	for e != nil {
		w := e.Value.(*waiter)
		next := e.Next()

		if w.hasDeadline && !w.deadline.After(now) {
			r.removeWaiter(w.id)
			if w.reply != nil {
				w.reply <- common.OkValue(nil)
			}
			e = next
			continue
		}

		if !a.livenessOf(w.handle) {
			r.removeWaiter(w.id)
			e = next
			continue
		}

		value, err := w.retry(a, now)
		if err != nil {
			if Is(err, ErrNotFound) {
				return // waiter stays in place; stop scanning this key
			}
			r.removeWaiter(w.id)
			if w.reply != nil {
				w.reply <- errToResult(err)
			}
			e = next
			continue
		}

		r.removeWaiter(w.id)
		if w.reply != nil {
			w.reply <- common.OkValue(value)
		}
		e = next
	}
}

// resetFlushed clears every waiter without replying (FLUSHDB's reset).
func (r *registry) resetFlushed() {
	r.byKey = make(map[string]*list.List)
	r.byID = make(map[uint64]*waiter)
	r.heap = util.NewDeadlineHeap()
}
