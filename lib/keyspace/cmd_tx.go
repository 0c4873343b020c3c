package keyspace

import (
	"time"

	"github.com/edisdb/edis/common"
)

// execTx implements EXEC: replay cmd.Batch in order through this same
// actor, collecting one reply per
// sub-command. No rollback: a sub-command's error becomes that slot's
// error reply, not a batch failure. A sub-command that would otherwise
// block (BLPOP/BRPOP/BRPOPLPUSH finding nothing) is tried once,
// non-blockingly, and records ok(undefined) instead of parking the
// caller on the registry - EXEC never leaves a waiter behind.
func (a *Actor) execTx(cmd command, caller CallerHandle, now time.Time) (any, error) {
	results := make([]common.Result, len(cmd.Batch))
	for i, sub := range cmd.Batch {
		results[i] = a.execTxOne(sub, caller, now)
	}
	return results, nil
}

func (a *Actor) execTxOne(sub common.Command, caller CallerHandle, now time.Time) common.Result {
	if err := a.notifier.Notify(a.index, sub); err != nil {
		return errToResult(WrapError(ErrNotifyFailed, err))
	}
	a.registry.sweepExpired(now)

	value, err := a.dispatchNonBlocking(sub, caller, now)
	if err != nil {
		return errToResult(err)
	}
	return common.OkValue(value)
}

// dispatchNonBlocking runs sub through the actor's normal dispatch,
// except that BLPOP/BRPOP/BRPOPLPUSH are tried exactly once and a miss
// is reported as a plain nil value rather than the suspended sentinel -
// EXEC has no reply channel to park against.
func (a *Actor) dispatchNonBlocking(sub common.Command, caller CallerHandle, now time.Time) (any, error) {
	switch sub.Cmd {
	case "BLPOP", "BRPOP":
		left := sub.Cmd == "BLPOP"
		keys := sub.Args[:len(sub.Args)-1]
		for _, key := range keys {
			v, err := a.tryPopSide(key, now, left)
			if err == nil {
				a.stamp(key, now)
				return []any{append([]byte{}, key...), v}, nil
			}
			if !Is(err, ErrNotFound) {
				return nil, err
			}
		}
		return nil, nil
	case "BRPOPLPUSH":
		src, dst := sub.Args[0], sub.Args[1]
		v, err := a.rpoplpushTry(src, dst, now)
		if err == nil {
			return v, nil
		}
		if !Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, nil
	default:
		req := &request{cmd: sub, caller: caller}
		return a.dispatch(req, now)
	}
}
