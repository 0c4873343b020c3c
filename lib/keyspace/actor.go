package keyspace

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/edisdb/edis/common"
	"github.com/edisdb/edis/lib/store"
	"github.com/edisdb/edis/lib/util"
	"github.com/puzpuzpuz/xsync/v3"
)

// command is a local alias for common.Command so handler files don't
// each need to import the common package just to name their parameter.
type command = common.Command

// request is one FIFO entry on an actor's intake queue: a command, the
// caller it came from (used by the blocking registry), and the channel
// its reply is delivered on. reply is buffered by one so a handler that
// parks the caller (blocking commands) can hand the same channel to the
// registry and let a later push or sweep deliver the reply instead.
type request struct {
	cmd    common.Command
	caller CallerHandle
	reply  chan common.Result
}

// suspended is the sentinel a handler returns to mean "no reply now -
// I've parked the caller in the blocking registry; it will be delivered
// later by onPush or sweepExpired using the same reply channel."
type suspendedT struct{}

var suspended = suspendedT{}

// ActorOptions configures a newly constructed Actor. The zero value's
// fields are filled with harmless defaults by NewActor.
type ActorOptions struct {
	Notifier Notifier
	Liveness LivenessChecker
	Log      common.Logger
	Router   *Router
}

// DefaultActorOptions returns the options used when none are supplied:
// a no-op notifier, an always-alive liveness checker, and a discarding
// logger.
func DefaultActorOptions() *ActorOptions {
	return &ActorOptions{
		Notifier: NopNotifier{},
		Liveness: alwaysAlive{},
		Log:      common.NopLogger{},
	}
}

// Actor is one keyspace shard: a single-threaded command processor
// owning one store.Engine. All mutation happens on the goroutine started
// by NewActor; Run is the only safe way in, from any number of callers.
type Actor struct {
	index     int
	path      string
	store     store.Engine
	startTime time.Time
	lastSave  time.Time

	accesses map[string]int64
	registry *registry
	sampler  *randomKeySampler

	liveness LivenessChecker
	notifier Notifier
	log      common.Logger
	router   *Router

	queue *util.MPSCQueue[request]
}

// NewActor constructs and starts an actor for shard index, backed by an
// already-open store.Engine rooted at path (path is retained only so
// FLUSHDB can Destroy and reopen the same location).
func NewActor(index int, path string, eng store.Engine, opts *ActorOptions) *Actor {
	if opts == nil {
		opts = DefaultActorOptions()
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Liveness == nil {
		opts.Liveness = alwaysAlive{}
	}
	if opts.Log == nil {
		opts.Log = common.NopLogger{}
	}

	a := &Actor{
		index:     index,
		path:      path,
		store:     eng,
		startTime: time.Now(),
		accesses:  make(map[string]int64),
		registry:  newRegistry(),
		sampler:   newRandomKeySampler(util.GenerateSeed()),
		liveness:  opts.Liveness,
		notifier:  opts.Notifier,
		log:       opts.Log,
		router:    opts.Router,
		queue:     util.NewMPSCQueue[request](),
	}
	go a.loop()
	return a
}

// Run delivers cmd to the actor and waits for its reply, subject to
// timeout. timeout gates only the wait for a reply - a disconnecting
// caller never aborts the actor's own processing of the command.
// timeout<=0 means wait indefinitely.
func (a *Actor) Run(cmd common.Command, caller CallerHandle, timeout time.Duration) common.Result {
	req := &request{cmd: cmd, caller: caller, reply: make(chan common.Result, 1)}
	if !a.queue.Push(req) {
		return errToResult(NewError(ErrUnexpectedRequest))
	}
	if timeout <= 0 {
		return <-req.reply
	}
	select {
	case res := <-req.reply:
		return res
	case <-time.After(timeout):
		return errToResult(NewError(ErrTimeout))
	}
}

// runInternal is used for cross-actor calls (MOVE's receive step): it
// goes through this actor's own queue like any other request, so the
// destination actor's serialization is never bypassed.
func (a *Actor) runInternal(cmd common.Command) common.Result {
	return a.Run(cmd, "", 0)
}

func (a *Actor) loop() {
	for req := range a.queue.Recv() {
		now := time.Now()
		res, send := a.process(req, now)
		if send && req.reply != nil {
			req.reply <- res
		}
	}
}

// process runs the per-command steps: notify, sweep expired waiters,
// dispatch, reply.
func (a *Actor) process(req *request, now time.Time) (common.Result, bool) {
	if err := a.notifier.Notify(a.index, req.cmd); err != nil {
		return errToResult(WrapError(ErrNotifyFailed, err)), true
	}
	a.registry.sweepExpired(now)

	value, err := a.dispatch(req, now)
	if err != nil {
		return errToResult(err), true
	}
	if value == suspended {
		return common.Result{}, false
	}
	return common.OkValue(value), true
}

func (a *Actor) dispatch(req *request, now time.Time) (any, error) {
	cmd := req.cmd
	switch cmd.Cmd {
	case "APPEND", "GET", "GETRANGE", "GETSET", "GETBIT", "SET", "SETEX", "SETNX",
		"MSET", "MSETNX", "SETRANGE", "SETBIT", "STRLEN", "INCR", "INCRBY", "DECR", "DECRBY":
		return a.execString(cmd, now)

	case "DEL", "EXISTS", "EXPIRE", "EXPIREAT", "PERSIST", "KEYS", "MOVE",
		"RANDOMKEY", "RENAME", "RENAMENX", "TTL", "TYPE", "OBJECT", internalReceiveCmd:
		return a.execKeys(cmd, now)

	case "HDEL", "HGET", "HSET", "HSETNX", "HMSET", "HGETALL", "HINCRBY",
		"HKEYS", "HVALS", "HLEN", "HEXISTS", "HMGET":
		return a.execHash(cmd, now)

	case "LPUSH", "RPUSH", "LPUSHX", "RPUSHX", "LPOP", "RPOP", "LINDEX",
		"LINSERT", "LLEN", "LRANGE", "LTRIM", "LREM", "LSET", "RPOPLPUSH",
		"BLPOP", "BRPOP", "BRPOPLPUSH":
		return a.execList(req, now)

	case "SADD", "SCARD", "SREM", "SISMEMBER", "SMEMBERS", "SMOVE", "SPOP",
		"SRANDMEMBER", "SDIFF", "SINTER", "SUNION", "SDIFFSTORE", "SINTERSTORE", "SUNIONSTORE":
		return a.execSet(cmd, now)

	case "ZADD", "ZCARD", "ZCOUNT", "ZINCRBY", "ZRANGE", "ZREVRANGE",
		"ZRANGEBYSCORE", "ZREVRANGEBYSCORE", "ZRANK", "ZREVRANK", "ZREM",
		"ZREMRANGEBYRANK", "ZREMRANGEBYSCORE", "ZSCORE", "ZINTERSTORE", "ZUNIONSTORE":
		return a.execZSet(cmd, now)

	case "PING", "ECHO", "DBSIZE", "FLUSHDB", "INFO", "LASTSAVE", "SAVE":
		return a.execServer(cmd, now)

	case "EXEC":
		return a.execTx(cmd, req.caller, now)

	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

// livenessOf wraps a.liveness, defaulting to "alive" when no checker
// was configured.
func (a *Actor) livenessOf(handle CallerHandle) bool {
	if a.liveness == nil {
		return true
	}
	return a.liveness.IsAlive(handle)
}

// errToResult converts a handler error into the wire-level tagged
// union; a nil error has no business reaching here (dispatch already
// branches on err != nil) but is handled defensively.
func errToResult(err error) common.Result {
	if err == nil {
		return common.Ok()
	}
	kind, ok := KindOf(err)
	if !ok {
		kind = ErrUnexpectedRequest
	}
	return common.Error(string(kind), err.Error())
}

// Router is the one process-wide shard index -> *Actor table, built
// once at startup.
type Router struct {
	dataDir string
	actors  *xsync.MapOf[int, *Actor]
}

// NewRouter opens count shards of eng under dataDir (one directory per
// shard, "<dataDir>/edis-<index>") and starts an Actor for each.
func NewRouter(dataDir string, count int, factory func() store.Engine, opts *ActorOptions) (*Router, error) {
	r := &Router{
		dataDir: dataDir,
		actors:  xsync.NewMapOf[int, *Actor](),
	}
	if opts == nil {
		opts = DefaultActorOptions()
	}
	opts.Router = r

	for i := 0; i < count; i++ {
		eng := factory()
		path := r.shardPath(i)
		if err := eng.Open(path, true); err != nil {
			return nil, fmt.Errorf("router: open shard %d: %w", i, err)
		}
		r.actors.Store(i, NewActor(i, path, eng, opts))
	}
	return r, nil
}

func (r *Router) shardPath(index int) string {
	return filepath.Join(r.dataDir, fmt.Sprintf("edis-%d", index))
}

// Actor returns the actor for a shard index.
func (r *Router) Actor(index int) (*Actor, bool) {
	return r.actors.Load(index)
}
