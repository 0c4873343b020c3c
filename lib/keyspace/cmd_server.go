package keyspace

import (
	"fmt"
	"strings"
	"time"

	"github.com/edisdb/edis/lib/store"
)

// execServer dispatches the server-family commands.
func (a *Actor) execServer(cmd command, now time.Time) (any, error) {
	args := cmd.Args
	switch cmd.Cmd {
	case "PING":
		return a.serverPing(args), nil
	case "ECHO":
		return a.serverEcho(args), nil
	case "DBSIZE":
		return a.serverDBSize(now)
	case "FLUSHDB":
		return a.serverFlushDB()
	case "INFO":
		return a.serverInfo(now), nil
	case "LASTSAVE":
		return a.lastSave.Unix(), nil
	case "SAVE":
		a.lastSave = now
		return nil, nil
	default:
		return nil, NewError(ErrUnexpectedRequest)
	}
}

func (a *Actor) serverPing(args [][]byte) any {
	if len(args) == 0 {
		return []byte("PONG")
	}
	return append([]byte{}, args[0]...)
}

func (a *Actor) serverEcho(args [][]byte) any {
	if len(args) == 0 {
		return []byte(nil)
	}
	return append([]byte{}, args[0]...)
}

// serverDBSize counts only non-expired, non-corrupt keys via a full
// scan.
func (a *Actor) serverDBSize(now time.Time) (any, error) {
	var count int64
	err := a.store.FoldKeys(func(key []byte) error {
		if _, found, ferr := getItem(a.store, AnyType(), key, now); ferr == nil && found {
			count++
		}
		return nil
	}, store.FoldOptions{})
	if err != nil {
		return nil, storageErr(err)
	}
	return count, nil
}

// serverFlushDB closes, destroys on disk, and reopens the store
// atomically from the actor's perspective, also resetting accesses and
// the blocking registry's waiters.
func (a *Actor) serverFlushDB() (any, error) {
	if err := a.store.Close(); err != nil {
		return nil, storageErr(err)
	}
	if err := a.store.Destroy(a.path); err != nil {
		return nil, storageErr(err)
	}
	if err := a.store.Open(a.path, true); err != nil {
		return nil, storageErr(err)
	}
	a.accesses = make(map[string]int64)
	a.registry.resetFlushed()
	return nil, nil
}

func (a *Actor) serverInfo(now time.Time) any {
	var b strings.Builder
	fmt.Fprintf(&b, "shard:%d\r\n", a.index)
	fmt.Fprintf(&b, "uptime_seconds:%d\r\n", int64(now.Sub(a.startTime).Seconds()))
	fmt.Fprintf(&b, "last_save:%d\r\n", a.lastSave.Unix())
	return []byte(b.String())
}
