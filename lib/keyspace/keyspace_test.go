package keyspace

import (
	"testing"
	"time"

	"github.com/edisdb/edis/common"
	"github.com/edisdb/edis/lib/store/memstore"
)

// newTestActor builds an Actor over a fresh in-memory store, ready for
// direct command dispatch in tests.
func newTestActor(t *testing.T) *Actor {
	t.Helper()
	eng := memstore.New()
	if err := eng.Open(t.TempDir(), true); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return NewActor(0, t.TempDir(), eng, DefaultActorOptions())
}

// run sends a command through the actor and returns its result, error or
// not; mustOK and wantErr check the outcome.
func run(t *testing.T, a *Actor, name string, args ...[]byte) common.Result {
	t.Helper()
	res := a.Run(common.Command{Cmd: name, Args: args}, "", 2*time.Second)
	return res
}

// mustOK runs cmd and fails the test if the reply is an error.
func mustOK(t *testing.T, a *Actor, name string, args ...[]byte) common.Result {
	t.Helper()
	res := run(t, a, name, args...)
	if res.IsError() {
		t.Fatalf("%s: unexpected error %s: %s", name, res.ErrKind, res.ErrMsg)
	}
	return res
}

// wantErr runs cmd and fails the test unless it errors with kind.
func wantErr(t *testing.T, a *Actor, kind ErrKind, name string, args ...[]byte) {
	t.Helper()
	res := run(t, a, name, args...)
	if !res.IsError() {
		t.Fatalf("%s: expected error %s, got ok value %v", name, kind, res.Value)
	}
	if res.ErrKind != string(kind) {
		t.Fatalf("%s: expected error kind %s, got %s (%s)", name, kind, res.ErrKind, res.ErrMsg)
	}
}

func b(s string) []byte { return []byte(s) }

func bs(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}
