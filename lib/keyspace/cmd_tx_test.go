package keyspace

import (
	"testing"
	"time"

	"github.com/edisdb/edis/common"
)

func TestExecRunsBatchInOrder(t *testing.T) {
	a := newTestActor(t)

	batch := common.Command{
		Cmd: "EXEC",
		Batch: []common.Command{
			{Cmd: "SET", Args: bs("k", "1")},
			{Cmd: "INCR", Args: bs("k")},
			{Cmd: "GET", Args: bs("k")},
		},
	}
	res := a.Run(batch, "", 2*time.Second)
	if res.IsError() {
		t.Fatalf("EXEC: unexpected error %s: %s", res.ErrKind, res.ErrMsg)
	}

	results := res.Value.([]common.Result)
	if len(results) != 3 {
		t.Fatalf("EXEC returned %d sub-results, want 3", len(results))
	}
	if results[1].Value.(int64) != 2 {
		t.Fatalf("EXEC[1] (INCR) = %v, want 2", results[1].Value)
	}
	if string(results[2].Value.([]byte)) != "2" {
		t.Fatalf("EXEC[2] (GET) = %q, want 2", results[2].Value)
	}
}

func TestExecSubCommandErrorDoesNotAbortBatch(t *testing.T) {
	a := newTestActor(t)

	batch := common.Command{
		Cmd: "EXEC",
		Batch: []common.Command{
			{Cmd: "SET", Args: bs("k", "not-a-number")},
			{Cmd: "INCR", Args: bs("k")},
			{Cmd: "SET", Args: bs("k2", "v")},
		},
	}
	res := a.Run(batch, "", 2*time.Second)
	if res.IsError() {
		t.Fatalf("EXEC: unexpected top-level error %s: %s", res.ErrKind, res.ErrMsg)
	}

	results := res.Value.([]common.Result)
	if !results[1].IsError() || results[1].ErrKind != string(ErrNotInteger) {
		t.Fatalf("EXEC[1] should carry its own error, got %+v", results[1])
	}
	if results[2].IsError() {
		t.Fatalf("EXEC[2] should have run despite EXEC[1]'s error, got %+v", results[2])
	}

	res2 := mustOK(t, a, "GET", b("k2"))
	if string(res2.Value.([]byte)) != "v" {
		t.Fatal("sub-commands after a failing one should still have taken effect")
	}
}

func TestExecBlockingPopTriesOnceNonBlocking(t *testing.T) {
	a := newTestActor(t)

	batch := common.Command{
		Cmd: "EXEC",
		Batch: []common.Command{
			{Cmd: "BLPOP", Args: bs("missing", "0")},
		},
	}
	res := a.Run(batch, "", 2*time.Second)
	if res.IsError() {
		t.Fatalf("EXEC: unexpected error %s: %s", res.ErrKind, res.ErrMsg)
	}
	results := res.Value.([]common.Result)
	if results[0].IsError() {
		t.Fatalf("EXEC[0] (BLPOP miss) should not error, got %+v", results[0])
	}
	if results[0].Value != nil {
		t.Fatalf("EXEC[0] (BLPOP miss) = %v, want nil (EXEC never blocks)", results[0].Value)
	}
}
