package keyspace

import (
	"testing"
	"time"

	"github.com/edisdb/edis/common"
)

func TestBlockingPopImmediateHit(t *testing.T) {
	a := newTestActor(t)
	mustOK(t, a, "RPUSH", b("l"), b("a"))

	res := mustOK(t, a, "BLPOP", b("l"))
	pair := res.Value.([]any)
	if string(pair[0].([]byte)) != "l" || string(pair[1].([]byte)) != "a" {
		t.Fatalf("BLPOP immediate hit = %v, want [l a]", pair)
	}
}

func TestBlockingPopWakesOnPush(t *testing.T) {
	a := newTestActor(t)

	done := make(chan common.Result, 1)
	go func() {
		done <- a.Run(common.Command{Cmd: "BLPOP", Args: [][]byte{b("l")}}, "waiter", 2*time.Second)
	}()

	// give the waiter time to park before the wake-up push arrives.
	time.Sleep(20 * time.Millisecond)
	mustOK(t, a, "RPUSH", b("l"), b("woke"))

	select {
	case res := <-done:
		if res.IsError() {
			t.Fatalf("BLPOP: unexpected error %s: %s", res.ErrKind, res.ErrMsg)
		}
		pair := res.Value.([]any)
		if string(pair[0].([]byte)) != "l" || string(pair[1].([]byte)) != "woke" {
			t.Fatalf("BLPOP after wake = %v, want [l woke]", pair)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BLPOP never woke up after the matching push")
	}
}

func TestBlockingPopTimesOut(t *testing.T) {
	a := newTestActor(t)

	deadline := time.Now().Add(30 * time.Millisecond)
	done := make(chan common.Result, 1)
	go func() {
		done <- a.Run(common.Command{Cmd: "BLPOP", Args: [][]byte{b("missing")}, Expire: &deadline}, "waiter", 2*time.Second)
	}()

	time.Sleep(60 * time.Millisecond)
	// sweepExpired only runs as part of processing some command; nudge
	// the actor so it notices the elapsed deadline and wakes the waiter.
	mustOK(t, a, "PING")

	select {
	case res := <-done:
		if res.IsError() {
			t.Fatalf("BLPOP timeout: unexpected error %s: %s", res.ErrKind, res.ErrMsg)
		}
		if res.Value != nil {
			t.Fatalf("BLPOP timeout value = %v, want nil", res.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BLPOP never timed out")
	}
}

func TestBlockingRPopLPushWakesOnPush(t *testing.T) {
	a := newTestActor(t)

	done := make(chan common.Result, 1)
	go func() {
		done <- a.Run(common.Command{Cmd: "BRPOPLPUSH", Args: [][]byte{b("src"), b("dst")}}, "waiter", 2*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	mustOK(t, a, "RPUSH", b("src"), b("x"))

	select {
	case res := <-done:
		if res.IsError() {
			t.Fatalf("BRPOPLPUSH: unexpected error %s: %s", res.ErrKind, res.ErrMsg)
		}
		if string(res.Value.([]byte)) != "x" {
			t.Fatalf("BRPOPLPUSH value = %q, want x", res.Value)
		}
		listRes := mustOK(t, a, "LRANGE", b("dst"), b("0"), b("-1"))
		got := listRes.Value.([][]byte)
		if len(got) != 1 || string(got[0]) != "x" {
			t.Fatalf("LRANGE(dst) after BRPOPLPUSH = %v, want [x]", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BRPOPLPUSH never woke up after the matching push")
	}
}
