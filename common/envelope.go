// Package common defines the wire-level contract shared by the keyspace
// core and the rpc transport/serializer stack, without either depending
// on the other's internals: lib/keyspace produces and consumes these
// types but never imports rpc/*, and rpc/* never imports lib/keyspace.
package common

import "time"

// Command is one request dispatched to a keyspace actor: an uppercased
// command name plus its raw byte arguments, and an optional deadline used
// by blocking commands (BLPOP/BRPOP/BRPOPLPUSH). EXEC ignores Args and
// carries its sequence of sub-commands in Batch instead.
type Command struct {
	Cmd    string
	Args   [][]byte
	Expire *time.Time
	Batch  []Command
}

// Result is the tagged union a keyspace actor replies with: a bare ok, an
// ok carrying a value, or an error carrying a kind and message. Value
// holds whatever native shape the command produces - int64, bool, []byte,
// [][]byte, or []Result for EXEC - left to the handler, since the wire
// encoding of Value is the serializer's concern, not the core's.
type Result struct {
	OK      bool
	Value   any
	ErrKind string
	ErrMsg  string
}

// Ok is a bare success with no payload.
func Ok() Result { return Result{OK: true} }

// OkValue is a success carrying a value.
func OkValue(v any) Result { return Result{OK: true, Value: v} }

// Error builds a failure result for the given error kind and message.
func Error(kind, msg string) Result {
	return Result{OK: false, ErrKind: kind, ErrMsg: msg}
}

// IsError reports whether r represents a failure.
func (r Result) IsError() bool { return !r.OK }
