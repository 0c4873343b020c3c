package keyspace

import "github.com/cockroachdb/errors"

// ErrKind is one of the error kinds from the command-handler error model.
// Handlers never panic or use Go errors as control flow internally; they
// return a *KeyspaceError wrapping one of these kinds, or nil.
type ErrKind string

const (
	ErrWrongType         ErrKind = "wrong_type"
	ErrNotInteger        ErrKind = "not_integer"
	ErrNotFloat          ErrKind = "not_float"
	ErrNoSuchKey         ErrKind = "no_such_key"
	ErrOutOfRange        ErrKind = "out_of_range"
	ErrNotFound          ErrKind = "not_found" // internal signal, never surfaced
	ErrFound             ErrKind = "found"     // internal signal, never surfaced
	ErrBadPattern        ErrKind = "bad_pattern"
	ErrStorageError      ErrKind = "storage_error"
	ErrUnexpectedRequest ErrKind = "unexpected_request"
	ErrTimeout           ErrKind = "timeout"
	ErrNotifyFailed      ErrKind = "notify_failed"
)

// KeyspaceError is the error type every handler and the actor loop return.
// It carries a Kind that callers/transports can recover with errors.As,
// and optionally an underlying cause (e.g. the store error behind
// ErrStorageError).
type KeyspaceError struct {
	Kind  ErrKind
	cause error
}

func (e *KeyspaceError) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.cause.Error()
	}
	return string(e.Kind)
}

func (e *KeyspaceError) Unwrap() error { return e.cause }

// NewError builds a *KeyspaceError of the given kind with no cause.
func NewError(kind ErrKind) *KeyspaceError {
	return &KeyspaceError{Kind: kind}
}

// WrapError builds a *KeyspaceError of the given kind wrapping cause.
func WrapError(kind ErrKind, cause error) *KeyspaceError {
	return &KeyspaceError{Kind: kind, cause: cause}
}

// storageErr wraps a store.Engine failure as error(storage_error(inner)),
// preserving the original error as the cause so errors.Is/As still reach
// it through the KeyspaceError wrapper.
func storageErr(err error) *KeyspaceError {
	return WrapError(ErrStorageError, errors.Wrap(err, "store"))
}

// KindOf extracts the ErrKind carried by err, if any.
func KindOf(err error) (ErrKind, bool) {
	var ke *KeyspaceError
	if errors.As(err, &ke) {
		return ke.Kind, true
	}
	return "", false
}

// Is reports whether err is a *KeyspaceError of kind.
func Is(err error, kind ErrKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
