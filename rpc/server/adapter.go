package server

import (
	"time"

	"github.com/edisdb/edis/lib/keyspace"
	"github.com/edisdb/edis/rpc/common"
	"github.com/google/uuid"
)

// NewKeyspaceServerAdapter returns an adapter that runs every request
// against a keyspace actor with the given per-request timeout.
func NewKeyspaceServerAdapter(timeout time.Duration) IRPCServerAdapter {
	return &keyspaceServerAdapterImpl{timeout: timeout}
}

type keyspaceServerAdapterImpl struct {
	timeout time.Duration
}

func (adapter *keyspaceServerAdapterImpl) Handle(req *common.Message, actor *keyspace.Actor) *common.Message {
	if actor == nil {
		return common.NewErrorResponse("handler: actor is nil")
	}
	if req.MsgType != common.MsgTCommand {
		return common.NewErrorResponse("handler: expected a command message")
	}

	// The transport layer keeps no persistent per-connection identity, so
	// every request gets its own caller handle - a blocking command parked
	// against the registry is only ever woken by a push, never by a
	// liveness check tied to this handle.
	caller := keyspace.CallerHandle(uuid.NewString())

	res := actor.Run(req.Command, caller, adapter.timeout)
	return common.NewResultResponse(res)
}
