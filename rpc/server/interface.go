package server

import (
	"github.com/edisdb/edis/lib/keyspace"
	"github.com/edisdb/edis/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request against a keyspace actor and returns a
	// response. If an error occurs, it should be set in the response.
	Handle(req *common.Message, actor *keyspace.Actor) (resp *common.Message)
}
