package client

import (
	"fmt"

	edisCommon "github.com/edisdb/edis/common"
	"github.com/edisdb/edis/rpc/common"
	"github.com/edisdb/edis/rpc/serializer"
	"github.com/edisdb/edis/rpc/transport"
)

var Logger edisCommon.Logger = edisCommon.NewStdLogger("rpc", edisCommon.LevelInfo)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
type rpcClientAdapter struct {
	shardId    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest sends a command message to shardId and returns the
// decoded response. req must carry MsgTCommand; the response is
// expected to carry MsgTResult, never the request's own type.
func invokeRPCRequest(shardId uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	respBytes, err := transport.Send(shardId, reqBytes)
	if err != nil {
		return nil, err
	}

	resp := &common.Message{}
	err = serializer.Deserialize(respBytes, resp)
	if err != nil {
		return nil, fmt.Errorf("rpc client: failed to decode response: %s", err)
	}

	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, fmt.Errorf("rpc client: %s", resp.Err)
	}

	if resp.MsgType != common.MsgTResult {
		return nil, fmt.Errorf("rpc client: unexpected message type: %s, expected %s", resp.MsgType, common.MsgTResult)
	}

	return resp, nil
}
