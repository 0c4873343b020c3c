package client

import (
	"strconv"

	core "github.com/edisdb/edis/common"
	"github.com/edisdb/edis/rpc/common"
	"github.com/edisdb/edis/rpc/serializer"
	"github.com/edisdb/edis/rpc/transport"
)

// Client is a remote handle onto a single keyspace shard: every method
// translates to one core.Command, sent through the configured transport
// and serializer, and the resulting core.Result unwrapped into Go
// values and an error.
type Client struct {
	rpcClientAdapter
}

// NewClient connects transport to the endpoints in config and returns a
// Client bound to shardId.
func NewClient(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*Client, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &Client{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

// Do sends cmd to the bound shard and returns the decoded result.
func (c *Client) Do(cmd core.Command) (core.Result, error) {
	req := common.NewCommandRequest(cmd)
	resp, err := invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
	if err != nil {
		return core.Result{}, err
	}
	return resp.Result, nil
}

func bytesArgs(args ...string) [][]byte {
	out := make([][]byte, len(args))
	for i, a := range args {
		out[i] = []byte(a)
	}
	return out
}

// Ping sends a PING and returns the server's reply.
func (c *Client) Ping() ([]byte, error) {
	res, err := c.Do(core.Command{Cmd: "PING"})
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, errFromResult(res)
	}
	v, _ := res.Value.([]byte)
	return v, nil
}

// Get issues a GET for key.
func (c *Client) Get(key string) ([]byte, error) {
	res, err := c.Do(core.Command{Cmd: "GET", Args: bytesArgs(key)})
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, errFromResult(res)
	}
	v, _ := res.Value.([]byte)
	return v, nil
}

// Set issues a SET for key/value.
func (c *Client) Set(key string, value []byte) error {
	res, err := c.Do(core.Command{Cmd: "SET", Args: [][]byte{[]byte(key), value}})
	if err != nil {
		return err
	}
	if res.IsError() {
		return errFromResult(res)
	}
	return nil
}

// Del issues a DEL for the given keys and returns the number removed.
func (c *Client) Del(keys ...string) (int64, error) {
	res, err := c.Do(core.Command{Cmd: "DEL", Args: bytesArgs(keys...)})
	if err != nil {
		return 0, err
	}
	if res.IsError() {
		return 0, errFromResult(res)
	}
	n, _ := res.Value.(int64)
	return n, nil
}

// Exists reports whether key is present.
func (c *Client) Exists(key string) (bool, error) {
	res, err := c.Do(core.Command{Cmd: "EXISTS", Args: bytesArgs(key)})
	if err != nil {
		return false, err
	}
	if res.IsError() {
		return false, errFromResult(res)
	}
	v, _ := res.Value.(bool)
	return v, nil
}

// Expire sets key's remaining lifetime to seconds and reports whether the
// key was affected.
func (c *Client) Expire(key string, seconds int64) (bool, error) {
	res, err := c.Do(core.Command{Cmd: "EXPIRE", Args: bytesArgs(key, strconv.FormatInt(seconds, 10))})
	if err != nil {
		return false, err
	}
	if res.IsError() {
		return false, errFromResult(res)
	}
	v, _ := res.Value.(bool)
	return v, nil
}

// Exec runs batch as a single transaction against the bound shard and
// returns one result per sub-command, in order.
func (c *Client) Exec(batch ...core.Command) ([]core.Result, error) {
	res, err := c.Do(core.Command{Cmd: "EXEC", Batch: batch})
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, errFromResult(res)
	}
	results, _ := res.Value.([]core.Result)
	return results, nil
}

func errFromResult(res core.Result) error {
	return &remoteError{kind: res.ErrKind, msg: res.ErrMsg}
}

type remoteError struct {
	kind string
	msg  string
}

func (e *remoteError) Error() string {
	if e.kind == "" {
		return e.msg
	}
	return e.kind + ": " + e.msg
}
