// Package client implements the RPC client side of edis: a thin handle
// that turns Go method calls into core.Command messages, sends them
// over a configured transport, and unwraps the core.Result reply.
//
// The package focuses on:
//   - Transparent RPC access to a single keyspace shard
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC and domain errors
//
// Key Components:
//
//   - Client: holds a connected transport and serializer bound to one
//     shard. Do sends any core.Command; the named methods (Get, Set,
//     Del, Exec, ...) are convenience wrappers over Do for the most
//     common operations.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoints:              []string{"localhost:5000"},
//	  TimeoutSecond:          5,
//	  RetryCount:             3,
//	  ConnectionsPerEndpoint: 1,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:5000"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	c, _ := client.NewClient(0, config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//
//	c.Set("mykey", []byte("myvalue"))
//	value, _ := c.Get("mykey")
//
//	res, _ := c.Do(core.Command{Cmd: "LPUSH", Args: [][]byte{[]byte("mylist"), []byte("a")}})
//
// Performance Considerations:
//
//   - For applications that frequently send large payloads, increasing
//     ConnectionsPerEndpoint can improve throughput by allowing
//     parallel requests.
//
//   - The choice of serializer significantly affects performance. The
//     binary serializer provides the best payload size and speed.
//
// Thread Safety:
//
//	Client is safe for concurrent use from multiple goroutines; the
//	underlying transport pools its own connections.
package client
