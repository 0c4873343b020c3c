// Package server implements the RPC server side of edis: it routes
// incoming command messages to the right keyspace shard and translates
// between the wire-level Message envelope and the keyspace actor's
// Command/Result contract.
//
// The package focuses on:
//   - Server-side RPC request handling for every keyspace command
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Shard routing via a keyspace.Router built once at startup
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server
//     adapters, with the Handle method that processes incoming requests
//     against a keyspace.Actor.
//
//   - NewKeyspaceServerAdapter: Factory function creating an adapter
//     that runs every request through Actor.Run with a per-request
//     caller handle and timeout.
//
//   - NewRPCServer: Factory function creating a configured server with
//     the specified transport and serializer mechanisms.
//
// Usage Example:
//
//	config := rpccommon.ServerConfig{
//	  Databases:     16,
//	  DataDir:       "/var/lib/edis",
//	  Endpoint:      "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent
//	requests across multiple connections - each keyspace shard still
//	serializes its own commands internally. The Serve method is not
//	thread-safe and should be called only once.
package server
