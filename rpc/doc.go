// Package rpc provides a comprehensive framework for remote procedure calls
// onto edis's keyspace shards. It acts as the communication layer between
// clients and the server process, enabling operations across network
// boundaries while every shard's actor still processes commands one at a
// time.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures used across the RPC system, including
//     the Message envelope and the server/client configuration structs.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: An RPC client for talking to a remote keyspace shard,
//     exposing typed convenience methods alongside a generic Do.
//
//   - server: RPC server components that handle incoming requests by
//     routing them to the right keyspace shard actor.
package rpc
