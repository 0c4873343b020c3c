// Package common provides core data structures and utilities shared across
// edis's RPC layer. It defines the wire-level message envelope and the
// configuration structures used by other packages.
//
// The package focuses on:
//   - Message protocol definition for inter-component communication
//   - Configuration structures for client and server components
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication between components,
//     carrying either a Command, a Result, or an error string depending on MessageType.
//
//   - MessageType: Enumeration defining all supported operation types in the
//     system, categorized into command requests, results, and control messages.
//
//   - ServerConfig: Configuration for server nodes, including shard count,
//     data directory, and transport settings.
//
//   - ClientConfig: Configuration for client components, controlling connection
//     parameters, timeouts, and retry behavior.
package common
