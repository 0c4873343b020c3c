package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerTransportConfig holds the knobs specific to stream-oriented
// transports (tcp, http); the unix transport and the base worker pool
// read the flat fields on ServerConfig directly instead.
type ServerTransportConfig struct {
	Endpoint        string
	TCPNoDelay      bool
	WriteBufferSize int
	ReadBufferSize  int
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ServerConfig holds all configuration parameters for a single edis
// server process: how many keyspace shards it routes across, where
// their data lives on disk, and how the RPC endpoint is exposed.
type ServerConfig struct {
	// Databases is the number of keyspace shards this process routes
	// requests across.
	Databases int

	// DataDir is the root directory each shard's store opens a
	// subdirectory under.
	DataDir string

	// TimeoutSecond bounds how long a single request may sit queued
	// before a transport gives up on it.
	TimeoutSecond int64

	// Endpoint is the address the RPC server listens on.
	Endpoint string

	// Logging configuration
	LogLevel string

	// Transport carries knobs specific to stream-oriented transports.
	Transport ServerTransportConfig
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("RPC Server")
	addField("Endpoint", c.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	addSection("Storage")
	addField("Data Directory", c.DataDir)
	addField("Databases", strconv.Itoa(c.Databases))

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig mirrors the Endpoints/pooling fields on
// ClientConfig for transports (tcp, unix, base) that read them through
// a nested Transport field rather than the flat one.
type ClientTransportConfig struct {
	Endpoints              []string
	ConnectionsPerEndpoint int
	RetryCount             int
}

type ClientConfig struct {
	Endpoints              []string
	TimeoutSecond          int
	RetryCount             int
	ConnectionsPerEndpoint int

	Transport ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.ConnectionsPerEndpoint)))))

	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}
