package common

import (
	"encoding/json"
	"fmt"

	core "github.com/edisdb/edis/common"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is the single envelope every transport frames onto the wire,
// in both directions: a request carries a Command, a response carries
// a Result, and MsgType says which.
type Message struct {
	MsgType MessageType `json:"msg_type"`

	Command core.Command `json:"command,omitempty"`
	Result  core.Result  `json:"result,omitempty"`

	// Err is set on MsgTError, for failures that happen below the
	// keyspace layer (bad frame, unknown shard) and so never reach the
	// point where a core.Result could be built.
	Err string `json:"err,omitempty"`
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewCommandRequest wraps cmd as a request message.
func NewCommandRequest(cmd core.Command) *Message {
	return &Message{
		MsgType: MsgTCommand,
		Command: cmd,
	}
}

// NewResultResponse wraps res as a response message.
func NewResultResponse(res core.Result) *Message {
	return &Message{
		MsgType: MsgTResult,
		Result:  res,
	}
}

// NewErrorResponse creates a transport-level error response, for
// failures that happen before a command ever reaches an actor.
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTCommand:
		return "command"
	case MsgTResult:
		return "result"
	case MsgTError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "command":
		*t = MsgTCommand
	case "result":
		*t = MsgTResult
	case "error":
		*t = MsgTError
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	MsgTUnknown MessageType = iota
	MsgTCommand             // A request carrying a core.Command
	MsgTResult              // A response carrying a core.Result
	MsgTError               // A transport-level failure, no Result available
)
