package serializer

import (
	"reflect"
	"testing"
	"time"

	core "github.com/edisdb/edis/common"
	"github.com/edisdb/edis/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages covering every MsgType and
// a representative spread of the result value shapes a keyspace handler
// can return.
func testMessages() []common.Message {
	expire := time.Unix(1700000000, 0)

	return []common.Message{
		{MsgType: common.MsgTError, Err: "test error message"},

		{
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "GET", Args: [][]byte{[]byte("test-key")}},
		},
		{
			MsgType: common.MsgTCommand,
			Command: core.Command{
				Cmd:    "SET",
				Args:   [][]byte{[]byte("test-key"), []byte("test-value")},
				Expire: &expire,
			},
		},
		{
			MsgType: common.MsgTCommand,
			Command: core.Command{
				Cmd: "EXEC",
				Batch: []core.Command{
					{Cmd: "GET", Args: [][]byte{[]byte("a")}},
					{Cmd: "SET", Args: [][]byte{[]byte("a"), []byte("b")}},
				},
			},
		},
		{
			MsgType: common.MsgTResult,
			Result:  core.Ok(),
		},
		{
			MsgType: common.MsgTResult,
			Result:  core.OkValue(int64(42)),
		},
		{
			MsgType: common.MsgTResult,
			Result:  core.OkValue([]byte("test-value")),
		},
		{
			MsgType: common.MsgTResult,
			Result:  core.OkValue([][]byte{[]byte("a"), []byte("b")}),
		},
		{
			MsgType: common.MsgTResult,
			Result: core.OkValue([]core.Result{
				core.OkValue(int64(1)),
				core.Error("NotFound", "no such key"),
			}),
		},
		{
			MsgType: common.MsgTResult,
			Result:  core.Error("WrongType", "value is not a string"),
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for msgType := common.MsgTCommand; msgType <= common.MsgTError; msgType++ {
				msg := common.Message{MsgType: msgType}

				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType.String(), err)
					continue
				}

				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType.String(), err)
					continue
				}

				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s",
						msgType.String(), result.MsgType.String())
				}
			}
		})
	}
}

// TestBinarySerializerSpecific tests specific edge cases for the binary serializer
func TestBinarySerializerSpecific(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name string
		msg  common.Message
	}{
		{
			name: "Empty message",
			msg:  common.Message{},
		},
		{
			name: "Command with no args",
			msg:  common.Message{MsgType: common.MsgTCommand, Command: core.Command{Cmd: "PING"}},
		},
		{
			name: "Command with empty-but-non-nil arg",
			msg: common.Message{
				MsgType: common.MsgTCommand,
				Command: core.Command{Cmd: "APPEND", Args: [][]byte{[]byte("k"), {}}},
			},
		},
		{
			name: "Result with nil value",
			msg:  common.Message{MsgType: common.MsgTResult, Result: core.Ok()},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := serializer.Serialize(tc.msg)
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			var result common.Message
			err = serializer.Deserialize(data, &result)
			if err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			if result.MsgType != tc.msg.MsgType {
				t.Errorf("MsgType mismatch: expected %v, got %v", tc.msg.MsgType, result.MsgType)
			}
			if result.Command.Cmd != tc.msg.Command.Cmd {
				t.Errorf("Command.Cmd mismatch: expected %q, got %q", tc.msg.Command.Cmd, result.Command.Cmd)
			}
			if result.Result.OK != tc.msg.Result.OK {
				t.Errorf("Result.OK mismatch: expected %v, got %v", tc.msg.Result.OK, result.Result.OK)
			}
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Too short header",
			data:        []byte{1},
			expectError: true,
		},
		{
			name:        "Valid header only, no flags",
			data:        []byte{byte(common.MsgTError), 0},
			expectError: false,
		},
		{
			name:        "Command flag set but truncated",
			data:        []byte{byte(common.MsgTCommand), hasCommand, 0, 0, 0, 5, 'a', 'b', 'c'},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
