package serializer

import (
	"testing"

	core "github.com/edisdb/edis/common"
	"github.com/edisdb/edis/rpc/common"
)

// benchmarkMessages returns a set of messages for targeted benchmarking
func benchmarkMessages() map[string]common.Message {
	return map[string]common.Message{
		"Ping": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "PING"},
		},
		"SmallGet": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "GET", Args: [][]byte{[]byte("k")}},
		},
		"MediumGet": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "GET", Args: [][]byte{[]byte("medium-length-key-for-testing")}},
		},
		"LargeKey": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "GET", Args: [][]byte{
				[]byte("this-is-a-very-large-key-that-could-be-used-for-storing-data-or-as-a-document-id-in-some-cases"),
			}},
		},
		"SmallSet": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "SET", Args: [][]byte{[]byte("key"), []byte("v")}},
		},
		"MediumSet": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "SET", Args: [][]byte{
				[]byte("key"), []byte("medium length value for testing serialization"),
			}},
		},
		"LargeValue": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "SET", Args: [][]byte{[]byte("key"), make([]byte, 1024)}},
		},
		"VeryLargeValue": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "SET", Args: [][]byte{[]byte("key"), make([]byte, 1024*16)}},
		},
		"ExecBatch": {
			MsgType: common.MsgTCommand,
			Command: core.Command{Cmd: "EXEC", Batch: []core.Command{
				{Cmd: "GET", Args: [][]byte{[]byte("a")}},
				{Cmd: "SET", Args: [][]byte{[]byte("a"), []byte("b")}},
				{Cmd: "DEL", Args: [][]byte{[]byte("a")}},
			}},
		},
		"OkResult": {
			MsgType: common.MsgTResult,
			Result:  core.Ok(),
		},
		"ValueResult": {
			MsgType: common.MsgTResult,
			Result:  core.OkValue([]byte("test-value-data")),
		},
		"ErrorResult": {
			MsgType: common.MsgTResult,
			Result:  core.Error("NotFound", "no such key"),
		},
		"ErrorMessage": {
			MsgType: common.MsgTError,
			Err:     "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		},
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various message types
func BenchmarkSerialize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := serializer.Serialize(msg)
					if err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various message types
func BenchmarkDeserialize(b *testing.B) {
	messages := benchmarkMessages()
	serializedData := make(map[string]map[string][]byte)

	for name, factory := range testSerializers {
		serializer := factory()
		serializedData[name] = make(map[string][]byte)

		for msgName, msg := range messages {
			data, err := serializer.Serialize(msg)
			if err != nil {
				b.Fatalf("Failed to serialize %s with %s: %v", msgName, name, err)
			}
			serializedData[name][msgName] = data
		}
	}

	for name, factory := range testSerializers {
		for msgName := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data := serializedData[name][msgName]
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var msg common.Message
					err := serializer.Deserialize(data, &msg)
					if err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkSize measures and reports the serialized size for each message type
func BenchmarkSize(b *testing.B) {
	messages := benchmarkMessages()

	for name, factory := range testSerializers {
		serializer := factory()

		for msgName, msg := range messages {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}

				b.ReportMetric(float64(len(data)), "bytes")

				for i := 0; i < b.N; i++ {
					_ = data
				}
			})
		}
	}
}
