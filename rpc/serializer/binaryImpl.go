package serializer

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"

	core "github.com/edisdb/edis/common"
	"github.com/edisdb/edis/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency. Command is framed by hand, field by
// field, since every one of its fields is already byte-shaped. Result.Value
// is `any` - whatever shape a keyspace handler returned - so it is carried
// as an embedded gob blob rather than hand-framed.
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasCommand byte = 1 << 0
	hasResult  byte = 1 << 1
	hasErr     byte = 1 << 2
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(msg.MsgType))

	var flags byte
	switch msg.MsgType {
	case common.MsgTCommand:
		flags |= hasCommand
	case common.MsgTResult:
		flags |= hasResult
	case common.MsgTError:
		flags |= hasErr
	}
	buf.WriteByte(flags)

	switch {
	case flags&hasCommand != 0:
		if err := writeCommand(&buf, msg.Command); err != nil {
			return nil, err
		}
	case flags&hasResult != 0:
		if err := writeResult(&buf, msg.Result); err != nil {
			return nil, err
		}
	case flags&hasErr != 0:
		writeString(&buf, msg.Err)
	}

	return buf.Bytes(), nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	r := bytes.NewReader(data[2:])

	switch {
	case flags&hasCommand != 0:
		cmd, err := readCommand(r)
		if err != nil {
			return fmt.Errorf("binary serializer: decode command: %w", err)
		}
		msg.Command = cmd
	case flags&hasResult != 0:
		res, err := readResult(r)
		if err != nil {
			return fmt.Errorf("binary serializer: decode result: %w", err)
		}
		msg.Result = res
	case flags&hasErr != 0:
		s, err := readString(r)
		if err != nil {
			return fmt.Errorf("binary serializer: decode err: %w", err)
		}
		msg.Err = s
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods: Command framing
// --------------------------------------------------------------------------

const (
	cmdHasExpire byte = 1 << 0
	cmdHasBatch  byte = 1 << 1
)

func writeCommand(buf *bytes.Buffer, cmd core.Command) error {
	writeString(buf, cmd.Cmd)

	binary.Write(buf, binary.BigEndian, uint32(len(cmd.Args)))
	for _, a := range cmd.Args {
		writeBytes(buf, a)
	}

	var flags byte
	if cmd.Expire != nil {
		flags |= cmdHasExpire
	}
	if len(cmd.Batch) > 0 {
		flags |= cmdHasBatch
	}
	buf.WriteByte(flags)

	if cmd.Expire != nil {
		binary.Write(buf, binary.BigEndian, cmd.Expire.UnixNano())
	}

	if len(cmd.Batch) > 0 {
		binary.Write(buf, binary.BigEndian, uint32(len(cmd.Batch)))
		for _, sub := range cmd.Batch {
			if err := writeCommand(buf, sub); err != nil {
				return err
			}
		}
	}

	return nil
}

func readCommand(r *bytes.Reader) (core.Command, error) {
	var cmd core.Command

	cmdName, err := readString(r)
	if err != nil {
		return cmd, err
	}
	cmd.Cmd = cmdName

	var argc uint32
	if err := binary.Read(r, binary.BigEndian, &argc); err != nil {
		return cmd, err
	}
	if argc > 0 {
		cmd.Args = make([][]byte, argc)
		for i := range cmd.Args {
			a, err := readBytes(r)
			if err != nil {
				return cmd, err
			}
			cmd.Args[i] = a
		}
	}

	flags, err := r.ReadByte()
	if err != nil {
		return cmd, err
	}

	if flags&cmdHasExpire != 0 {
		var nanos int64
		if err := binary.Read(r, binary.BigEndian, &nanos); err != nil {
			return cmd, err
		}
		t := time.Unix(0, nanos)
		cmd.Expire = &t
	}

	if flags&cmdHasBatch != 0 {
		var batchLen uint32
		if err := binary.Read(r, binary.BigEndian, &batchLen); err != nil {
			return cmd, err
		}
		cmd.Batch = make([]core.Command, batchLen)
		for i := range cmd.Batch {
			sub, err := readCommand(r)
			if err != nil {
				return cmd, err
			}
			cmd.Batch[i] = sub
		}
	}

	return cmd, nil
}

// --------------------------------------------------------------------------
// Helper Methods: Result framing
// --------------------------------------------------------------------------

func writeResult(buf *bytes.Buffer, res core.Result) error {
	if res.OK {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	writeString(buf, res.ErrKind)
	writeString(buf, res.ErrMsg)

	var valueBlob bytes.Buffer
	if res.Value != nil {
		enc := gob.NewEncoder(&valueBlob)
		// encode through a pointer so gob sends an interface value, which
		// readResult can decode back into the `any` field
		if err := enc.Encode(&res.Value); err != nil {
			return fmt.Errorf("binary serializer: encode result value: %w", err)
		}
	}
	writeBytes(buf, valueBlob.Bytes())

	return nil
}

func readResult(r *bytes.Reader) (core.Result, error) {
	var res core.Result

	okByte, err := r.ReadByte()
	if err != nil {
		return res, err
	}
	res.OK = okByte != 0

	res.ErrKind, err = readString(r)
	if err != nil {
		return res, err
	}
	res.ErrMsg, err = readString(r)
	if err != nil {
		return res, err
	}

	blob, err := readBytes(r)
	if err != nil {
		return res, err
	}
	if len(blob) > 0 {
		dec := gob.NewDecoder(bytes.NewReader(blob))
		if err := dec.Decode(&res.Value); err != nil {
			return res, fmt.Errorf("decode result value: %w", err)
		}
	}

	return res, nil
}

// --------------------------------------------------------------------------
// Helper Methods: primitives
// --------------------------------------------------------------------------

func writeBytes(buf *bytes.Buffer, b []byte) {
	binary.Write(buf, binary.BigEndian, uint32(len(b)))
	buf.Write(b)
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	b := make([]byte, n)
	if _, err := r.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeBytes(buf, []byte(s))
}

func readString(r *bytes.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
