package serializer

import (
	"bytes"
	"encoding/gob"

	core "github.com/edisdb/edis/common"
	"github.com/edisdb/edis/rpc/common"
)

// gob only knows how to decode into an interface-typed field (Result.Value
// is `any`) if every concrete type that ever gets stored there was
// registered up front - one entry per shape a keyspace handler returns.
func init() {
	gob.Register(int64(0))
	gob.Register(false)
	gob.Register([]byte(nil))
	gob.Register([][]byte(nil))
	gob.Register("")
	gob.Register([]any(nil))
	gob.Register([]core.Result(nil))
}

// NewGOBSerializer creates a new serializer using Go's binary gob format
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IRPCSerializer interface using gob encoding
type gobSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	buf := bytes.NewBuffer(b)
	dec := gob.NewDecoder(buf)
	return dec.Decode(msg)
}
