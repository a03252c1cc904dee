package serializer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"github.com/ValentinKolb/dynoKV/rpc/common"
)

// NewGOBSerializer creates a new serializer using Go's binary gob format.
// Gob drops empty slices, an empty context arrives as nil.
func NewGOBSerializer() IRPCSerializer {
	return &gobSerializerImpl{}
}

type gobSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) GetName() string {
	return "gob"
}

func (g gobSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("gob encode %s: %w", msg.MsgType, err)
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	// gob keeps fields that are not part of the stream
	*msg = common.Message{}
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(msg); err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}
	return nil
}
