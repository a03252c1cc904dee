package serializer

import (
	"encoding/json"
	"github.com/ValentinKolb/dynoKV/rpc/common"
)

// NewJSONSerializer creates a new serializer using json encoding.
// Empty fields are omitted, an empty context arrives as nil.
func NewJSONSerializer() IRPCSerializer {
	return &jsonSerializerImpl{}
}

type jsonSerializerImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) GetName() string {
	return "json"
}

func (j jsonSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (j jsonSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	*msg = common.Message{}
	return json.Unmarshal(b, msg)
}
