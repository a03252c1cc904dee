package serializer

import "github.com/ValentinKolb/dynoKV/rpc/common"

// IRPCSerializer is the interface for all Message serializers
type IRPCSerializer interface {
	// Serialize serializes a Message into a byte array
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg. Fields of msg that are missing in b are
	// reset, so a Message may be reused across calls.
	Deserialize(b []byte, msg *common.Message) error
	// GetName returns the name of the format (e.g., "binary", "json")
	GetName() string
}
