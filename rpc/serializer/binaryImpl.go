package serializer

import (
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/dynoKV/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey     byte = 1 << 0
	hasContext byte = 1 << 1
	hasValue   byte = 1 << 2
	hasValues  byte = 1 << 3
	hasCount   byte = 1 << 4
	hasErr     byte = 1 << 5
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) GetName() string {
	return "binary"
}

func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	// Calculate total size needed
	result := make([]byte, b.sizeBytes(msg))

	// Write message type
	result[0] = byte(msg.MsgType)

	var flags byte = 0
	pos := 2 // Start after MsgType and flags

	// Handle Key
	if msg.Key != nil {
		flags |= hasKey
		pos = putBytes(result, pos, msg.Key)
	}

	// Handle Context
	if msg.Context != nil {
		flags |= hasContext
		pos = putBytes(result, pos, msg.Context)
	}

	// Handle Value
	if msg.Value != nil {
		flags |= hasValue
		pos = putBytes(result, pos, msg.Value)
	}

	// Handle Values (count followed by length prefixed entries)
	if msg.Values != nil {
		flags |= hasValues
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(len(msg.Values)))
		pos += 4
		for _, v := range msg.Values {
			pos = putBytes(result, pos, v)
		}
	}

	// Handle Count
	if msg.Count != 0 {
		flags |= hasCount
		binary.BigEndian.PutUint32(result[pos:pos+4], uint32(msg.Count))
		pos += 4
	}

	// Handle Err
	if msg.Err != "" {
		flags |= hasErr
		pos = putBytes(result, pos, []byte(msg.Err))
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags

	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	// Check minimum size (MsgType + flags)
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}

	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	pos := 2

	var err error

	// Read Key if present
	msg.Key = nil
	if flags&hasKey != 0 {
		if msg.Key, pos, err = readBytes(data, pos, "key"); err != nil {
			return err
		}
	}

	// Read Context if present
	msg.Context = nil
	if flags&hasContext != 0 {
		if msg.Context, pos, err = readBytes(data, pos, "context"); err != nil {
			return err
		}
	}

	// Read Value if present
	msg.Value = nil
	if flags&hasValue != 0 {
		if msg.Value, pos, err = readBytes(data, pos, "value"); err != nil {
			return err
		}
	}

	// Read Values if present
	msg.Values = nil
	if flags&hasValues != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for values count")
		}
		n := binary.BigEndian.Uint32(data[pos : pos+4])
		pos += 4

		// every entry needs at least its 4 byte length prefix
		if uint64(n)*4 > uint64(len(data)-pos) {
			return fmt.Errorf("data too short for %d values", n)
		}

		msg.Values = make([][]byte, n)
		for i := range msg.Values {
			if msg.Values[i], pos, err = readBytes(data, pos, "values entry"); err != nil {
				return err
			}
		}
	}

	// Read Count if present
	msg.Count = 0
	if flags&hasCount != 0 {
		if pos+4 > len(data) {
			return fmt.Errorf("data too short for count")
		}
		msg.Count = int32(binary.BigEndian.Uint32(data[pos : pos+4]))
		pos += 4
	}

	// Read Err if present
	msg.Err = ""
	if flags&hasErr != 0 {
		var errBytes []byte
		if errBytes, pos, err = readBytes(data, pos, "error"); err != nil {
			return err
		}
		msg.Err = string(errBytes)
	}

	if pos != len(data) {
		return fmt.Errorf("%d trailing bytes after message", len(data)-pos)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Key != nil {
		size += 4 + len(msg.Key)
	}
	if msg.Context != nil {
		size += 4 + len(msg.Context)
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.Values != nil {
		size += 4
		for _, v := range msg.Values {
			size += 4 + len(v)
		}
	}
	if msg.Count != 0 {
		size += 4
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}

	return size
}

// putBytes writes a length prefixed byte slice at pos and returns the new position
func putBytes(dst []byte, pos int, src []byte) int {
	binary.BigEndian.PutUint32(dst[pos:pos+4], uint32(len(src)))
	pos += 4
	copy(dst[pos:pos+len(src)], src)
	return pos + len(src)
}

// readBytes reads a length prefixed byte slice at pos.
// The returned slice is a copy, so it stays valid if data is reused.
func readBytes(data []byte, pos int, field string) ([]byte, int, error) {
	if pos+4 > len(data) {
		return nil, pos, fmt.Errorf("data too short for %s length", field)
	}
	n := int(binary.BigEndian.Uint32(data[pos : pos+4]))
	pos += 4

	if n > len(data)-pos {
		return nil, pos, fmt.Errorf("data too short for %s data", field)
	}

	out := make([]byte, n)
	copy(out, data[pos:pos+n])
	return out, pos + n, nil
}
