package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Key     []byte   `json:"key,omitempty"`     // Used for: Get, Put, Has, Remove
	Context []byte   `json:"context,omitempty"` // Used for: Put (request), Get (response)
	Value   []byte   `json:"value,omitempty"`   // Used for: Put (request)
	Values  [][]byte `json:"values,omitempty"`  // Used for: Get (response)

	// Response only fields
	Count int32  `json:"count,omitempty"` // Used for: Put, Has, Remove responses
	Err   string `json:"err,omitempty"`   // Empty if no error, otherwise contains the error message
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewGetRequest creates a new Get request
func NewGetRequest(key []byte) *Message {
	return &Message{
		MsgType: MsgTGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(context []byte, values [][]byte, err error) *Message {
	msg := &Message{
		MsgType: MsgTGet,
		Context: context,
		Values:  values,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// NewPutRequest creates a new Put request.
// The argument order follows the service contract: key, context, value.
func NewPutRequest(key, context, value []byte) *Message {
	return &Message{
		MsgType: MsgTPut,
		Key:     key,
		Context: context,
		Value:   value,
	}
}

// NewPutResponse creates a new Put response
func NewPutResponse(count int32, err error) *Message {
	return newCountResponse(MsgTPut, count, err)
}

// NewHasRequest creates a new Has request
func NewHasRequest(key []byte) *Message {
	return &Message{
		MsgType: MsgTHas,
		Key:     key,
	}
}

// NewHasResponse creates a new Has response
func NewHasResponse(count int32, err error) *Message {
	return newCountResponse(MsgTHas, count, err)
}

// NewRemoveRequest creates a new Remove request
func NewRemoveRequest(key []byte) *Message {
	return &Message{
		MsgType: MsgTRemove,
		Key:     key,
	}
}

// NewRemoveResponse creates a new Remove response
func NewRemoveResponse(count int32, err error) *Message {
	return newCountResponse(MsgTRemove, count, err)
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

func newCountResponse(t MessageType, count int32, err error) *Message {
	msg := &Message{
		MsgType: t,
		Count:   count,
	}
	if err != nil {
		msg.Err = err.Error()
	}
	return msg
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTGet:
		return "get"
	case MsgTPut:
		return "put"
	case MsgTHas:
		return "has"
	case MsgTRemove:
		return "remove"
	case MsgTError:
		return "error"
	case MsgTSuccess:
		return "success"
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
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "get":
		*t = MsgTGet
	case "put":
		*t = MsgTPut
	case "has":
		*t = MsgTHas
	case "remove":
		*t = MsgTRemove
	case "error":
		*t = MsgTError
	case "success":
		*t = MsgTSuccess
	default:
		return fmt.Errorf("unknown message type: %s", s)
	}

	return nil
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// Dynomite service operations

	MsgTGet    // Read all versions stored for a key
	MsgTPut    // Write a value under a context
	MsgTHas    // Check if a key exists
	MsgTRemove // Delete a key
)
