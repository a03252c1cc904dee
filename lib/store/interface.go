package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the interface of a versioned key–value store as exposed by the
// Dynomite service. Every key holds a version context and its current values.
// All operations return a *Error (nil on success).
type IStore interface {
	// Get returns the context and the values stored for key.
	// A missing key yields a nil context and no values.
	Get(key []byte) (context []byte, values [][]byte, err error)
	// Put stores value under key. An empty context always writes. A non-empty
	// context must match the current version of the key, otherwise the write is
	// rejected with RetCConflict. It returns the number of stored copies.
	Put(key, context, value []byte) (count int32, err error)
	// Has returns 1 if the key exists and 0 otherwise.
	Has(key []byte) (count int32, err error)
	// Remove deletes key and returns the number of removed copies.
	// Removing a missing key fails with RetCNotFound.
	Remove(key []byte) (count int32, err error)
	// Len returns the number of keys in the store.
	Len() int
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCInvalidOperation                // 2: Invalid operation (e.g. malformed context).
	RetCNotFound                        // 3: The key does not exist.
	RetCConflict                        // 4: The write context is outdated.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCNotFound:
		return "NotFound"
	case RetCConflict:
		return "Conflict"
	default:
		return "Unknown"
	}
}
