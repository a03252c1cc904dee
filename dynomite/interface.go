package dynomite

import "fmt"

// GetResult is the reply of a get call: the version context of the key
// together with every value currently stored under it.
type GetResult struct {
	Context []byte
	Results [][]byte
}

// IDynomite is the Dynomite service contract. The generated client implements
// it for callers, server handlers implement it for the remote side.
type IDynomite interface {
	// Get returns the context and all stored versions for key
	Get(key []byte) (GetResult, error)
	// Put stores data under key. The context is the one returned by a previous Get
	// and may be empty. It returns the number of replicas that stored the value.
	Put(key, context, data []byte) (int32, error)
	// Has returns a positive number if key exists
	Has(key []byte) (int32, error)
	// Remove deletes key and returns the number of replicas that removed it
	Remove(key []byte) (int32, error)
}

// FailureError is the exception raised by the remote service
type FailureError struct {
	Message string
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("dynomite failure: %s", e.Message)
}
