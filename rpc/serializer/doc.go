// Package serializer encodes common.Message for the binary protocol. It defines one
// interface and several implementations that client and server pick by name.
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//
//   - binarySerializerImpl: compact custom format. A flag byte marks the present
//     fields, so an empty context stays distinguishable from a missing one.
//     Trailing bytes and oversized value lists are rejected.
//
//   - gobSerializerImpl: Implementation using Go's built-in gob encoding, offering
//     good compatibility with Go's type system but with larger serialized sizes.
//
//   - jsonSerializerImpl: Implementation using JSON encoding, useful for debugging
//     or interoperability with other systems, but with lower performance.
//
// Binary is the default of client and server. JSON is useful for debugging,
// GOB mostly exists for comparison in the benchmarks.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	Serializers are typically created once and reused throughout the application:
//
//	  serializer := serializer.NewBinarySerializer()
//	  data, err := serializer.Serialize(message)
//	  // ... send data ...
//	  var receivedMsg common.Message
//	  err = serializer.Deserialize(receivedData, &receivedMsg)
package serializer
