// Package dynomite holds the Dynomite service contract and its client stub.
//
// IDynomite mirrors the four service methods:
//
//	get(key) -> GetResult
//	put(key, context, data) -> int32
//	has(key) -> int32
//	remove(key) -> int32
//
// Note the argument order of put: the context comes before the data.
//
// Client marshals each method into a common.Message and sends it over a
// protocol.IProtocol. Errors raised by the remote side arrive as *FailureError,
// transport and protocol errors are returned unchanged.
package dynomite
