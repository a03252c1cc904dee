// Package protocol implements the binary framing layer of the Dynomite RPC stack.
// It sits between a buffered stream (see the transport package) and the generated
// service client (see the dynomite package).
//
// Every call serializes one common.Message, writes it as a single frame tagged with
// an increasing sequence id, flushes the stream and reads exactly one reply frame.
// A reply with a different sequence id is reported as an error, the stream should be
// considered broken afterwards.
//
// Calls are synchronous and never pipelined. A protocol instance belongs to one
// connection and must not be shared between goroutines.
package protocol
