// Package base provides the foundation for the transport layers of the Dynomite
// RPC stack, implementing framing, buffering and connection handling independent of
// the specific network protocol (TCP, Unix sockets). Protocol specific packages only
// supply connectors.
//
// The package focuses on:
//   - Protocol-agnostic client and server transport implementations
//   - A buffering layer (bufio) on top of each raw connection
//   - Frame-based message protocol with sequence id tracking
//   - Buffer reuse and bounded per-connection concurrency on the server
//
// Frame format (big endian):
//
//	| seqID uint64 | length uint32 | payload (length bytes) |
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     that allow extending the base transport with different network protocols.
//
//   - clientTransport: Dials one connection per Open call and returns it wrapped in
//     the buffering layer. It does not pool, retry or reconnect.
//
//   - serverTransport: Accepts connections and hands every frame to the registered
//     handler. The reply carries the sequence id of its request.
//
// Performance Optimizations:
//
//   - Buffer Pooling: The server uses a sync.Pool to reuse frame buffers, reducing
//     GC pressure and memory allocations.
//
//   - Worker Pool: Each server connection processes up to WorkersPerConn requests
//     concurrently, limited by a counting semaphore.
//
// Thread Safety:
//
//	The server transport is safe for concurrent use. A buffered client stream is
//	not, it must be owned by one caller at a time.
package base
