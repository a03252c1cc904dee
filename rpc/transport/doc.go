// Package transport defines the interfaces and abstractions for the byte stream
// underneath the Dynomite RPC protocol. It provides a common contract that all transport
// implementations must fulfill, enabling protocol-agnostic communication.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - Separating the raw stream from the buffering layer on top of it
//   - Enabling multiple transport implementations (TCP, Unix sockets)
//
// Key Components:
//
//   - IRPCClientTransport: Opens one buffered stream (IStreamTransport) per call to Open.
//     It keeps no state of its own, connection ownership lies with the caller.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receive request frames and hand them to a handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
