// Package rpc contains the layers between a Dynomite client and a server.
//
// The package is organized into several subpackages:
//
//   - common: the Message exchanged by both ends, client and server
//     configuration, and the logger setup.
//
//   - transport: stream transports (TCP, Unix sockets) with a buffering layer
//     on the client side and a framed, worker based server loop.
//
//   - protocol: the binary protocol that frames one request and waits for the
//     reply with the same sequence id.
//
//   - serializer: encodings of Message (Binary, JSON, GOB).
//
//   - client: the lazy connecting, session scoped facade.
//
//   - server: the reference server that dispatches messages to a
//     dynomite.IDynomite handler.
package rpc
