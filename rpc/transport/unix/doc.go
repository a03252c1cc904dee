// Package unix implements a transport layer for the Dynomite RPC stack using
// Unix domain sockets. It provides optimized communication for processes running
// on the same machine.
//
// This package extends the base transport layer with Unix socket-specific connectors
// while inheriting framing, buffering and the server worker pool from the base package.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners and accepts connections
//
// Client configs for this transport set the socket path as Host and leave Port at 0.
package unix
