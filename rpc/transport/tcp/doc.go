// Package tcp implements the TCP socket-based transport of the Dynomite RPC stack.
// It provides concrete implementations of the base package's connector interfaces
// and applies the TCPConf and SocketConf options to every connection.
//
// This package builds on the base package's transport functionality, inheriting its
// buffering, framing and server worker pool. See the base package documentation for
// details.
//
// Key Components:
//
//   - clientConnector: TCP-specific implementation of base.IClientConnector
//
//   - serverConnector: TCP-specific implementation of base.IServerConnector
package tcp
