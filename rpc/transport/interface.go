package transport

import (
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"io"
	"time"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
// It takes a serialized request as parameter and returns the serialized response
type ServerHandleFunc func(req []byte) (resp []byte)

// IRPCServerTransport is the interface for the RPC server transport layer
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler is called once for every received request frame
	RegisterHandler(handler ServerHandleFunc)
	// Bind creates the listener without accepting connections yet
	Bind(config common.ServerConfig) error
	// Serve accepts connections on the bound listener until Close is called
	Serve() error
	// Listen is Bind followed by Serve
	Listen(config common.ServerConfig) error
	// Addr returns the address the transport is listening on, or "" before Listen
	Addr() string
	// Close stops accepting connections and closes the listener
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IStreamTransport is an open, buffered byte stream to one server.
// Writes are collected until Flush is called.
type IStreamTransport interface {
	io.Reader
	io.Writer
	// Flush writes all buffered data to the underlying connection
	Flush() error
	// SetDeadline sets the read and write deadline of the underlying connection
	SetDeadline(t time.Time) error
	// Close closes the underlying connection
	Close() error
}

// IRPCClientTransport opens stream transports to a server
type IRPCClientTransport interface {
	// Open dials the endpoint configured in config and returns the buffered stream
	Open(config common.ClientConfig) (IStreamTransport, error)
	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}
