package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Shared transport configuration
// --------------------------------------------------------------------------

// SocketConf holds socket buffer sizes (in bytes). Zero keeps the OS default.
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific socket options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

// ServerTransportConfig holds the transport settings of the server
type ServerTransportConfig struct {
	// Endpoint is the address the server listens on (host:port or socket path)
	Endpoint string
	// BufferSize is the size of the pooled frame buffers in bytes
	BufferSize int
	// WorkersPerConn limits the number of requests processed concurrently per connection
	WorkersPerConn int
	SocketConf
	TCPConf
}

// ServerConfig holds all configuration parameters for the RPC server.
type ServerConfig struct {
	// Read and write deadline for connections, 0 disables the deadline
	TimeoutSecond int64

	// Transport settings
	Transport ServerTransportConfig

	// MetricsEndpoint is the address of the prometheus endpoint, empty disables it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Buffer Size", fmt.Sprintf("%d bytes", c.Transport.BufferSize))
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))

	// Metrics
	addSection("Metrics")
	if c.MetricsEndpoint == "" {
		addField("Endpoint", "disabled")
	} else {
		addField("Endpoint", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

// ClientTransportConfig holds the transport settings of a client connection
type ClientTransportConfig struct {
	// BufferSize is the size of the read and write buffers wrapped around each connection
	BufferSize int
	SocketConf
	TCPConf
}

// ClientConfig holds the parameters used by the client for every connection it opens.
type ClientConfig struct {
	Host string
	Port int

	// Read and write deadline per call, 0 disables the deadline
	TimeoutSecond int

	Transport ClientTransportConfig
}

// Endpoint returns the dial address of the configured server.
// Without a port the host is returned unchanged (e.g. a unix socket path).
func (c *ClientConfig) Endpoint() string {
	if c.Port <= 0 {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Endpoint", c.Endpoint())
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Buffer Size", fmt.Sprintf("%d bytes", c.Transport.BufferSize))
	addField("TCP No Delay", strconv.FormatBool(c.Transport.TCPNoDelay))

	return sb.String()
}
