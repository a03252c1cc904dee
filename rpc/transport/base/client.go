package base

import (
	"bufio"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"net"
	"time"
)

var Logger = logger.GetLogger("transport/rpc")

const (
	// DefaultBufferSize is used when the client config does not set a buffer size
	DefaultBufferSize = 4 * 1024 // 4 KB
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection to the endpoint
	Connect(endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Buffered stream
// -----------------------------------------------------------

// bufferedTransport wraps a raw connection in a read and a write buffer
type bufferedTransport struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// NewBufferedTransport wraps conn in a buffering layer of the given size.
// A size <= 0 uses DefaultBufferSize.
func NewBufferedTransport(conn net.Conn, size int) transport.IStreamTransport {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &bufferedTransport{
		conn: conn,
		r:    bufio.NewReaderSize(conn, size),
		w:    bufio.NewWriterSize(conn, size),
	}
}

func (b *bufferedTransport) Read(p []byte) (int, error) {
	return b.r.Read(p)
}

func (b *bufferedTransport) Write(p []byte) (int, error) {
	return b.w.Write(p)
}

func (b *bufferedTransport) Flush() error {
	return b.w.Flush()
}

func (b *bufferedTransport) SetDeadline(t time.Time) error {
	return b.conn.SetDeadline(t)
}

// Close drops unflushed data and closes the connection
func (b *bufferedTransport) Close() error {
	return b.conn.Close()
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// clientTransport opens buffered streams using a connector
type clientTransport struct {
	connector IClientConnector
}

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) GetName() string {
	return t.connector.GetName()
}

// Open dials the configured endpoint. Dial errors are returned as they are,
// so callers can inspect them with errors.As.
func (t *clientTransport) Open(config common.ClientConfig) (transport.IStreamTransport, error) {
	endpoint := config.Endpoint()

	conn, err := t.connector.Connect(endpoint)
	if err != nil {
		return nil, err
	}

	// Upgrade the connection with protocol-specific settings
	if err := t.connector.UpgradeConnection(conn, config); err != nil {
		_ = conn.Close()
		return nil, err
	}

	Logger.Debugf("opened %s connection to %s", t.connector.GetName(), endpoint)

	return NewBufferedTransport(conn, config.Transport.BufferSize), nil
}
