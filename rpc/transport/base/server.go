package base

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"net"
	"sync"
	"time"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates a listener and returns it
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an accepted connection
	UpgradeConnection(conn net.Conn, config common.ServerConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

var (
	acceptedConnections = metrics.GetOrCreateCounter("dyno_server_connections_total")
	handledFrames       = metrics.GetOrCreateCounter("dyno_server_frames_total")
	frameErrors         = metrics.GetOrCreateCounter("dyno_server_frame_errors_total")
)

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector  IServerConnector
	handler    transport.ServerHandleFunc
	config     common.ServerConfig
	bufferPool *sync.Pool

	mu       sync.Mutex // Protects listener and closed
	listener net.Listener
	closed   bool

	conns *xsync.MapOf[net.Conn, struct{}] // Open client connections
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with per-connection worker pool.
// Buffer size and worker count are read from the config passed to Bind.
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
		conns:     xsync.NewMapOf[net.Conn, struct{}](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *serverTransport) Bind(config common.ServerConfig) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener != nil {
		return fmt.Errorf("%s transport is already bound to %s", t.connector.GetName(), t.listener.Addr())
	}

	// At least one worker per connection
	if config.Transport.WorkersPerConn < 1 {
		config.Transport.WorkersPerConn = 1
	}
	if config.Transport.BufferSize <= 0 {
		config.Transport.BufferSize = DefaultBufferSize
	}
	t.config = config

	bufferSize := config.Transport.BufferSize
	t.bufferPool = &sync.Pool{
		New: func() interface{} {
			return make([]byte, bufferSize)
		},
	}

	listener, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	t.listener = listener
	t.closed = false

	return nil
}

func (t *serverTransport) Serve() error {
	t.mu.Lock()
	listener := t.listener
	t.mu.Unlock()

	if listener == nil {
		return fmt.Errorf("%s transport is not bound", t.connector.GetName())
	}
	if t.handler == nil {
		return fmt.Errorf("no handler registered")
	}

	Logger.Infof("Starting %s server on %s with %d workers per connection",
		t.connector.GetName(), listener.Addr(), t.config.Transport.WorkersPerConn)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if t.isClosed() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			Logger.Errorf("Accept error: %v", err)
			continue
		}

		if err := t.connector.UpgradeConnection(conn, t.config); err != nil {
			Logger.Warningf("Failed to upgrade connection from %s: %v", conn.RemoteAddr(), err)
			_ = conn.Close()
			continue
		}

		acceptedConnections.Inc()
		t.conns.Store(conn, struct{}{})

		// Close may have ranged over conns before the store
		if t.isClosed() {
			t.conns.Delete(conn)
			_ = conn.Close()
			continue
		}

		// Handle the connection in a goroutine
		go t.handleConnection(conn)
	}
}

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if err := t.Bind(config); err != nil {
		return err
	}
	return t.Serve()
}

func (t *serverTransport) Addr() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener == nil {
		return ""
	}
	return t.listener.Addr().String()
}

func (t *serverTransport) Close() error {
	t.mu.Lock()
	t.closed = true
	listener := t.listener
	t.listener = nil
	t.mu.Unlock()

	var err error
	if listener != nil {
		err = listener.Close()
	}

	// Drop all client connections, their handlers exit on the read error
	t.conns.Range(func(conn net.Conn, _ struct{}) bool {
		_ = conn.Close()
		return true
	})

	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (t *serverTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// handleConnection handles incoming requests for one connection
func (t *serverTransport) handleConnection(conn net.Conn) {
	defer func() {
		t.conns.Delete(conn)
		_ = conn.Close()
	}()

	stream := NewBufferedTransport(conn, t.config.Transport.BufferSize)

	// Timeout in seconds
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second

	// The buffered channel acts as a counting semaphore
	workerSemaphore := make(chan struct{}, t.config.Transport.WorkersPerConn)

	// Wait for all workers before closing the connection
	var wg sync.WaitGroup

	// Protects writes to the connection
	var connMutex sync.Mutex

	// Handler function that processes requests in worker goroutines
	handleResponse := func(seqID uint64, data []byte) {
		defer func() {
			<-workerSemaphore
			wg.Done()
		}()

		start := time.Now()
		resp := t.handler(data)
		handledFrames.Inc()
		Logger.Debugf("Processed request %d from %s in %s", seqID, conn.RemoteAddr(), time.Since(start))

		connMutex.Lock()
		defer connMutex.Unlock()

		if timeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("Failed to set write deadline: %v", err)
				return
			}
		}

		// Write the response with the same sequence id
		if err := WriteFrame(stream, seqID, resp); err != nil {
			Logger.Errorf("Failed to write response: %v", err)
			return
		}
		if err := stream.Flush(); err != nil {
			Logger.Errorf("Failed to flush response: %v", err)
		}
	}

	// Function to handle incoming requests
	handleRequest := func() error {
		// The read deadline doubles as idle timeout
		if timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				return fmt.Errorf("failed to set read deadline: %v", err)
			}
		}

		buf := t.bufferPool.Get().([]byte)

		seqID, data, err := ReadFrame(stream, buf)
		if err != nil {
			t.bufferPool.Put(buf)
			return err
		}

		// Blocks if WorkersPerConn is reached
		workerSemaphore <- struct{}{}
		wg.Add(1)

		go func() {
			defer t.bufferPool.Put(buf)
			handleResponse(seqID, data)
		}()

		return nil
	}

	for {
		err := handleRequest()

		// Connection closed by client
		if err == io.EOF {
			Logger.Debugf("Connection %s closed by client", conn.RemoteAddr())
			break
		}

		if err != nil {
			if !t.isClosed() {
				frameErrors.Inc()
				Logger.Errorf("Error handling request from %s: %v", conn.RemoteAddr(), err)
			}
			break
		}
	}

	wg.Wait()
}
