package client

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dynoKV/dynomite"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/protocol"
	"github.com/ValentinKolb/dynoKV/rpc/serializer"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/ValentinKolb/dynoKV/rpc/transport/tcp"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"sync"
	"sync/atomic"
	"time"
)

var Logger = logger.GetLogger("client")

// ErrClosed is returned by every operation after Close was called
var ErrClosed = errors.New("client is closed")

var (
	connectsTotal      = metrics.GetOrCreateCounter("dyno_client_connects_total")
	connectErrorsTotal = metrics.GetOrCreateCounter("dyno_client_connect_errors_total")
	disconnectsTotal   = metrics.GetOrCreateCounter("dyno_client_disconnects_total")

	callMetrics = newCallMetrics(common.MsgTGet, common.MsgTPut, common.MsgTHas, common.MsgTRemove)
)

// methodMetrics are the metrics of one service method
type methodMetrics struct {
	calls    *metrics.Counter
	errors   *metrics.Counter
	duration *metrics.Histogram
}

func newCallMetrics(methods ...common.MessageType) map[common.MessageType]*methodMetrics {
	m := make(map[common.MessageType]*methodMetrics, len(methods))
	for _, method := range methods {
		m[method] = &methodMetrics{
			calls:    metrics.GetOrCreateCounter(fmt.Sprintf(`dyno_client_calls_total{method=%q}`, method)),
			errors:   metrics.GetOrCreateCounter(fmt.Sprintf(`dyno_client_call_errors_total{method=%q}`, method)),
			duration: metrics.GetOrCreateHistogram(fmt.Sprintf(`dyno_client_call_duration_seconds{method=%q}`, method)),
		}
	}
	return m
}

// ClientFactory builds the service client on top of an open protocol
type ClientFactory func(p protocol.IProtocol) dynomite.IDynomite

// DefaultClientFactory returns the generated Dynomite client
func DefaultClientFactory(p protocol.IProtocol) dynomite.IDynomite {
	return dynomite.NewClient(p)
}

// connection is the open client stack of one session
type connection struct {
	mu       sync.Mutex // Serializes calls, the protocol is not safe for concurrent use
	protocol protocol.IProtocol
	service  dynomite.IDynomite
}

// Client is a lazily connecting facade over the Dynomite service.
// Every session owns at most one connection, which is opened on first use
// and reused until Disconnect or Close.
type Client struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	factory    ClientFactory

	slots    *xsync.MapOf[SessionID, *connection]
	connects atomic.Uint64
	closed   atomic.Bool
}

// New creates a client for host:port using TCP and the binary serializer.
// No connection is opened.
func New(host string, port int) *Client {
	config := common.ClientConfig{
		Host:          host,
		Port:          port,
		TimeoutSecond: 5,
		Transport: common.ClientTransportConfig{
			TCPConf: common.TCPConf{TCPNoDelay: true},
		},
	}
	return NewClient(
		config,
		tcp.NewTCPClientTransportWithTimeout(time.Duration(config.TimeoutSecond)*time.Second),
		serializer.NewBinarySerializer(),
	)
}

// NewClient creates a client with an explicit transport and serializer.
// No connection is opened.
//
// Usage:
//
//	c := client.NewClient(
//		common.ClientConfig{Host: "localhost", Port: 9191},
//		tcp.NewTCPClientTransport(),
//		serializer.NewBinarySerializer(),
//	)
//	defer c.Close()
//
//	if _, err := c.PutDefault([]byte("a"), []byte("1")); err != nil {
//		panic(err)
//	}
func NewClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) *Client {
	return NewClientWithFactory(config, transport, serializer, DefaultClientFactory)
}

// NewClientWithFactory is NewClient with a custom service client factory
func NewClientWithFactory(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
	factory ClientFactory,
) *Client {
	Logger.Debugf("Created client for %s", config.Endpoint())
	return &Client{
		config:     config,
		transport:  transport,
		serializer: serializer,
		factory:    factory,
		slots:      xsync.NewMapOf[SessionID, *connection](),
	}
}

// Session returns the handle for session id.
// Handles are cheap, all handles of the same id share one connection.
func (c *Client) Session(id SessionID) *Session {
	return &Session{client: c, id: id}
}

// Endpoint returns the configured server address
func (c *Client) Endpoint() string {
	return c.config.Endpoint()
}

// ConnectCount returns how many connections were established successfully
func (c *Client) ConnectCount() uint64 {
	return c.connects.Load()
}

// Sessions returns the number of sessions with an open connection
func (c *Client) Sessions() int {
	return c.slots.Size()
}

// Close disconnects all sessions. Any later call fails with ErrClosed.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	var errs []error
	c.slots.Range(func(id SessionID, _ *connection) bool {
		if err := c.disconnect(id); err != nil {
			errs = append(errs, fmt.Errorf("session %d: %w", id, err))
		}
		return true
	})

	Logger.Debugf("Closed client for %s", c.config.Endpoint())
	return errors.Join(errs...)
}

// --------------------------------------------------------------------------
// Default Session (docu see Session)
// --------------------------------------------------------------------------

func (c *Client) Get(key []byte) (dynomite.GetResult, error) {
	return c.Session(DefaultSession).Get(key)
}

func (c *Client) Put(key, value, context []byte) (int32, error) {
	return c.Session(DefaultSession).Put(key, value, context)
}

func (c *Client) PutDefault(key, value []byte) (int32, error) {
	return c.Session(DefaultSession).PutDefault(key, value)
}

func (c *Client) Has(key []byte) (int32, error) {
	return c.Session(DefaultSession).Has(key)
}

func (c *Client) Remove(key []byte) (int32, error) {
	return c.Session(DefaultSession).Remove(key)
}

func (c *Client) Connect() error {
	return c.Session(DefaultSession).Connect()
}

func (c *Client) Disconnect() error {
	return c.Session(DefaultSession).Disconnect()
}

func (c *Client) Connected() bool {
	return c.Session(DefaultSession).Connected()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// connect returns the connection of session id and opens it if needed
func (c *Client) connect(id SessionID) (*connection, error) {
	if conn, ok := c.slots.Load(id); ok {
		return conn, nil
	}
	if c.closed.Load() {
		return nil, ErrClosed
	}

	stream, err := c.transport.Open(c.config)
	if err != nil {
		connectErrorsTotal.Inc()
		Logger.Warningf("session %d: failed to connect to %s: %v", id, c.config.Endpoint(), err)
		return nil, err
	}

	p := protocol.NewBinaryProtocol(stream, c.serializer, time.Duration(c.config.TimeoutSecond)*time.Second)
	conn := &connection{protocol: p, service: c.factory(p)}

	// Two handles of the same session may race here, the first one wins
	if actual, loaded := c.slots.LoadOrStore(id, conn); loaded {
		_ = p.Close()
		return actual, nil
	}

	// Close ran while dialing
	if c.closed.Load() {
		_ = c.disconnect(id)
		return nil, ErrClosed
	}

	c.connects.Add(1)
	connectsTotal.Inc()
	Logger.Debugf("session %d: connected to %s via %s/%s", id, c.config.Endpoint(), c.transport.GetName(), c.serializer.GetName())
	return conn, nil
}

// disconnect closes the connection of session id if there is one
func (c *Client) disconnect(id SessionID) error {
	conn, ok := c.slots.LoadAndDelete(id)
	if !ok {
		return nil
	}

	// Wait for a running call
	conn.mu.Lock()
	defer conn.mu.Unlock()

	disconnectsTotal.Inc()
	Logger.Debugf("session %d: disconnected from %s", id, c.config.Endpoint())
	return conn.protocol.Close()
}

// call runs fn with the service client of session id
func call[T any](c *Client, id SessionID, method common.MessageType, fn func(dynomite.IDynomite) (T, error)) (T, error) {
	var zero T

	conn, err := c.connect(id)
	if err != nil {
		return zero, err
	}

	conn.mu.Lock()
	defer conn.mu.Unlock()

	start := time.Now()
	res, err := fn(conn.service)

	m := callMetrics[method]
	m.calls.Inc()
	m.duration.UpdateDuration(start)
	if err != nil {
		m.errors.Inc()
		return zero, err
	}
	return res, nil
}
