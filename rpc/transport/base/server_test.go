package base_test

import (
	"bytes"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/ValentinKolb/dynoKV/rpc/transport/base"
	"github.com/ValentinKolb/dynoKV/rpc/transport/tcp"
	"github.com/ValentinKolb/dynoKV/rpc/transport/unix"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// echoServer starts a server transport that answers every frame with its reversed payload
func echoServer(t *testing.T, st transport.IRPCServerTransport, endpoint string) string {
	t.Helper()

	st.RegisterHandler(func(req []byte) []byte {
		resp := make([]byte, len(req))
		for i, b := range req {
			resp[len(req)-1-i] = b
		}
		return resp
	})

	config := common.ServerConfig{
		TimeoutSecond: 5,
		Transport: common.ServerTransportConfig{
			Endpoint:       endpoint,
			WorkersPerConn: 4,
		},
	}
	if err := st.Bind(config); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	go func() { _ = st.Serve() }()
	t.Cleanup(func() { _ = st.Close() })

	return st.Addr()
}

func TestServerTransports(t *testing.T) {
	tests := []struct {
		name   string
		server func() transport.IRPCServerTransport
		client func() transport.IRPCClientTransport
		// endpoint returns the listen address
		endpoint func(t *testing.T) string
		// config builds the client config from the bound address
		config func(addr string) common.ClientConfig
	}{
		{
			name:     "TCP",
			server:   tcp.NewTCPServerTransport,
			client:   tcp.NewTCPClientTransport,
			endpoint: func(*testing.T) string { return "127.0.0.1:0" },
			config: func(addr string) common.ClientConfig {
				host, port, _ := net.SplitHostPort(addr)
				p, _ := strconv.Atoi(port)
				return common.ClientConfig{Host: host, Port: p}
			},
		},
		{
			name:     "Unix",
			server:   unix.NewUnixServerTransport,
			client:   unix.NewUnixClientTransport,
			endpoint: func(t *testing.T) string { return filepath.Join(t.TempDir(), "dyno.sock") },
			config: func(addr string) common.ClientConfig {
				return common.ClientConfig{Host: addr}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := echoServer(t, tt.server(), tt.endpoint(t))
			if addr == "" {
				t.Fatalf("Addr() is empty after Bind")
			}

			stream, err := tt.client().Open(tt.config(addr))
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer stream.Close()

			for seqID := uint64(1); seqID <= 3; seqID++ {
				payload := []byte("frame-" + strconv.FormatUint(seqID, 10))
				if err := base.WriteFrame(stream, seqID, payload); err != nil {
					t.Fatalf("WriteFrame() error = %v", err)
				}
				if err := stream.Flush(); err != nil {
					t.Fatalf("Flush() error = %v", err)
				}

				gotSeq, data, err := base.ReadFrame(stream, nil)
				if err != nil {
					t.Fatalf("ReadFrame() error = %v", err)
				}
				if gotSeq != seqID {
					t.Errorf("seqID = %d, want %d", gotSeq, seqID)
				}
				want := make([]byte, len(payload))
				for i, b := range payload {
					want[len(payload)-1-i] = b
				}
				if !bytes.Equal(data, want) {
					t.Errorf("data = %q, want %q", data, want)
				}
			}
		})
	}
}

func TestServeWithoutBind(t *testing.T) {
	st := tcp.NewTCPServerTransport()
	st.RegisterHandler(func(req []byte) []byte { return req })
	if err := st.Serve(); err == nil {
		t.Errorf("Serve() without Bind should fail")
	}
}

func TestBindTwice(t *testing.T) {
	st := tcp.NewTCPServerTransport()
	echoServer(t, st, "127.0.0.1:0")

	err := st.Bind(common.ServerConfig{Transport: common.ServerTransportConfig{Endpoint: "127.0.0.1:0"}})
	if err == nil {
		t.Errorf("second Bind() should fail")
	}
}

func TestBufferedTransportFlush(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	stream := base.NewBufferedTransport(c1, 0)
	defer stream.Close()

	if _, err := stream.Write([]byte("buffered")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 8)
		n, _ := c2.Read(buf)
		got <- buf[:n]
	}()

	if err := stream.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if data := <-got; string(data) != "buffered" {
		t.Errorf("peer read %q, want %q", data, "buffered")
	}
}

// closingConnector is a TCP connector that runs onUpgrade for every accepted connection
type closingConnector struct {
	onUpgrade func()
}

func (c *closingConnector) GetName() string { return "tcp" }

func (c *closingConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	return net.Listen("tcp", config.Transport.Endpoint)
}

func (c *closingConnector) UpgradeConnection(net.Conn, common.ServerConfig) error {
	c.onUpgrade()
	return nil
}

func TestCloseDuringAccept(t *testing.T) {
	connector := &closingConnector{}
	st := base.NewBaseServerTransport(connector)
	// Close runs after Accept but before the connection is tracked
	connector.onUpgrade = func() { _ = st.Close() }

	st.RegisterHandler(func(req []byte) []byte { return req })
	if err := st.Bind(common.ServerConfig{Transport: common.ServerTransportConfig{Endpoint: "127.0.0.1:0"}}); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	addr := st.Addr()

	served := make(chan error, 1)
	go func() { served <- st.Serve() }()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	// The server must drop the connection instead of serving it
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, err = conn.Read(make([]byte, 1))
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		t.Fatalf("connection accepted during Close is still open")
	}
	if err == nil {
		t.Errorf("Read() on a dropped connection should fail")
	}

	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Errorf("Serve() did not return after Close")
	}
}
