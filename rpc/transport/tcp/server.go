package tcp

import (
	"fmt"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/ValentinKolb/dynoKV/rpc/transport/base"
	"net"
	"time"
)

// serverConnector implements the IServerConnector interface for TCP sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "tcp"
}

func (c *serverConnector) Listen(config common.ServerConfig) (net.Listener, error) {
	listener, err := net.Listen("tcp", config.Transport.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %w", err)
	}

	return listener, nil
}

func (c *serverConnector) UpgradeConnection(conn net.Conn, config common.ServerConfig) error {
	return upgradeTCPConn(conn, config.Transport.SocketConf, config.Transport.TCPConf)
}

// upgradeTCPConn applies the TCP and socket options to a connection
func upgradeTCPConn(conn net.Conn, socket common.SocketConf, tcp common.TCPConf) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil // Not a TCP connection, nothing to upgrade
	}

	// Disable Nagle's algorithm (TCPNoDelay) if configured
	if err := tcpConn.SetNoDelay(tcp.TCPNoDelay); err != nil {
		return err
	}

	if socket.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(socket.WriteBufferSize); err != nil {
			return err
		}
	}

	if socket.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(socket.ReadBufferSize); err != nil {
			return err
		}
	}

	if tcp.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(tcp.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}

	// Zero keeps the OS default
	if tcp.TCPLingerSec > 0 {
		if err := tcpConn.SetLinger(tcp.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPServerTransport creates a new TCP server transport
func NewTCPServerTransport() transport.IRPCServerTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}
