package tcp

import (
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/ValentinKolb/dynoKV/rpc/transport/base"
	"net"
	"time"
)

// clientConnector implements the IClientConnector interface for TCP sockets
type clientConnector struct {
	dialTimeout time.Duration
}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "tcp"
}

func (c *clientConnector) Connect(endpoint string) (net.Conn, error) {
	if c.dialTimeout > 0 {
		return net.DialTimeout("tcp", endpoint, c.dialTimeout)
	}
	return net.Dial("tcp", endpoint)
}

func (c *clientConnector) UpgradeConnection(conn net.Conn, config common.ClientConfig) error {
	return upgradeTCPConn(conn, config.Transport.SocketConf, config.Transport.TCPConf)
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPClientTransport creates a new TCP client transport
func NewTCPClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}

// NewTCPClientTransportWithTimeout creates a new TCP client transport that gives up dialing after timeout
func NewTCPClientTransportWithTimeout(timeout time.Duration) transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{dialTimeout: timeout})
}
