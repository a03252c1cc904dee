package server

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dynoKV/dynomite"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/serializer"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"net/http"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("rpc")

// NewRPCServer creates a new RPC server
// It takes a config, transport, serializer and the service handler as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		tcp.NewTCPServerTransport(),
//		serializer.NewBinarySerializer(),
//		server.NewStoreHandler(lstore.NewLocalStore()),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
	handler dynomite.IDynomite,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Debugf("%s", config.String())

	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		handler:    handler,
		adapter:    NewDynomiteServerAdapter(),
	}
}

// RPCServer serves the Dynomite service over a server transport
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	handler    dynomite.IDynomite
	adapter    IRPCServerAdapter

	mu            sync.Mutex
	metricsServer *http.Server
}

// handle decodes one request, dispatches it and encodes the reply
func (s *RPCServer) handle(req []byte) []byte {
	start := time.Now()

	var msg common.Message
	var respMsg *common.Message

	if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = common.NewErrorResponse(fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		respMsg = s.adapter.Handle(&msg, s.handler)
	}

	metrics.GetOrCreateCounter(fmt.Sprintf(`dyno_server_requests_total{method=%q}`, msg.MsgType)).Inc()
	if respMsg.Err != "" {
		metrics.GetOrCreateCounter(fmt.Sprintf(`dyno_server_request_errors_total{method=%q}`, msg.MsgType)).Inc()
	}

	val, err := s.serializer.Serialize(*respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize %s response: %v", msg.MsgType, err)
		// the error response only carries a string, this cannot fail again
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(fmt.Sprintf("failed to serialize response: %s", err)))
	}

	metrics.GetOrCreateHistogram(`dyno_server_request_duration_seconds`).UpdateDuration(start)
	return val
}

// Bind initializes the transport and creates the listener.
// Addr is valid once Bind returned.
func (s *RPCServer) Bind() error {
	s.transport.RegisterHandler(s.handle)
	if err := s.transport.Bind(s.config); err != nil {
		return err
	}
	return s.startMetrics()
}

// Serve starts the RPC server and blocks until Close is called.
// The transport is bound first if Bind was not called before.
func (s *RPCServer) Serve() error {
	if s.transport.Addr() == "" {
		if err := s.Bind(); err != nil {
			return err
		}
	}
	Logger.Infof("dyno server ready on %s (serializer %s)", s.transport.Addr(), s.serializer.GetName())
	return s.transport.Serve()
}

// Addr returns the address the server listens on
func (s *RPCServer) Addr() string {
	return s.transport.Addr()
}

// Close stops the transport and the metrics endpoint
func (s *RPCServer) Close() error {
	err := s.transport.Close()

	s.mu.Lock()
	ms := s.metricsServer
	s.metricsServer = nil
	s.mu.Unlock()

	if ms != nil {
		err = errors.Join(err, ms.Close())
	}
	return err
}

// startMetrics exposes the prometheus metrics if an endpoint is configured
func (s *RPCServer) startMetrics() error {
	if s.config.MetricsEndpoint == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	ms := &http.Server{
		Addr:              s.config.MetricsEndpoint,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.metricsServer = ms
	s.mu.Unlock()

	go func() {
		Logger.Infof("Starting metrics endpoint on %s", ms.Addr)
		if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics endpoint failed: %v", err)
		}
	}()
	return nil
}
