// Package server implements the RPC server side of the Dynomite protocol.
// It decodes request frames, dispatches them to a dynomite.IDynomite handler and
// encodes the replies.
//
// The package focuses on:
//   - Server-side request handling for the four service methods
//   - Adapter pattern to decouple the service logic from RPC mechanisms
//   - Per-method request counters and a latency histogram (VictoriaMetrics)
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that turns a request message into a service call.
//
//   - NewDynomiteServerAdapter: Adapter for get, put, has and remove.
//
//   - NewStoreHandler: Exposes a store.IStore as service handler.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport, serializer and handler.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  TimeoutSecond: 30,
//	  Transport: common.ServerTransportConfig{
//	    Endpoint:       "0.0.0.0:9191",
//	    WorkersPerConn: 4,
//	  },
//	  LogLevel: "info",
//	}
//
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPServerTransport(),
//	  serializer.NewBinarySerializer(),
//	  server.NewStoreHandler(lstore.NewLocalStore()),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Errors returned by the handler are sent back as the Err field of the reply.
// Clients turn them into *dynomite.FailureError.
//
// Thread Safety:
//
//	The server handles every connection in its own goroutine and can process
//	several requests of one connection concurrently. Handlers must therefore be
//	safe for concurrent use.
package server
