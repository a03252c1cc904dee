// Package client implements the connection scoped facade over the Dynomite service.
//
// A Client never connects on construction. Each Session opens its own
// connection on the first operation (or an explicit Connect) and keeps it
// until Disconnect or Client.Close. The connection is built in layers:
//
//	transport.IRPCClientTransport  -> dials host:port (tcp or unix)
//	base.NewBufferedTransport      -> buffered stream with explicit flush
//	protocol.NewBinaryProtocol     -> framing and sequence ids
//	dynomite.NewClient             -> generated service client
//
// Goroutines that must not share a connection use different session ids.
// Calls on the same session are serialized. The methods of Client operate on
// DefaultSession.
//
// Usage Example:
//
//	c := client.New("localhost", 9191)
//	defer c.Close()
//
//	// Connects lazily
//	if _, err := c.PutDefault([]byte("a"), []byte("1")); err != nil {
//		panic(err)
//	}
//
//	res, _ := c.Get([]byte("a"))
//	fmt.Println(string(res.Results[0]))
//
//	// A second connection for a worker goroutine
//	worker := c.Session(1)
//	defer worker.Disconnect()
//	_, _ = worker.Has([]byte("a"))
//
// Errors of the remote service are returned as *dynomite.FailureError,
// connection errors are returned unchanged. There is no retry and a broken
// connection stays in its slot until Disconnect.
package client
