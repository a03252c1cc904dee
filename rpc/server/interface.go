package server

import (
	"github.com/ValentinKolb/dynoKV/dynomite"
	"github.com/ValentinKolb/dynoKV/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for translating request messages into service calls
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes a Message and the service handler as parameters.
	// If an error occurs, it is set in the response
	Handle(req *common.Message, handler dynomite.IDynomite) (resp *common.Message)
}
