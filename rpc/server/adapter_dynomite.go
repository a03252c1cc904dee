package server

import (
	"fmt"
	"github.com/ValentinKolb/dynoKV/dynomite"
	"github.com/ValentinKolb/dynoKV/rpc/common"
)

// NewDynomiteServerAdapter creates the adapter for the four Dynomite service methods
func NewDynomiteServerAdapter() IRPCServerAdapter {
	return &dynomiteServerAdapterImpl{}
}

type dynomiteServerAdapterImpl struct{}

func (adapter *dynomiteServerAdapterImpl) Handle(req *common.Message, handler dynomite.IDynomite) *common.Message {
	if handler == nil {
		return common.NewErrorResponse("handler: service is nil")
	}

	switch req.MsgType {
	case common.MsgTGet:
		res, err := handler.Get(req.Key)
		return common.NewGetResponse(res.Context, res.Results, err)
	case common.MsgTPut:
		count, err := handler.Put(req.Key, req.Context, req.Value)
		return common.NewPutResponse(count, err)
	case common.MsgTHas:
		count, err := handler.Has(req.Key)
		return common.NewHasResponse(count, err)
	case common.MsgTRemove:
		count, err := handler.Remove(req.Key)
		return common.NewRemoveResponse(count, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC DynomiteAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
