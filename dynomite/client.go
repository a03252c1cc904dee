package dynomite

import (
	"fmt"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/protocol"
)

// NewClient creates a service client on top of an open protocol
func NewClient(p protocol.IProtocol) *Client {
	return &Client{protocol: p}
}

// Client is the generated client of the Dynomite service
type Client struct {
	protocol protocol.IProtocol
}

var _ IDynomite = (*Client)(nil)

// --------------------------------------------------------------------------
// Interface Methods (docu see IDynomite)
// --------------------------------------------------------------------------

func (c *Client) Get(key []byte) (GetResult, error) {
	resp, err := c.call(common.NewGetRequest(key))
	if err != nil {
		return GetResult{}, err
	}
	return GetResult{Context: resp.Context, Results: resp.Values}, nil
}

func (c *Client) Put(key, context, data []byte) (int32, error) {
	// The empty context still has to be sent as present
	if context == nil {
		context = []byte{}
	}
	resp, err := c.call(common.NewPutRequest(key, context, data))
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Has(key []byte) (int32, error) {
	resp, err := c.call(common.NewHasRequest(key))
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Remove(key []byte) (int32, error) {
	resp, err := c.call(common.NewRemoveRequest(key))
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// call sends req and checks the reply.
// A reply carrying an error message is returned as *FailureError.
func (c *Client) call(req *common.Message) (*common.Message, error) {
	resp, err := c.protocol.Call(req)
	if err != nil {
		return nil, err
	}

	if resp.MsgType == common.MsgTError || resp.Err != "" {
		return nil, &FailureError{Message: resp.Err}
	}

	if resp.MsgType != req.MsgType {
		return nil, fmt.Errorf("unexpected message type: %s, expected %s", resp.MsgType, req.MsgType)
	}

	return resp, nil
}
