package dynomite

import (
	"errors"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"testing"
)

// fakeProtocol records the last request and answers with resp
type fakeProtocol struct {
	last *common.Message
	resp *common.Message
	err  error
}

func (p *fakeProtocol) Call(req *common.Message) (*common.Message, error) {
	p.last = req
	return p.resp, p.err
}

func (p *fakeProtocol) Close() error { return nil }

func TestClientRequests(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) error
		resp     *common.Message
		expected common.Message
	}{
		{
			name: "Get",
			call: func(c *Client) error {
				res, err := c.Get([]byte("k"))
				if err == nil && (string(res.Context) != "ctx" || len(res.Results) != 2) {
					t.Errorf("unexpected result %+v", res)
				}
				return err
			},
			resp:     common.NewGetResponse([]byte("ctx"), [][]byte{[]byte("a"), []byte("b")}, nil),
			expected: common.Message{MsgType: common.MsgTGet, Key: []byte("k")},
		},
		{
			name: "Put with context",
			call: func(c *Client) error {
				_, err := c.Put([]byte("k"), []byte("ctx"), []byte("v"))
				return err
			},
			resp:     common.NewPutResponse(1, nil),
			expected: common.Message{MsgType: common.MsgTPut, Key: []byte("k"), Context: []byte("ctx"), Value: []byte("v")},
		},
		{
			name: "Put without context",
			call: func(c *Client) error {
				_, err := c.Put([]byte("k"), nil, []byte("v"))
				return err
			},
			resp:     common.NewPutResponse(1, nil),
			expected: common.Message{MsgType: common.MsgTPut, Key: []byte("k"), Context: []byte{}, Value: []byte("v")},
		},
		{
			name: "Has",
			call: func(c *Client) error {
				n, err := c.Has([]byte("k"))
				if err == nil && n != 3 {
					t.Errorf("Has() = %d, want 3", n)
				}
				return err
			},
			resp:     common.NewHasResponse(3, nil),
			expected: common.Message{MsgType: common.MsgTHas, Key: []byte("k")},
		},
		{
			name: "Remove",
			call: func(c *Client) error {
				_, err := c.Remove([]byte("k"))
				return err
			},
			resp:     common.NewRemoveResponse(1, nil),
			expected: common.Message{MsgType: common.MsgTRemove, Key: []byte("k")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProtocol{resp: tt.resp}
			if err := tt.call(NewClient(p)); err != nil {
				t.Fatalf("call error = %v", err)
			}

			got := p.last
			if got.MsgType != tt.expected.MsgType {
				t.Errorf("MsgType = %s, want %s", got.MsgType, tt.expected.MsgType)
			}
			if string(got.Key) != string(tt.expected.Key) {
				t.Errorf("Key = %q, want %q", got.Key, tt.expected.Key)
			}
			if string(got.Value) != string(tt.expected.Value) {
				t.Errorf("Value = %q, want %q", got.Value, tt.expected.Value)
			}
			if (got.Context == nil) != (tt.expected.Context == nil) || string(got.Context) != string(tt.expected.Context) {
				t.Errorf("Context = %v, want %v", got.Context, tt.expected.Context)
			}
		})
	}
}

func TestClientErrors(t *testing.T) {
	transportErr := errors.New("broken pipe")

	tests := []struct {
		name  string
		proto *fakeProtocol
		check func(t *testing.T, err error)
	}{
		{
			name:  "Remote failure",
			proto: &fakeProtocol{resp: common.NewRemoveResponse(0, errors.New("key not found"))},
			check: func(t *testing.T, err error) {
				var failure *FailureError
				if !errors.As(err, &failure) {
					t.Fatalf("error = %v, want *FailureError", err)
				}
				if failure.Message != "key not found" {
					t.Errorf("Message = %q, want %q", failure.Message, "key not found")
				}
			},
		},
		{
			name:  "Error response",
			proto: &fakeProtocol{resp: common.NewErrorResponse("unsupported")},
			check: func(t *testing.T, err error) {
				var failure *FailureError
				if !errors.As(err, &failure) {
					t.Fatalf("error = %v, want *FailureError", err)
				}
			},
		},
		{
			name:  "Transport error",
			proto: &fakeProtocol{err: transportErr},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, transportErr) {
					t.Errorf("error = %v, want %v", err, transportErr)
				}
			},
		},
		{
			name:  "Wrong reply type",
			proto: &fakeProtocol{resp: common.NewHasResponse(1, nil)},
			check: func(t *testing.T, err error) {
				var failure *FailureError
				if err == nil || errors.As(err, &failure) {
					t.Errorf("error = %v, want type mismatch", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.proto).Remove([]byte("k"))
			tt.check(t, err)
		})
	}
}
