package client

import (
	"github.com/ValentinKolb/dynoKV/dynomite"
	"github.com/ValentinKolb/dynoKV/rpc/common"
)

// SessionID identifies the caller owning a connection.
// Goroutines that should not share a connection use different ids.
type SessionID uint64

// DefaultSession is used by the methods of Client itself
const DefaultSession SessionID = 0

// Session is the handle of one connection slot of a Client.
// All operations connect lazily, a failed connect leaves the slot empty
// and the next operation dials again.
type Session struct {
	client *Client
	id     SessionID
}

// ID returns the session id
func (s *Session) ID() SessionID {
	return s.id
}

// Get returns the context and all values stored for key.
// Every call is a round trip to the server.
func (s *Session) Get(key []byte) (dynomite.GetResult, error) {
	return call(s.client, s.id, common.MsgTGet, func(d dynomite.IDynomite) (dynomite.GetResult, error) {
		return d.Get(key)
	})
}

// Put stores value under key. The context is the one returned by an earlier
// Get, an empty context writes unconditionally.
func (s *Session) Put(key, value, context []byte) (int32, error) {
	return call(s.client, s.id, common.MsgTPut, func(d dynomite.IDynomite) (int32, error) {
		return d.Put(key, context, value)
	})
}

// PutDefault is Put with the empty context
func (s *Session) PutDefault(key, value []byte) (int32, error) {
	return s.Put(key, value, []byte{})
}

// Has returns the server's count for key.
func (s *Session) Has(key []byte) (int32, error) {
	return call(s.client, s.id, common.MsgTHas, func(d dynomite.IDynomite) (int32, error) {
		return d.Has(key)
	})
}

// Remove deletes key and returns the server's count.
// Remote failures are returned as *dynomite.FailureError.
func (s *Session) Remove(key []byte) (int32, error) {
	return call(s.client, s.id, common.MsgTRemove, func(d dynomite.IDynomite) (int32, error) {
		return d.Remove(key)
	})
}

// Connect opens the connection of the session. It does nothing if the
// session is already connected, the connection is not checked for health.
func (s *Session) Connect() error {
	_, err := s.client.connect(s.id)
	return err
}

// Disconnect closes the connection of the session.
// It returns nil if the session is not connected.
func (s *Session) Disconnect() error {
	return s.client.disconnect(s.id)
}

// Connected reports whether the session holds a connection
func (s *Session) Connected() bool {
	_, ok := s.client.slots.Load(s.id)
	return ok
}
