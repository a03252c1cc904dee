package lstore

import (
	"encoding/binary"
	"github.com/ValentinKolb/dynoKV/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
)

// contextSize is the length of a version context (uint64, big endian)
const contextSize = 8

type entry struct {
	version uint64
	value   []byte
}

type storeImpl struct {
	data *xsync.MapOf[string, entry]
}

// NewLocalStore creates a new local store instance.
// This store implementation is not distributed and only works on a single node.
func NewLocalStore() store.IStore {
	return &storeImpl{
		data: xsync.NewMapOf[string, entry](),
	}
}

// encodeContext turns a version into its wire context
func encodeContext(version uint64) []byte {
	ctx := make([]byte, contextSize)
	binary.BigEndian.PutUint64(ctx, version)
	return ctx
}

// cloneBytes copies b so stored values never alias caller buffers
func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key []byte) ([]byte, [][]byte, error) {
	e, ok := s.data.Load(string(key))
	if !ok {
		return nil, nil, nil
	}
	return encodeContext(e.version), [][]byte{cloneBytes(e.value)}, nil
}

func (s *storeImpl) Put(key, context, value []byte) (int32, error) {
	var expected uint64
	checkVersion := len(context) > 0
	if checkVersion {
		if len(context) != contextSize {
			return 0, store.NewError(store.RetCInvalidOperation, "malformed context")
		}
		expected = binary.BigEndian.Uint64(context)
	}

	var err error
	s.data.Compute(string(key), func(old entry, loaded bool) (entry, bool) {
		if checkVersion && (!loaded || old.version != expected) {
			err = store.NewError(store.RetCConflict, "context is outdated")
			// keep the old entry (or nothing, if it did not exist)
			return old, !loaded
		}
		return entry{version: old.version + 1, value: cloneBytes(value)}, false
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *storeImpl) Has(key []byte) (int32, error) {
	if _, ok := s.data.Load(string(key)); ok {
		return 1, nil
	}
	return 0, nil
}

func (s *storeImpl) Remove(key []byte) (int32, error) {
	if _, loaded := s.data.LoadAndDelete(string(key)); !loaded {
		return 0, store.NewError(store.RetCNotFound, "key not found")
	}
	return 1, nil
}

func (s *storeImpl) Len() int {
	return s.data.Size()
}
