package server

import (
	"github.com/ValentinKolb/dynoKV/dynomite"
	"github.com/ValentinKolb/dynoKV/lib/store"
)

// NewStoreHandler exposes a store.IStore as Dynomite service handler
func NewStoreHandler(s store.IStore) dynomite.IDynomite {
	return &storeHandler{store: s}
}

type storeHandler struct {
	store store.IStore
}

func (h *storeHandler) Get(key []byte) (dynomite.GetResult, error) {
	ctx, values, err := h.store.Get(key)
	if err != nil {
		return dynomite.GetResult{}, err
	}
	if values == nil {
		values = [][]byte{}
	}
	return dynomite.GetResult{Context: ctx, Results: values}, nil
}

func (h *storeHandler) Put(key, context, data []byte) (int32, error) {
	return h.store.Put(key, context, data)
}

func (h *storeHandler) Has(key []byte) (int32, error) {
	return h.store.Has(key)
}

func (h *storeHandler) Remove(key []byte) (int32, error) {
	return h.store.Remove(key)
}
