// Package lstore provides a local, in-memory implementation of store.IStore.
//
// Entries live in a concurrent xsync.MapOf. Every successful Put increments the
// version of its key, the version is exposed as an 8 byte context. Versioned puts
// are applied atomically with MapOf.Compute, so two writers holding the same context
// cannot both succeed.
//
// The store keeps exactly one value per key. Get therefore returns at most one
// value, the list form exists for compatibility with replicated stores that keep
// concurrent siblings.
//
// Thread Safety:
//
//	All methods are safe for concurrent use.
package lstore
