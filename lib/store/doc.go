// Package store defines the storage interface behind the Dynomite reference server.
//
// Keys and values are opaque byte strings. Each key carries a version context that
// is handed out by Get and passed back on Put. The context is opaque to clients: they
// only ever return what they received, or send an empty context to force a write.
//
// Key Components:
//
//   - IStore: the operations served by the RPC server (Get, Put, Has, Remove)
//
//   - Error / RetCode: typed failures, e.g. RetCNotFound for removing a missing key
//     and RetCConflict for a put with an outdated context
//
// Implementations:
//
//   - lstore: a local, in-memory store
package store
