// Package common provides the types shared by the client and the server side of dyno.
//
// Key Components:
//
//   - Message: the single structure sent over the wire. Requests carry a key and
//     optionally a context and a value, responses carry a context, values, a
//     count or an error string. Factory methods exist for every request and
//     response type.
//
//   - MessageType: the Dynomite methods (Get, Put, Has, Remove) plus
//     success and error markers.
//
//   - ClientConfig: host, port, timeout and socket options used for every
//     connection a client opens.
//
//   - ServerConfig: listen endpoint, worker and buffer settings, metrics endpoint
//     and log level of the reference server.
//
//   - Logger: a dragonboat logger factory with a consistent line format for all
//     package loggers.
package common
