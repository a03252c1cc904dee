// Package cmd implements the command-line interface of dyno. It provides
// commands for running a reference server and for talking to a server
// through the lazy connecting client.
//
// The package is organized into several subpackages:
//
//   - kv: Commands for key-value operations (get, put, has, remove) and the perf tool
//   - serve: Command for starting and configuring a dyno server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See dyno -help for a list of all commands.
package cmd
