// Package cli provides the interactive timecheck command-line client.
//
// It wires configuration, the local SQLite replica, the gRPC client and the
// application services, then runs a REPL. Every edit lands in the local
// replica first and reaches the server on the next sync, so tracking works
// the same with or without a connection.
//
// Key features:
//   - Register / Login / Logout
//   - Tasks: add, list, rename, delete
//   - Timer: start, stop, list entries
//   - Sync with the server and export a snapshot
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
