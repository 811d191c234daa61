// Package client contains the transport side of the timecheck CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the
//     backend operations used by the CLI: Register, Login, Ping, Sync and
//     Export.
//  2. A gRPC implementation (see GRPCClient) that manages the connection,
//     injects the access token via an interceptor, refreshes an expired
//     access token once per call and maps status codes to sentinel errors.
//  3. InitDatabase, which opens the local SQLite replica and applies the
//     embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrAlreadyExists and
// ErrInvalid.
//
// GRPCClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
