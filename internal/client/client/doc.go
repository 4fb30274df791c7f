// Package client contains the outbound side of AdminDash.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic contracts for the remote services: AuthClient
//     (login, password reset) and DirectoryClient (tenants and branches).
//  2. HTTPClient, a JSON-over-HTTP implementation of both, bounded by a
//     per-call timeout and attaching a bearer token to directory calls.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     SQLite session database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. A reachable server answering with
// a failure is a *RejectedError carrying the status and the message found in
// the body. Directory calls additionally map 401/403 to ErrUnauthorized and
// 404 to common.ErrorNotFound.
//
// All operations accept context.Context and honor cancellation.
package client
