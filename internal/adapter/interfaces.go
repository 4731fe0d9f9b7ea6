// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

// Package adapter provides transport-layer abstractions for communicating with
// the remote record store.
//
// The primary abstraction is [ServerAdapter], which decouples the sync
// coordinator from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrUnauthorized] for 401). Network-level failures, before any
// HTTP status is available, surface as [ErrTransport] and are always treated as
// retryable by the coordinator.
package adapter

import (
	"context"

	"github.com/declaro/taxsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the remote
// record store. Implementations are responsible for serialisation,
// authentication header management, batch signing, and mapping transport-level
// errors to the sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests. It should be called immediately after a
	// successful Register or Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Register sends a registration request with the provided credentials.
	// On success it stores the returned bearer token via SetToken and returns
	// the user populated with the server-assigned UserID.
	Register(ctx context.Context, user models.User) (models.User, error)

	// Login authenticates the user. On success it stores the returned bearer
	// token via SetToken and returns the token together with the user id
	// parsed from its subject claim.
	Login(ctx context.Context, user models.User) (models.Token, error)

	// SendBatch transmits one immutable sync batch and returns the server's
	// per-change results in request order. The request is signed with the
	// transport integrity key before transmission. Requires a valid bearer
	// token.
	SendBatch(ctx context.Context, req models.BatchRequest) (models.BatchResponse, error)

	// GetServerStates fetches lightweight per-record state descriptors for
	// every record the authenticated user owns. Used for divergence checks
	// without downloading payloads. Requires a valid bearer token.
	GetServerStates(ctx context.Context) ([]models.RecordState, error)

	// Ping probes server reachability. A nil return means the remote store
	// answered its health endpoint.
	Ping(ctx context.Context) error
}
