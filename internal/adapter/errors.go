package adapter

import "errors"

var (
	// ErrBadRequest maps HTTP 400: the server refused the request shape.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized maps HTTP 401: the token is missing, expired, or
	// invalid. Non-retryable; the coordinator aborts the cycle.
	ErrUnauthorized = errors.New("client unauthorized")

	// ErrForbidden maps HTTP 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound maps HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict maps HTTP 409.
	ErrConflict = errors.New("version conflict")

	// ErrInternalServerError maps HTTP 500. Retryable.
	ErrInternalServerError = errors.New("internal server error")

	// ErrBadGateway maps HTTP 502. Retryable.
	ErrBadGateway = errors.New("bad gateway")

	// ErrTransport marks a network-level failure before any HTTP status was
	// received: timeout, refused connection, DNS failure. Always retryable.
	ErrTransport = errors.New("transport failure")
)
