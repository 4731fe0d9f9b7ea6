package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrLoginAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same login already exists in the database.
	ErrLoginAlreadyExists = errors.New("login already exists")

	// ErrUserNotFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrUserNotFound = errors.New("no user was found")

	// ErrRecordNotFound is returned when a query or update targets a record
	// (identified by record_id and user_id) that does not exist.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the base version supplied by the client does not match the current
	// version stored in the database, meaning another device has modified
	// the record since the client last synchronized.
	ErrVersionConflict = errors.New("record version conflict occurred")

	// ErrChecksumMismatch is returned when an uploaded payload does not match
	// its declared checksum after decryption.
	ErrChecksumMismatch = errors.New("record checksum mismatch")

	// ErrCommitFailure is returned when the client-side batch commit
	// transaction could not be applied. The batch is treated as unsent and
	// is retried on the next cycle.
	ErrCommitFailure = errors.New("sync commit could not be applied")
)
