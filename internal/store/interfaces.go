package store

import (
	"context"

	"github.com/declaro/taxsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository provides account persistence for the remote store server.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, user models.User) (models.User, error)
}

// RecordRepository is the server-side authoritative record store. ApplyChange
// implements optimistic locking keyed by (user_id, record_id, version): a
// change whose base version matches the stored version is applied; an exact
// replay of an already-applied change reports applied again (idempotent
// re-send); anything else is a version conflict.
type RecordRepository interface {
	// ApplyChange applies one uploaded change for the user and returns the
	// resulting remote version and stored checksum.
	// Returns ErrVersionConflict (with the competing state) when the base
	// version check fails and the upload is not a replay.
	ApplyChange(ctx context.Context, userID int64, change models.ChangeUpload, encryptedPayload string) (models.RecordState, error)

	// GetStates returns the per-record state of every record the user owns,
	// including tombstones.
	GetStates(ctx context.Context, userID int64) ([]models.RecordState, error)

	// GetRecordState returns the state of a single record.
	// Returns ErrRecordNotFound if the record does not exist.
	GetRecordState(ctx context.Context, userID int64, recordID string) (models.RecordState, error)
}

// ErrorClassificator classifies low-level database errors as retryable or
// not, so callers can decide whether a failed operation is worth repeating.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
