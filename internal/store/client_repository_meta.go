package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/declaro/taxsync/internal/logger"
)

// ErrMetaKeyNotFound is returned by GetMeta when the key was never set.
var ErrMetaKeyNotFound = errors.New("meta key not found")

// metaRepository is the SQLite-backed implementation of [MetaRepository].
type metaRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewMetaRepository constructs a [MetaRepository] backed by the local vault
// database.
func NewMetaRepository(db *DB, logger *logger.Logger) MetaRepository {
	logger.Debug().Msg("creating meta repository")
	return &metaRepository{
		db:     db,
		logger: logger,
	}
}

// GetMeta returns the stored value for key.
// Returns [ErrMetaKeyNotFound] when the key was never set.
func (r *metaRepository) GetMeta(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	var value string
	row := r.db.QueryRowContext(ctx, getMetaValue, key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMetaKeyNotFound
		}
		log.Err(err).Str("func", "*metaRepository.GetMeta").Msg("error: scanning error")
		return "", fmt.Errorf("unexpected DB error: %w", err)
	}

	return value, nil
}

// SetMeta stores value under key, overwriting any previous value.
func (r *metaRepository) SetMeta(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, setMetaValue, key, value); err != nil {
		log.Err(err).Str("func", "*metaRepository.SetMeta").Msg("error: upsert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// HasConflictAck reports whether the given conflict acknowledgement key was
// already persisted.
func (r *metaRepository) HasConflictAck(ctx context.Context, ackKey string) (bool, error) {
	log := logger.FromContext(ctx)

	var count int
	row := r.db.QueryRowContext(ctx, hasConflictAck, ackKey)
	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*metaRepository.HasConflictAck").Msg("error: scanning error")
		return false, fmt.Errorf("unexpected DB error: %w", err)
	}

	return count > 0, nil
}
