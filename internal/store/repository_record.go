package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/models"
)

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository]. It owns the authoritative copy of every synchronized
// record and enforces optimistic locking on writes.
type recordRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRecordRepository constructs a [RecordRepository] backed by the provided
// database connection and logger.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	logger.Debug().Msg("creating record repository")
	return &recordRepository{
		db:     db,
		logger: logger,
	}
}

// ApplyChange applies one uploaded change under optimistic locking.
//
// The stored row is locked FOR UPDATE, then exactly one of three things
// happens inside the same transaction:
//
//   - the stored version equals the upload's base version: the change is
//     applied and the version advances to the upload's target version;
//   - the stored version is at or past the target version and the stored
//     checksum matches the upload's checksum: the change was already
//     applied by an earlier identical upload, so the stored state is
//     reported again without a second write (idempotent re-send);
//   - anything else: [ErrVersionConflict] together with the competing
//     stored state, so the client can reconcile.
//
// A missing row with base version zero is a first upload and results in an
// INSERT at the upload's target version. A missing row with a non-zero base
// version means the record was purged out from under the client and is
// reported as a conflict at version zero.
//
// Transient failures such as serialization errors or deadlocks between
// concurrent batch uploads are retried a few times before giving up; the
// [ErrorClassificator] decides which failures qualify.
func (r *recordRepository) ApplyChange(ctx context.Context, userID int64, change models.ChangeUpload, encryptedPayload string) (models.RecordState, error) {
	log := logger.FromContext(ctx)

	var state models.RecordState
	var err error
	for attempt := 1; attempt <= applyChangeAttempts; attempt++ {
		state, err = r.applyChangeOnce(ctx, userID, change, encryptedPayload)
		if err == nil || errors.Is(err, ErrVersionConflict) {
			return state, err
		}
		if r.db.errorClassificator.Classify(err) != Retryable {
			return state, err
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("retrying change after transient DB error")
	}

	return state, err
}

// applyChangeAttempts bounds the transient-error retries in ApplyChange.
const applyChangeAttempts = 3

func (r *recordRepository) applyChangeOnce(ctx context.Context, userID int64, change models.ChangeUpload, encryptedPayload string) (models.RecordState, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.ApplyChange").Msg("error: cannot begin transaction")
		return models.RecordState{}, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer tx.Rollback()

	stored := models.RecordState{RecordID: change.RecordID}
	row := tx.QueryRowContext(ctx, getRecordStateForUpdate, userID, change.RecordID)
	err = row.Scan(&stored.Version, &stored.Checksum, &stored.Deleted, &stored.UpdatedAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if change.BaseVersion != 0 {
			// the client references a version the server no longer holds
			return stored, ErrVersionConflict
		}
		state, insertErr := r.insertFirstVersion(ctx, tx, userID, change, encryptedPayload)
		if insertErr != nil {
			log.Err(insertErr).Str("func", "*recordRepository.ApplyChange").Msg("error: first version insert failed")
			return models.RecordState{}, insertErr
		}
		if commitErr := tx.Commit(); commitErr != nil {
			return models.RecordState{}, fmt.Errorf("unexpected DB error: %w", commitErr)
		}
		return state, nil

	case err != nil:
		log.Err(err).Str("func", "*recordRepository.ApplyChange").Msg("error: scanning error")
		return models.RecordState{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	// exact replay of an already-applied change: report it applied again
	if stored.Version >= change.ToVersion && stored.Checksum == change.Checksum {
		return stored, nil
	}

	if stored.Version != change.BaseVersion {
		return stored, ErrVersionConflict
	}

	state := models.RecordState{RecordID: change.RecordID}
	deleted := change.OpKind == models.OpDelete
	row = tx.QueryRowContext(ctx, updateRecord,
		userID, change.RecordID,
		change.ToVersion, change.SchemaVersion, change.Checksum, encryptedPayload, deleted,
		change.BaseVersion)
	if err = row.Scan(&state.Version, &state.Checksum, &state.Deleted, &state.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*recordRepository.ApplyChange").Msg("error: optimistic update failed")
		return models.RecordState{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.RecordState{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return state, nil
}

func (r *recordRepository) insertFirstVersion(ctx context.Context, tx *sql.Tx, userID int64, change models.ChangeUpload, encryptedPayload string) (models.RecordState, error) {
	state := models.RecordState{RecordID: change.RecordID}
	deleted := change.OpKind == models.OpDelete

	row := tx.QueryRowContext(ctx, insertRecord,
		userID, change.RecordID,
		change.ToVersion, change.SchemaVersion, change.Checksum, encryptedPayload, deleted)
	if err := row.Scan(&state.Version, &state.Checksum, &state.Deleted, &state.UpdatedAt); err != nil {
		return models.RecordState{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return state, nil
}

// GetStates returns the state of every record the user owns, tombstones
// included, ordered by record id.
func (r *recordRepository) GetStates(ctx context.Context, userID int64) ([]models.RecordState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildStatesQuery(userID, nil)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.GetStates").Msg("error: building query")
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.GetStates").Msg("error: query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var states []models.RecordState
	for rows.Next() {
		var state models.RecordState
		if err = rows.Scan(&state.RecordID, &state.Version, &state.Checksum, &state.Deleted, &state.UpdatedAt); err != nil {
			log.Err(err).Str("func", "*recordRepository.GetStates").Msg("error: scanning error")
			return nil, err
		}
		states = append(states, state)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return states, nil
}

// GetRecordState returns the state of a single record.
// Returns [ErrRecordNotFound] if the record does not exist.
func (r *recordRepository) GetRecordState(ctx context.Context, userID int64, recordID string) (models.RecordState, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildStatesQuery(userID, []string{recordID})
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.GetRecordState").Msg("error: building query")
		return models.RecordState{}, err
	}

	state := models.RecordState{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&state.RecordID, &state.Version, &state.Checksum, &state.Deleted, &state.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RecordState{}, ErrRecordNotFound
		}
		log.Err(err).Str("func", "*recordRepository.GetRecordState").Msg("error: scanning error")
		return models.RecordState{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return state, nil
}
