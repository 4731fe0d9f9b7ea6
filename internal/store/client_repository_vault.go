package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/models"
)

// vaultRepository is the SQLite-backed implementation of [VaultRepository].
// It keeps the record table and the change log consistent: a record write
// and its change-log append always land in the same transaction.
type vaultRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewVaultRepository constructs a [VaultRepository] backed by the local
// vault database.
func NewVaultRepository(db *DB, logger *logger.Logger) VaultRepository {
	logger.Debug().Msg("creating vault repository")
	return &vaultRepository{
		db:     db,
		logger: logger,
	}
}

// SaveWithChange upserts the record and appends exactly one change-log
// entry in the same transaction. If either write fails the vault is left
// untouched.
func (r *vaultRepository) SaveWithChange(ctx context.Context, record models.Record, entry models.ChangeEntry) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.SaveWithChange").Msg("error: cannot begin transaction")
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, upsertRecord,
		record.RecordID, record.UserID, record.Payload, record.SchemaVersion,
		record.LocalVersion, record.RemoteVersion, record.Checksum,
		record.SyncStatus, record.Deleted)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.SaveWithChange").Msg("error: record upsert failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	_, err = tx.ExecContext(ctx, appendChangeEntry,
		record.UserID, entry.RecordID, entry.FromVersion, entry.ToVersion,
		entry.OpKind, entry.Checksum)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.SaveWithChange").Msg("error: change-log append failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}

// GetRecord returns the latest local record.
// Returns [ErrRecordNotFound] when no row matches.
func (r *vaultRepository) GetRecord(ctx context.Context, userID int64, recordID string) (models.Record, error) {
	log := logger.FromContext(ctx)

	var record models.Record
	row := r.db.QueryRowContext(ctx, getRecord, userID, recordID)
	err := row.Scan(
		&record.RecordID, &record.UserID, &record.Payload, &record.SchemaVersion,
		&record.LocalVersion, &record.RemoteVersion, &record.Checksum,
		&record.SyncStatus, &record.Deleted, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Record{}, ErrRecordNotFound
		}
		log.Err(err).Str("func", "*vaultRepository.GetRecord").Msg("error: scanning error")
		return models.Record{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return record, nil
}

// GetAllRecords returns every live (non-tombstoned) record of the user.
func (r *vaultRepository) GetAllRecords(ctx context.Context, userID int64) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getAllRecords, userID)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.GetAllRecords").Msg("error: query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var record models.Record
		err = rows.Scan(
			&record.RecordID, &record.UserID, &record.Payload, &record.SchemaVersion,
			&record.LocalVersion, &record.RemoteVersion, &record.Checksum,
			&record.SyncStatus, &record.Deleted, &record.CreatedAt, &record.UpdatedAt)
		if err != nil {
			log.Err(err).Str("func", "*vaultRepository.GetAllRecords").Msg("error: scanning error")
			return nil, err
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return records, nil
}

// GetAllStates returns lightweight per-record state descriptors, tombstones
// included. Version reports the record's local version.
func (r *vaultRepository) GetAllStates(ctx context.Context, userID int64) ([]models.RecordState, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getAllRecordStates, userID)
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.GetAllStates").Msg("error: query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var states []models.RecordState
	for rows.Next() {
		var state models.RecordState
		if err = rows.Scan(&state.RecordID, &state.Version, &state.Checksum, &state.Deleted, &state.UpdatedAt); err != nil {
			log.Err(err).Str("func", "*vaultRepository.GetAllStates").Msg("error: scanning error")
			return nil, err
		}
		states = append(states, state)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return states, nil
}

// UpdateStatus sets the sync status of the given records in one statement.
func (r *vaultRepository) UpdateStatus(ctx context.Context, userID int64, status models.SyncStatus, recordIDs ...string) error {
	log := logger.FromContext(ctx)

	if len(recordIDs) == 0 {
		return nil
	}

	query, args, err := sq.Update("records").
		Set("sync_status", string(status)).
		Where(sq.Eq{"user_id": userID, "record_id": recordIDs}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*vaultRepository.UpdateStatus").Msg("error: building query")
		return err
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*vaultRepository.UpdateStatus").Msg("error: status update failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
