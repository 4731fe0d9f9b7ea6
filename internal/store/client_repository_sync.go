package store

import (
	"context"
	"fmt"
	"time"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/models"
)

// syncRepository is the SQLite-backed implementation of [SyncRepository].
// It owns the single transaction that moves the vault from "batch in
// flight" to "batch reconciled".
type syncRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSyncRepository constructs a [SyncRepository] backed by the local vault
// database.
func NewSyncRepository(db *DB, logger *logger.Logger) SyncRepository {
	logger.Debug().Msg("creating sync repository")
	return &syncRepository{
		db:     db,
		logger: logger,
	}
}

// CommitBatch applies every outcome of a reconciled batch in one
// transaction: change-log removals, record status and version updates,
// conflict relabels, tombstone purges, conflict acknowledgements, and the
// last-sync timestamp. Any failure rolls the whole commit back and surfaces as
// [ErrCommitFailure], which callers treat as "batch unsent".
func (r *syncRepository) CommitBatch(ctx context.Context, commit models.BatchCommit) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.CommitBatch").Msg("error: cannot begin transaction")
		return fmt.Errorf("%w: %w", ErrCommitFailure, err)
	}
	defer tx.Rollback()

	for _, outcome := range commit.Outcomes {
		for _, seq := range outcome.DeleteSeqs {
			if _, err = tx.ExecContext(ctx, deleteChangeEntry, seq); err != nil {
				log.Err(err).Str("func", "*syncRepository.CommitBatch").Int64("seq", seq).Msg("error: change-log removal failed")
				return fmt.Errorf("%w: %w", ErrCommitFailure, err)
			}
		}

		if outcome.Purge {
			if _, err = tx.ExecContext(ctx, purgeRecord, commit.UserID, outcome.RecordID); err != nil {
				log.Err(err).Str("func", "*syncRepository.CommitBatch").Str("record_id", outcome.RecordID).Msg("error: tombstone purge failed")
				return fmt.Errorf("%w: %w", ErrCommitFailure, err)
			}
		} else {
			_, err = tx.ExecContext(ctx, updateRecordOutcome,
				outcome.Status, outcome.RemoteVersion, outcome.RemoteVersion,
				outcome.LocalVersion, outcome.LocalVersion,
				commit.UserID, outcome.RecordID)
			if err != nil {
				log.Err(err).Str("func", "*syncRepository.CommitBatch").Str("record_id", outcome.RecordID).Msg("error: record update failed")
				return fmt.Errorf("%w: %w", ErrCommitFailure, err)
			}
			if outcome.LocalVersion > 0 {
				if _, err = tx.ExecContext(ctx, relabelChangeEntries, outcome.LocalVersion, commit.UserID, outcome.RecordID); err != nil {
					log.Err(err).Str("func", "*syncRepository.CommitBatch").Str("record_id", outcome.RecordID).Msg("error: change-entry relabel failed")
					return fmt.Errorf("%w: %w", ErrCommitFailure, err)
				}
			}
		}

		if outcome.AckKey != "" {
			if _, err = tx.ExecContext(ctx, insertConflictAck, outcome.AckKey); err != nil {
				log.Err(err).Str("func", "*syncRepository.CommitBatch").Str("ack_key", outcome.AckKey).Msg("error: conflict ack failed")
				return fmt.Errorf("%w: %w", ErrCommitFailure, err)
			}
		}
	}

	if !commit.SyncedAt.IsZero() {
		if _, err = tx.ExecContext(ctx, setMetaValue, MetaKeyLastSyncAt, commit.SyncedAt.Format(time.RFC3339)); err != nil {
			log.Err(err).Str("func", "*syncRepository.CommitBatch").Msg("error: last-sync timestamp update failed")
			return fmt.Errorf("%w: %w", ErrCommitFailure, err)
		}
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*syncRepository.CommitBatch").Msg("error: commit failed")
		return fmt.Errorf("%w: %w", ErrCommitFailure, err)
	}

	return nil
}

// ReleaseSyncing returns records stuck in the syncing status to pending,
// e.g. after an aborted or crashed cycle. Their change-log entries were
// never removed, so the next drain picks them up again.
func (r *syncRepository) ReleaseSyncing(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, releaseSyncingRecords, models.StatusPending, userID, models.StatusSyncing)
	if err != nil {
		log.Err(err).Str("func", "*syncRepository.ReleaseSyncing").Msg("error: release failed")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	return nil
}
