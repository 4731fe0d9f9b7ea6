package store

import (
	"context"
	"fmt"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/models"
)

// changeLogRepository is the SQLite-backed implementation of
// [ChangeLogRepository]. It only reads the log; writes belong to
// [VaultRepository.SaveWithChange] and [SyncRepository.CommitBatch].
type changeLogRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewChangeLogRepository constructs a [ChangeLogRepository] backed by the
// local vault database.
func NewChangeLogRepository(db *DB, logger *logger.Logger) ChangeLogRepository {
	logger.Debug().Msg("creating change log repository")
	return &changeLogRepository{
		db:     db,
		logger: logger,
	}
}

// PendingEntries returns up to limit entries in sequence order. The seq
// ordering is what guarantees the remote store observes changes in the
// order they were made locally.
func (r *changeLogRepository) PendingEntries(ctx context.Context, userID int64, limit int) ([]models.ChangeEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, pendingChangeEntries, userID, limit)
	if err != nil {
		log.Err(err).Str("func", "*changeLogRepository.PendingEntries").Msg("error: query failed")
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}
	defer rows.Close()

	var entries []models.ChangeEntry
	for rows.Next() {
		var entry models.ChangeEntry
		err = rows.Scan(&entry.Seq, &entry.RecordID, &entry.FromVersion, &entry.ToVersion,
			&entry.OpKind, &entry.Checksum, &entry.EnqueuedAt)
		if err != nil {
			log.Err(err).Str("func", "*changeLogRepository.PendingEntries").Msg("error: scanning error")
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	return entries, nil
}

// PendingCount reports how many entries await sync.
func (r *changeLogRepository) PendingCount(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	row := r.db.QueryRowContext(ctx, pendingChangeCount, userID)
	if err := row.Scan(&count); err != nil {
		log.Err(err).Str("func", "*changeLogRepository.PendingCount").Msg("error: scanning error")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return count, nil
}
