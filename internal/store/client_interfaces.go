package store

import (
	"context"

	"github.com/declaro/taxsync/models"
)

// VaultRepository is the client-side local record store. It is the single
// source of truth while offline: every call returns without touching the
// network.
//
// All mutating calls are transactional with the change log: a record write
// and its change-log append succeed or fail as one unit.
type VaultRepository interface {
	// SaveWithChange upserts the record and appends exactly one change-log
	// entry in the same transaction.
	SaveWithChange(ctx context.Context, record models.Record, entry models.ChangeEntry) error

	// GetRecord returns the latest local record.
	// Returns ErrRecordNotFound when no row matches.
	GetRecord(ctx context.Context, userID int64, recordID string) (models.Record, error)

	// GetAllRecords returns every live (non-tombstoned) record of the user.
	GetAllRecords(ctx context.Context, userID int64) ([]models.Record, error)

	// GetAllStates returns lightweight per-record state descriptors,
	// including tombstones.
	GetAllStates(ctx context.Context, userID int64) ([]models.RecordState, error)

	// UpdateStatus sets the sync status of the given records.
	UpdateStatus(ctx context.Context, userID int64, status models.SyncStatus, recordIDs ...string) error
}

// ChangeLogRepository reads the append-only local mutation log. Appends
// happen inside VaultRepository.SaveWithChange; removal happens inside
// SyncRepository.CommitBatch. Nothing else may write the log.
type ChangeLogRepository interface {
	// PendingEntries returns up to limit entries in sequence order.
	PendingEntries(ctx context.Context, userID int64, limit int) ([]models.ChangeEntry, error)

	// PendingCount reports how many entries await sync.
	PendingCount(ctx context.Context, userID int64) (int, error)
}

// MetaRepository is the small durable key-value store holding sync metadata:
// consent flag, attempt counter, last successful sync timestamp, and
// conflict acknowledgement keys.
type MetaRepository interface {
	GetMeta(ctx context.Context, key string) (string, error)
	SetMeta(ctx context.Context, key, value string) error

	// HasConflictAck reports whether the given conflict acknowledgement key
	// was already persisted.
	HasConflictAck(ctx context.Context, ackKey string) (bool, error)
}

// SyncRepository owns the transactional boundaries of a sync cycle on the
// client store.
type SyncRepository interface {
	// CommitBatch applies every outcome of a reconciled batch in a single
	// transaction: change-log removals, record status/version updates,
	// tombstone purges, conflict acknowledgements, and the last-sync
	// timestamp. A failure leaves the store untouched and surfaces as
	// ErrCommitFailure.
	CommitBatch(ctx context.Context, commit models.BatchCommit) error

	// ReleaseSyncing returns records stuck in the syncing status to
	// pending, e.g. after an aborted or crashed cycle.
	ReleaseSyncing(ctx context.Context, userID int64) error
}

// Well-known MetaRepository keys.
const (
	MetaKeyConsent      = "consent"
	MetaKeyLastSyncAt   = "last_sync_at"
	MetaKeyAttemptCount = "attempt_count"
)
