package models

import "time"

// RecordOutcome is the per-record commit instruction produced by the sync
// coordinator after reconciling a batch response. All outcomes of one batch
// are applied in a single local transaction: either every record reflects
// its outcome or none does.
type RecordOutcome struct {
	RecordID string

	// Status is the record's new sync status.
	Status SyncStatus

	// RemoteVersion, when non-zero, replaces the record's known remote
	// version. On a conflict this is the competing remote version: the
	// pending change entry stays in the log and is re-sent against the
	// updated base on the next cycle, so the local payload wins.
	RemoteVersion int64

	// LocalVersion, when non-zero, relabels the record's local version and
	// its pending change entries' target version. Set on a conflict whose
	// competing remote version has passed the local one, so the re-sent
	// change still targets a version above its base.
	LocalVersion int64

	// DeleteSeqs lists change-log sequence numbers confirmed durably
	// applied (or deliberately retired, e.g. a rejected corrupt payload).
	DeleteSeqs []int64

	// Purge removes the record row entirely. Used once a tombstoned delete
	// is confirmed on both sides.
	Purge bool

	// AckKey, when non-empty, is the conflict acknowledgement key
	// ("recordID:remoteVersion") persisted so the same conflict never
	// re-notifies the user.
	AckKey string
}

// BatchCommit carries everything the local store must apply atomically at
// the end of a sync cycle.
type BatchCommit struct {
	UserID   int64
	Outcomes []RecordOutcome

	// SyncedAt is recorded as the last successful sync timestamp when the
	// batch contained at least one applied change.
	SyncedAt time.Time
}
