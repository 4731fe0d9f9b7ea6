package models

import "time"

// SyncStatus describes where a record stands in the local-to-remote
// synchronization lifecycle. It is persisted with the record and surfaced
// to the UI layer as-is.
type SyncStatus string

const (
	// StatusLocal marks a record that was created locally and has never
	// been offered to the remote store.
	StatusLocal SyncStatus = "local"

	// StatusPending marks a record with at least one change-log entry
	// waiting to be shipped.
	StatusPending SyncStatus = "pending"

	// StatusSyncing marks a record whose pending change is part of an
	// in-flight sync batch.
	StatusSyncing SyncStatus = "syncing"

	// StatusSynced marks a record whose latest local version is confirmed
	// durable on the remote store.
	StatusSynced SyncStatus = "synced"

	// StatusConflict marks a record for which the remote store held a
	// competing change. The local payload stays authoritative; the status
	// exists for user visibility only.
	StatusConflict SyncStatus = "conflict"

	// StatusCorrupted marks a record whose payload no longer matches its
	// stored checksum. Corrupted records are excluded from sync batches
	// until the user re-enters the data.
	StatusCorrupted SyncStatus = "corrupted"
)

// Record is a single versioned unit of user tax data (salary info,
// deductions, calculation results) synchronized between the local vault
// and the remote store. The payload is produced by the rule/calculation
// engine and is opaque to the sync engine: it is never interpreted, only
// checksummed, encrypted in transit, and preserved verbatim together with
// its declared schema version.
type Record struct {
	// RecordID is the stable identifier of the record, derived from the
	// owning user and assessment year by the caller.
	RecordID string `json:"record_id"`

	// UserID is the owner of this record.
	UserID int64 `json:"user_id"`

	// Payload is the opaque record content. The engine treats it as bytes.
	Payload []byte `json:"payload"`

	// SchemaVersion is declared by the payload producer and must be
	// carried verbatim to the remote store.
	SchemaVersion string `json:"schema_version"`

	// LocalVersion is a monotonically increasing counter bumped on every
	// local mutation.
	LocalVersion int64 `json:"local_version"`

	// RemoteVersion is the last version confirmed present on the remote
	// store. Zero means the record was never synced.
	RemoteVersion int64 `json:"remote_version"`

	// Checksum is the digest of Payload at LocalVersion. It is recomputed
	// on every payload change before persisting; a record whose stored
	// checksum disagrees with a fresh digest of its payload is corrupted.
	Checksum string `json:"checksum"`

	// SyncStatus is the rolled-up synchronization state of the record.
	SyncStatus SyncStatus `json:"sync_status"`

	// Deleted marks a tombstone. Tombstones are kept until both sides
	// confirm the deletion, then purged.
	Deleted bool `json:"deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordState is the lightweight per-record descriptor exchanged during
// divergence checks: enough to decide whether local and remote disagree
// without shipping payloads.
type RecordState struct {
	RecordID  string     `json:"record_id"`
	Version   int64      `json:"version"`
	Checksum  string     `json:"checksum"`
	Deleted   bool       `json:"deleted"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
