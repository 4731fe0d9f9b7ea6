package models

import "time"

// OpKind is the kind of local mutation recorded in the change log.
type OpKind string

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

// ChangeEntry is one append-only change-log row: a local mutation awaiting
// remote application. Entries are ordered by Seq, an autoincrement sequence
// number, never wall-clock time, so clock skew cannot reorder the log.
// An entry is removed only after the sync coordinator has confirmed the
// remote store durably applied it.
type ChangeEntry struct {
	// Seq is the monotonically increasing log position assigned by the
	// local store on append.
	Seq int64 `json:"seq"`

	// RecordID identifies the mutated record.
	RecordID string `json:"record_id"`

	// FromVersion is the record's LocalVersion before the mutation;
	// zero for a create.
	FromVersion int64 `json:"from_version"`

	// ToVersion is the record's LocalVersion after the mutation.
	ToVersion int64 `json:"to_version"`

	// OpKind classifies the mutation.
	OpKind OpKind `json:"op_kind"`

	// Checksum is the record payload digest at ToVersion.
	Checksum string `json:"checksum"`

	// EnqueuedAt is when the entry was appended. Informational only;
	// ordering is by Seq.
	EnqueuedAt time.Time `json:"enqueued_at"`
}
