package models

import "time"

// ConflictNote is the human-readable notification payload emitted when the
// conflict resolver overrides a competing remote change. The UI layer decides
// how to present it; the engine only guarantees one note per
// (RecordID, RemoteVersion) pair; re-resolving an already-acknowledged
// conflict does not re-notify.
type ConflictNote struct {
	RecordID string `json:"record_id"`

	// LocalVersion is the local version that won.
	LocalVersion int64 `json:"local_version"`

	// RemoteVersion is the competing remote version that was overridden.
	RemoteVersion int64 `json:"remote_version"`

	// RemoteChecksum identifies the overridden remote payload.
	RemoteChecksum string `json:"remote_checksum"`

	// Summary is a short human-readable description of the resolution.
	Summary string `json:"summary"`

	DetectedAt time.Time `json:"detected_at"`
}
