// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package models

// ChangeUpload is one record change as it travels over the wire. The payload
// is encrypted by the client before transmission; the server never sees
// plaintext. BaseVersion is the remote version the change was built on and
// drives the server-side optimistic-locking check.
type ChangeUpload struct {
	// RecordID identifies the record being changed.
	RecordID string `json:"record_id"`

	// BaseVersion is the remote version this change supersedes. Zero means
	// the client believes the record does not exist remotely yet.
	BaseVersion int64 `json:"base_version"`

	// ToVersion is the client-side local version being shipped. The pair
	// (RecordID, ToVersion) keys idempotent re-sends.
	ToVersion int64 `json:"to_version"`

	// Checksum is the digest of the plaintext payload at ToVersion.
	Checksum string `json:"checksum"`

	// SchemaVersion is carried verbatim from the payload producer.
	SchemaVersion string `json:"schema_version"`

	// EncryptedPayload is the transport representation of the payload,
	// base64-encoded AES-GCM ciphertext.
	EncryptedPayload string `json:"encrypted_payload"`

	// OpKind classifies the change. A delete ships no payload.
	OpKind OpKind `json:"op_kind"`
}

// BatchRequest is the ordered list of changes sent in one sync round-trip.
type BatchRequest struct {
	// Changes are applied by the server strictly in slice order.
	Changes []ChangeUpload `json:"changes"`

	// Signature is the HMAC of the serialized Changes slice, a transport
	// integrity check independent of per-record checksums.
	Signature string `json:"signature,omitempty"`

	// Length is the number of entries in Changes.
	Length int `json:"length"`
}

// ApplyStatus is the server's verdict on a single uploaded change.
type ApplyStatus string

const (
	// ApplyApplied means the change is durably stored (or was already
	// stored by an earlier identical upload; re-sends are idempotent).
	ApplyApplied ApplyStatus = "applied"

	// ApplyConflict means the remote version advanced independently of the
	// change's base version. The server keeps its copy and reports its
	// current version and checksum for reconciliation.
	ApplyConflict ApplyStatus = "conflict"

	// ApplyRejected means the uploaded payload failed the server-side
	// checksum verification and was discarded.
	ApplyRejected ApplyStatus = "rejected"
)

// ChangeResult is the server's per-change response, returned in the same
// order as the request's Changes slice.
type ChangeResult struct {
	RecordID string `json:"record_id"`

	// AppliedVersion is the remote version after processing: the new
	// version on applied, the competing current version on conflict.
	AppliedVersion int64 `json:"applied_version"`

	// RemoteChecksum is the digest of the payload the server now holds.
	RemoteChecksum string `json:"remote_checksum"`

	Status ApplyStatus `json:"status"`
}

// BatchResponse is the ordered list of per-change results for one batch.
type BatchResponse struct {
	Results []ChangeResult `json:"results"`
	Length  int            `json:"length"`
}

// StatesResponse carries the server-side state of every record belonging to
// the user, used by the client for divergence checks.
type StatesResponse struct {
	States []RecordState `json:"states"`
	Length int           `json:"length"`
}
