// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package service

import (
	"context"

	"github.com/declaro/taxsync/models"
)

// RecordService is the client-side API over the local vault. Every call
// returns without touching the network; synchronization happens in the
// background through the coordinator.
type RecordService interface {
	// Put creates or updates a record: it bumps the local version,
	// recomputes the checksum, and appends a change-log entry in the same
	// transaction as the record write.
	Put(ctx context.Context, userID int64, recordID string, payload []byte, schemaVersion string) (models.Record, error)

	// Get returns the record and verifies its payload against the stored
	// checksum. A mismatch marks the record corrupted and returns
	// store.ErrChecksumMismatch alongside the record.
	Get(ctx context.Context, userID int64, recordID string) (models.Record, error)

	// GetAll returns every live record of the user.
	GetAll(ctx context.Context, userID int64) ([]models.Record, error)

	// Delete tombstones the record and appends a delete entry. The row is
	// purged only after both sides confirm the deletion.
	Delete(ctx context.Context, userID int64, recordID string) error

	// AcknowledgeConflict clears a record's conflict status after the user
	// has seen it. A record in any other status is left untouched.
	AcknowledgeConflict(ctx context.Context, userID int64, recordID string) error

	// OverallStatus rolls the per-record sync statuses up into a single
	// value for the UI layer.
	OverallStatus(ctx context.Context, userID int64) (models.SyncStatus, error)
}

// ConsentGate controls whether any data may leave the device. The flag is
// persisted in the vault's sync_meta table and cached in-process.
type ConsentGate interface {
	// Granted reports the current consent flag.
	Granted(ctx context.Context) bool

	// Set persists the flag. Flipping it true publishes a change event so
	// the sync worker starts a cycle within one scheduling tick.
	Set(ctx context.Context, granted bool) error

	// Changes delivers consent transitions, buffered with capacity one.
	Changes() <-chan bool
}

// BatchPlanner assembles an immutable sync batch from raw change-log
// entries. It is a pure computation: multiple pending entries for one record
// coalesce into a single change at the newest local version, and records
// whose payload fails checksum verification are excluded.
type BatchPlanner interface {
	// Plan returns the batch and the ids of records excluded as corrupted.
	Plan(userID int64, entries []models.ChangeEntry, records map[string]models.Record) (models.SyncBatch, []string)
}

// ConflictResolver applies the local-always-wins policy to a server-reported
// conflict. It never merges payloads.
type ConflictResolver interface {
	// Resolve produces the commit outcome for a conflicted change: the
	// record keeps its local payload, its known remote version advances to
	// the competing one so the next cycle re-sends on the new base, and its
	// change-log entries stay pending. The returned note is nil when the
	// same conflict was already acknowledged.
	Resolve(ctx context.Context, change models.BatchChange, result models.ChangeResult) (models.RecordOutcome, *models.ConflictNote, error)
}

// PayloadEncryptor seals record payloads for transmission. The key derives
// from the user's passphrase at login and never leaves the process.
type PayloadEncryptor interface {
	Encrypt(plain []byte) (string, error)
	Decrypt(encoded string) ([]byte, error)
}

// SyncCoordinator drives the sync cycle state machine. A single coordinator
// instance runs per client session.
type SyncCoordinator interface {
	// RunCycle drains, transmits, reconciles, and commits pending changes
	// until the change log is empty or an error stops the cycle. Transient
	// failures are retried with capped exponential backoff inside the
	// cycle; non-retryable failures (auth) abort it. A cycle with nothing
	// to send or with consent withheld returns nil immediately.
	RunCycle(ctx context.Context) error

	// State reports the coordinator's current phase.
	State() CoordinatorState

	// Notes delivers conflict notifications emitted during reconciliation.
	Notes() <-chan models.ConflictNote
}

// ClientAuthService authenticates against the remote store and manages the
// session's payload encryption key.
type ClientAuthService interface {
	PayloadEncryptor

	// Register creates the remote account, derives the payload encryption
	// key from the passphrase, and stores the key-derivation salt in the
	// vault.
	Register(ctx context.Context, login, password, name string) (models.User, error)

	// Login authenticates and derives the payload encryption key.
	Login(ctx context.Context, login, password string) (models.Token, error)

	// UserID returns the authenticated user's id, or zero before login.
	UserID() int64
}
