// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/declaro/taxsync/internal/adapter"
	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
	"github.com/declaro/taxsync/models"
)

// CoordinatorState is the sync coordinator's current phase.
type CoordinatorState string

const (
	// StateIdle means no cycle is running.
	StateIdle CoordinatorState = "idle"

	// StateDraining means pending change-log entries are being assembled
	// into an immutable batch.
	StateDraining CoordinatorState = "draining"

	// StateTransmitting means a batch is in flight.
	StateTransmitting CoordinatorState = "transmitting"

	// StateReconciling means server results are being mapped to per-record
	// outcomes.
	StateReconciling CoordinatorState = "reconciling"

	// StateCommitting means the outcome transaction is being applied.
	StateCommitting CoordinatorState = "committing"

	// StateBackoff means the cycle hit a transient failure and is waiting
	// out the retry delay.
	StateBackoff CoordinatorState = "backoff"

	// StateAborted means the cycle stopped on a non-retryable failure.
	// Pending entries stay in the log; the local store stays authoritative.
	StateAborted CoordinatorState = "aborted"
)

// syncCoordinator is the concrete [SyncCoordinator]. One instance runs per
// client session; concurrent RunCycle calls are serialized by cycleMu.
type syncCoordinator struct {
	userID int64

	vault     store.VaultRepository
	changeLog store.ChangeLogRepository
	meta      store.MetaRepository
	syncRepo  store.SyncRepository

	adapter   adapter.ServerAdapter
	planner   BatchPlanner
	resolver  ConflictResolver
	consent   ConsentGate
	encryptor PayloadEncryptor

	cfg config.ClientSync

	cycleMu sync.Mutex

	stateMu sync.RWMutex
	state   CoordinatorState

	notes chan models.ConflictNote

	logger *logger.Logger
}

// NewSyncCoordinator constructs a [SyncCoordinator] for the authenticated
// user. Records stuck in the syncing status from a crashed earlier session
// are released back to pending on construction.
func NewSyncCoordinator(
	userID int64,
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	consent ConsentGate,
	encryptor PayloadEncryptor,
	cfg config.ClientSync,
	logger *logger.Logger,
) (SyncCoordinator, error) {
	c := &syncCoordinator{
		userID:    userID,
		vault:     storages.VaultRepository,
		changeLog: storages.ChangeLogRepository,
		meta:      storages.MetaRepository,
		syncRepo:  storages.SyncRepository,
		adapter:   serverAdapter,
		planner:   NewBatchPlanner(),
		resolver:  NewConflictResolver(storages.MetaRepository, logger),
		consent:   consent,
		encryptor: encryptor,
		cfg:       cfg,
		state:     StateIdle,
		notes:     make(chan models.ConflictNote, 16),
		logger:    logger,
	}

	if err := c.syncRepo.ReleaseSyncing(context.Background(), userID); err != nil {
		return nil, fmt.Errorf("release stale syncing records: %w", err)
	}

	return c, nil
}

// State implements [SyncCoordinator].
func (c *syncCoordinator) State() CoordinatorState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Notes implements [SyncCoordinator].
func (c *syncCoordinator) Notes() <-chan models.ConflictNote {
	return c.notes
}

func (c *syncCoordinator) setState(state CoordinatorState) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}

// RunCycle implements [SyncCoordinator].
//
// The cycle keeps draining bounded batches until the change log is empty.
// Entries appended while a batch is in flight are not part of it; they form
// a later batch within the same cycle. Transient failures (transport, 5xx,
// commit) retry with capped exponential backoff up to the configured attempt
// limit; the counter resets after every fully successful batch. Auth
// failures abort immediately.
func (c *syncCoordinator) RunCycle(ctx context.Context) error {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()
	defer c.setState(StateIdle)

	if !c.consent.Granted(ctx) {
		return nil
	}

	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			c.setState(StateAborted)
			return err
		}

		sent, err := c.runBatch(ctx)
		if err == nil {
			if attempt > 0 {
				attempt = 0
				c.persistAttemptCount(ctx, 0)
			}
			if !sent {
				return nil
			}
			continue
		}

		if !isRetryable(err) {
			c.logger.Err(err).Str("func", "*syncCoordinator.RunCycle").Msg("sync cycle aborted")
			c.setState(StateAborted)
			return err
		}

		attempt++
		c.persistAttemptCount(ctx, attempt)
		if attempt >= c.cfg.MaxAttempts {
			c.logger.Err(err).Str("func", "*syncCoordinator.RunCycle").Int("attempts", attempt).Msg("retry budget exhausted")
			c.setState(StateAborted)
			return err
		}

		c.setState(StateBackoff)
		delay := backoffDelay(c.cfg.BackoffBase, c.cfg.BackoffCap, attempt)
		c.logger.Warn().
			Str("func", "*syncCoordinator.RunCycle").
			Int("attempt", attempt).
			Dur("delay", delay).
			Err(err).
			Msg("transient sync failure, backing off")

		select {
		case <-ctx.Done():
			c.setState(StateAborted)
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// runBatch performs one drain-transmit-reconcile-commit pass. It reports
// whether a batch was actually shipped so the caller knows when the log has
// drained.
func (c *syncCoordinator) runBatch(ctx context.Context) (bool, error) {
	log := logger.FromContext(ctx)

	c.setState(StateDraining)
	entries, err := c.changeLog.PendingEntries(ctx, c.userID, c.cfg.BatchSize)
	if err != nil {
		return false, fmt.Errorf("drain change log: %w", err)
	}
	if len(entries) == 0 {
		return false, nil
	}

	records, err := c.loadRecords(ctx, entries)
	if err != nil {
		return false, err
	}

	batch, corrupted := c.planner.Plan(c.userID, entries, records)
	if len(corrupted) > 0 {
		log.Error().Strs("record_ids", corrupted).Msg("corrupted records excluded from sync batch")
		if err = c.vault.UpdateStatus(ctx, c.userID, models.StatusCorrupted, corrupted...); err != nil {
			return false, fmt.Errorf("mark corrupted records: %w", err)
		}
	}
	if batch.Empty() {
		return false, nil
	}

	if err = c.vault.UpdateStatus(ctx, c.userID, models.StatusSyncing, batch.RecordIDs()...); err != nil {
		return false, fmt.Errorf("mark batch records syncing: %w", err)
	}

	uploads, err := c.buildUploads(batch)
	if err != nil {
		c.releaseBatch(ctx)
		return false, err
	}

	// consent is re-sampled immediately before transmission; a revocation
	// mid-cycle aborts cleanly without error
	if !c.consent.Granted(ctx) {
		log.Info().Msg("consent revoked before transmission, batch withheld")
		c.releaseBatch(ctx)
		return false, nil
	}

	c.setState(StateTransmitting)
	resp, err := c.adapter.SendBatch(ctx, models.BatchRequest{Changes: uploads})
	if err != nil {
		c.releaseBatch(ctx)
		return true, mapAdapterError(err)
	}

	c.setState(StateReconciling)
	outcomes, notes, err := c.reconcile(ctx, batch, resp)
	if err != nil {
		c.releaseBatch(ctx)
		return true, err
	}

	c.setState(StateCommitting)
	commit := models.BatchCommit{UserID: c.userID, Outcomes: outcomes}
	if anyApplied(outcomes) {
		commit.SyncedAt = time.Now()
	}
	if err = c.syncRepo.CommitBatch(ctx, commit); err != nil {
		// the batch is treated as unsent; remote application is idempotent,
		// so the full retry is safe
		c.releaseBatch(ctx)
		return true, err
	}

	// notes go out only after their acknowledgement keys are durable
	for _, note := range notes {
		c.publishNote(note)
	}

	return true, nil
}

func (c *syncCoordinator) loadRecords(ctx context.Context, entries []models.ChangeEntry) (map[string]models.Record, error) {
	records := make(map[string]models.Record, len(entries))
	for _, entry := range entries {
		if _, ok := records[entry.RecordID]; ok {
			continue
		}
		record, err := c.vault.GetRecord(ctx, c.userID, entry.RecordID)
		if errors.Is(err, store.ErrRecordNotFound) {
			// purged after the entry was logged
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load record %s for batch: %w", entry.RecordID, err)
		}
		records[entry.RecordID] = record
	}
	return records, nil
}

func (c *syncCoordinator) buildUploads(batch models.SyncBatch) ([]models.ChangeUpload, error) {
	uploads := make([]models.ChangeUpload, 0, len(batch.Changes))
	for _, change := range batch.Changes {
		upload := models.ChangeUpload{
			RecordID:      change.Entry.RecordID,
			BaseVersion:   change.Record.RemoteVersion,
			ToVersion:     change.Entry.ToVersion,
			Checksum:      change.Entry.Checksum,
			SchemaVersion: change.Record.SchemaVersion,
			OpKind:        change.Entry.OpKind,
		}

		if change.Entry.OpKind != models.OpDelete {
			sealed, err := c.encryptor.Encrypt(change.Record.Payload)
			if err != nil {
				return nil, fmt.Errorf("encrypt payload for %s: %w", change.Entry.RecordID, err)
			}
			upload.EncryptedPayload = sealed
		}

		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func (c *syncCoordinator) reconcile(ctx context.Context, batch models.SyncBatch, resp models.BatchResponse) ([]models.RecordOutcome, []models.ConflictNote, error) {
	log := logger.FromContext(ctx)

	outcomes := make([]models.RecordOutcome, 0, len(resp.Results))
	var notes []models.ConflictNote

	for i, result := range resp.Results {
		change := batch.Changes[i]

		switch result.Status {
		case models.ApplyApplied:
			outcome := models.RecordOutcome{
				RecordID:      change.Entry.RecordID,
				Status:        models.StatusSynced,
				RemoteVersion: result.AppliedVersion,
				DeleteSeqs:    change.SupersededSeqs,
			}
			if change.Record.SyncStatus == models.StatusConflict {
				// a winning re-send resolves the divergence remotely, but
				// the conflict stays visible until the user acknowledges it
				outcome.Status = models.StatusConflict
			}
			if change.Entry.OpKind == models.OpDelete {
				// both sides confirmed the deletion; the tombstone goes
				outcome.Purge = true
			}
			outcomes = append(outcomes, outcome)

		case models.ApplyConflict:
			outcome, note, err := c.resolver.Resolve(ctx, change, result)
			if err != nil {
				return nil, nil, err
			}
			outcomes = append(outcomes, outcome)
			if note != nil {
				notes = append(notes, *note)
			}

		case models.ApplyRejected:
			// the server discarded the change; retire its entries so it is
			// never silently re-sent, and surface the record as corrupted
			log.Error().Str("record_id", change.Entry.RecordID).Msg("server rejected change, record marked corrupted")
			outcomes = append(outcomes, models.RecordOutcome{
				RecordID:   change.Entry.RecordID,
				Status:     models.StatusCorrupted,
				DeleteSeqs: change.SupersededSeqs,
			})

		default:
			return nil, nil, fmt.Errorf("unknown apply status %q for record %s", result.Status, result.RecordID)
		}
	}

	return outcomes, notes, nil
}

func (c *syncCoordinator) releaseBatch(ctx context.Context) {
	if err := c.syncRepo.ReleaseSyncing(ctx, c.userID); err != nil {
		c.logger.Err(err).Str("func", "*syncCoordinator.releaseBatch").Msg("failed to release syncing records")
	}
}

func (c *syncCoordinator) publishNote(note models.ConflictNote) {
	select {
	case c.notes <- note:
	default:
		c.logger.Warn().Str("record_id", note.RecordID).Msg("conflict note buffer full, note dropped")
	}
}

func (c *syncCoordinator) persistAttemptCount(ctx context.Context, attempt int) {
	if err := c.meta.SetMeta(ctx, store.MetaKeyAttemptCount, strconv.Itoa(attempt)); err != nil {
		c.logger.Err(err).Str("func", "*syncCoordinator.persistAttemptCount").Msg("failed to persist attempt counter")
	}
}

func anyApplied(outcomes []models.RecordOutcome) bool {
	for _, outcome := range outcomes {
		if outcome.Status == models.StatusSynced {
			return true
		}
		// a winning re-send keeps the conflict status but did land remotely
		if outcome.Status == models.StatusConflict && len(outcome.DeleteSeqs) > 0 {
			return true
		}
	}
	return false
}

// backoffDelay computes base doubled per attempt and capped. The first retry
// after a failure waits base, the second 2×base, and so on.
func backoffDelay(base, cap time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if cap > 0 && delay >= cap {
			return cap
		}
	}
	if cap > 0 && delay > cap {
		return cap
	}
	return delay
}
