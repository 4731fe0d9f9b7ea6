package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/declaro/taxsync/internal/checksum"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
	"github.com/declaro/taxsync/models"
)

// recordService is the concrete [RecordService]. All mutations run through
// [store.VaultRepository.SaveWithChange], so a record write and its
// change-log entry land in one transaction.
type recordService struct {
	vault  store.VaultRepository
	logger *logger.Logger
}

// NewRecordService constructs a [RecordService] over the local vault.
func NewRecordService(vault store.VaultRepository, logger *logger.Logger) RecordService {
	return &recordService{vault: vault, logger: logger}
}

// Put implements [RecordService]. A new record starts at local version one
// in the local status with a create entry; an existing one bumps the
// version to pending with an update entry. The checksum is recomputed from the payload before persisting, and
// the schema version is carried verbatim.
func (s *recordService) Put(ctx context.Context, userID int64, recordID string, payload []byte, schemaVersion string) (models.Record, error) {
	log := logger.FromContext(ctx)

	if recordID == "" || len(payload) == 0 {
		return models.Record{}, ErrInvalidDataProvided
	}

	existing, err := s.vault.GetRecord(ctx, userID, recordID)
	isNew := errors.Is(err, store.ErrRecordNotFound)
	if err != nil && !isNew {
		return models.Record{}, fmt.Errorf("load record %s: %w", recordID, err)
	}

	now := time.Now()
	record := models.Record{
		RecordID:      recordID,
		UserID:        userID,
		Payload:       payload,
		SchemaVersion: schemaVersion,
		Checksum:      checksum.Digest(payload),
		SyncStatus:    models.StatusPending,
		UpdatedAt:     now,
	}

	entry := models.ChangeEntry{
		RecordID: recordID,
		Checksum: record.Checksum,
	}

	if isNew {
		record.LocalVersion = 1
		record.SyncStatus = models.StatusLocal
		record.CreatedAt = now
		entry.ToVersion = 1
		entry.OpKind = models.OpCreate
	} else {
		record.LocalVersion = existing.LocalVersion + 1
		record.RemoteVersion = existing.RemoteVersion
		record.CreatedAt = existing.CreatedAt
		entry.FromVersion = existing.LocalVersion
		entry.ToVersion = record.LocalVersion
		entry.OpKind = models.OpUpdate
	}

	if err = s.vault.SaveWithChange(ctx, record, entry); err != nil {
		log.Err(err).Str("record_id", recordID).Msg("record save failed")
		return models.Record{}, fmt.Errorf("save record %s: %w", recordID, err)
	}

	return record, nil
}

// Get implements [RecordService]. The payload is verified against the stored
// checksum on every read; a mismatch marks the record corrupted so the
// coordinator excludes it from future batches, and the caller still receives
// the record for display.
func (s *recordService) Get(ctx context.Context, userID int64, recordID string) (models.Record, error) {
	log := logger.FromContext(ctx)

	record, err := s.vault.GetRecord(ctx, userID, recordID)
	if err != nil {
		return models.Record{}, err
	}

	if !record.Deleted && !checksum.Verify(record.Payload, record.Checksum) {
		log.Error().Str("record_id", recordID).Msg("record payload does not match its checksum")
		if record.SyncStatus != models.StatusCorrupted {
			if markErr := s.vault.UpdateStatus(ctx, userID, models.StatusCorrupted, recordID); markErr != nil {
				log.Err(markErr).Str("record_id", recordID).Msg("failed to mark record corrupted")
			}
			record.SyncStatus = models.StatusCorrupted
		}
		return record, store.ErrChecksumMismatch
	}

	return record, nil
}

// GetAll implements [RecordService].
func (s *recordService) GetAll(ctx context.Context, userID int64) ([]models.Record, error) {
	records, err := s.vault.GetAllRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get all records: %w", err)
	}
	return records, nil
}

// Delete implements [RecordService]. The record becomes a tombstone and a
// delete entry is appended; the row itself survives until the remote store
// confirms the deletion, then the commit purges it.
func (s *recordService) Delete(ctx context.Context, userID int64, recordID string) error {
	log := logger.FromContext(ctx)

	existing, err := s.vault.GetRecord(ctx, userID, recordID)
	if err != nil {
		return err
	}
	if existing.Deleted {
		return nil
	}

	tombstone := existing
	tombstone.Deleted = true
	tombstone.LocalVersion = existing.LocalVersion + 1
	tombstone.SyncStatus = models.StatusPending
	tombstone.UpdatedAt = time.Now()

	entry := models.ChangeEntry{
		RecordID:    recordID,
		FromVersion: existing.LocalVersion,
		ToVersion:   tombstone.LocalVersion,
		OpKind:      models.OpDelete,
		Checksum:    existing.Checksum,
	}

	if err = s.vault.SaveWithChange(ctx, tombstone, entry); err != nil {
		log.Err(err).Str("record_id", recordID).Msg("tombstone save failed")
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}

	return nil
}

// AcknowledgeConflict implements [RecordService]. Conflicts stay visible on
// the record after the local copy wins remotely; this is the explicit user
// action that clears them.
func (s *recordService) AcknowledgeConflict(ctx context.Context, userID int64, recordID string) error {
	log := logger.FromContext(ctx)

	record, err := s.vault.GetRecord(ctx, userID, recordID)
	if err != nil {
		return err
	}
	if record.SyncStatus != models.StatusConflict {
		return nil
	}

	if err = s.vault.UpdateStatus(ctx, userID, models.StatusSynced, recordID); err != nil {
		log.Err(err).Str("record_id", recordID).Msg("conflict acknowledgement failed")
		return fmt.Errorf("acknowledge conflict on %s: %w", recordID, err)
	}

	return nil
}

// OverallStatus implements [RecordService]. The rollup picks the most
// attention-worthy status across all records: corrupted beats conflict,
// conflict beats syncing, syncing beats pending, and an empty or fully
// confirmed vault reports synced.
func (s *recordService) OverallStatus(ctx context.Context, userID int64) (models.SyncStatus, error) {
	records, err := s.vault.GetAllRecords(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("roll up sync status: %w", err)
	}

	rank := map[models.SyncStatus]int{
		models.StatusSynced:    0,
		models.StatusLocal:     1,
		models.StatusPending:   1,
		models.StatusSyncing:   2,
		models.StatusConflict:  3,
		models.StatusCorrupted: 4,
	}

	overall := models.StatusSynced
	for _, record := range records {
		status := record.SyncStatus
		if status == models.StatusLocal {
			status = models.StatusPending
		}
		if rank[status] > rank[overall] {
			overall = status
		}
	}

	return overall, nil
}
