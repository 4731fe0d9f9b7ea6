package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/declaro/taxsync/internal/checksum"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
	"github.com/declaro/taxsync/models"
)

// syncApplyService is the concrete implementation of [SyncApplyService].
//
// Record payloads are encrypted with a key that never leaves the client, so
// the server validates envelope integrity (length, HMAC signature) and
// per-change shape, but never inspects plaintext. Version arbitration happens
// in the record repository under optimistic locking.
type syncApplyService struct {
	recordRepository store.RecordRepository
	signer           *checksum.Signer
	logger           *logger.Logger
}

// NewSyncApplyService constructs a [SyncApplyService]. hashKey is the shared
// transport integrity key; when empty, signature verification is skipped.
func NewSyncApplyService(recordRepository store.RecordRepository, hashKey string, logger *logger.Logger) SyncApplyService {
	return &syncApplyService{
		recordRepository: recordRepository,
		signer:           checksum.NewSigner(hashKey),
		logger:           logger,
	}
}

// ApplyBatch implements [SyncApplyService].
//
// Envelope validation failures (empty batch, length mismatch, bad signature)
// fail the whole request. Otherwise every change is applied strictly in
// request order and classified independently:
//
//   - applied: the change is durably stored, or an identical earlier upload
//     already stored it (idempotent re-send);
//   - conflict: the stored version diverged from the change's base version;
//     the server keeps its copy and reports the competing state;
//   - rejected: the change is structurally invalid (no checksum, or a live
//     change without a payload) and was discarded.
func (s *syncApplyService) ApplyBatch(ctx context.Context, userID int64, req models.BatchRequest) (models.BatchResponse, error) {
	log := logger.FromContext(ctx)

	if len(req.Changes) == 0 {
		return models.BatchResponse{}, ErrValidationEmptyBatch
	}
	if req.Length != len(req.Changes) {
		log.Error().Int("declared", req.Length).Int("actual", len(req.Changes)).Msg("batch length mismatch")
		return models.BatchResponse{}, ErrValidationLengthMismatch
	}
	if err := s.verifySignature(req); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("batch signature rejected")
		return models.BatchResponse{}, err
	}

	results := make([]models.ChangeResult, 0, len(req.Changes))
	for _, change := range req.Changes {
		if err := ctx.Err(); err != nil {
			return models.BatchResponse{}, err
		}
		results = append(results, s.applyOne(ctx, userID, change))
	}

	return models.BatchResponse{Results: results, Length: len(results)}, nil
}

func (s *syncApplyService) applyOne(ctx context.Context, userID int64, change models.ChangeUpload) models.ChangeResult {
	log := logger.FromContext(ctx)

	if !validChange(change) {
		log.Warn().Str("record_id", change.RecordID).Msg("structurally invalid change rejected")
		return models.ChangeResult{RecordID: change.RecordID, Status: models.ApplyRejected}
	}

	state, err := s.recordRepository.ApplyChange(ctx, userID, change, change.EncryptedPayload)
	switch {
	case errors.Is(err, store.ErrVersionConflict):
		return models.ChangeResult{
			RecordID:       change.RecordID,
			AppliedVersion: state.Version,
			RemoteChecksum: state.Checksum,
			Status:         models.ApplyConflict,
		}
	case err != nil:
		log.Err(err).Str("record_id", change.RecordID).Msg("change application failed")
		return models.ChangeResult{RecordID: change.RecordID, Status: models.ApplyRejected}
	}

	return models.ChangeResult{
		RecordID:       change.RecordID,
		AppliedVersion: state.Version,
		RemoteChecksum: state.Checksum,
		Status:         models.ApplyApplied,
	}
}

// GetStates implements [SyncApplyService].
func (s *syncApplyService) GetStates(ctx context.Context, userID int64) ([]models.RecordState, error) {
	states, err := s.recordRepository.GetStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get record states: %w", err)
	}
	return states, nil
}

func (s *syncApplyService) verifySignature(req models.BatchRequest) error {
	payload, err := json.Marshal(req.Changes)
	if err != nil {
		return fmt.Errorf("serialize changes for verification: %w", err)
	}
	if !s.signer.VerifySignature(payload, req.Signature) {
		return ErrValidationBadSignature
	}
	return nil
}

// validChange checks per-change shape: every change names a record and a
// checksum, only deletes may omit the payload, and the target version must
// sit strictly above the base version.
func validChange(change models.ChangeUpload) bool {
	if change.RecordID == "" || change.Checksum == "" {
		return false
	}
	if change.OpKind != models.OpDelete && change.EncryptedPayload == "" {
		return false
	}
	if change.ToVersion <= 0 || change.BaseVersion < 0 || change.ToVersion <= change.BaseVersion {
		return false
	}
	return true
}
