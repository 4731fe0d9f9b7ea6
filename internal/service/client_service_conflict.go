package service

import (
	"context"
	"fmt"
	"time"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
	"github.com/declaro/taxsync/models"
)

// conflictResolver is the concrete [ConflictResolver]. The policy is fixed:
// the local payload always wins. Payloads are never merged.
type conflictResolver struct {
	meta   store.MetaRepository
	logger *logger.Logger
}

// NewConflictResolver constructs a [ConflictResolver].
func NewConflictResolver(meta store.MetaRepository, logger *logger.Logger) ConflictResolver {
	return &conflictResolver{meta: meta, logger: logger}
}

// Resolve implements [ConflictResolver].
//
// The outcome keeps the change-log entries pending (no DeleteSeqs) and
// advances the record's known remote version to the competing one reported
// by the server. When the competing version has passed the local one, the
// local version is relabeled one above it so the re-sent change still
// targets a version the server will accept. The next pass re-sends the same
// local payload with the new base version, so the optimistic-locking check
// passes and the local copy becomes the authoritative remote version.
//
// Acknowledgement is keyed by (recordID, remoteVersion): the key is written
// with the commit, and a conflict whose key already exists produces no note,
// so re-resolving after a failed commit or a re-sent batch never re-notifies
// the user.
func (r *conflictResolver) Resolve(ctx context.Context, change models.BatchChange, result models.ChangeResult) (models.RecordOutcome, *models.ConflictNote, error) {
	log := logger.FromContext(ctx)

	ackKey := fmt.Sprintf("%s:%d", change.Entry.RecordID, result.AppliedVersion)

	outcome := models.RecordOutcome{
		RecordID:      change.Entry.RecordID,
		Status:        models.StatusConflict,
		RemoteVersion: result.AppliedVersion,
		AckKey:        ackKey,
	}
	if change.Entry.ToVersion <= result.AppliedVersion {
		outcome.LocalVersion = result.AppliedVersion + 1
	}

	acked, err := r.meta.HasConflictAck(ctx, ackKey)
	if err != nil {
		return models.RecordOutcome{}, nil, fmt.Errorf("check conflict ack %s: %w", ackKey, err)
	}
	if acked {
		return outcome, nil, nil
	}

	log.Warn().
		Str("record_id", change.Entry.RecordID).
		Int64("local_version", change.Entry.ToVersion).
		Int64("remote_version", result.AppliedVersion).
		Msg("remote change overridden, local copy wins")

	note := &models.ConflictNote{
		RecordID:       change.Entry.RecordID,
		LocalVersion:   change.Entry.ToVersion,
		RemoteVersion:  result.AppliedVersion,
		RemoteChecksum: result.RemoteChecksum,
		Summary: fmt.Sprintf(
			"Another device changed record %s (version %d). Your local copy was kept and will replace it.",
			change.Entry.RecordID, result.AppliedVersion),
		DetectedAt: time.Now(),
	}

	return outcome, note, nil
}
