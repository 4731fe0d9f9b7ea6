package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/models"
)

func conflictInput() (models.BatchChange, models.ChangeResult) {
	change := models.BatchChange{
		Entry: models.ChangeEntry{
			Seq:       10,
			RecordID:  "2025:income",
			ToVersion: 3,
			OpKind:    models.OpUpdate,
			Checksum:  "local-sum",
		},
		Record:         models.Record{RecordID: "2025:income", LocalVersion: 3, RemoteVersion: 1},
		SupersededSeqs: []int64{10},
	}
	result := models.ChangeResult{
		RecordID:       "2025:income",
		AppliedVersion: 5,
		RemoteChecksum: "remote-sum",
		Status:         models.ApplyConflict,
	}
	return change, result
}

func TestConflictResolver_LocalCopyWins(t *testing.T) {
	storages := newServiceStorages(t)
	resolver := NewConflictResolver(storages.MetaRepository, logger.Nop())
	ctx := context.Background()

	change, result := conflictInput()
	outcome, note, err := resolver.Resolve(ctx, change, result)
	require.NoError(t, err)

	// The pending entry must stay in the log so the local payload is
	// re-sent against the competing version on the next pass.
	assert.Empty(t, outcome.DeleteSeqs)
	assert.Equal(t, models.StatusConflict, outcome.Status)
	assert.Equal(t, int64(5), outcome.RemoteVersion)
	// the competing version passed the local one, so the re-send is
	// relabeled one above it
	assert.Equal(t, int64(6), outcome.LocalVersion)
	assert.Equal(t, "2025:income:5", outcome.AckKey)
	assert.False(t, outcome.Purge)

	require.NotNil(t, note)
	assert.Equal(t, int64(3), note.LocalVersion)
	assert.Equal(t, int64(5), note.RemoteVersion)
	assert.Equal(t, "remote-sum", note.RemoteChecksum)
	assert.NotEmpty(t, note.Summary)
}

func TestConflictResolver_LocalVersionAlreadyAhead(t *testing.T) {
	storages := newServiceStorages(t)
	resolver := NewConflictResolver(storages.MetaRepository, logger.Nop())
	ctx := context.Background()

	change, result := conflictInput()
	change.Entry.ToVersion = 9
	change.Record.LocalVersion = 9

	outcome, _, err := resolver.Resolve(ctx, change, result)
	require.NoError(t, err)

	// the local lineage already sits above the competing version, so no
	// relabel is needed for the re-send to land
	assert.Zero(t, outcome.LocalVersion)
	assert.Equal(t, int64(5), outcome.RemoteVersion)
}

func TestConflictResolver_AcknowledgedConflictDoesNotRenotify(t *testing.T) {
	storages := newServiceStorages(t)
	resolver := NewConflictResolver(storages.MetaRepository, logger.Nop())
	ctx := context.Background()

	change, result := conflictInput()

	first, note, err := resolver.Resolve(ctx, change, result)
	require.NoError(t, err)
	require.NotNil(t, note)

	// Commit the outcome the way the coordinator would; that persists the
	// acknowledgement key alongside the record update.
	require.NoError(t, storages.SyncRepository.CommitBatch(ctx, models.BatchCommit{
		UserID:   1,
		Outcomes: []models.RecordOutcome{first},
	}))

	acked, err := storages.MetaRepository.HasConflictAck(ctx, first.AckKey)
	require.NoError(t, err)
	require.True(t, acked)

	// Re-resolving the same conflict (re-sent batch, replayed response)
	// yields the same outcome but no second note.
	second, note, err := resolver.Resolve(ctx, change, result)
	require.NoError(t, err)
	assert.Nil(t, note)
	assert.Equal(t, first, second)
}

func TestConflictResolver_NewCompetingVersionNotifiesAgain(t *testing.T) {
	storages := newServiceStorages(t)
	resolver := NewConflictResolver(storages.MetaRepository, logger.Nop())
	ctx := context.Background()

	change, result := conflictInput()

	outcome, _, err := resolver.Resolve(ctx, change, result)
	require.NoError(t, err)
	require.NoError(t, storages.SyncRepository.CommitBatch(ctx, models.BatchCommit{
		UserID:   1,
		Outcomes: []models.RecordOutcome{outcome},
	}))

	// The remote side advanced again before our re-send landed: a new
	// (record, version) pair is a new conflict and deserves a new note.
	result.AppliedVersion = 7
	next, note, err := resolver.Resolve(ctx, change, result)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, "2025:income:7", next.AckKey)
	assert.Equal(t, int64(8), next.LocalVersion)
	assert.Equal(t, int64(7), note.RemoteVersion)
}
