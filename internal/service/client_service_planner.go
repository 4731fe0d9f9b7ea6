package service

import (
	"github.com/declaro/taxsync/internal/checksum"
	"github.com/declaro/taxsync/models"
)

// batchPlanner is the concrete [BatchPlanner]. It is a pure, in-memory
// computation; no storage layer or logger is required because planning is
// stateless and produces no side effects.
type batchPlanner struct{}

// NewBatchPlanner constructs a [BatchPlanner] ready for use.
func NewBatchPlanner() BatchPlanner {
	return &batchPlanner{}
}

// Plan implements [BatchPlanner].
//
// Entries arrive in change-log sequence order. Per record, every pending
// entry collapses into one batch change carrying the newest entry and the
// record's current snapshot: the remote store only ever observes the latest
// local version, never an intermediate one. First-appearance order of
// records is preserved, so cross-record ordering follows the log.
//
// A record whose payload no longer matches its stored checksum is excluded
// from the batch together with all its entries and reported in the second
// return value. Its entries stay in the log; a corrupted record is never
// silently re-sent.
func (p *batchPlanner) Plan(userID int64, entries []models.ChangeEntry, records map[string]models.Record) (models.SyncBatch, []string) {
	batch := models.SyncBatch{UserID: userID}
	if len(entries) == 0 {
		return batch, nil
	}

	index := make(map[string]int, len(entries))
	corruptedSeen := make(map[string]bool)
	var corrupted []string

	for _, entry := range entries {
		if corruptedSeen[entry.RecordID] {
			continue
		}

		record, ok := records[entry.RecordID]
		if !ok {
			// the record was purged after the entry was logged; nothing
			// left to ship
			continue
		}

		pos, planned := index[entry.RecordID]
		if planned {
			// newer entry supersedes the one already planned for this record
			change := &batch.Changes[pos]
			change.Entry = entry
			change.SupersededSeqs = append(change.SupersededSeqs, entry.Seq)
			continue
		}

		if !record.Deleted && !checksum.Verify(record.Payload, record.Checksum) {
			corruptedSeen[entry.RecordID] = true
			corrupted = append(corrupted, entry.RecordID)
			continue
		}

		index[entry.RecordID] = len(batch.Changes)
		batch.Changes = append(batch.Changes, models.BatchChange{
			Entry:          entry,
			Record:         record,
			SupersededSeqs: []int64{entry.Seq},
		})
	}

	return batch, corrupted
}
