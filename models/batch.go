package models

// BatchChange is one coalesced pending change inside a sync batch: the
// latest local state of a record together with the change-log entries it
// supersedes. Per record, multiple offline edits collapse into a single
// BatchChange at the newest version; the remote store only ever observes
// the latest local version, never an intermediate one out of order.
type BatchChange struct {
	// Entry is the newest change-log entry for the record.
	Entry ChangeEntry

	// Record is the record snapshot taken when the batch was assembled.
	Record Record

	// SupersededSeqs lists every change-log sequence number this change
	// covers (including Entry.Seq). All of them are removed together when
	// the change is confirmed applied.
	SupersededSeqs []int64
}

// SyncBatch is an ordered, bounded group of pending changes assembled for a
// single network round-trip. A batch is immutable once assembled: entries
// appended to the change log during transmission form a later batch.
type SyncBatch struct {
	UserID  int64
	Changes []BatchChange
}

// Empty reports whether the batch carries no changes.
func (b SyncBatch) Empty() bool {
	return len(b.Changes) == 0
}

// RecordIDs returns the ids of every record in the batch, in batch order.
func (b SyncBatch) RecordIDs() []string {
	ids := make([]string, 0, len(b.Changes))
	for _, c := range b.Changes {
		ids = append(ids, c.Entry.RecordID)
	}
	return ids
}
