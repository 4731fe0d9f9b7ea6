package store

const (
	upsertRecord = `INSERT INTO records (
			record_id, user_id, payload, schema_version, local_version,
			remote_version, checksum, sync_status, deleted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, record_id) DO UPDATE SET
			payload        = excluded.payload,
			schema_version = excluded.schema_version,
			local_version  = excluded.local_version,
			checksum       = excluded.checksum,
			sync_status    = excluded.sync_status,
			deleted        = excluded.deleted,
			updated_at     = CURRENT_TIMESTAMP;`

	appendChangeEntry = `INSERT INTO change_log (user_id, record_id, from_version, to_version, op_kind, checksum)
		VALUES (?, ?, ?, ?, ?, ?);`

	getRecord = `SELECT record_id, user_id, payload, schema_version, local_version,
			remote_version, checksum, sync_status, deleted, created_at, updated_at
		FROM records
		WHERE user_id = ? AND record_id = ?;`

	getAllRecords = `SELECT record_id, user_id, payload, schema_version, local_version,
			remote_version, checksum, sync_status, deleted, created_at, updated_at
		FROM records
		WHERE user_id = ? AND deleted = 0
		ORDER BY record_id;`

	getAllRecordStates = `SELECT record_id, local_version, checksum, deleted, updated_at
		FROM records
		WHERE user_id = ?
		ORDER BY record_id;`

	pendingChangeEntries = `SELECT seq, record_id, from_version, to_version, op_kind, checksum, enqueued_at
		FROM change_log
		WHERE user_id = ?
		ORDER BY seq
		LIMIT ?;`

	pendingChangeCount = `SELECT COUNT(*) FROM change_log WHERE user_id = ?;`

	deleteChangeEntry = `DELETE FROM change_log WHERE seq = ?;`

	updateRecordOutcome = `UPDATE records
		SET sync_status = ?,
			remote_version = CASE WHEN ? > 0 THEN ? ELSE remote_version END,
			local_version = CASE WHEN ? > 0 THEN ? ELSE local_version END,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND record_id = ?;`

	relabelChangeEntries = `UPDATE change_log
		SET to_version = ?
		WHERE user_id = ? AND record_id = ?;`

	purgeRecord = `DELETE FROM records WHERE user_id = ? AND record_id = ?;`

	releaseSyncingRecords = `UPDATE records
		SET sync_status = ?
		WHERE user_id = ? AND sync_status = ?;`

	getMetaValue = `SELECT value FROM sync_meta WHERE key = ?;`

	setMetaValue = `INSERT INTO sync_meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`

	insertConflictAck = `INSERT OR IGNORE INTO conflict_acks (ack_key) VALUES (?);`

	hasConflictAck = `SELECT COUNT(*) FROM conflict_acks WHERE ack_key = ?;`
)
