package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	createUser = `INSERT INTO users (login, password, name)
    VALUES ($1, $2, $3)
    RETURNING user_id, login, password, name, created_at;`

	findUserByLogin = `SELECT user_id, login, password, name, created_at
    FROM users
    WHERE login = $1;`

	getRecordStateForUpdate = `SELECT version, checksum, deleted, updated_at
		FROM records
		WHERE user_id = $1 AND record_id = $2
		FOR UPDATE;`

	insertRecord = `INSERT INTO records (
			user_id,
			record_id,
			version,
			schema_version,
			checksum,
			payload,
			deleted,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING version, checksum, deleted, updated_at;`

	updateRecord = `UPDATE records
		SET version = $3,
			schema_version = $4,
			checksum = $5,
			payload = $6,
			deleted = $7,
			updated_at = NOW()
		WHERE user_id = $1 AND record_id = $2 AND version = $8
		RETURNING version, checksum, deleted, updated_at;`
)

// psql is the placeholder format shared by the squirrel builders below.
// The pgx driver expects dollar placeholders, not question marks.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildStatesQuery builds the SELECT used by [RecordRepository.GetStates].
// When recordIDs is empty the query returns the state of every record owned
// by the user, otherwise it is narrowed to the requested identifiers.
func buildStatesQuery(userID int64, recordIDs []string) (string, []any, error) {
	builder := psql.
		Select("record_id", "version", "checksum", "deleted", "updated_at").
		From("records").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("record_id")

	if len(recordIDs) > 0 {
		builder = builder.Where(sq.Eq{"record_id": recordIDs})
	}

	return builder.ToSql()
}
