package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
)

// vaultSchema creates the three client-side tables on first open.
//
// records holds the latest local state of every record, tombstones included.
// change_log is the append-only mutation log ordered by the autoincrement
// seq column. sync_meta is a small key-value table for the consent flag,
// attempt counter, last-sync timestamp, and conflict acknowledgement keys.
const vaultSchema = `
CREATE TABLE IF NOT EXISTS records (
	record_id      TEXT    NOT NULL,
	user_id        INTEGER NOT NULL,
	payload        BLOB    NOT NULL,
	schema_version TEXT    NOT NULL DEFAULT '',
	local_version  INTEGER NOT NULL,
	remote_version INTEGER NOT NULL DEFAULT 0,
	checksum       TEXT    NOT NULL,
	sync_status    TEXT    NOT NULL,
	deleted        INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, record_id)
);

CREATE TABLE IF NOT EXISTS change_log (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      INTEGER NOT NULL,
	record_id    TEXT    NOT NULL,
	from_version INTEGER NOT NULL,
	to_version   INTEGER NOT NULL,
	op_kind      TEXT    NOT NULL,
	checksum     TEXT    NOT NULL,
	enqueued_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_change_log_user ON change_log (user_id, seq);

CREATE TABLE IF NOT EXISTS sync_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS conflict_acks (
	ack_key  TEXT PRIMARY KEY,
	acked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// NewConnectSQLite opens (and if necessary creates) the local vault database
// and bootstraps the schema. The vault must be file-backed so records survive
// restarts; in-memory DSNs are rejected at config validation time.
func NewConnectSQLite(ctx context.Context, cfg config.ClientVault, log *logger.Logger) (*DB, error) {
	// db will be in file
	if err := createLocalDBFileIfNotExists(cfg.DSN); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file")
	}

	conn, err := sql.Open("sqlite3", cfg.DSN+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}

	if _, err = conn.ExecContext(ctx, vaultSchema); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error bootstrapping vault schema")
		return nil, fmt.Errorf("error bootstrapping vault schema: %w", err)
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to vault successfully")

	// construct a DB struct
	db := &DB{
		DB:     conn,
		logger: log,
	}

	return db, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if dir := filepath.Dir(dbFile); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB directory: %w", err)
			}
		}
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
