// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package store

import (
	"database/sql"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/migrations"
)

// DB wraps the server's sql.DB handle together with the error classifier
// the repositories use to translate driver errors into store sentinels.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies all pending embedded schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
