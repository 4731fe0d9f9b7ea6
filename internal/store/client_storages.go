package store

import (
	"context"
	"fmt"

	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
)

// ClientStorages groups all client-side vault repositories into a single
// value that can be passed around the service layer. All four repositories
// share one SQLite connection, so cross-repository transactions (record
// write plus change-log append, batch commit) see consistent state.
type ClientStorages struct {
	// VaultRepository is the local source-of-truth record store.
	VaultRepository VaultRepository

	// ChangeLogRepository reads the append-only mutation log.
	ChangeLogRepository ChangeLogRepository

	// MetaRepository holds the consent flag, counters, and conflict acks.
	MetaRepository MetaRepository

	// SyncRepository owns the transactional sync-cycle boundaries.
	SyncRepository SyncRepository
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It opens an SQLite connection to the vault file
// (creating it if missing), bootstraps the schema, and wires up the
// repositories.
func NewClientStorages(cfg config.ClientVault, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("vault connection error: %w", err)
	}

	return &ClientStorages{
		VaultRepository:     NewVaultRepository(db, logger),
		ChangeLogRepository: NewChangeLogRepository(db, logger),
		MetaRepository:      NewMetaRepository(db, logger),
		SyncRepository:      NewSyncRepository(db, logger),
	}, nil
}
