package store

import (
	"context"
	"fmt"

	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
)

// Storages groups the server-side repositories into a single value that can
// be passed around the service layer.
type Storages struct {
	UserRepository   UserRepository
	RecordRepository RecordRepository
}

// NewStorages initialises the server storage layer: it opens the PostgreSQL
// connection, runs pending goose migrations, and wires up the repositories.
func NewStorages(ctx context.Context, cfg config.DB, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		UserRepository:   NewUserRepository(db, logger),
		RecordRepository: NewRecordRepository(db, logger),
	}, nil
}
