package service

import (
	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
)

// Services groups the server-side services handed to the HTTP layer.
type Services struct {
	AuthService      AuthService
	SyncApplyService SyncApplyService
}

// NewServices wires the server services to their repositories.
func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:      NewAuthService(storages.UserRepository, cfg.App, logger),
		SyncApplyService: NewSyncApplyService(storages.RecordRepository, cfg.App.HashKey, logger),
	}
}
