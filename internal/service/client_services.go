package service

import (
	"context"
	"fmt"

	"github.com/declaro/taxsync/internal/adapter"
	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/crypto"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
)

// ClientServices groups the client-side services. The coordinator is created
// separately after login, once the user id is known; see
// [NewSyncCoordinator].
type ClientServices struct {
	AuthService   ClientAuthService
	RecordService RecordService
	ConsentGate   ConsentGate
}

// NewClientServices wires the session-independent client services to the
// vault and the server adapter.
func NewClientServices(ctx context.Context, storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, logger *logger.Logger) (*ClientServices, error) {
	consent, err := NewConsentGate(ctx, storages.MetaRepository, logger)
	if err != nil {
		return nil, fmt.Errorf("load consent gate: %w", err)
	}

	return &ClientServices{
		AuthService:   NewClientAuthService(serverAdapter, storages.MetaRepository, crypto.NewPayloadCipher(), logger),
		RecordService: NewRecordService(storages.VaultRepository, logger),
		ConsentGate:   consent,
	}, nil
}

// NewSessionCoordinator builds the per-session [SyncCoordinator] after a
// successful login.
func (s *ClientServices) NewSessionCoordinator(
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	cfg config.ClientSync,
	logger *logger.Logger,
) (SyncCoordinator, error) {
	userID := s.AuthService.UserID()
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	return NewSyncCoordinator(userID, storages, serverAdapter, s.ConsentGate, s.AuthService, cfg, logger)
}
