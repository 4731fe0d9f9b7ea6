// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/declaro/taxsync/internal/adapter"
	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/service"
	"github.com/declaro/taxsync/internal/store"
	"github.com/declaro/taxsync/internal/workers"
	"github.com/declaro/taxsync/models"
)

// App is the headless sync agent. It logs in, watches connectivity and
// consent, and keeps the local vault reconciled with the remote store until
// the process receives a stop signal.
type App struct {
	services *service.ClientServices
	storages *store.ClientStorages
	adapter  adapter.ServerAdapter
	cfg      *config.ClientConfig

	logger *logger.Logger
}

// NewApp wires the agent from its already-constructed collaborators.
func NewApp(
	services *service.ClientServices,
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	cfg *config.ClientConfig,
	logger *logger.Logger,
) (*App, error) {
	if services == nil || storages == nil || serverAdapter == nil || cfg == nil {
		return nil, ErrIncompleteWiring
	}

	return &App{
		services: services,
		storages: storages,
		adapter:  serverAdapter,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Run implements [Client]. It blocks until the process is signalled.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := a.authenticate(ctx); err != nil {
		return err
	}

	coordinator, err := a.services.NewSessionCoordinator(a.storages, a.adapter, a.cfg.Sync, a.logger)
	if err != nil {
		return fmt.Errorf("create sync coordinator: %w", err)
	}

	monitor := adapter.NewConnectivityMonitor(a.adapter, a.cfg.Sync.ProbeInterval, a.logger)
	go monitor.Run(ctx)

	go a.logConflictNotes(ctx, coordinator.Notes())

	syncWorker := workers.NewSyncWorker(ctx, coordinator, monitor, a.services.ConsentGate, a.cfg.Sync.Interval, a.logger)
	workers.NewWorkers(syncWorker).Run()

	a.logger.Info().Msg("sync agent started")

	<-ctx.Done()
	a.logger.Info().Msg("sync agent shutting down")

	return nil
}

// authenticate logs the agent in with credentials from the environment.
// When TAXSYNC_REGISTER is set the account is created first, which also
// provisions the vault's key-derivation salt.
func (a *App) authenticate(ctx context.Context) error {
	login := os.Getenv("TAXSYNC_LOGIN")
	password := os.Getenv("TAXSYNC_PASSWORD")
	if login == "" || password == "" {
		return ErrMissingCredentials
	}

	if os.Getenv("TAXSYNC_REGISTER") != "" {
		if _, err := a.services.AuthService.Register(ctx, login, password, os.Getenv("TAXSYNC_NAME")); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		a.logger.Info().Str("login", login).Msg("account registered")
		return nil
	}

	if _, err := a.services.AuthService.Login(ctx, login, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	a.logger.Info().Str("login", login).Msg("logged in")

	return nil
}

// logConflictNotes drains the coordinator's conflict channel. The agent has
// no UI surface, so overridden remote versions are surfaced through the log.
func (a *App) logConflictNotes(ctx context.Context, notes <-chan models.ConflictNote) {
	for {
		select {
		case <-ctx.Done():
			return
		case note := <-notes:
			a.logger.Warn().
				Str("record_id", note.RecordID).
				Int64("local_version", note.LocalVersion).
				Int64("remote_version", note.RemoteVersion).
				Msg("remote change overridden by local copy")
		}
	}
}
