// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package workers

import (
	"context"
	"time"

	"github.com/declaro/taxsync/internal/logger"
)

// CycleRunner runs one full synchronization cycle against the remote store.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// ConnectivitySource reports remote-store reachability and publishes
// online/offline transitions.
type ConnectivitySource interface {
	Online() bool
	Events() <-chan bool
}

// ConsentSource publishes changes to the user's sync consent.
type ConsentSource interface {
	Changes() <-chan bool
}

// SyncWorker drives the sync coordinator in the background. A cycle is
// triggered by the periodic timer, by connectivity returning after an
// offline stretch, and by the user granting consent. Cycles are skipped
// while the remote store is unreachable; pending changes simply wait in the
// local change log for the next trigger.
type SyncWorker struct {
	ctx          context.Context
	runner       CycleRunner
	connectivity ConnectivitySource
	consent      ConsentSource
	interval     time.Duration

	logger *logger.Logger
}

// NewSyncWorker builds a worker that runs cycles until ctx is cancelled.
func NewSyncWorker(
	ctx context.Context,
	runner CycleRunner,
	connectivity ConnectivitySource,
	consent ConsentSource,
	interval time.Duration,
	logger *logger.Logger,
) *SyncWorker {
	return &SyncWorker{
		ctx:          ctx,
		runner:       runner,
		connectivity: connectivity,
		consent:      consent,
		interval:     interval,
		logger:       logger,
	}
}

// Run implements [Worker]. The loop runs in its own goroutine so that the
// aggregate can start all workers without blocking.
func (w *SyncWorker) Run() {
	go w.loop()
}

func (w *SyncWorker) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.cycle()
		case online := <-w.connectivity.Events():
			if online {
				w.cycle()
			}
		case granted := <-w.consent.Changes():
			if granted {
				w.cycle()
			}
		}
	}
}

func (w *SyncWorker) cycle() {
	if !w.connectivity.Online() {
		w.logger.Debug().Str("func", "*SyncWorker.cycle").Msg("remote store offline, skipping sync cycle")
		return
	}

	if err := w.runner.RunCycle(w.ctx); err != nil {
		w.logger.Error().Err(err).Str("func", "*SyncWorker.cycle").Msg("sync cycle failed")
	}
}
