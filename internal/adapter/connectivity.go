package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/declaro/taxsync/internal/logger"
)

// ConnectivityMonitor probes the remote store's health endpoint on a fixed
// interval and publishes online/offline transitions. The sync worker
// subscribes to Events to trigger an immediate cycle when connectivity
// returns instead of waiting out the periodic timer.
type ConnectivityMonitor struct {
	adapter  ServerAdapter
	interval time.Duration

	mu     sync.RWMutex
	online bool

	events chan bool

	logger *logger.Logger
}

// NewConnectivityMonitor constructs a monitor probing through the given
// adapter. The monitor starts in the offline state until the first
// successful probe.
func NewConnectivityMonitor(adapter ServerAdapter, interval time.Duration, logger *logger.Logger) *ConnectivityMonitor {
	return &ConnectivityMonitor{
		adapter:  adapter,
		interval: interval,
		events:   make(chan bool, 1),
		logger:   logger,
	}
}

// Online reports the last observed connectivity state.
func (m *ConnectivityMonitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Events delivers connectivity transitions: true when the remote store
// became reachable, false when it stopped answering. The channel is buffered
// with capacity one; a pending unread event is superseded by the newer one.
func (m *ConnectivityMonitor) Events() <-chan bool {
	return m.events
}

// Run probes until ctx is cancelled. It performs one immediate probe on
// start so callers observe connectivity without waiting a full interval.
func (m *ConnectivityMonitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *ConnectivityMonitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	online := m.adapter.Ping(probeCtx) == nil

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	m.mu.Unlock()

	if !changed {
		return
	}

	m.logger.Info().Str("func", "*ConnectivityMonitor.probe").Bool("online", online).Msg("connectivity changed")

	// drop a stale unread event so the latest state always wins
	select {
	case <-m.events:
	default:
	}
	m.events <- online
}
