package service

import (
	"context"
	"errors"
	"sync"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/store"
)

const (
	consentGranted = "granted"
	consentRevoked = "revoked"
)

// consentGate is the concrete [ConsentGate]. The durable flag lives in the
// vault's sync_meta table; the in-process cache avoids a read on every
// sample. The gate is passed to its consumers explicitly, never held as a
// package global.
type consentGate struct {
	meta store.MetaRepository

	mu      sync.RWMutex
	granted bool

	changes chan bool

	logger *logger.Logger
}

// NewConsentGate constructs a [ConsentGate], loading the persisted flag.
// A vault without a stored flag starts with consent withheld.
func NewConsentGate(ctx context.Context, meta store.MetaRepository, logger *logger.Logger) (ConsentGate, error) {
	gate := &consentGate{
		meta:    meta,
		changes: make(chan bool, 1),
		logger:  logger,
	}

	value, err := meta.GetMeta(ctx, store.MetaKeyConsent)
	switch {
	case errors.Is(err, store.ErrMetaKeyNotFound):
		// consent is opt-in: absent means withheld
	case err != nil:
		return nil, err
	default:
		gate.granted = value == consentGranted
	}

	return gate, nil
}

// Granted implements [ConsentGate].
func (g *consentGate) Granted(ctx context.Context) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.granted
}

// Set implements [ConsentGate]. The flag is persisted before the cache and
// the change event update, so a crash never leaves the durable flag behind
// the in-process one.
func (g *consentGate) Set(ctx context.Context, granted bool) error {
	value := consentRevoked
	if granted {
		value = consentGranted
	}
	if err := g.meta.SetMeta(ctx, store.MetaKeyConsent, value); err != nil {
		return err
	}

	g.mu.Lock()
	changed := granted != g.granted
	g.granted = granted
	g.mu.Unlock()

	if !changed {
		return nil
	}

	g.logger.Info().Str("func", "*consentGate.Set").Bool("granted", granted).Msg("sync consent changed")

	select {
	case <-g.changes:
	default:
	}
	g.changes <- granted

	return nil
}

// Changes implements [ConsentGate].
func (g *consentGate) Changes() <-chan bool {
	return g.changes
}
