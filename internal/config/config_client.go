package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// HashKey is the HMAC key used by the client to sign sync batches.
	HashKey string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the remote store endpoint.
	BaseURL string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
}

// ClientVault contains local vault settings for the client.
type ClientVault struct {
	// DSN is the SQLite file path used by the client.
	DSN string
}

// ClientSync contains sync coordinator tuning for the client.
type ClientSync struct {
	// BatchSize bounds how many change-log entries one batch may carry.
	BatchSize int
	// Interval defines how often the background sync worker runs.
	Interval time.Duration
	// BackoffBase is the first retry delay after a transient failure.
	BackoffBase time.Duration
	// BackoffCap is the upper bound on the retry delay.
	BackoffCap time.Duration
	// MaxAttempts bounds retries of one batch within a cycle.
	MaxAttempts int
	// ProbeInterval is the connectivity monitor's health-probe period.
	ProbeInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains client transport address and timeout.
	Adapter ClientAdapter
	// Vault contains local storage settings.
	Vault ClientVault
	// Sync contains sync coordinator settings.
	Sync ClientSync
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, fills conservative defaults for unset sync
// tuning, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
		},
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Vault: ClientVault{
			DSN: cfg.Storage.Vault.DSN,
		},
		Sync: ClientSync{
			BatchSize:     cfg.Sync.BatchSize,
			Interval:      cfg.Sync.Interval,
			BackoffBase:   cfg.Sync.BackoffBase,
			BackoffCap:    cfg.Sync.BackoffCap,
			MaxAttempts:   cfg.Sync.MaxAttempts,
			ProbeInterval: cfg.Sync.ProbeInterval,
		},
	}

	clientCfg.Sync.fillDefaults()
	if clientCfg.Adapter.RequestTimeout == 0 {
		clientCfg.Adapter.RequestTimeout = 15 * time.Second
	}

	if err = clientCfg.validate(); err != nil {
		return nil, err
	}

	return clientCfg, nil
}

// fillDefaults replaces unset sync tuning values with conservative defaults.
func (s *ClientSync) fillDefaults() {
	if s.BatchSize <= 0 {
		s.BatchSize = 50
	}
	if s.Interval <= 0 {
		s.Interval = 5 * time.Minute
	}
	if s.BackoffBase <= 0 {
		s.BackoffBase = time.Second
	}
	if s.BackoffCap <= 0 {
		s.BackoffCap = time.Minute
	}
	if s.MaxAttempts <= 0 {
		s.MaxAttempts = 5
	}
	if s.ProbeInterval <= 0 {
		s.ProbeInterval = 30 * time.Second
	}
}
