// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Currently a no-op placeholder; server-side validation happens where the
// values are consumed (store and server constructors reject empty settings).
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Vault.DSN == "" || strings.Contains(cfg.Vault.DSN, "memory") {
		return ErrInvalidVaultConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.Interval == 0 || cfg.Sync.BatchSize == 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
