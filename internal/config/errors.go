package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing base URL or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidVaultConfigs indicates invalid client vault settings
	// (for example, empty DSN or unsupported in-memory DSN).
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidSyncConfigs indicates invalid sync coordinator settings
	// (for example, zero sync interval or batch size).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
