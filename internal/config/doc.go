// Package config loads, merges and validates configuration for both the
// sync server and the client agent.
//
// Values are gathered from environment variables, command-line flags and an
// optional JSON file, in that priority order: a field set by an earlier
// source is never overwritten by a later one. The JSON file path itself may
// come from either of the first two sources.
//
// Entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the agent.
package config
