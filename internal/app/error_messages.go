// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

// Package app contains shared application-layer constants used across the
// taxsync server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgInvalidDataProvided is returned when a decoded request fails basic
	// validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the supplied login/password
	// combination does not match any existing user record.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgLoginAlreadyExists is returned when a registration attempt is
	// rejected because the requested login is already in use.
	MsgLoginAlreadyExists = "login already exists"

	// MsgTokenCreationFailed is returned when an account was authenticated
	// but issuing the session token failed.
	MsgTokenCreationFailed = "creation of token failed"

	// MsgNoUserIDProvided is returned when a handler requires a user ID
	// (extracted from the JWT claim) but none is present in the request
	// context.
	MsgNoUserIDProvided = "no user ID was given"

	// MsgApplyBatchFailed is returned when applying an uploaded change batch
	// fails; the HTTP status carries the classified cause.
	MsgApplyBatchFailed = "error applying sync batch"

	// MsgGetStatesFailed is returned when reading the authoritative record
	// states fails.
	MsgGetStatesFailed = "error getting record states"
)
