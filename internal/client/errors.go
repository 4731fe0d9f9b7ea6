// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package client

import "errors"

var (
	// ErrIncompleteWiring indicates that a required collaborator was not
	// supplied to NewApp.
	ErrIncompleteWiring = errors.New("sync agent is missing a required collaborator")

	// ErrMissingCredentials indicates that TAXSYNC_LOGIN or TAXSYNC_PASSWORD
	// is unset.
	ErrMissingCredentials = errors.New("TAXSYNC_LOGIN and TAXSYNC_PASSWORD must be set")
)
