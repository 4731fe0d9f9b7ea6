// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package server

import "errors"

var (
	errNoServerConfigured = errors.New("no http server address configured")
)
