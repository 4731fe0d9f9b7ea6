// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server
// configuration provides no HTTP listen address, leaving no transport to
// initialize. This is treated as a fatal misconfiguration and stops the
// application at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
