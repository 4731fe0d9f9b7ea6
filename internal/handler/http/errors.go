// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package http

import "errors"

// Sentinels returned by the auth middleware while parsing the
// "Authorization" header; callers match them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader: the header is absent.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader: the header cannot be split into a
	// scheme and a token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken: the scheme is present but the token value is empty.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
