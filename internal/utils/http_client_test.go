// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient()

	require.NotNil(t, client)
	require.NotNil(t, client.Client)
	assert.NotNil(t, client.R(), "embedded resty client must produce requests")
}

func TestNewHTTPClient_IndependentInstances(t *testing.T) {
	// Each adapter gets its own client so per-client hooks such as the
	// trace id injector never leak between instances.
	first := NewHTTPClient()
	second := NewHTTPClient()

	assert.NotSame(t, first.Client, second.Client)
}
