// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name       string
		data       any
		statusCode int
		wantBody   string
	}{
		{
			name:       "object payload",
			data:       map[string]string{"status": "synced"},
			statusCode: http.StatusOK,
			wantBody:   `{"status":"synced"}`,
		},
		{
			name:       "error payload with custom status",
			data:       map[string]string{"error": "record not found"},
			statusCode: http.StatusNotFound,
			wantBody:   `{"error":"record not found"}`,
		},
		{
			name:       "nil payload",
			data:       nil,
			statusCode: http.StatusOK,
			wantBody:   "null",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			n, err := WriteJSON(rec, test.data, test.statusCode)
			require.NoError(t, err)

			assert.Equal(t, len(test.wantBody), n)
			assert.Equal(t, test.statusCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, test.wantBody, rec.Body.String())
		})
	}
}

func TestWriteJSON_NonSerializableData(t *testing.T) {
	rec := httptest.NewRecorder()

	// channels cannot be marshaled to JSON
	_, err := WriteJSON(rec, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
