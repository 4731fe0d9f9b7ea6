// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchJSON is a representative sync-batch body: base64 payloads compress
// well and dominate real traffic through this middleware.
const batchJSON = `{"changes":[{"record_id":"2025:income","to_version":2,"op_kind":"update"}]}`

func gzipBytes(t *testing.T, data []byte) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return &buf
}

func gunzipBody(t *testing.T, body *bytes.Buffer) string {
	t.Helper()

	zr, err := gzip.NewReader(body)
	require.NoError(t, err)
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	require.NoError(t, err)

	return string(plain)
}

func TestGZip_ResponseCompression(t *testing.T) {
	tests := []struct {
		name           string
		acceptEncoding string
		wantCompressed bool
	}{
		{name: "plain gzip", acceptEncoding: "gzip", wantCompressed: true},
		{name: "gzip among alternatives", acceptEncoding: "deflate, gzip, br", wantCompressed: true},
		{name: "gzip with quality value", acceptEncoding: "gzip;q=1.0, identity;q=0.5", wantCompressed: true},
		{name: "no accept-encoding", acceptEncoding: "", wantCompressed: false},
		{name: "unrelated encodings only", acceptEncoding: "br, deflate", wantCompressed: false},
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(batchJSON))
	})
	middleware := withGZip(next)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sync/states", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			rr := httptest.NewRecorder()
			middleware.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)

			if tt.wantCompressed {
				assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
				assert.Equal(t, batchJSON, gunzipBody(t, rr.Body))
			} else {
				assert.NotEqual(t, "gzip", rr.Header().Get("Content-Encoding"))
				assert.Equal(t, batchJSON, rr.Body.String())
			}
		})
	}
}

func TestGZip_DecompressesRequestBody(t *testing.T) {
	var seenBody string
	var seenEncoding string

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seenBody = string(body)
		seenEncoding = r.Header.Get("Content-Encoding")
		w.WriteHeader(http.StatusOK)
	})
	middleware := withGZip(next)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/batch", gzipBytes(t, []byte(batchJSON)))
	req.Header.Set("Content-Encoding", "gzip")

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, batchJSON, seenBody, "handler should see the plaintext body")
	assert.Empty(t, seenEncoding, "Content-Encoding should be removed after decompression")
}

func TestGZip_RoundTrip(t *testing.T) {
	// Compressed request in, compressed response out, as the sync agent
	// actually talks to /api/sync/batch.
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(append([]byte("echo: "), body...))
	})
	middleware := withGZip(next)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/batch", gzipBytes(t, []byte(batchJSON)))
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "echo: "+batchJSON, gunzipBody(t, rr.Body))
}

func TestGZip_InvalidRequestBody(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for an undecodable body")
	})
	middleware := withGZip(next)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/batch", strings.NewReader("not gzip at all"))
	req.Header.Set("Content-Encoding", "gzip")

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGZip_CompressionRatio(t *testing.T) {
	// A large batch of near-identical changes must shrink substantially.
	large := `{"changes":[` + strings.Repeat(`{"record_id":"2025:income","op_kind":"update"},`, 999) +
		`{"record_id":"2025:income","op_kind":"update"}]}`

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(large))
	})
	middleware := withGZip(next)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/states", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	assert.Less(t, rr.Body.Len(), len(large)/10,
		"compressed body should be a fraction of the original")
}

func TestGZip_WriterPoolReuse(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(batchJSON))
	})
	middleware := withGZip(next)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/sync/states", nil)
		req.Header.Set("Accept-Encoding", "gzip")

		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, "request %d failed", i)
		require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"), "request %d missing gzip encoding", i)
		assert.Equal(t, batchJSON, gunzipBody(t, rr.Body), "request %d: wrong response", i)
	}
}

func TestGZip_ReaderPoolReuse(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
	middleware := withGZip(next)

	for i := 0; i < 5; i++ {
		payload := []byte(batchJSON + strings.Repeat("!", i))

		req := httptest.NewRequest(http.MethodPost, "/api/sync/batch", gzipBytes(t, payload))
		req.Header.Set("Content-Encoding", "gzip")

		rr := httptest.NewRecorder()
		middleware.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, "request %d failed", i)
		assert.Equal(t, string(payload), rr.Body.String(), "request %d: wrong body", i)
	}
}

func TestGZip_ConcurrentRequests(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(batchJSON))
	})
	middleware := withGZip(next)

	const workers = 50
	done := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()

			req := httptest.NewRequest(http.MethodGet, "/api/sync/states", nil)
			req.Header.Set("Accept-Encoding", "gzip")

			rr := httptest.NewRecorder()
			middleware.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)

			zr, err := gzip.NewReader(rr.Body)
			if err == nil {
				_, _ = io.ReadAll(zr)
				zr.Close()
			}
		}()
	}

	for i := 0; i < workers; i++ {
		<-done
	}
}

func TestGZip_PreservesStatusCode(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte("version conflict"))
	})
	middleware := withGZip(next)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/batch", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
}

func TestGZip_EmptyResponse(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	middleware := withGZip(next)

	req := httptest.NewRequest(http.MethodDelete, "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rr := httptest.NewRecorder()
	middleware.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
}

func TestWrappedReadCloser_Close(t *testing.T) {
	closeCalled := false

	wrapped := &wrappedReadCloser{
		Reader:  strings.NewReader("test"),
		OnClose: func() { closeCalled = true },
	}

	require.NoError(t, wrapped.Close())
	assert.True(t, closeCalled, "OnClose should be called")
}

func TestWrappedReadCloser_CloseWithoutCallback(t *testing.T) {
	wrapped := &wrappedReadCloser{Reader: strings.NewReader("test")}

	assert.NoError(t, wrapped.Close(), "Close should not fail when OnClose is nil")
}
