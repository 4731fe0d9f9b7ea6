package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/service"
)

func TestWithTraceID_GeneratesWhenAbsent(t *testing.T) {
	h := NewHandler(&service.Services{}, "", logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	h.withTraceID(next).ServeHTTP(rec, req)

	got := rec.Header().Get(traceIDHeader)
	require.NotEmpty(t, got)

	// Generated ids are proper UUIDs.
	_, err := uuid.Parse(got)
	assert.NoError(t, err)
}

func TestWithTraceID_PropagatesIncomingID(t *testing.T) {
	h := NewHandler(&service.Services{}, "", logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(traceIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()

	h.withTraceID(next).ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied-id", rec.Header().Get(traceIDHeader))
}

func TestWithTraceID_UniquePerRequest(t *testing.T) {
	h := NewHandler(&service.Services{}, "", logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	first := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))

	second := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEqual(t, first.Header().Get(traceIDHeader), second.Header().Get(traceIDHeader))
}
