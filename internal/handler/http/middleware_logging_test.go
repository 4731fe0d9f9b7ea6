package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/service"
)

func TestWithLogging_PassesThrough(t *testing.T) {
	h := NewHandler(&service.Services{}, "", logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	h.withLogging(next).ServeHTTP(rec, req)

	// The middleware only observes; status and body reach the client
	// unchanged.
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestWithLogging_DefaultStatusIsOK(t *testing.T) {
	h := NewHandler(&service.Services{}, "", logger.Nop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("implicit 200"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	h.withLogging(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
