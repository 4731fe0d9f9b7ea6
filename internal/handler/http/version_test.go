package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetServerVersion(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	rec := httptest.NewRecorder()
	h.getServerVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "test-version", rec.Body.String())
}

func TestGetServerVersion_FallsBackWhenUnset(t *testing.T) {
	h := newTestHandler(t, nil, nil)
	h.appVersion = ""

	rec := httptest.NewRecorder()
	h.getServerVersion(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, "N/A", rec.Body.String())
}
