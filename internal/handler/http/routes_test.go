package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestHandler(t, nil, nil).Init()
}

func TestInit_PublicRoutesAreRegistered(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPost, "/api/auth/register", `{"login":"alice","password":"pw"}`},
		{http.MethodPost, "/api/auth/login", `{"login":"alice","password":"pw"}`},
		{http.MethodGet, "/api/health", ""},
		{http.MethodGet, "/api/version", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.NotEqual(t, http.StatusNotFound, rec.Code, "route must be registered")
		})
	}
}

func TestInit_SyncRoutesRequireAuthorization(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/sync/batch"},
		{http.MethodGet, "/api/sync/states"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader("{}"))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestInit_AuthorizedSyncRequestPassesThrough(t *testing.T) {
	router := newTestRouter(t)

	// The stub AuthService accepts any token and resolves it to user 1.
	req := httptest.NewRequest(http.MethodGet, "/api/sync/states", nil)
	req.Header.Set("Authorization", "Bearer any.token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestInit_UnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodIsHiddenAsNotFound(t *testing.T) {
	router := newTestRouter(t)

	// GET on a POST-only route answers 404, not 405, so probes cannot map
	// the API surface.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/register", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
