package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponseWriter(rr *httptest.ResponseRecorder) *responseWriter {
	return &responseWriter{ResponseWriter: rr}
}

func TestResponseWriter_InitialState(t *testing.T) {
	w := newResponseWriter(httptest.NewRecorder())

	assert.Equal(t, 0, w.status)
	assert.Equal(t, 0, w.size)
	assert.False(t, w.wroteHeader)
	assert.Nil(t, w.body)
}

func TestResponseWriter_WriteHeader_FirstCallWins(t *testing.T) {
	tests := []struct {
		name       string
		codes      []int
		wantStatus int
	}{
		{name: "single 200", codes: []int{http.StatusOK}, wantStatus: http.StatusOK},
		{name: "single 409", codes: []int{http.StatusConflict}, wantStatus: http.StatusConflict},
		{name: "single 500", codes: []int{http.StatusInternalServerError}, wantStatus: http.StatusInternalServerError},
		{
			name:       "second call ignored",
			codes:      []int{http.StatusAccepted, http.StatusBadRequest},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "third call ignored too",
			codes:      []int{http.StatusOK, http.StatusCreated, http.StatusNotFound},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			for _, code := range tt.codes {
				w.WriteHeader(code)
			}

			assert.Equal(t, tt.wantStatus, w.status)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.True(t, w.wroteHeader)
		})
	}
}

func TestResponseWriter_Write(t *testing.T) {
	tests := []struct {
		name         string
		writes       [][]byte
		explicitCode int // 0 means no explicit WriteHeader
		wantStatus   int
		wantSize     int
		wantBody     []byte // the most recent write
	}{
		{
			name:       "single write implies 200",
			writes:     [][]byte{[]byte(`{"states":[]}`)},
			wantStatus: http.StatusOK,
			wantSize:   13,
			wantBody:   []byte(`{"states":[]}`),
		},
		{
			name:       "size accumulates, body keeps last slice",
			writes:     [][]byte{[]byte("applied"), []byte("conflict"), []byte("rejected")},
			wantStatus: http.StatusOK,
			wantSize:   23,
			wantBody:   []byte("rejected"),
		},
		{
			name:         "explicit status survives write",
			writes:       [][]byte{[]byte("version conflict, please sync")},
			explicitCode: http.StatusConflict,
			wantStatus:   http.StatusConflict,
			wantSize:     29,
			wantBody:     []byte("version conflict, please sync"),
		},
		{
			name:       "empty write still writes the header",
			writes:     [][]byte{{}},
			wantStatus: http.StatusOK,
			wantSize:   0,
			wantBody:   []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			w := newResponseWriter(rr)

			if tt.explicitCode != 0 {
				w.WriteHeader(tt.explicitCode)
			}

			for _, data := range tt.writes {
				_, err := w.Write(data)
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantStatus, w.status)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantSize, w.size)
			assert.Equal(t, tt.wantBody, w.body)
			assert.Equal(t, tt.wantSize, rr.Body.Len())
		})
	}
}

func TestResponseWriter_ProxiesHeadersToUnderlying(t *testing.T) {
	rr := httptest.NewRecorder()
	w := newResponseWriter(rr)

	w.Header().Set(traceIDHeader, "trace-123")
	w.WriteHeader(http.StatusTeapot)

	assert.Equal(t, "trace-123", rr.Header().Get(traceIDHeader))
	assert.Equal(t, http.StatusTeapot, rr.Code)
}
