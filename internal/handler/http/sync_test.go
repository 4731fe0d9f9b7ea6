package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaro/taxsync/internal/service"
	"github.com/declaro/taxsync/internal/utils"
	"github.com/declaro/taxsync/models"
)

// authedRequest builds a request whose context already carries the user id,
// as the auth middleware would have left it.
func authedRequest(t *testing.T, method, target string, body any, userID int64) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), utils.UserIDCtxKey, userID)
	return req.WithContext(ctx)
}

// ─────────────────────────────────────────────
// applyBatch
// ─────────────────────────────────────────────

func TestApplyBatch_Success(t *testing.T) {
	sync := &mockSyncApplyService{
		applyBatchFn: func(_ context.Context, userID int64, req models.BatchRequest) (models.BatchResponse, error) {
			assert.Equal(t, int64(9), userID)
			require.Len(t, req.Changes, 1)
			return models.BatchResponse{
				Results: []models.ChangeResult{{
					RecordID:       req.Changes[0].RecordID,
					AppliedVersion: 1,
					Status:         models.ApplyApplied,
				}},
				Length: 1,
			}, nil
		},
	}
	h := newTestHandler(t, nil, sync)

	body := models.BatchRequest{
		Changes: []models.ChangeUpload{{
			RecordID:         "2025:income",
			ToVersion:        1,
			Checksum:         "sum",
			EncryptedPayload: "ciphertext",
			OpKind:           models.OpCreate,
		}},
		Length: 1,
	}
	rec := httptest.NewRecorder()

	h.applyBatch(rec, authedRequest(t, http.MethodPost, "/api/sync/batch", body, 9))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Length)
	assert.Equal(t, models.ApplyApplied, resp.Results[0].Status)
}

func TestApplyBatch_NoUserInContext(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/batch", bytes.NewReader(nil))
	rec := httptest.NewRecorder()

	h.applyBatch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyBatch_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/sync/batch", bytes.NewReader([]byte("{{")))
	ctx := context.WithValue(req.Context(), utils.UserIDCtxKey, int64(9))
	rec := httptest.NewRecorder()

	h.applyBatch(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApplyBatch_ValidationErrorsMapToBadRequest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"EmptyBatch", service.ErrValidationEmptyBatch, http.StatusBadRequest},
		{"LengthMismatch", service.ErrValidationLengthMismatch, http.StatusBadRequest},
		{"BadSignature", service.ErrValidationBadSignature, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sync := &mockSyncApplyService{
				applyBatchFn: func(_ context.Context, _ int64, _ models.BatchRequest) (models.BatchResponse, error) {
					return models.BatchResponse{}, tt.err
				},
			}
			h := newTestHandler(t, nil, sync)

			rec := httptest.NewRecorder()
			h.applyBatch(rec, authedRequest(t, http.MethodPost, "/api/sync/batch", models.BatchRequest{}, 9))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

// ─────────────────────────────────────────────
// getStates
// ─────────────────────────────────────────────

func TestGetStates_Success(t *testing.T) {
	sync := &mockSyncApplyService{
		getStatesFn: func(_ context.Context, userID int64) ([]models.RecordState, error) {
			assert.Equal(t, int64(9), userID)
			return []models.RecordState{
				{RecordID: "r1", Version: 2, Checksum: "a"},
				{RecordID: "r2", Version: 1, Checksum: "b", Deleted: true},
			}, nil
		},
	}
	h := newTestHandler(t, nil, sync)

	rec := httptest.NewRecorder()
	h.getStates(rec, authedRequest(t, http.MethodGet, "/api/sync/states", nil, 9))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.StatesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Length)
	assert.Len(t, resp.States, 2)
}

func TestGetStates_NoUserInContext(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/sync/states", nil)
	rec := httptest.NewRecorder()

	h.getStates(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// health
// ─────────────────────────────────────────────

func TestHealth_AlwaysOK(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	rec := httptest.NewRecorder()
	h.health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
