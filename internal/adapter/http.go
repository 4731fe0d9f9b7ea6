package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/declaro/taxsync/internal/checksum"
	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/utils"
	"github.com/declaro/taxsync/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	signer *checksum.Signer

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.BaseURL, configures the underlying HTTP client with the resolved
// base URL and request timeout, and initialises the HMAC signer used for
// transport integrity signatures on batch uploads.
//
// Returns an error if adapterCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	// Tag every outbound request with a trace id; the server echoes it into
	// its logs, so one sync cycle can be followed across both sides.
	ids := utils.NewUUIDGenerator()
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader("X-Trace-ID", ids.Generate())
		return nil
	})

	return &httpServerAdapter{
		client: client,
		signer: checksum.NewSigner(appCfg.HashKey),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [ServerAdapter]. It POSTs the user credentials to
// POST /api/auth/register. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("%w: register request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("register parse bearer token: %w", err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.User{}, fmt.Errorf("register parse user id: %w", err)
	}

	h.SetToken(token)
	return models.User{UserID: userID, Login: user.Login, Name: user.Name}, nil
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: login request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse bearer token: %w", err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse user id: %w", err)
	}

	h.SetToken(token)
	return models.Token{SignedString: token, UserID: userID}, nil
}

// SendBatch implements [ServerAdapter]. It signs the serialised Changes slice
// with the transport integrity key, sets req.Length, and POSTs the request to
// POST /api/sync/batch. The server applies changes strictly in slice order
// and returns per-change results in the same order. Requires a valid bearer
// token.
func (h *httpServerAdapter) SendBatch(ctx context.Context, req models.BatchRequest) (models.BatchResponse, error) {
	req.Signature = h.signBatch(req.Changes)
	req.Length = len(req.Changes)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/sync/batch")
	if err != nil {
		return models.BatchResponse{}, fmt.Errorf("%w: send batch request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BatchResponse{}, err
	}

	var br models.BatchResponse
	if err = json.Unmarshal(resp.Body(), &br); err != nil {
		return models.BatchResponse{}, fmt.Errorf("decode batch response: %w", err)
	}
	if br.Length != len(br.Results) || len(br.Results) != len(req.Changes) {
		return models.BatchResponse{}, fmt.Errorf("batch response shape mismatch: sent %d, got %d", len(req.Changes), len(br.Results))
	}

	return br, nil
}

// GetServerStates implements [ServerAdapter]. It GETs GET /api/sync/states
// and decodes the response into a slice of [models.RecordState]. The server
// infers the user from the bearer token. Requires a valid bearer token.
func (h *httpServerAdapter) GetServerStates(ctx context.Context) ([]models.RecordState, error) {
	resp, err := h.authedRequest(ctx).Get("/api/sync/states")
	if err != nil {
		return nil, fmt.Errorf("%w: get server states request: %w", ErrTransport, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var sr models.StatesResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, fmt.Errorf("decode server states response: %w", err)
	}
	return sr.States, nil
}

// Ping implements [ServerAdapter]. It GETs GET /api/health without
// authentication.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("%w: health request: %w", ErrTransport, err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func (h *httpServerAdapter) signBatch(changes []models.ChangeUpload) string {
	payload, err := json.Marshal(changes)
	if err != nil {
		return ""
	}
	return h.signer.Sign(payload)
}
