// Package backend provides the API client for the external RecipeVerse backend
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/recipeverse/web/internal/domain/generation"
	"github.com/recipeverse/web/internal/infrastructure/config"
	"github.com/recipeverse/web/internal/ports/outbound"
	"github.com/recipeverse/web/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader  = "X-Request-ID"
	maxResponseBytes = 1 << 20
	maxLoggedBody    = 256
	serviceName      = "recipeverse-backend"
)

// APIClient handles communication with the backend API
type APIClient struct {
	baseURL    string
	cfg        config.BackendConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

var _ outbound.GenerationBackend = (*APIClient)(nil)

// NewAPIClient creates a new API client instance. When httpClient is nil a
// client with the configured timeout and a traced transport is used.
func NewAPIClient(cfg config.BackendConfig, httpClient *http.Client, logger *zap.Logger) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &APIClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.Named("backend-client"),
	}
}

// Generate posts one generation request. Non-2xx statuses are returned in
// the reply; only transport and success-body decoding failures are errors.
func (c *APIClient) Generate(ctx context.Context, cred outbound.Credential, req generation.GenerationRequest) (*outbound.GenerationReply, error) {
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, c.cfg.GeneratePath, req)
	if err != nil {
		return nil, err
	}
	c.applyCredential(httpReq, cred)

	status, body, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var reply generation.ReplyBody
	if status >= 200 && status < 300 {
		if err := json.Unmarshal(body, &reply); err != nil {
			return nil, fmt.Errorf("failed to unmarshal generation response: %w", err)
		}
	} else if len(body) > 0 {
		// error bodies are best effort; the status alone still classifies the reply
		_ = json.Unmarshal(body, &reply)
	}

	return &outbound.GenerationReply{StatusCode: status, Body: reply}, nil
}

type accountPayload struct {
	Name               string `json:"name"`
	Username           string `json:"username"`
	Credits            int    `json:"credits"`
	SubscriptionStatus string `json:"subscription_status"`
}

// FetchAccount gets the user's credits and subscription status
func (c *APIClient) FetchAccount(ctx context.Context, cred outbound.Credential) (*outbound.AccountInfo, error) {
	httpReq, err := c.newRequest(ctx, http.MethodGet, c.cfg.CreditsPath, nil)
	if err != nil {
		return nil, err
	}
	c.applyCredential(httpReq, cred)

	var payload accountPayload
	if err := c.expectJSON(httpReq, &payload); err != nil {
		return nil, err
	}

	name := payload.Name
	if name == "" {
		name = payload.Username
	}
	return &outbound.AccountInfo{
		Name:               name,
		Credits:            payload.Credits,
		SubscriptionStatus: payload.SubscriptionStatus,
	}, nil
}

type checkoutPayload struct {
	URL            string `json:"url"`
	SessionID      string `json:"sessionId"`
	SessionIDSnake string `json:"session_id"`
}

// CreateCheckoutSession asks the backend to open a subscription checkout
func (c *APIClient) CreateCheckoutSession(ctx context.Context, cred outbound.Credential, plan string) (*outbound.CheckoutSession, error) {
	path := c.cfg.CheckoutPath + "?" + url.Values{"plan": {plan}}.Encode()
	httpReq, err := c.newJSONRequest(ctx, http.MethodPost, path, struct{}{})
	if err != nil {
		return nil, err
	}
	c.applyCredential(httpReq, cred)

	var payload checkoutPayload
	if err := c.expectJSON(httpReq, &payload); err != nil {
		return nil, err
	}

	session := &outbound.CheckoutSession{
		SessionID:   firstNonEmpty(payload.SessionID, payload.SessionIDSnake),
		RedirectURL: strings.TrimSpace(payload.URL),
	}
	if session.SessionID == "" && session.RedirectURL == "" {
		return nil, errors.NewExternalServiceError(serviceName, fmt.Errorf("checkout response carried neither url nor session id"))
	}
	return session, nil
}

// Ping checks if the API backend is reachable
func (c *APIClient) Ping(ctx context.Context) bool {
	httpReq, err := c.newRequest(ctx, http.MethodGet, c.cfg.HealthPath, nil)
	if err != nil {
		c.logger.Debug("Connection verification request creation failed", zap.Error(err))
		return false
	}

	status, _, err := c.do(httpReq)
	if err != nil {
		c.logger.Debug("Connection verification failed", zap.Error(err))
		return false
	}
	return status < http.StatusInternalServerError
}

// Helper methods

func (c *APIClient) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *APIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	return req, nil
}

// applyCredential attaches either the bearer token or the backend session cookie.
func (c *APIClient) applyCredential(req *http.Request, cred outbound.Credential) {
	switch {
	case cred.UsesBearer():
		req.Header.Set("Authorization", "Bearer "+cred.BearerToken)
	case cred.SessionCookie != "":
		req.AddCookie(&http.Cookie{Name: c.cfg.SessionCookieName, Value: cred.SessionCookie})
	}
}

// expectJSON performs the request and decodes a 2xx body into out.
// 401 and 403 map to an auth-required error.
func (c *APIClient) expectJSON(req *http.Request, out interface{}) error {
	status, body, err := c.do(req)
	if err != nil {
		return errors.NewExternalServiceError(serviceName, err)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.NewAuthRequiredError()
	case status >= 400:
		return errors.NewExternalServiceError(serviceName, fmt.Errorf("status %d: %s", status, truncate(body))).
			WithMetadata("status", status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewExternalServiceError(serviceName, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	return nil
}

func (c *APIClient) do(req *http.Request) (int, []byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return 0, nil, fmt.Errorf("rate limiter: %w", err)
	}

	c.logger.Debug("API request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHeader)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("API error response",
			zap.String("url", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(body)),
			zap.String("request_id", req.Header.Get(requestIDHeader)),
		)
	}

	return resp.StatusCode, body, nil
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}
	return strings.TrimSpace(string(body))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
