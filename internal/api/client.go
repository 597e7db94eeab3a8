package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"genvid/internal/config"
	"genvid/internal/logging"
)

const userAgent = "Genvid-CLI/0.1.0"

// Client talks to the Genvid backend. All responses share a uniform envelope;
// Client decodes it, attaches bearer credentials, stamps a correlation id per
// request, and applies a polite client-side rate limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

// New builds a Client from configuration. A nil logger discards records.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := time.Duration(cfg.API.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.API.RatePerSecond), cfg.API.RateBurst),
		logger:     logger.With(logging.String(logging.FieldComponent, "api-client")),
	}
}

// SetToken installs the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
	Meta    *Meta           `json:"meta"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// do issues one JSON request and decodes the envelope into out (when non-nil).
// requireAuth guards authenticated endpoints locally so a missing token never
// costs a network round trip.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, requireAuth bool) (*Meta, error) {
	token := c.Token()
	if requireAuth && token == "" {
		return nil, ErrNoToken
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	// The correlation id travels on the context so any logger touching this
	// request picks it up through the logging helpers.
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	requestID, _ := logging.RequestIDFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := logging.WithContext(ctx, c.logger).With(
		logging.String(logging.FieldEndpoint, method+" "+path),
	)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", logging.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	meta, err := decodeEnvelope(resp, out)
	if err != nil {
		logger.Warn("request rejected",
			logging.Int("status", resp.StatusCode),
			logging.Error(err),
		)
		return nil, err
	}

	logger.Debug("request completed", logging.Args(
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)...)
	return meta, nil
}

func decodeEnvelope(resp *http.Response, out any) (*Meta, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 300 {
				return nil, &APIError{StatusCode: resp.StatusCode}
			}
			return nil, fmt.Errorf("decode response envelope: %w", err)
		}
	}

	if resp.StatusCode >= 300 || (len(raw) > 0 && !env.Success) {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return nil, apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	return env.Meta, nil
}
