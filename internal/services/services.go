package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/logging"
	"storefront/internal/resilience"
	"storefront/internal/telemetry"
)

// Cache is the subset of the Redis client the service client uses for
// reference data.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ServiceClient talks to the stock management API. Every method maps to a
// single HTTP call (reads may be retried) and returns an error instead of
// reporting it; callers decide what the user sees.
type ServiceClient struct {
	baseURL       string
	client        *http.Client
	breaker       *resilience.CircuitBreaker
	retryAttempts int
	retryDelay    time.Duration

	cache       Cache
	categoryTTL time.Duration
}

// NewServiceClient builds a client from cfg. cache may be nil.
func NewServiceClient(cfg *config.Config, cache Cache) *ServiceClient {
	return &ServiceClient{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		breaker:       resilience.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerTimeout),
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		cache:         cache,
		categoryTTL:   cfg.CategoryCacheTTL,
	}
}

// BaseURL is the API root the client was configured with.
func (s *ServiceClient) BaseURL() string {
	return s.baseURL
}

// Available is false while the circuit breaker is open.
func (s *ServiceClient) Available() bool {
	return s.breaker.State() != resilience.StateOpen
}

type call struct {
	resource string
	op       string
	method   string
	path     string
	query    url.Values
	token    string
	body     any
	out      any
}

func (s *ServiceClient) do(ctx context.Context, c call) error {
	target := s.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}

	var payload []byte
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", c.resource, c.op, err)
		}
		payload = b
	}

	attempts := 1
	if c.method == http.MethodGet {
		attempts = s.retryAttempts
	}

	err := s.breaker.Execute(func() error {
		return resilience.Retry(ctx, attempts, s.retryDelay, func() error {
			return s.attempt(ctx, c, target, payload)
		})
	}, func(err error) bool {
		return ctx.Err() == nil && isDependencyFailure(err)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("backend call failed",
			"resource", c.resource, "operation", c.op, "method", c.method, "path", c.path, "error", err)
	}
	return err
}

func (s *ServiceClient) attempt(ctx context.Context, c call, target string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, target, body)
	if err != nil {
		return resilience.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		telemetry.ObserveBackendCall(c.resource, c.op, 0, time.Since(start))
		if ctx.Err() != nil {
			return resilience.Permanent(err)
		}
		return err
	}
	defer resp.Body.Close()
	telemetry.ObserveBackendCall(c.resource, c.op, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, data)
		if resp.StatusCode < 500 {
			return resilience.Permanent(apiErr)
		}
		return apiErr
	}

	if c.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, c.out); err != nil {
		slog.Debug("undecodable backend response", "resource", c.resource, "operation", c.op, "body", string(data))
		return resilience.Permanent(fmt.Errorf("decode %s %s response: %w", c.resource, c.op, err))
	}
	return nil
}

// isDependencyFailure reports whether err says something about the
// backend's health, as opposed to a rejected request or a caller that went
// away.
func isDependencyFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

func pathID(id string) string {
	return url.PathEscape(id)
}
