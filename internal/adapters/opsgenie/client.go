// Package opsgenie resolves alert details through the Opsgenie Alert API.
package opsgenie

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/mikey/alert-report/internal/core"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultBaseURL is the public Opsgenie API endpoint
const DefaultBaseURL = "https://api.opsgenie.com"

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 10 << 20

// errServerStatus marks a 5xx response as a breaker failure while still
// letting its body be decoded
var errServerStatus = errors.New("server error status")

// BreakerSettings configures the circuit breaker around API requests
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker once exceeded
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again
	OpenTimeout time.Duration
}

// DefaultBreakerSettings trips after more than five consecutive failures
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{ConsecutiveFailures: 5, OpenTimeout: 30 * time.Second}
}

// alertResponse is the envelope of GET /v2/alerts/{id}
type alertResponse struct {
	Data      *core.AlertDetail `json:"data"`
	RequestID string            `json:"requestId"`
}

// response is one completed HTTP exchange
type response struct {
	status int
	body   []byte
}

// Client is an implementation of the AlertClient interface backed by the
// Opsgenie REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     RetryPolicy
	breaker    *gobreaker.CircuitBreaker
	cache      core.CacheRepository
	cacheTTL   time.Duration
	batchCache func() core.CacheRepository
	group      singleflight.Group
	logger     *zap.Logger
}

// NewClient creates a new Opsgenie client. cache may be nil to disable caching;
// a zero cacheTTL keeps entries forever.
func NewClient(
	baseURL string,
	httpClient *http.Client,
	policy RetryPolicy,
	breaker BreakerSettings,
	cache core.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		policy:     policy,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "opsgenie",
		Timeout: breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > breaker.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

// WithBatchCache makes ForBatch hand out clients backed by a fresh cache from
// newCache, so lookups are shared within one batch only
func (c *Client) WithBatchCache(newCache func() core.CacheRepository) *Client {
	c.batchCache = newCache
	return c
}

// ForBatch returns a client for one batch. Without a batch cache it returns c.
func (c *Client) ForBatch() core.AlertClient {
	if c.batchCache == nil {
		return c
	}
	return &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		policy:     c.policy,
		breaker:    c.breaker,
		cache:      c.batchCache(),
		logger:     c.logger,
	}
}

// FetchDetail returns the detail of an alert, or nil when it cannot be
// resolved. Cached details are returned without a request, and concurrent
// lookups of one alert share a single request.
func (c *Client) FetchDetail(ctx context.Context, alertID, apiKey string) *core.AlertDetail {
	if apiKey == "" {
		c.logger.Error("Opsgenie API key is not configured", zap.String("alert_id", alertID))
		return nil
	}

	if detail := c.cached(ctx, alertID); detail != nil {
		return detail
	}

	v, _, _ := c.group.Do(alertID, func() (interface{}, error) {
		// Another caller may have filled the cache while we waited
		if detail := c.cached(ctx, alertID); detail != nil {
			return detail, nil
		}
		detail := c.fetch(ctx, alertID, apiKey)
		if detail != nil {
			c.store(ctx, alertID, detail)
		}
		return detail, nil
	})

	detail, _ := v.(*core.AlertDetail)
	return detail
}

func (c *Client) cached(ctx context.Context, alertID string) *core.AlertDetail {
	if c.cache == nil {
		return nil
	}
	entry, err := c.cache.Get(ctx, alertID)
	if err != nil || entry == nil {
		return nil
	}
	c.logger.Debug("Using cached alert detail", zap.String("alert_id", alertID))
	return entry.Detail
}

func (c *Client) store(ctx context.Context, alertID string, detail *core.AlertDetail) {
	if c.cache == nil {
		return
	}
	now := time.Now()
	entry := &core.CacheEntry{
		AlertID:  alertID,
		Detail:   detail,
		CachedAt: now,
	}
	if c.cacheTTL > 0 {
		entry.ExpiresAt = now.Add(c.cacheTTL)
	}
	if err := c.cache.Set(ctx, entry); err != nil {
		c.logger.Warn("Failed to cache alert detail", zap.String("alert_id", alertID), zap.Error(err))
	}
}

// fetch runs the retry loop for one alert
func (c *Client) fetch(ctx context.Context, alertID, apiKey string) *core.AlertDetail {
	attempts := c.policy.attempts()

	for attempt := 0; attempt < attempts; attempt++ {
		last := attempt == attempts-1

		resp, err := c.do(ctx, alertID, apiKey)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Warn("Alert lookup cancelled", zap.String("alert_id", alertID), zap.Error(ctx.Err()))
				return nil
			}
			if last {
				c.logger.Error("Error fetching Opsgenie data",
					zap.String("alert_id", alertID),
					zap.Int("attempts", attempts),
					zap.Error(err))
				return nil
			}
			c.logger.Warn("Opsgenie request failed, retrying",
				zap.String("alert_id", alertID),
				zap.Duration("pause", c.policy.NetworkPause),
				zap.Error(err))
			if !sleep(ctx, c.policy.NetworkPause) {
				return nil
			}
			continue
		}

		switch {
		case resp.status == http.StatusUnauthorized:
			c.logger.Error("Unauthorized access. Check your API key.", zap.String("alert_id", alertID))
			return nil

		case c.policy.Retryable(resp.status):
			if last {
				c.logger.Error("Rate limit still exceeded, giving up",
					zap.String("alert_id", alertID),
					zap.Int("attempts", attempts))
				return nil
			}
			wait := c.policy.Backoff(attempt)
			c.logger.Warn("Rate limit exceeded, retrying",
				zap.String("alert_id", alertID),
				zap.Duration("wait", wait))
			if !sleep(ctx, wait) {
				return nil
			}
			continue

		case resp.status >= 400 && resp.status < 500:
			c.logger.Error("Client error from Opsgenie",
				zap.String("alert_id", alertID),
				zap.Int("status", resp.status))
			return nil
		}

		return c.decode(alertID, resp)
	}

	return nil
}

// do performs one request through the circuit breaker
func (c *Client) do(ctx context.Context, alertID, apiKey string) (*response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/v2/alerts/"+url.PathEscape(alertID), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "GenieKey "+apiKey)
		req.Header.Set("Accept", "application/json")

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to send request: %w", err)
		}
		defer httpResp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		resp := &response{status: httpResp.StatusCode, body: body}
		if resp.status >= 500 {
			return resp, errServerStatus
		}
		return resp, nil
	})

	if errors.Is(err, errServerStatus) {
		return result.(*response), nil
	}
	if err != nil {
		return nil, err
	}
	return result.(*response), nil
}

func (c *Client) decode(alertID string, resp *response) *core.AlertDetail {
	var payload alertResponse
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		c.logger.Error("Failed to decode Opsgenie response",
			zap.String("alert_id", alertID),
			zap.Int("status", resp.status),
			zap.Error(err))
		return nil
	}
	if payload.Data == nil {
		c.logger.Warn("Opsgenie response has no alert data",
			zap.String("alert_id", alertID),
			zap.Int("status", resp.status))
		return nil
	}
	return payload.Data
}
