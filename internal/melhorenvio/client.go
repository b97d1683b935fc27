package melhorenvio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "shipping-optimizer/internal/common/http"
	"shipping-optimizer/internal/common/logger"
	"shipping-optimizer/internal/common/metrics"
	"shipping-optimizer/internal/common/observability"
)

var (
	// ErrUpstreamTransient marks failures worth retrying (429, 5xx).
	ErrUpstreamTransient = errors.New("UPSTREAM_TRANSIENT")
	// ErrUpstreamPermanent marks failures that must not be retried.
	ErrUpstreamPermanent = errors.New("UPSTREAM_PERMANENT")
)

// Config holds client settings resolved from the application configuration.
type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
}

// Client talks to the Melhor Envio shipment-calculate endpoint.
type Client struct {
	config Config
	http   *commonhttp.Client
	logger logger.Logger
	obs    *observability.Observability
}

func NewClient(cfg Config, log logger.Logger, obs *observability.Observability) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		config: cfg,
		http:   commonhttp.NewClient(cfg.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "melhorenvio"}),
		obs:    obs,
	}
}

// Calculate prices one dimension combination and returns the normalized
// quote items. Transient upstream failures (429, 5xx) are retried with
// exponential backoff up to the configured ceiling; anything else surfaces
// immediately.
func (c *Client) Calculate(ctx context.Context, q QuoteQuery) ([]QuoteItem, error) {
	payload := calculateRequest{
		From: endpoint{PostalCode: q.OriginCEP},
		To:   endpoint{PostalCode: q.DestinationCEP},
		Products: []product{{
			Width:          q.Width,
			Height:         q.Height,
			Length:         q.Length,
			Weight:         q.Weight,
			InsuranceValue: q.InsuranceValue,
			Quantity:       1,
		}},
		Options:  options{Receipt: false, OwnHand: false, Collect: false},
		Services: "",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrUpstreamPermanent, err)
	}

	start := time.Now()
	items, err := c.doWithRetry(ctx, body)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.QuoteRequestsTotal.WithLabelValues(status).Inc()
	metrics.QuoteRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	if c.obs != nil {
		c.obs.RecordQuoteProcessed(ctx, status)
		c.obs.RecordQuoteDuration(ctx, time.Since(start), status)
	}
	return items, err
}

func (c *Client) doWithRetry(ctx context.Context, body []byte) ([]QuoteItem, error) {
	url := c.config.BaseURL + "/me/shipment/calculate"

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.QuoteRetriesTotal.Inc()
			backoff := c.config.BackoffBase * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrUpstreamTransient, ctx.Err())
			}
		}

		items, err := c.doOnce(ctx, url, body)
		if err == nil {
			return items, nil
		}
		if !errors.Is(err, ErrUpstreamTransient) {
			return nil, err
		}
		lastErr = err
		c.logger.Warn("transient upstream failure, will retry", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
	}

	return nil, fmt.Errorf("retries exhausted: %w", lastErr)
}

func (c *Client) doOnce(ctx context.Context, url string, body []byte) ([]QuoteItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstreamPermanent, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		// Network-level failures are worth one more shot.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamPermanent, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamTransient, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstreamTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		items, err := normalizeBody(respBody)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamPermanent, err)
		}
		return items, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamTransient, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstreamPermanent, resp.StatusCode, truncate(respBody, 200))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
