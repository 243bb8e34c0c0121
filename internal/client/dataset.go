package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"

	"storefront/catalog/internal/config"
	"storefront/catalog/internal/store"
)

var ErrCircuitOpen = errors.New("dataset origin temporarily disabled")

type datasetClient struct {
	rl         ratelimit.Limiter
	url        string
	timeout    time.Duration
	httpClient *resty.Client

	// Circuit breaker for a failing origin
	circuitBreakerMutex sync.RWMutex
	disabledUntil       time.Time
	cooldown            time.Duration
}

// NewDatasetClient fetches the product dataset over HTTP. It satisfies store.DatasetSource.
func NewDatasetClient(cfg config.HTTPSourceConfig, url string) store.DatasetSource {
	httpClient := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &datasetClient{
		rl:         rl,
		url:        url,
		timeout:    time.Duration(cfg.Timeout) * time.Second,
		httpClient: httpClient,
		cooldown:   time.Duration(cfg.Cooldown) * time.Second,
	}
}

func (c *datasetClient) Name() string {
	return "http:" + c.url
}

func (c *datasetClient) Load(ctx context.Context) ([]byte, error) {
	if remaining := c.remainingCooldown(); remaining > 0 {
		log.Debugf("🚫 Dataset request blocked by circuit breaker. Remaining time: %v", remaining.Round(time.Second))
		return nil, fmt.Errorf("%w for %v more", ErrCircuitOpen, remaining.Round(time.Second))
	}

	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout())
	defer cancel()

	resp, err := c.httpClient.R().
		SetContext(reqCtx).
		Get(c.url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		c.triggerCircuitBreaker()
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}

	if resp.IsError() {
		c.triggerCircuitBreaker()
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	body := resp.String()
	log.Debugf("Fetched dataset from %s (%d bytes)", c.url, len(body))
	return []byte(body), nil
}

// requestTimeout bounds the whole call including retries.
func (c *datasetClient) requestTimeout() time.Duration {
	if c.timeout <= 0 {
		return 2 * time.Minute
	}
	return 4 * c.timeout
}

func (c *datasetClient) remainingCooldown() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.disabledUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *datasetClient) triggerCircuitBreaker() {
	if c.cooldown <= 0 {
		return
	}
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.disabledUntil = time.Now().Add(c.cooldown)
	log.Warnf("🚫 Circuit breaker activated! Dataset requests disabled until %v",
		c.disabledUntil.Format("15:04:05"))
}
