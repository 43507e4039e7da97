package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"mediabrowse/discovery/internal/config"
	"mediabrowse/discovery/internal/domain"
	"mediabrowse/discovery/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type SearchClient interface {
	SearchMedia(ctx context.Context, query string, page int) ([]domain.MediaItem, error)
}

type searchClient struct {
	rl            ratelimit.Limiter
	config        config.SearchConfig
	baseURL       string
	httpClient    *resty.Client
	parser        *searchParser
	proxySupplier proxy.Supplier

	// Circuit breaker for quota exceeded
	circuitBreakerMutex sync.RWMutex
	quotaExceededUntil  time.Time
	circuitBreakerDelay time.Duration
}

func NewSearchClient(cfg config.SearchConfig, proxySupplier proxy.Supplier) SearchClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "mediabrowse-discovery/1.0")

	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	// Get initial proxy
	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	breakerDelay := time.Duration(cfg.CircuitBreakerMinutes) * time.Minute
	if breakerDelay <= 0 {
		breakerDelay = 5 * time.Minute
	}

	return &searchClient{
		rl:                  rl,
		config:              cfg,
		baseURL:             strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:          client,
		parser:              newSearchParser(cfg.ImageBaseURL),
		proxySupplier:       proxySupplier,
		circuitBreakerDelay: breakerDelay,
	}
}

func (c *searchClient) SearchMedia(ctx context.Context, query string, page int) ([]domain.MediaItem, error) {
	body, err := c.fetchJSON(ctx, c.baseURL+"/search", map[string]string{
		"q":    query,
		"page": strconv.Itoa(page),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}

	items, err := c.parser.ParseSearchResults(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results for %q: %w", query, err)
	}

	log.Debugf("Search %q page %d returned %d items", query, page, len(items))
	return items, nil
}

func (c *searchClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.quotaExceededUntil)
	wasTriggered := !c.quotaExceededUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		if !c.quotaExceededUntil.IsZero() && now.After(c.quotaExceededUntil) {
			c.quotaExceededUntil = time.Time{}
			log.Infof("✅ Circuit breaker closed, search requests allowed again")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *searchClient) triggerCircuitBreaker() {
	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.quotaExceededUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Circuit breaker activated! Search disabled until %v",
		c.quotaExceededUntil.Format("15:04:05"))
}

func (c *searchClient) getRemainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.quotaExceededUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *searchClient) fetchJSON(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	if c.isCircuitBreakerOpen() {
		remaining := c.getRemainingCircuitBreakerTime()
		return nil, fmt.Errorf("%w: requests disabled for %v more", ErrCircuitOpen, remaining.Round(time.Second))
	}

	c.rl.Take()

	resp, err := c.get(ctx, url, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		log.Warnf("🚫 Search quota exceeded for %s", url)

		if c.proxySupplier != nil {
			if newProxy := c.proxySupplier.Get(); newProxy != "" {
				log.Infof("🔄 Switching to new proxy: %s", newProxy)
				c.httpClient.SetProxy(newProxy)

				retryResp, retryErr := c.get(ctx, url, params)
				if retryErr == nil && !retryResp.IsError() {
					log.Infof("✅ Retry successful with new proxy")
					return []byte(retryResp.String()), nil
				}
			}
		}

		c.triggerCircuitBreaker()
		return nil, fmt.Errorf("quota exceeded: %w", ErrCircuitOpen)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	return []byte(resp.String()), nil
}

func (c *searchClient) get(ctx context.Context, url string, params map[string]string) (*resty.Response, error) {
	return c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)
}
