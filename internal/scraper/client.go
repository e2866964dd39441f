// Package scraper fetches Human Interface Guidelines pages over HTTP with
// polite rate limiting, retry on transient failures, and a graceful-fallback
// page cache. It returns raw markup only; content interpretation belongs to
// the content processor.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/tmaasen/apple-dev-mcp-sub004/internal/cache"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultCacheSize   = 256
	defaultCacheTTL    = time.Hour
	defaultRate        = 2.0 // requests per second
	defaultMaxElapsed  = 30 * time.Second
	maxBodyBytes       = 4 << 20
	defaultUserAgent   = "hig-mcp-generator/1.0 (+https://github.com/tmaasen/apple-dev-mcp-sub004)"
	defaultRetryInit   = 500 * time.Millisecond
	defaultRetryMaxInt = 10 * time.Second
)

// RawPage is one fetched document, uninterpreted.
type RawPage struct {
	URL       string
	HTML      string
	FetchedAt time.Time
}

// Config tunes the client. Zero values take the defaults above.
type Config struct {
	Timeout           time.Duration
	CacheSize         int
	CacheTTL          time.Duration
	RequestsPerSecond float64
	RetryMaxElapsed   time.Duration
	UserAgent         string
}

// Client fetches pages with a shared rate limiter. Fetches that fail after
// retry fall back to a stale cached copy when one exists.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	pages      *cache.Cache[*RawPage]
	maxElapsed time.Duration
	userAgent  string
	log        *slog.Logger
}

// NewClient builds a scraping client from cfg.
func NewClient(cfg Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRate
	}
	if cfg.RetryMaxElapsed <= 0 {
		cfg.RetryMaxElapsed = defaultMaxElapsed
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	pages, err := cache.New[*RawPage](cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("create page cache: %w", err)
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 2),
		pages:      pages,
		maxElapsed: cfg.RetryMaxElapsed,
		userAgent:  cfg.UserAgent,
		log:        log,
	}, nil
}

// Fetch returns the page at pageURL, serving a cached copy when fresh and a
// stale copy when the upstream fails. The error surfaces only when nothing
// can be served at all.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*RawPage, error) {
	result, err := c.pages.GetOrFetch(ctx, pageURL, func(ctx context.Context) (*RawPage, error) {
		return c.fetchFresh(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}
	if result.IsStale {
		c.log.Warn("serving stale page after fetch failure", "url", pageURL)
	}
	return result.Value, nil
}

// fetchFresh performs the rate-limited HTTP GET with retry. 4xx statuses
// are permanent; 5xx and transport errors retry with exponential backoff.
func (c *Client) fetchFresh(ctx context.Context, pageURL string) (*RawPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var page *RawPage
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		case resp.StatusCode >= 500:
			return fmt.Errorf("status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}
		page = &RawPage{
			URL:       pageURL,
			HTML:      string(body),
			FetchedAt: time.Now().UTC(),
		}
		return nil
	}

	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = defaultRetryInit
	exponentialBackoff.MaxInterval = defaultRetryMaxInt
	exponentialBackoff.MaxElapsedTime = c.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(exponentialBackoff, ctx)); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return page, nil
}
