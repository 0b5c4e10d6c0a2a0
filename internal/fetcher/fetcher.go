package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"time"

	"github.com/maltedev/amazon-product-api/internal/config"
	"github.com/maltedev/amazon-product-api/internal/detect"
	"github.com/maltedev/amazon-product-api/internal/metrics"
)

var ErrRetriesExhausted = errors.New("retries exhausted fetching product page")

// Page is one successfully fetched, non-blocked upstream response. The body
// is read in full so the blocking detector can inspect it per attempt.
type Page struct {
	StatusCode int
	Body       []byte
}

// Client performs product page fetches with anti-detection hygiene: a shared
// keep-alive session, a rotating User-Agent pool, a randomized delay before
// every attempt and a bounded retry loop. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	userAgents []string
	delayMin   time.Duration
	delayMax   time.Duration
	maxRetries int
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func New(cfg config.ScraperConfig, logger *slog.Logger, m *metrics.Metrics) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		userAgents: cfg.UserAgents,
		delayMin:   cfg.RequestDelayMin,
		delayMax:   cfg.RequestDelayMax,
		maxRetries: cfg.MaxRetries,
		logger:     logger.With("component", "fetcher"),
		metrics:    m,
	}
}

// Fetch GETs url, retrying on transport errors, blocked classifications and
// non-2xx statuses until the attempt ceiling is hit. Redirects are followed.
// Returns ErrRetriesExhausted once the ceiling is reached.
func (c *Client) Fetch(ctx context.Context, url string) (*Page, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.sleep(ctx); err != nil {
			return nil, err
		}

		page, err := c.attempt(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("fetch attempt failed",
				"url", url, "attempt", attempt+1, "error", err)
			continue
		}
		return page, nil
	}

	c.logger.Error("max retries exceeded", "url", url, "retries", c.maxRetries)
	return nil, ErrRetriesExhausted
}

func (c *Client) attempt(ctx context.Context, url string) (*Page, error) {
	c.metrics.IncFetchAttempt()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if detect.Blocked(resp.StatusCode, body) {
		c.metrics.IncBlocked()
		return nil, fmt.Errorf("blocked response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return &Page{StatusCode: resp.StatusCode, Body: body}, nil
}

// setHeaders applies the fixed baseline header set plus a freshly drawn
// User-Agent for this attempt.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgents[rand.Intn(len(c.userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// sleep waits a uniformly random duration in [delayMin, delayMax] before an
// attempt. Applies to the first attempt too, to keep request cadence below
// detection thresholds across consecutive calls.
func (c *Client) sleep(ctx context.Context) error {
	delay := c.delayMin
	if delta := c.delayMax - c.delayMin; delta > 0 {
		delay += time.Duration(rand.Int63n(int64(delta)))
	}
	if delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// decodeBody reads the full response body, decompressing gzip and deflate
// payloads since the transport's automatic handling is disabled by the
// explicit Accept-Encoding header.
func decodeBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	}

	return io.ReadAll(reader)
}
