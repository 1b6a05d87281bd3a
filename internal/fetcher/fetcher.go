// Package fetcher provides rate-limited, timeout-bounded document retrieval
// for the source connectors. Every failure is scoped to a single document or
// page so callers can keep iterating over their remaining work.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	retryBackoff      = 5 * time.Second
	rateLimitBackoff  = 60 * time.Second
	defaultUserAgent  = "capitolwatch/1.0 (disclosure research; contact@capitolwatch.dev)"
)

// FetchError reports a failed retrieval of one document or page.
// It never aborts the caller's loop over other documents.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Config holds per-client fetch settings. MinDelay is the enforced minimum
// interval between requests: multi-second for government disclosure sites,
// sub-second for structured-feed APIs.
type Config struct {
	MinDelay   time.Duration
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
}

// Client is a rate-limited HTTP document fetcher.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     Config
}

// New creates a Client. A zero MinDelay disables the inter-request wait.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.MinDelay), 1),
		cfg:     cfg,
	}
}

// Get fetches a single document. It waits out the inter-request delay,
// retries transient failures with backoff, and honors 429 responses with a
// longer wait. On exhaustion it returns a *FetchError for this URL only.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr *FetchError

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = &FetchError{URL: url, Err: err}
			if !sleepCtx(ctx, retryBackoff) {
				return nil, lastErr
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &FetchError{URL: url, Err: err}
			if !sleepCtx(ctx, retryBackoff) {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = &FetchError{URL: url, Status: resp.StatusCode}
			if !sleepCtx(ctx, rateLimitBackoff) {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &FetchError{URL: url, Status: resp.StatusCode}
		}

		return body, nil
	}

	return nil, lastErr
}

// GetJSON fetches a document and unmarshals it into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &FetchError{URL: url, Err: fmt.Errorf("unmarshal: %w", err)}
	}
	return nil
}

// Page is one fetched page of a paginated listing.
type Page struct {
	Number int
	URL    string
	Body   []byte
}

// Walk performs a bounded pagination walk starting at startURL. For each
// fetched page it calls visit, which returns the URL of the next page or ""
// when the next-page affordance is absent. The walk stops at maxPages
// (unbounded when <= 0), when visit returns "", or on the first page-level
// error.
func (c *Client) Walk(ctx context.Context, startURL string, maxPages int, visit func(Page) (string, error)) error {
	url := startURL
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		body, err := c.Get(ctx, url)
		if err != nil {
			return err
		}

		next, err := visit(Page{Number: page, URL: url, Body: body})
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		url = next
	}
	return nil
}

// Download fetches a document into a temporary file and returns its path
// together with a cleanup func that removes it. Callers must defer cleanup
// so the file is deleted on every exit path, extraction success or failure.
func (c *Client) Download(ctx context.Context, url string) (string, func(), error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", nil, err
	}

	tmp, err := os.CreateTemp("", "capitolwatch-doc-*")
	if err != nil {
		return "", nil, &FetchError{URL: url, Err: err}
	}

	if _, err := io.Copy(tmp, bytes.NewReader(body)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, &FetchError{URL: url, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, &FetchError{URL: url, Err: err}
	}

	path := tmp.Name()
	cleanup := func() { os.Remove(path) }
	return path, cleanup, nil
}

// sleepCtx sleeps for d unless the context is cancelled first.
// Reports whether the full sleep completed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
