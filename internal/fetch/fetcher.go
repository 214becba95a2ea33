// Package fetch retrieves documents over HTTP with a bounded timeout, retry
// with exponential backoff, and a browser-identifying header set. Built on
// the Colly collector, one cloned collector per request.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Browser-like defaults reduce trivial blocking by third-party origins.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config controls client behavior.
type Config struct {
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int
	BackoffBase   time.Duration
	RespectRobots bool
}

// Client implements polite single-URL fetching.
type Client struct {
	cfg    Config
	logger *zap.Logger
	base   *colly.Collector
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = time.Second
	}
	base := colly.NewCollector(colly.Async(false))
	// colly v2.1.0's Async option ignores its argument and always enables
	// async mode; force the synchronous behavior the option requests.
	base.Async = false
	base.IgnoreRobotsTxt = !cfg.RespectRobots
	return &Client{cfg: cfg, logger: logger, base: base}
}

// Fetch retrieves the document at rawURL, retrying transient failures with
// exponential backoff. On final failure it returns one of the typed errors in
// this package; the caller treats the URL as unavailable for the run.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.cfg.BackoffBase * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying fetch",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("fetch canceled: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}
		body, err := c.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			break
		}
	}
	return "", lastErr
}

func (c *Client) fetchOnce(ctx context.Context, rawURL string) (string, error) {
	collector := c.base.Clone()
	collector.UserAgent = c.cfg.UserAgent
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(c.cfg.Timeout)

	var (
		body       []byte
		statusCode int
		cbErr      error
	)
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		if origin := originOf(rawURL); origin != "" {
			r.Headers.Set("Referer", origin)
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		cbErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrTimeout, rawURL)
		}
		return "", fmt.Errorf("fetch canceled: %w", ctx.Err())
	case visitErr := <-done:
		if err := firstError(cbErr, visitErr); err != nil {
			return "", c.classify(err, statusCode, rawURL)
		}
		return string(body), nil
	}
}

func (c *Client) classify(err error, statusCode int, rawURL string) error {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %s", ErrTimeout, rawURL)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrTimeout, rawURL)
	case statusCode != 0 && (statusCode < 200 || statusCode >= 300):
		return &StatusError{Code: statusCode}
	default:
		return fmt.Errorf("%w: %s: %v", ErrNetwork, rawURL, err)
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
