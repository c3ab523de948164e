package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 5
	DefaultUserAgent    = "go-vaultsync/1.0 (+https://github.com/goliatone/go-vaultsync)"
)

var (
	ErrUnsupportedScheme = errors.New("fetcher: unsupported url scheme")
	ErrTooManyRedirects  = errors.New("fetcher: too many redirects")
	ErrMissingLocation   = errors.New("fetcher: redirect without location")
	ErrUnexpectedStatus  = errors.New("fetcher: unexpected status")
)

// Config tunes the fetcher. Zero values fall back to the package defaults.
type Config struct {
	Timeout time.Duration
	// MaxRedirects caps the hops followed per download. Values below 1 use
	// DefaultMaxRedirects; a zero value never disables redirects.
	MaxRedirects int
	UserAgent    string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport client. Its redirect policy is
// replaced so redirects are followed by the fetcher itself.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithLogger sets the logger used for download warnings.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client downloads remote images to local files.
type Client struct {
	http         *http.Client
	timeout      time.Duration
	maxRedirects int
	userAgent    string
	logger       interfaces.Logger
}

var _ interfaces.Fetcher = (*Client)(nil)

// New builds a Client.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		http:         &http.Client{},
		timeout:      cfg.Timeout,
		maxRedirects: cfg.MaxRedirects,
		userAgent:    strings.TrimSpace(cfg.UserAgent),
		logger:       logging.NoOp(),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.maxRedirects <= 0 {
		c.maxRedirects = DefaultMaxRedirects
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	for _, opt := range opts {
		opt(c)
	}

	client := *c.http
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c.http = &client
	return c
}

// Download fetches rawURL into destination and reports success. Failures are
// logged as warnings and never returned.
func (c *Client) Download(ctx context.Context, rawURL, destination string) bool {
	if err := c.Fetch(ctx, rawURL, destination); err != nil {
		c.logger.Warn("fetcher.download.failed", "url", rawURL, "destination", destination, "error", err)
		return false
	}
	c.logger.Debug("fetcher.download.completed", "url", rawURL, "destination", destination)
	return true
}

// Fetch retrieves rawURL, following at most the configured number of
// redirects, and streams a 200 response body into destination. The timeout
// covers the whole redirect chain. A partially written file is removed.
func (c *Client) Fetch(ctx context.Context, rawURL, destination string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("fetcher: parse %s: %w", rawURL, err)
	}

	for hops := 0; ; hops++ {
		if target.Scheme != "http" && target.Scheme != "https" {
			return fmt.Errorf("%w: %q", ErrUnsupportedScheme, target.Scheme)
		}

		resp, err := c.get(ctx, target)
		if err != nil {
			return err
		}

		if isRedirect(resp.StatusCode) {
			location := resp.Header.Get("Location")
			drain(resp)
			if location == "" {
				return fmt.Errorf("%w: %s", ErrMissingLocation, target)
			}
			if hops >= c.maxRedirects {
				return fmt.Errorf("%w: %s after %d hops", ErrTooManyRedirects, rawURL, hops)
			}
			next, err := target.Parse(location)
			if err != nil {
				return fmt.Errorf("fetcher: resolve redirect %q: %w", location, err)
			}
			c.logger.Debug("fetcher.redirect", "from", target.String(), "to", next.String(), "hop", hops+1)
			target = next
			continue
		}

		if resp.StatusCode != http.StatusOK {
			drain(resp)
			return fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, target)
		}

		err = writeBody(resp.Body, destination)
		resp.Body.Close()
		return err
	}
}

func (c *Client) get(ctx context.Context, target *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetcher: build request %s: %w", target, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetcher: get %s: %w", target, err)
	}
	return resp, nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

func writeBody(body io.Reader, destination string) error {
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("fetcher: create dir for %s: %w", destination, err)
	}
	file, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("fetcher: create %s: %w", destination, err)
	}
	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		_ = os.Remove(destination)
		return fmt.Errorf("fetcher: write %s: %w", destination, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(destination)
		return fmt.Errorf("fetcher: close %s: %w", destination, err)
	}
	return nil
}
