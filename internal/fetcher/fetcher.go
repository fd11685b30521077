// Package fetcher retrieves remote HTML sources for ingestion.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lexikon-labs/lexikon/internal/core/domain"
)

// Defaults for remote fetches.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxBytes = 10 << 20 // 10 MiB

	userAgent = "lexikon/1.0 (+https://github.com/lexikon-labs/lexikon)"
)

// Config holds fetcher settings.
type Config struct {
	// Timeout is the total request timeout (default: 30s).
	Timeout time.Duration

	// MaxBytes caps the response body size (default: 10 MiB).
	MaxBytes int64
}

// Fetcher downloads web pages for URL-sourced assets. Only HTML
// responses are accepted; other content types must be ingested as
// file or text sources with a declared type.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// New creates a fetcher with the given configuration.
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	return &Fetcher{
		client:   &http.Client{Timeout: cfg.Timeout},
		maxBytes: cfg.MaxBytes,
	}
}

// NewWithClient creates a fetcher backed by a custom http.Client.
func NewWithClient(client *http.Client, maxBytes int64) *Fetcher {
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{client: client, maxBytes: maxBytes}
}

// Fetch downloads the page at rawURL and returns its body bytes.
// Network failures and non-2xx statuses are ErrFetch; non-HTML
// responses are ErrFormat; bodies over the size cap are ErrTooLarge.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL %q", domain.ErrValidation, rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported URL scheme %q", domain.ErrValidation, parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrFetch, rawURL, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("%w: expected an HTML page, got %q", domain.ErrFormat, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", domain.ErrFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", domain.ErrTooLarge, f.maxBytes)
	}

	return body, nil
}

// isHTML reports whether a Content-Type header denotes an HTML page.
// An absent header is accepted; servers that omit it usually serve HTML,
// and the HTML normaliser validates the payload anyway.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	switch strings.ToLower(mediaType) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}
