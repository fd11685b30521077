package driven

import "context"

// SourceFetcher downloads URL-sourced documents.
type SourceFetcher interface {
	// Fetch retrieves the page at url and returns its raw bytes.
	// Returns domain.ErrFetch on network failures and non-2xx statuses,
	// domain.ErrFormat on non-HTML responses and domain.ErrTooLarge
	// when the body exceeds the configured ceiling.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
