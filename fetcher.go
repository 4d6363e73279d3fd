package blocktree

import "context"

// Fetcher retrieves raw markup from URLs.
// Implementations may use plain HTTP requests or browser automation for
// pages that only materialize their content after JavaScript runs.
type Fetcher interface {
	// Fetch retrieves the markup served at the given URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (markup string, err error)

	// Close releases any resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// TemplateFinder discovers template candidate URLs for a page.
// Pages served under the same path prefix usually share a layout, which
// makes them good subtraction templates.
type TemplateFinder interface {
	// FindTemplates returns up to limit URLs whose pages likely share
	// the primary page's layout, excluding the primary itself. A limit
	// of zero means no limit. Returns an empty slice when the site
	// offers no way to discover candidates.
	FindTemplates(ctx context.Context, primaryURL string, limit int) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
