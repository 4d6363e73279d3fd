package blocktree

import (
	"context"
	"time"
)

// Page is a fetched markup page as persisted by the page cache.
type Page struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Body        string    `json:"body"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Body == "" {
		return Errorf(EINVALID, "page body required")
	}
	return nil
}

// PageService represents a service for caching fetched pages.
type PageService interface {
	// SavePage creates or replaces the cached page for its URL.
	SavePage(ctx context.Context, page *Page) error

	// FindPageByURL retrieves the cached page for a URL.
	// Returns ENOTFOUND if no page is cached for it.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// FindPages retrieves cached pages matching the filter.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)

	// DeletePageByURL removes the cached page for a URL.
	// Returns ENOTFOUND if no page is cached for it.
	DeletePageByURL(ctx context.Context, url string) error
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	URL         *string `json:"url"`
	ContentHash *string `json:"contentHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Extraction carries the text blocks pulled from one page.
type Extraction struct {
	URL         string    `json:"url"`
	Texts       []string  `json:"texts"`
	ExtractedAt time.Time `json:"extractedAt"`
}

// Validate returns an error if the extraction cannot be persisted.
// Empty Texts are fine; a fully subtracted page has none.
func (ex *Extraction) Validate() error {
	if ex.URL == "" {
		return Errorf(EINVALID, "extraction URL required")
	}
	return nil
}

// ExtractionWriter writes extraction results to storage.
type ExtractionWriter interface {
	WriteExtraction(ctx context.Context, ex *Extraction) error
}
