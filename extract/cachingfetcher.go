package extract

import (
	"context"

	"github.com/factex/blocktree"
)

// Ensure CachingFetcher implements blocktree.Fetcher.
var _ blocktree.Fetcher = (*CachingFetcher)(nil)

// CachingFetcher decorates a Fetcher with read-through page caching, so
// template pages are fetched once across runs.
type CachingFetcher struct {
	next  blocktree.Fetcher
	pages blocktree.PageService
}

// NewCachingFetcher creates a CachingFetcher over next, caching into
// pages.
func NewCachingFetcher(next blocktree.Fetcher, pages blocktree.PageService) *CachingFetcher {
	return &CachingFetcher{next: next, pages: pages}
}

// Fetch returns the cached body when one exists, fetching and caching
// it otherwise. A failed save does not fail the fetch; the page is
// refetched next time.
func (f *CachingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	page, err := f.pages.FindPageByURL(ctx, url)
	if err == nil {
		return page.Body, nil
	}
	if blocktree.ErrorCode(err) != blocktree.ENOTFOUND {
		return "", err
	}

	markup, err := f.next.Fetch(ctx, url)
	if err != nil {
		return "", err
	}

	_ = f.pages.SavePage(ctx, &blocktree.Page{URL: url, Body: markup})
	return markup, nil
}

// Close delegates to the wrapped fetcher.
func (f *CachingFetcher) Close() error {
	return f.next.Close()
}
