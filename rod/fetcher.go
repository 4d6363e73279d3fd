// Package rod fetches pages through headless Chrome for sites that only
// materialize their text blocks after JavaScript runs.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/factex/blocktree"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements blocktree.Fetcher at compile time.
var _ blocktree.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single Fetch call.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves rendered HTML from URLs using Chrome browser
// automation. The plain http.Fetcher is much cheaper when the page does
// not need JavaScript. Fetcher is safe for concurrent use by multiple
// goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	delay   time.Duration
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-fetch timeout. Defaults to
// DefaultFetchTimeout. A caller's earlier context deadline still wins.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderDelay makes Fetch wait after the load event before reading
// the HTML, giving client-side rendering time to settle.
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// NewFetcher launches a headless Chrome browser. The browser is recycled
// periodically to keep memory flat over long batch runs. Close must be
// called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(DefaultMaxPages)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", blocktree.Errorf(blocktree.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple
// times; Fetch returns EINVALID afterwards.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher, or zero
// after Close. Used by tests to verify process cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
