package extract_test

import (
	"context"
	"testing"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/extract"
	"github.com/factex/blocktree/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("returns the cached body without fetching", func(t *testing.T) {
		t.Parallel()

		fetched := false
		f := extract.NewCachingFetcher(
			&mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					fetched = true
					return "", nil
				},
			},
			&mock.PageService{
				FindPageByURLFn: func(_ context.Context, url string) (*blocktree.Page, error) {
					return &blocktree.Page{URL: url, Body: "<html>cached</html>"}, nil
				},
			},
		)

		markup, err := f.Fetch(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "<html>cached</html>", markup)
		assert.False(t, fetched, "cache hit should not reach the network")
	})

	t.Run("fetches and caches on a miss", func(t *testing.T) {
		t.Parallel()

		var saved *blocktree.Page
		f := extract.NewCachingFetcher(
			&mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>fresh</html>", nil
				},
			},
			&mock.PageService{
				FindPageByURLFn: func(_ context.Context, url string) (*blocktree.Page, error) {
					return nil, blocktree.Errorf(blocktree.ENOTFOUND, "page not cached for %s", url)
				},
				SavePageFn: func(_ context.Context, page *blocktree.Page) error {
					saved = page
					return nil
				},
			},
		)

		markup, err := f.Fetch(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "<html>fresh</html>", markup)
		require.NotNil(t, saved)
		assert.Equal(t, "https://example.com/page", saved.URL)
		assert.Equal(t, "<html>fresh</html>", saved.Body)
	})

	t.Run("returns the page even when caching fails", func(t *testing.T) {
		t.Parallel()

		f := extract.NewCachingFetcher(
			&mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					return "<html>fresh</html>", nil
				},
			},
			&mock.PageService{
				FindPageByURLFn: func(_ context.Context, url string) (*blocktree.Page, error) {
					return nil, blocktree.Errorf(blocktree.ENOTFOUND, "page not cached for %s", url)
				},
				SavePageFn: func(_ context.Context, _ *blocktree.Page) error {
					return blocktree.Errorf(blocktree.EINTERNAL, "disk full")
				},
			},
		)

		markup, err := f.Fetch(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "<html>fresh</html>", markup)
	})

	t.Run("propagates lookup failures", func(t *testing.T) {
		t.Parallel()

		fetched := false
		f := extract.NewCachingFetcher(
			&mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					fetched = true
					return "", nil
				},
			},
			&mock.PageService{
				FindPageByURLFn: func(_ context.Context, _ string) (*blocktree.Page, error) {
					return nil, blocktree.Errorf(blocktree.EINTERNAL, "database locked")
				},
			},
		)

		_, err := f.Fetch(context.Background(), "https://example.com/page")

		require.Error(t, err)
		assert.Equal(t, blocktree.EINTERNAL, blocktree.ErrorCode(err))
		assert.False(t, fetched, "lookup failure should not reach the network")
	})

	t.Run("close delegates to the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		closed := false
		f := extract.NewCachingFetcher(
			&mock.Fetcher{
				CloseFn: func() error {
					closed = true
					return nil
				},
			},
			&mock.PageService{},
		)

		require.NoError(t, f.Close())
		assert.True(t, closed)
	})
}
