package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/factex/blocktree"
	bthttp "github.com/factex/blocktree/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFinder_FromRobotsTxt(t *testing.T) {
	t.Parallel()

	robotsTxt := `User-agent: *
Disallow: /private/
Sitemap: {{BASE}}/sitemap.xml
`
	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/docs/guide</loc></url>
  <url><loc>{{BASE}}/docs/setup</loc></url>
  <url><loc>{{BASE}}/blog/post1</loc></url>
</urlset>`

	srv := newSiteServer(t, map[string]string{
		"/robots.txt":  robotsTxt,
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	finder := bthttp.NewTemplateFinder(srv.Client())
	urls, err := finder.FindTemplates(context.Background(), srv.URL+"/docs/intro", 0)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs/guide", srv.URL + "/docs/setup"}, urls)
}

func TestTemplateFinder_FallbackToSitemapXML(t *testing.T) {
	t.Parallel()

	// No robots.txt, should fall back to /sitemap.xml
	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/page1</loc></url>
  <url><loc>{{BASE}}/page2</loc></url>
</urlset>`

	srv := newSiteServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	finder := bthttp.NewTemplateFinder(srv.Client())
	urls, err := finder.FindTemplates(context.Background(), srv.URL+"/page1", 0)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/page2"}, urls)
}

func TestTemplateFinder_SitemapIndex(t *testing.T) {
	t.Parallel()

	sitemapIndex := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-docs.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-api.xml</loc></sitemap>
</sitemapindex>`

	sitemapDocs := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/intro</loc></url>
  <url><loc>{{BASE}}/docs/guide</loc></url>
</urlset>`

	sitemapAPI := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/api/reference</loc></url>
</urlset>`

	srv := newSiteServer(t, map[string]string{
		"/sitemap.xml":      sitemapIndex,
		"/sitemap-docs.xml": sitemapDocs,
		"/sitemap-api.xml":  sitemapAPI,
	})
	defer srv.Close()

	finder := bthttp.NewTemplateFinder(srv.Client())
	urls, err := finder.FindTemplates(context.Background(), srv.URL+"/docs/intro", 0)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs/guide"}, urls)
}

func TestTemplateFinder_RespectsLimit(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/docs/a</loc></url>
  <url><loc>{{BASE}}/docs/b</loc></url>
  <url><loc>{{BASE}}/docs/c</loc></url>
</urlset>`

	srv := newSiteServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	finder := bthttp.NewTemplateFinder(srv.Client())
	urls, err := finder.FindTemplates(context.Background(), srv.URL+"/docs/a", 1)

	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/docs/b"}, urls)
}

func TestTemplateFinder_NoSitemapFound(t *testing.T) {
	t.Parallel()

	// No robots.txt, no sitemap.xml
	srv := newSiteServer(t, map[string]string{})
	defer srv.Close()

	finder := bthttp.NewTemplateFinder(srv.Client())
	urls, err := finder.FindTemplates(context.Background(), srv.URL+"/page", 0)

	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestTemplateFinder_ContextCancellation(t *testing.T) {
	t.Parallel()

	sitemapXML := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>{{BASE}}/page1</loc></url>
</urlset>`

	srv := newSiteServer(t, map[string]string{
		"/sitemap.xml": sitemapXML,
	})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	finder := bthttp.NewTemplateFinder(srv.Client())
	_, err := finder.FindTemplates(ctx, srv.URL+"/page1", 0)

	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTemplateFinder_InvalidPrimaryURL(t *testing.T) {
	t.Parallel()

	finder := bthttp.NewTemplateFinder(nil)
	_, err := finder.FindTemplates(context.Background(), "not-a-url", 0)

	require.Error(t, err)
	assert.Equal(t, blocktree.EINVALID, blocktree.ErrorCode(err))
}

// newSiteServer creates a test HTTP server with the given path->content
// mapping. Content strings may contain {{BASE}} which is replaced with
// the server URL.
func newSiteServer(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = regexp.MustCompile(`\{\{BASE\}\}`).ReplaceAllString(body, srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))

	return srv
}
