package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/factex/blocktree"
)

// Ensure TemplateFinder implements blocktree.TemplateFinder.
var _ blocktree.TemplateFinder = (*TemplateFinder)(nil)

// TemplateFinder discovers template candidate URLs by reading a site's
// sitemap. Candidates are pages under the same path prefix as the
// primary page, since those usually share its layout.
type TemplateFinder struct {
	client *http.Client
}

// NewTemplateFinder creates a TemplateFinder with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewTemplateFinder(client *http.Client) *TemplateFinder {
	return &TemplateFinder{client: clientOrDefault(client)}
}

func clientOrDefault(client *http.Client) *http.Client {
	if client == nil {
		return http.DefaultClient
	}
	return client
}

// FindTemplates returns up to limit sitemap URLs that live under the
// primary URL's parent path, excluding the primary itself. Sitemaps are
// located through robots.txt, falling back to /sitemap.xml. A limit of
// zero means no limit. Returns an empty slice when the site has no
// sitemap.
func (f *TemplateFinder) FindTemplates(ctx context.Context, primaryURL string, limit int) ([]string, error) {
	primary, err := url.Parse(primaryURL)
	if err != nil || primary.Host == "" {
		return nil, blocktree.Errorf(blocktree.EINVALID, "invalid primary url %q", primaryURL)
	}

	prefix := siblingPrefix(primary.Path)

	site := *primary
	site.Path, site.RawQuery, site.Fragment = "", "", ""

	sitemaps, err := f.sitemapURLs(ctx, &site)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	picked := make(map[string]bool)
	candidates := []string{}
	for _, sitemapURL := range sitemaps {
		urls, err := f.collect(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		for _, u := range urls {
			if u == primaryURL || picked[u] || !underPrefix(u, primary.Host, prefix) {
				continue
			}
			picked[u] = true
			candidates = append(candidates, u)
			if limit > 0 && len(candidates) == limit {
				return candidates, nil
			}
		}
	}
	return candidates, nil
}

// siblingPrefix returns the parent directory of p with a trailing slash,
// so that /docs/intro yields /docs/ and both / and "" yield /.
func siblingPrefix(p string) string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return "/"
	}
	return dir + "/"
}

// underPrefix reports whether rawURL is on host and its path starts with
// prefix at a path boundary.
func underPrefix(rawURL, host, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host != host {
		return false
	}
	return strings.HasPrefix(parsed.Path, prefix)
}

// sitemapURLs discovers sitemap locations from robots.txt, falling back
// to /sitemap.xml when robots.txt lists none.
func (f *TemplateFinder) sitemapURLs(ctx context.Context, site *url.URL) ([]string, error) {
	robotsURL := site.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := f.robotsSitemaps(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	fallback := site.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := f.exists(ctx, fallback.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{fallback.String()}, nil
	}
	return nil, nil
}

// robotsSitemaps extracts Sitemap: directives from robots.txt.
func (f *TemplateFinder) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := f.fetch(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// collect fetches and parses a sitemap, recursing into sitemap indexes.
// The seen map guards against sitemap cycles.
func (f *TemplateFinder) collect(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := f.fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "parse sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		var all []string
		for _, child := range root.SelectElements("sitemap") {
			loc := locText(child)
			if loc == "" {
				continue
			}
			urls, err := f.collect(ctx, loc, seen)
			if err != nil {
				return nil, err
			}
			all = append(all, urls...)
		}
		return all, nil
	}

	var urls []string
	for _, entry := range root.SelectElements("url") {
		if loc := locText(entry); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

func locText(el *etree.Element) string {
	loc := el.SelectElement("loc")
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(loc.Text())
}

func (f *TemplateFinder) fetch(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}

func (f *TemplateFinder) exists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
