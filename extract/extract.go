// Package extract orchestrates parsing, fetching, subtraction and
// clustering into end-to-end text extraction flows.
package extract

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/factex/blocktree"
	"github.com/factex/blocktree/bloom"
	"github.com/factex/blocktree/etree"
	"github.com/factex/blocktree/goldmark"
	"github.com/factex/blocktree/html"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the fan-out for batch URL extraction.
const DefaultConcurrency = 10

// DefaultTemplateLimit caps how many discovered template pages Diff
// subtracts when none are given explicitly.
const DefaultTemplateLimit = 3

// Bloom filter sizing for cross-page text dedup.
const (
	dedupExpectedTexts     = 10000
	dedupFalsePositiveRate = 0.01
)

// Pipeline wires a parser and fetcher into the extraction entry points.
// Parser defaults to the html package's parser; Fetcher is required only
// for the URL entry points. All other fields are optional.
type Pipeline struct {
	Parser  blocktree.Parser
	Fetcher blocktree.Fetcher

	// Finder discovers template pages for Diff when the caller names
	// none.
	Finder blocktree.TemplateFinder

	// Limiter rate limits URL fetches per domain.
	Limiter blocktree.DomainLimiter

	// Concurrency is the FromURLs fan-out. Defaults to
	// DefaultConcurrency.
	Concurrency int

	// RetryDelays is the fetch retry backoff schedule. Defaults to
	// DefaultRetryDelays.
	RetryDelays []time.Duration

	// Log, when set, receives retry notices.
	Log LogFunc

	// BuildOptions are applied to every tree the pipeline builds.
	BuildOptions []blocktree.BuildOption
}

// URLResult holds the outcome of building a tree from one URL.
type URLResult struct {
	URL  string
	Tree *blocktree.Tree
	Err  error
}

// ProgressFunc is a callback for batch progress. It is called from a
// single goroutine, once per finished URL.
type ProgressFunc func(completed, total int, url string, err error)

// FromString parses markup and builds its block tree.
func (p *Pipeline) FromString(markup string) (*blocktree.Tree, error) {
	if markup == "" {
		return nil, blocktree.Errorf(blocktree.EINVALID, "markup is required")
	}

	parser := p.Parser
	if parser == nil {
		parser = html.NewParser()
	}

	raw, err := parser.Parse([]byte(markup))
	if err != nil {
		return nil, err
	}
	return blocktree.Build(raw, p.BuildOptions...), nil
}

// FromFile builds a tree from a local markup file. Unless the pipeline
// has an explicit parser, the file extension picks one: Markdown and
// XML files get their own parsers, everything else parses as HTML.
func (p *Pipeline) FromFile(path string) (*blocktree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, blocktree.Errorf(blocktree.ENOTFOUND, "file %q not found", path)
		}
		return nil, err
	}

	if p.Parser == nil {
		if parser := parserForFile(path); parser != nil {
			raw, err := parser.Parse(data)
			if err != nil {
				return nil, err
			}
			return blocktree.Build(raw, p.BuildOptions...), nil
		}
	}
	return p.FromString(string(data))
}

// parserForFile picks a parser for known non-HTML extensions. HTML files
// and unknown extensions fall through to the pipeline default.
func parserForFile(path string) blocktree.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return goldmark.NewParser()
	case ".xml":
		return etree.NewParser()
	}
	return nil
}

// FromURL fetches a page, with rate limiting and retries when
// configured, and builds its tree.
func (p *Pipeline) FromURL(ctx context.Context, rawURL string) (*blocktree.Tree, error) {
	if p.Fetcher == nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "pipeline has no fetcher")
	}

	if p.Limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, blocktree.Errorf(blocktree.EINVALID, "invalid url %q", rawURL)
		}
		if err := p.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	markup, err := FetchWithRetryDelays(ctx, rawURL, p.Fetcher.Fetch, p.Log, delays)
	if err != nil {
		return nil, err
	}

	return p.FromString(markup)
}

// FromSource builds a tree from a URL or a local file path.
func (p *Pipeline) FromSource(ctx context.Context, source string) (*blocktree.Tree, error) {
	if isURL(source) {
		return p.FromURL(ctx, source)
	}
	return p.FromFile(source)
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// FromURLs builds trees for a batch of URLs concurrently. Results come
// back in input order; a failed URL carries its error without failing
// the batch. The progress callback, if provided, is invoked serially as
// URLs finish.
func (p *Pipeline) FromURLs(ctx context.Context, urls []string, progress ProgressFunc) []URLResult {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type indexed struct {
		pos int
		res URLResult
	}
	resultCh := make(chan indexed, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, url := range urls {
			g.Go(func() error {
				tree, err := p.FromURL(gctx, url)
				resultCh <- indexed{pos: i, res: URLResult{URL: url, Tree: tree, Err: err}}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]URLResult, len(urls))
	completed := 0
	for r := range resultCh {
		completed++
		results[r.pos] = r.res
		if progress != nil {
			progress(completed, len(urls), r.res.URL, r.res.Err)
		}
	}
	return results
}

// Diff builds the primary page's tree and subtracts each template page
// in order. When no template URLs are given and a Finder is configured,
// template pages are discovered from the site.
func (p *Pipeline) Diff(ctx context.Context, primaryURL string, templateURLs []string, opts ...blocktree.SubtractOption) (*blocktree.Tree, error) {
	primary, err := p.FromURL(ctx, primaryURL)
	if err != nil {
		return nil, err
	}

	if len(templateURLs) == 0 && p.Finder != nil {
		templateURLs, err = p.Finder.FindTemplates(ctx, primaryURL, DefaultTemplateLimit)
		if err != nil {
			return nil, err
		}
	}

	for _, templateURL := range templateURLs {
		template, err := p.FromURL(ctx, templateURL)
		if err != nil {
			return nil, err
		}
		primary.Subtract(template, opts...)
	}
	return primary, nil
}

// DiffSources is Diff over mixed sources (URLs or file paths). Template
// discovery is only attempted for URL primaries.
func (p *Pipeline) DiffSources(ctx context.Context, primary string, templates []string, opts ...blocktree.SubtractOption) (*blocktree.Tree, error) {
	if isURL(primary) && len(templates) == 0 {
		return p.Diff(ctx, primary, nil, opts...)
	}

	tree, err := p.FromSource(ctx, primary)
	if err != nil {
		return nil, err
	}
	for _, source := range templates {
		template, err := p.FromSource(ctx, source)
		if err != nil {
			return nil, err
		}
		tree.Subtract(template, opts...)
	}
	return tree, nil
}

// CrossSources keeps only the content the primary page shares with
// every template, the complement of DiffSources. Templates are required
// here: crossing with nothing would leave an empty tree.
func (p *Pipeline) CrossSources(ctx context.Context, primary string, templates []string, opts ...blocktree.SubtractOption) (*blocktree.Tree, error) {
	if len(templates) == 0 {
		return nil, blocktree.Errorf(blocktree.EINVALID, "cross requires at least one template")
	}

	tree, err := p.FromSource(ctx, primary)
	if err != nil {
		return nil, err
	}
	for _, source := range templates {
		template, err := p.FromSource(ctx, source)
		if err != nil {
			return nil, err
		}
		tree.Cross(template, opts...)
	}
	return tree, nil
}

// DedupTexts returns each tree's live texts with strings already seen
// on earlier trees suppressed. Useful for cheap boilerplate suppression
// across pages that share no alignable template. Nil trees (failed
// batch entries) yield nil.
func DedupTexts(trees []*blocktree.Tree) [][]string {
	dedup := bloom.NewDedup(dedupExpectedTexts, dedupFalsePositiveRate)
	out := make([][]string, len(trees))
	for i, tree := range trees {
		if tree == nil {
			continue
		}
		out[i] = dedup.Filter(tree.TextNodes())
	}
	return out
}
