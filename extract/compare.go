package extract

import "github.com/factex/blocktree"

// NeedsRendering reports whether browser rendering matters for a page,
// by comparing the text blocks found in plainly fetched markup against
// those in browser-rendered markup for the same URL. True when
// rendering yields meaningfully more blocks (>50%), or when the plain
// fetch yields none at all. Parse failures count as needing rendering.
func NeedsRendering(plainMarkup, renderedMarkup string, parser blocktree.Parser) bool {
	plainRaw, err := parser.Parse([]byte(plainMarkup))
	if err != nil {
		return true
	}
	renderedRaw, err := parser.Parse([]byte(renderedMarkup))
	if err != nil {
		return true
	}

	plainCount := len(blocktree.Build(plainRaw).TextNodes())
	renderedCount := len(blocktree.Build(renderedRaw).TextNodes())

	if plainCount == 0 {
		return renderedCount > 0
	}
	return float64(renderedCount) > float64(plainCount)*1.5
}
