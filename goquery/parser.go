// Package goquery provides a selector-scoped blocktree.Parser. It parses
// the full document and narrows the raw tree to the first match of a CSS
// selector, which is how callers skip straight to a page's content area.
package goquery

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/factex/blocktree"
	"github.com/factex/blocktree/html"
)

// Ensure Parser implements blocktree.Parser at compile time.
var _ blocktree.Parser = (*Parser)(nil)

// Parser parses HTML and scopes the result to a CSS selector.
// An empty Selector yields the whole document, making the zero value
// interchangeable with the plain html parser.
type Parser struct {
	Selector string
}

// NewParser creates a Parser scoped to the given CSS selector.
func NewParser(selector string) *Parser {
	return &Parser{Selector: selector}
}

// Parse parses markup and returns the raw tree rooted at the first node
// matching the selector. Returns ENOTFOUND when the selector matches
// nothing and EINVALID when it cannot be compiled.
func (p *Parser) Parse(markup []byte) (*blocktree.RawNode, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "parse html: %v", err)
	}

	if p.Selector == "" {
		if len(doc.Nodes) == 0 {
			return nil, blocktree.Errorf(blocktree.EINVALID, "document has no root element")
		}
		return html.Convert(doc.Nodes[0]), nil
	}

	// compile through cascadia so a bad selector surfaces as an error
	// instead of the panic goquery's Find raises
	sel, err := cascadia.Compile(p.Selector)
	if err != nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "selector %q: %v", p.Selector, err)
	}
	found := doc.FindMatcher(sel)
	if found.Length() == 0 {
		return nil, blocktree.Errorf(blocktree.ENOTFOUND, "selector %q matched no elements", p.Selector)
	}
	return html.Convert(found.Nodes[0]), nil
}
