// Package html provides a blocktree.Parser backed by the x/net/html
// tokenizer, the default way to turn web pages into raw trees.
package html

import (
	"bytes"
	"strings"

	"github.com/factex/blocktree"
	"golang.org/x/net/html"
)

// Ensure Parser implements blocktree.Parser at compile time.
var _ blocktree.Parser = (*Parser)(nil)

// Parser parses HTML documents. The zero value is ready to use.
//
// x/net/html is extremely tolerant: it repairs unclosed and misnested
// elements and always synthesizes the html/head/body scaffolding, so
// fragments and full documents both come out as a tree rooted at the html
// element.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses markup into a raw tree rooted at the document element.
func (p *Parser) Parse(markup []byte) (*blocktree.RawNode, error) {
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "parse html: %v", err)
	}
	raw := Convert(doc)
	if raw == nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "document has no root element")
	}
	return raw, nil
}

// Convert maps a parsed html node subtree onto the raw tree contract.
// Comments, doctypes and processing instructions map to nil and are
// dropped by callers. Exported so selector-based parsers can hand their
// scoped nodes to the same conversion.
func Convert(n *html.Node) *blocktree.RawNode {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				return Convert(c)
			}
		}
		return nil
	case html.ElementNode:
		raw := &blocktree.RawNode{
			Tag:     tagName(n),
			Classes: classes(n),
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := Convert(c); child != nil {
				raw.Children = append(raw.Children, child)
			}
		}
		return raw
	case html.TextNode:
		return &blocktree.RawNode{Text: n.Data}
	}
	return nil
}

// tagName returns the lowercase element name, preferring the interned
// atom when the tokenizer recognized the tag.
func tagName(n *html.Node) string {
	if n.DataAtom != 0 {
		return n.DataAtom.String()
	}
	return strings.ToLower(n.Data)
}

func classes(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, "class") {
			return strings.Fields(a.Val)
		}
	}
	return nil
}
