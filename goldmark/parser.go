// Package goldmark provides a Markdown blocktree.Parser. Markdown nodes
// map onto the HTML element names they would render to, so trees built
// from the Markdown and HTML versions of a page stay comparable for
// subtraction and clustering.
package goldmark

import (
	"strconv"
	"strings"

	"github.com/factex/blocktree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Ensure Parser implements blocktree.Parser at compile time.
var _ blocktree.Parser = (*Parser)(nil)

// Parser parses CommonMark documents.
type Parser struct {
	parser parser.Parser
}

// NewParser creates a new Parser with goldmark's default CommonMark
// configuration.
func NewParser() *Parser {
	return &Parser{parser: goldmark.DefaultParser()}
}

// Parse parses markup into a raw tree rooted at a "document" element.
// CommonMark has no unparseable inputs, so Parse only fails on an empty
// conversion result, which it reports as a document without content
// rather than an error.
func (p *Parser) Parse(markup []byte) (*blocktree.RawNode, error) {
	doc := p.parser.Parse(text.NewReader(markup))
	raw := convert(doc, markup)
	if raw == nil {
		raw = &blocktree.RawNode{Tag: "document"}
	}
	return raw, nil
}

func convert(n ast.Node, src []byte) *blocktree.RawNode {
	switch v := n.(type) {
	case *ast.Text:
		return &blocktree.RawNode{Text: string(v.Segment.Value(src))}
	case *ast.String:
		return &blocktree.RawNode{Text: string(v.Value)}
	case *ast.AutoLink:
		return &blocktree.RawNode{
			Tag:      "a",
			Children: []*blocktree.RawNode{{Text: string(v.Label(src))}},
		}
	case *ast.FencedCodeBlock:
		return codeBlock(v, src)
	case *ast.CodeBlock:
		return codeBlock(v, src)
	}

	tag := tagFor(n)
	if tag == "" {
		return nil
	}
	raw := &blocktree.RawNode{Tag: tag}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if child := convert(c, src); child != nil {
			raw.Children = append(raw.Children, child)
		}
	}
	return raw
}

// codeBlock flattens a code block's lines into one text run under a pre
// element, since goldmark stores block code as raw segments rather than
// child text nodes.
func codeBlock(n interface{ Lines() *text.Segments }, src []byte) *blocktree.RawNode {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return &blocktree.RawNode{
		Tag:      "pre",
		Children: []*blocktree.RawNode{{Text: b.String()}},
	}
}

// tagFor maps a goldmark node kind to the HTML element it renders to.
// Kinds with no text-bearing rendering map to the empty string and are
// dropped.
func tagFor(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Document:
		return "document"
	case *ast.Heading:
		return "h" + strconv.Itoa(v.Level)
	case *ast.Paragraph:
		return "p"
	case *ast.TextBlock:
		// tight list items carry their text in a TextBlock
		return "p"
	case *ast.Blockquote:
		return "blockquote"
	case *ast.List:
		if v.IsOrdered() {
			return "ol"
		}
		return "ul"
	case *ast.ListItem:
		return "li"
	case *ast.Link:
		return "a"
	case *ast.Emphasis:
		if v.Level >= 2 {
			return "strong"
		}
		return "em"
	case *ast.CodeSpan:
		return "code"
	}
	return ""
}
