// Package etree provides a blocktree.Parser for XML and strict XHTML
// documents, backed by beevik/etree. Unlike the html parser it does not
// repair malformed input, which makes it the right choice for feeds and
// XML exports where silent repair would hide data problems.
package etree

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/factex/blocktree"
)

// Ensure Parser implements blocktree.Parser at compile time.
var _ blocktree.Parser = (*Parser)(nil)

// Parser parses XML documents. The zero value is ready to use.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses markup into a raw tree rooted at the document element.
// Returns EINVALID for unparseable input or a document without a root
// element.
func (p *Parser) Parse(markup []byte) (*blocktree.RawNode, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(markup); err != nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "parse xml: %v", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, blocktree.Errorf(blocktree.EINVALID, "document has no root element")
	}
	return convert(root), nil
}

func convert(e *etree.Element) *blocktree.RawNode {
	raw := &blocktree.RawNode{
		Tag:     strings.ToLower(e.Tag),
		Classes: classes(e),
	}
	for _, tok := range e.Child {
		switch c := tok.(type) {
		case *etree.Element:
			raw.Children = append(raw.Children, convert(c))
		case *etree.CharData:
			raw.Children = append(raw.Children, &blocktree.RawNode{Text: c.Data})
		}
	}
	return raw
}

func classes(e *etree.Element) []string {
	if v := e.SelectAttrValue("class", ""); v != "" {
		return strings.Fields(v)
	}
	return nil
}
