package mock

import "github.com/factex/blocktree"

var _ blocktree.Parser = (*Parser)(nil)

// Parser is a mock implementation of blocktree.Parser.
type Parser struct {
	ParseFn func(markup []byte) (*blocktree.RawNode, error)
}

func (p *Parser) Parse(markup []byte) (*blocktree.RawNode, error) {
	return p.ParseFn(markup)
}
