package mock

import "github.com/factex/blocktree"

var _ blocktree.Converter = (*Converter)(nil)

// Converter is a mock implementation of blocktree.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
