package mock

import (
	"context"

	"github.com/factex/blocktree"
)

var _ blocktree.TemplateFinder = (*TemplateFinder)(nil)

// TemplateFinder is a mock implementation of blocktree.TemplateFinder.
type TemplateFinder struct {
	FindTemplatesFn func(ctx context.Context, primaryURL string, limit int) ([]string, error)
}

func (f *TemplateFinder) FindTemplates(ctx context.Context, primaryURL string, limit int) ([]string, error) {
	return f.FindTemplatesFn(ctx, primaryURL, limit)
}
