package mock

import (
	"context"

	"github.com/factex/blocktree"
)

var _ blocktree.PageService = (*PageService)(nil)

// PageService is a mock implementation of blocktree.PageService.
type PageService struct {
	SavePageFn        func(ctx context.Context, page *blocktree.Page) error
	FindPageByURLFn   func(ctx context.Context, url string) (*blocktree.Page, error)
	FindPagesFn       func(ctx context.Context, filter blocktree.PageFilter) ([]*blocktree.Page, error)
	DeletePageByURLFn func(ctx context.Context, url string) error
}

func (s *PageService) SavePage(ctx context.Context, page *blocktree.Page) error {
	return s.SavePageFn(ctx, page)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*blocktree.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter blocktree.PageFilter) ([]*blocktree.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageService) DeletePageByURL(ctx context.Context, url string) error {
	return s.DeletePageByURLFn(ctx, url)
}
