package mock

import (
	"context"

	"github.com/factex/blocktree"
)

var _ blocktree.ExtractionWriter = (*ExtractionWriter)(nil)

// ExtractionWriter is a mock implementation of blocktree.ExtractionWriter.
type ExtractionWriter struct {
	WriteExtractionFn func(ctx context.Context, ex *blocktree.Extraction) error
}

func (w *ExtractionWriter) WriteExtraction(ctx context.Context, ex *blocktree.Extraction) error {
	return w.WriteExtractionFn(ctx, ex)
}
