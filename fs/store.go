package fs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/factex/blocktree"
)

// Ensure FileStore implements blocktree.ExtractionWriter at compile time.
var _ blocktree.ExtractionWriter = (*FileStore)(nil)

// FileStore writes a batch of extractions with atomic update semantics.
// Extractions are saved to a temporary directory, then moved into place
// on Commit, so readers never see a half-written batch.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore. baseDir is the parent directory,
// name is the output directory name. Files are saved to baseDir/name.tmp
// and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// WriteExtraction writes an extraction into the pending batch.
func (s *FileStore) WriteExtraction(ctx context.Context, ex *blocktree.Extraction) error {
	if err := ex.Validate(); err != nil {
		return err
	}
	if ex.ExtractedAt.IsZero() {
		ex.ExtractedAt = time.Now().UTC()
	}

	relPath, err := URLToPath(ex.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatExtraction(ex)), 0644)
}

// Commit replaces the output directory with the pending batch.
func (s *FileStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the pending batch.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
