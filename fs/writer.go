// Package fs writes extraction results to the filesystem.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/factex/blocktree"
)

// URLToPath converts a page URL to a relative markdown file path.
// Example: https://example.com/docs/api/users → docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		path += "index.md"
	} else {
		path += ".md"
	}

	// A path that climbs out of the output directory is an attack, not
	// a page address.
	if clean := filepath.Clean(path); clean == ".." || strings.HasPrefix(clean, "../") {
		return "", blocktree.Errorf(blocktree.EINVALID, "path traversal in URL %q", rawURL)
	}

	return path, nil
}

// FormatExtraction formats an extraction with YAML frontmatter, one
// blank line between text blocks.
func FormatExtraction(ex *blocktree.Extraction) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(ex.URL)
	b.WriteString("\nextracted: ")
	b.WriteString(ex.ExtractedAt.Format("2006-01-02"))
	b.WriteString("\nblocks: ")
	b.WriteString(strconv.Itoa(len(ex.Texts)))
	b.WriteString("\n---\n\n")
	b.WriteString(strings.Join(ex.Texts, "\n\n"))
	return b.String()
}

// Ensure Writer implements blocktree.ExtractionWriter at compile time.
var _ blocktree.ExtractionWriter = (*Writer)(nil)

// Writer writes extractions as markdown files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteExtraction writes an extraction to disk as a markdown file whose
// path mirrors the source URL.
func (w *Writer) WriteExtraction(ctx context.Context, ex *blocktree.Extraction) error {
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

	fullPath := filepath.Join(w.baseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatExtraction(ex)), 0644)
}
