package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/factex/blocktree"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ blocktree.PageService = (*PageService)(nil)

// PageService implements blocktree.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(content))
	return hex.EncodeToString(b[:])
}

// SavePage creates or replaces the cached page for its URL. The ID,
// content hash and fetch timestamp are filled in when missing.
func (s *PageService) SavePage(ctx context.Context, page *blocktree.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if page.FetchedAt.IsZero() {
		page.FetchedAt = time.Now().UTC()
	}
	page.ContentHash = hashContent(page.Body)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, url, body, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			body = excluded.body,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, page.ID, page.URL, page.Body, page.ContentHash, page.FetchedAt.Format(time.RFC3339))

	return err
}

// FindPageByURL retrieves the cached page for a URL.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*blocktree.Page, error) {
	var page blocktree.Page
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, body, content_hash, fetched_at
		FROM pages
		WHERE url = ?
	`, url).Scan(&page.ID, &page.URL, &page.Body, &page.ContentHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, blocktree.Errorf(blocktree.ENOTFOUND, "page not cached for %s", url)
	}
	if err != nil {
		return nil, err
	}

	page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// FindPages retrieves cached pages matching the filter, most recently
// fetched first.
func (s *PageService) FindPages(ctx context.Context, filter blocktree.PageFilter) ([]*blocktree.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, body, content_hash, fetched_at FROM pages WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.ContentHash != nil {
		query.WriteString(" AND content_hash = ?")
		args = append(args, *filter.ContentHash)
	}

	query.WriteString(" ORDER BY fetched_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*blocktree.Page
	for rows.Next() {
		var page blocktree.Page
		var fetchedAt string

		if err := rows.Scan(&page.ID, &page.URL, &page.Body, &page.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}

// DeletePageByURL removes the cached page for a URL.
func (s *PageService) DeletePageByURL(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return blocktree.Errorf(blocktree.ENOTFOUND, "page not cached for %s", url)
	}

	return nil
}
