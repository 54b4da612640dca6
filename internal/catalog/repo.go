package catalog

import (
	"database/sql"
	"fmt"
	"time"
)

// Page represents a row in the pages table.
type Page struct {
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	Checksum   string    `json:"checksum,omitempty"`
	ArchivedAt time.Time `json:"archived_at"`
}

// InsertPage inserts or replaces the record for one archived page.
// Re-archiving the same URL (e.g. after a manual ledger reset) overwrites
// the previous row.
func (db *DB) InsertPage(p Page) error {
	if p.ArchivedAt.IsZero() {
		p.ArchivedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO pages (url, title, filename, checksum, archived_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title       = excluded.title,
			filename    = excluded.filename,
			checksum    = excluded.checksum,
			archived_at = excluded.archived_at
	`, p.URL, p.Title, p.Filename, p.Checksum, p.ArchivedAt)
	if err != nil {
		return fmt.Errorf("catalog: insert page: %w", err)
	}
	return nil
}

// GetPage returns the record for url, or nil when it was never archived.
func (db *DB) GetPage(url string) (*Page, error) {
	var p Page
	err := db.conn.QueryRow(`
		SELECT url, title, filename, checksum, archived_at
		FROM pages WHERE url = ?
	`, url).Scan(&p.URL, &p.Title, &p.Filename, &p.Checksum, &p.ArchivedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get page: %w", err)
	}
	return &p, nil
}

// ListPages returns a page of records ordered newest first, plus the total count.
func (db *DB) ListPages(limit, offset int) ([]Page, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count pages: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT url, title, filename, checksum, archived_at
		FROM pages
		ORDER BY archived_at DESC, url
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list pages: %w", err)
	}
	defer rows.Close()

	out, err := scanPages(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SearchPages returns records whose URL or title contains query.
// Titles and URLs are short, so a LIKE scan is sufficient here.
func (db *DB) SearchPages(query string, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT url, title, filename, checksum, archived_at
		FROM pages
		WHERE url LIKE ? OR title LIKE ?
		ORDER BY archived_at DESC
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search pages: %w", err)
	}
	defer rows.Close()

	return scanPages(rows)
}

func scanPages(rows *sql.Rows) ([]Page, error) {
	var out []Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.URL, &p.Title, &p.Filename, &p.Checksum, &p.ArchivedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
