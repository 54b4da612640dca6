// Package catalog provides the SQLite-backed record of archived pages.
//
// The catalog is a queryable convenience layer for the status API and MCP
// tools; the append-only URL ledger remains the sole dedup authority.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	url         TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	filename    TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	archived_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pages_archived_at ON pages(archived_at);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// PageCatalog defines the catalog operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing.
type PageCatalog interface {
	InsertPage(p Page) error
	GetPage(url string) (*Page, error)
	ListPages(limit, offset int) ([]Page, int, error)
	SearchPages(query string, limit int) ([]Page, error)
	Close() error
}

// Verify *DB satisfies PageCatalog at compile time.
var _ PageCatalog = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
