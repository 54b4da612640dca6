// Package testutil provides shared test helpers for catalogs, ledgers and backup fixtures.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/backup"
	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/ledger"
	"github.com/starford/raido/internal/models"
)

// TestCatalog creates a temporary SQLite catalog that is automatically cleaned up.
func TestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestLedger creates a ledger backed by a file in a temp directory.
func TestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	led, err := ledger.Open(filepath.Join(t.TempDir(), "processed_urls.log"))
	if err != nil {
		t.Fatal(err)
	}
	return led
}

// SampleTree builds a bookmark tree with a "Travel" folder nested three
// levels deep containing two places and one subfolder.
func SampleTree() *models.BookmarkNode {
	return &models.BookmarkNode{
		Type:  models.TypeContainer,
		Title: "",
		Children: []models.BookmarkNode{
			{
				Type:  models.TypeContainer,
				Title: "menu",
				Children: []models.BookmarkNode{
					{
						Type:  models.TypeContainer,
						Title: "Projects",
						Children: []models.BookmarkNode{
							{
								Type:  models.TypeContainer,
								Title: "Travel",
								Children: []models.BookmarkNode{
									{Type: models.TypePlace, Title: "Alps", URI: "https://alps.example"},
									{
										Type:  models.TypeContainer,
										Title: "Drafts",
										Children: []models.BookmarkNode{
											{Type: models.TypePlace, Title: "Hidden", URI: "https://hidden.example"},
										},
									},
									{Type: models.TypePlace, URI: "https://sea.example"},
								},
							},
						},
					},
				},
			},
			{Type: models.TypePlace, Title: "Toolbar link", URI: "https://toolbar.example"},
		},
	}
}

// WriteBackup writes node into dir under name, compressed when the name
// ends in .jsonlz4, and returns the matching BackupFile descriptor.
func WriteBackup(t *testing.T, dir, name string, node *models.BookmarkNode) models.BackupFile {
	t.Helper()
	path := filepath.Join(dir, name)
	compressed := filepath.Ext(name) == ".jsonlz4"

	if compressed {
		if err := backup.EncodeFile(path, node); err != nil {
			t.Fatalf("encode backup: %v", err)
		}
	} else {
		raw, err := json.Marshal(node)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return models.BackupFile{Path: path, ModTime: info.ModTime(), Compressed: compressed}
}
