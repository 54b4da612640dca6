// Package models defines the domain types for raido.
package models

import "time"

// Bookmark node types as written by Firefox into backup snapshots.
// Opaque literals from the source ecosystem; never reinterpreted.
const (
	TypeContainer = "text/x-moz-place-container"
	TypePlace     = "text/x-moz-place"
)

// BookmarkNode is one node of a decoded bookmark tree. Place nodes carry a
// URI, container nodes carry children; other types are ignored.
type BookmarkNode struct {
	Type     string         `json:"type"`
	Title    string         `json:"title,omitempty"`
	URI      string         `json:"uri,omitempty"`
	Children []BookmarkNode `json:"children,omitempty"`
}

// BackupFile describes one candidate file in the bookmarkbackups directory.
type BackupFile struct {
	Path       string
	ModTime    time.Time
	Compressed bool
}

// URLRecord is one bookmark extracted from the target folder. URL is the
// identity key for deduplication.
type URLRecord struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// RunSummary holds the outcome counts of one dispatch run.
type RunSummary struct {
	FolderFound bool `json:"folder_found"`
	Found       int  `json:"found"`
	New         int  `json:"new"`
	Attempted   int  `json:"attempted"`
	Succeeded   int  `json:"succeeded"`
	Failed      int  `json:"failed"`
}
