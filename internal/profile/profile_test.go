package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/apperr"
)

func writeRegistry(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "profiles.ini"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLocate_ExplicitPathWins(t *testing.T) {
	got, err := Locate("/some/profile")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != "/some/profile" {
		t.Errorf("dir = %q, want %q", got, "/some/profile")
	}
}

func TestLocateIn_DefaultRelativeProfile(t *testing.T) {
	dir := t.TempDir()
	writeRegistry(t, dir, `[General]
StartWithLastProfile=1

[Profile1]
Name=work
IsRelative=1
Path=work.profile

[Profile0]
Name=default
IsRelative=1
Path=abcd1234.default-release
Default=1
`)

	got, err := locateIn(dir)
	if err != nil {
		t.Fatalf("locateIn: %v", err)
	}
	want := filepath.Join(dir, "abcd1234.default-release")
	if got != want {
		t.Errorf("dir = %q, want %q", got, want)
	}
}

func TestLocateIn_AbsoluteProfile(t *testing.T) {
	dir := t.TempDir()
	writeRegistry(t, dir, `[Profile0]
Name=default
IsRelative=0
Path=/opt/ff/profile
Default=1
`)

	got, err := locateIn(dir)
	if err != nil {
		t.Fatalf("locateIn: %v", err)
	}
	if got != "/opt/ff/profile" {
		t.Errorf("dir = %q", got)
	}
}

func TestLocateIn_MissingIsRelativeDefaultsRelative(t *testing.T) {
	dir := t.TempDir()
	writeRegistry(t, dir, `[Profile0]
Path=p0
Default=1
`)

	got, err := locateIn(dir)
	if err != nil {
		t.Fatalf("locateIn: %v", err)
	}
	if got != filepath.Join(dir, "p0") {
		t.Errorf("dir = %q", got)
	}
}

func TestLocateIn_NoDefaultSection(t *testing.T) {
	dir := t.TempDir()
	writeRegistry(t, dir, `[Profile0]
Name=default
Path=p0
`)

	_, err := locateIn(dir)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLocateIn_MissingRegistry(t *testing.T) {
	_, err := locateIn(t.TempDir())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLocateIn_MissingFirefoxDir(t *testing.T) {
	_, err := locateIn(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestBackup_PicksNewest(t *testing.T) {
	profileDir := t.TempDir()
	backupDir := filepath.Join(profileDir, "bookmarkbackups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		t.Fatal(err)
	}

	old := filepath.Join(backupDir, "bookmarks-2024-01-01.jsonlz4")
	mid := filepath.Join(backupDir, "bookmarks-2024-06-01.json")
	newest := filepath.Join(backupDir, "bookmarks-2024-12-01.jsonlz4")
	ignored := filepath.Join(backupDir, "notes.txt")
	for _, p := range []string{old, mid, newest, ignored} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(mid, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newest, base.Add(2*time.Minute), base.Add(2*time.Minute)); err != nil {
		t.Fatal(err)
	}
	// The ignored extension is newest on disk but must not win.
	if err := os.Chtimes(ignored, base.Add(3*time.Minute), base.Add(3*time.Minute)); err != nil {
		t.Fatal(err)
	}

	bf, err := LatestBackup(profileDir)
	if err != nil {
		t.Fatalf("LatestBackup: %v", err)
	}
	if bf.Path != newest {
		t.Errorf("path = %q, want %q", bf.Path, newest)
	}
	if !bf.Compressed {
		t.Error("expected compressed backup")
	}
}

func TestLatestBackup_TieBrokenByName(t *testing.T) {
	profileDir := t.TempDir()
	backupDir := filepath.Join(profileDir, "bookmarkbackups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		t.Fatal(err)
	}

	a := filepath.Join(backupDir, "bookmarks-2024-01-01.jsonlz4")
	b := filepath.Join(backupDir, "bookmarks-2024-01-02.jsonlz4")
	ts := time.Now().Add(-time.Hour)
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, ts, ts); err != nil {
			t.Fatal(err)
		}
	}

	bf, err := LatestBackup(profileDir)
	if err != nil {
		t.Fatalf("LatestBackup: %v", err)
	}
	if bf.Path != b {
		t.Errorf("path = %q, want lexicographically greatest %q", bf.Path, b)
	}
}

func TestLatestBackup_MissingDir(t *testing.T) {
	_, err := LatestBackup(t.TempDir())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestBackup_NoCandidates(t *testing.T) {
	profileDir := t.TempDir()
	backupDir := filepath.Join(profileDir, "bookmarkbackups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(backupDir, "readme.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LatestBackup(profileDir)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
