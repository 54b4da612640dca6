package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// backupDirName is the fixed subdirectory Firefox writes snapshots into.
const backupDirName = "bookmarkbackups"

// LatestBackup picks the most recently modified bookmark backup in the
// profile's bookmarkbackups directory. Recognized extensions are .jsonlz4
// (compressed) and .json (plain). When two candidates share a modification
// time the lexicographically greatest filename wins; Firefox embeds the
// backup date in the name, so that is also the newest.
func LatestBackup(profileDir string) (models.BackupFile, error) {
	backupDir := filepath.Join(profileDir, backupDirName)

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return models.BackupFile{}, fmt.Errorf("profile: backup directory %s: %w", backupDir, apperr.ErrNotFound)
	}

	var best models.BackupFile
	found := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		compressed := strings.HasSuffix(name, ".jsonlz4")
		if !compressed && !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		cand := models.BackupFile{
			Path:       filepath.Join(backupDir, name),
			ModTime:    info.ModTime(),
			Compressed: compressed,
		}
		if !found || newer(cand, best) {
			best = cand
			found = true
		}
	}

	if !found {
		return models.BackupFile{}, fmt.Errorf("profile: no bookmark backups in %s: %w", backupDir, apperr.ErrNotFound)
	}
	return best, nil
}

// newer reports whether a should be preferred over b.
func newer(a, b models.BackupFile) bool {
	if !a.ModTime.Equal(b.ModTime) {
		return a.ModTime.After(b.ModTime)
	}
	return a.Path > b.Path
}
