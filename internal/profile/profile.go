// Package profile resolves the Firefox profile directory and selects the
// most recent bookmark backup inside it.
package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/starford/raido/internal/apperr"
)

// Locate returns the profile directory to read backups from.
//
// When explicit is non-empty it is returned as-is. Otherwise the default
// profile is resolved from profiles.ini under the Firefox root directory:
// the first section carrying Default=1 wins, with its Path resolved
// relative to the Firefox root unless IsRelative=0.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("profile: resolve home dir: %w", err)
	}
	return locateIn(filepath.Join(home, ".mozilla", "firefox"))
}

// locateIn resolves the default profile from the registry under firefoxDir.
func locateIn(firefoxDir string) (string, error) {
	if _, err := os.Stat(firefoxDir); err != nil {
		return "", fmt.Errorf("profile: firefox directory %s: %w", firefoxDir, apperr.ErrNotFound)
	}

	registry := filepath.Join(firefoxDir, "profiles.ini")
	if _, err := os.Stat(registry); err != nil {
		return "", fmt.Errorf("profile: registry %s: %w", registry, apperr.ErrNotFound)
	}

	f, err := ini.Load(registry)
	if err != nil {
		return "", fmt.Errorf("profile: parse %s: %w", registry, err)
	}

	for _, sec := range f.Sections() {
		if sec.Key("Default").String() != "1" {
			continue
		}
		path := sec.Key("Path").String()
		if path == "" {
			continue
		}
		if sec.Key("IsRelative").MustString("1") == "1" {
			return filepath.Join(firefoxDir, path), nil
		}
		return path, nil
	}

	return "", fmt.Errorf("profile: no default profile in %s: %w", registry, apperr.ErrNotFound)
}
