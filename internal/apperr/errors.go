// Package apperr defines the sentinel errors shared across raido packages.
package apperr

import "errors"

var (
	// ErrNotFound marks a missing environment resource: the profile
	// directory, profiles.ini, a default profile section, the backup
	// directory, or any backup file.
	ErrNotFound = errors.New("not found")

	// ErrBadFormat marks an unreadable backup: bad magic number, failed
	// decompression, or malformed bookmark JSON.
	ErrBadFormat = errors.New("invalid container format")
)
