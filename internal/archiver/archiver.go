// Package archiver defines the page-archiving capability and its implementations.
package archiver

import "context"

// Archiver saves the page at url into a self-contained file at dest.
// A non-nil error means the attempt failed and carries the diagnostic;
// the caller decides whether to continue with other URLs.
type Archiver interface {
	Archive(ctx context.Context, url, dest string) error
}
