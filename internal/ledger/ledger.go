// Package ledger persists the set of already-archived URLs.
//
// The backing store is a plain text log, one URL per line, UTF-8, append-only.
// The ledger is the single source of truth for "already archived" within a
// run and assumes a single writer per process. Callers intending concurrent
// invocations must add an exclusive lock around the load-then-append
// sequence; the current design does not take one.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Ledger holds the in-memory URL set mirroring the log file.
type Ledger struct {
	path string
	seen map[string]struct{}
}

// Open reads the log at path, if present, and returns a loaded ledger.
// A missing file is an empty ledger, not an error. Blank lines are skipped;
// every other line is taken verbatim as one URL.
func Open(path string) (*Ledger, error) {
	l := &Ledger{path: path, seen: make(map[string]struct{})}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return l, nil
		}
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		l.seen[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ledger: read %s: %w", path, err)
	}

	return l, nil
}

// Contains reports whether url has already been archived.
func (l *Ledger) Contains(url string) bool {
	_, ok := l.seen[url]
	return ok
}

// Record marks url as archived: it is added to the in-memory set and
// appended to the log. Call only after a successful archive so the log
// never claims more than was actually done.
func (l *Ledger) Record(url string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("ledger: append %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(url + "\n"); err != nil {
		return fmt.Errorf("ledger: append %s: %w", l.path, err)
	}

	l.seen[url] = struct{}{}
	return nil
}

// Len returns the number of recorded URLs.
func (l *Ledger) Len() int {
	return len(l.seen)
}
