// Package dispatch orchestrates one archive run over a decoded bookmark tree.
package dispatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/starford/raido/internal/archiver"
	"github.com/starford/raido/internal/bookmarks"
	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/ledger"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/status"
)

// timestampLayout matches the filename timestamp, whole seconds.
const timestampLayout = "2006-01-02_15-04-05"

// maxTitleLen bounds the sanitized title in output filenames.
const maxTitleLen = 100

// Dispatcher runs the select → archive → record loop for one folder.
// Ledger and Archiver are required; Catalog, Reporter, Logger and Now are
// optional and default to no catalog, no reporting, slog.Default and
// time.Now.
type Dispatcher struct {
	Folder   string
	DestDir  string
	Ledger   *ledger.Ledger
	Archiver archiver.Archiver
	Catalog  catalog.PageCatalog
	Reporter status.Reporter
	Logger   *slog.Logger
	Now      func() time.Time
}

// Run archives every URL in the configured folder that the ledger does not
// already contain, one at a time, in extraction order.
//
// A missing folder is reported through the summary, not an error. Per-URL
// archiver failures are logged and counted but never abort the batch; the
// URL stays unrecorded so the next run retries it. Context cancellation is
// honored at each iteration boundary, after the in-flight attempt finishes.
func (d *Dispatcher) Run(ctx context.Context, root *models.BookmarkNode) (models.RunSummary, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	var reporter status.Reporter = nopReporter{}
	if d.Reporter != nil {
		reporter = d.Reporter
	}

	reporter.RunStarted(d.Folder)

	var summary models.RunSummary

	folder := bookmarks.FindFolder(root, d.Folder)
	if folder == nil {
		logger.Warn("bookmark folder not found", slog.String("folder", d.Folder))
		reporter.RunFinished(summary)
		return summary, nil
	}
	summary.FolderFound = true

	records := bookmarks.ExtractURLs(folder)
	summary.Found = len(records)

	// Order-preserving set difference against the ledger.
	fresh := records[:0:0]
	for _, rec := range records {
		if !d.Ledger.Contains(rec.URL) {
			fresh = append(fresh, rec)
		}
	}
	summary.New = len(fresh)

	if len(fresh) == 0 {
		logger.Info("no new URLs to archive", slog.Int("found", summary.Found))
		reporter.RunFinished(summary)
		return summary, nil
	}

	for _, rec := range fresh {
		if ctx.Err() != nil {
			logger.Info("run stopped", slog.String("reason", ctx.Err().Error()))
			break
		}

		filename := OutputFilename(now(), rec.Title)
		dest := filepath.Join(d.DestDir, filename)

		logger.Info("archiving", slog.String("url", rec.URL), slog.String("title", rec.Title))
		summary.Attempted++

		if err := d.Archiver.Archive(ctx, rec.URL, dest); err != nil {
			summary.Failed++
			logger.Warn("archive failed",
				slog.String("url", rec.URL),
				slog.String("error", err.Error()))
			reporter.PageFailed(rec, err)
			continue
		}

		// Record only after success. A ledger write failure aborts the run.
		if err := d.Ledger.Record(rec.URL); err != nil {
			reporter.RunFinished(summary)
			return summary, err
		}
		summary.Succeeded++

		d.catalogPage(logger, rec, filename, dest)
		reporter.PageArchived(rec, filename)
	}

	reporter.RunFinished(summary)
	return summary, nil
}

// catalogPage records a successful archive in the catalog, best-effort.
func (d *Dispatcher) catalogPage(logger *slog.Logger, rec models.URLRecord, filename, dest string) {
	if d.Catalog == nil {
		return
	}
	var sum string
	if data, err := os.ReadFile(dest); err == nil {
		sum = checksum.Sum(data)
	}
	if err := d.Catalog.InsertPage(catalog.Page{
		URL:      rec.URL,
		Title:    rec.Title,
		Filename: filename,
		Checksum: sum,
	}); err != nil {
		logger.Warn("catalog insert failed",
			slog.String("url", rec.URL),
			slog.String("error", err.Error()))
	}
}

// OutputFilename builds the deterministic destination name
// "<timestamp>_<sanitized-title>.html" for one archive attempt.
func OutputFilename(ts time.Time, title string) string {
	return ts.Format(timestampLayout) + "_" + SanitizeTitle(title) + ".html"
}

// SanitizeTitle maps every rune that is not a letter, digit, space, hyphen
// or underscore to a hyphen and truncates the result to 100 runes. An empty
// title becomes "untitled".
func SanitizeTitle(title string) string {
	if title == "" {
		title = "untitled"
	}

	var b strings.Builder
	n := 0
	for _, r := range title {
		if n == maxTitleLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
		n++
	}
	return b.String()
}

type nopReporter struct{}

func (nopReporter) RunStarted(string)                     {}
func (nopReporter) PageArchived(models.URLRecord, string) {}
func (nopReporter) PageFailed(models.URLRecord, error)    {}
func (nopReporter) RunFinished(models.RunSummary)         {}
