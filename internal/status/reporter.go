// Package status defines the run progress reporting boundary.
//
// The core emits a run-start event and a run-summary event at minimum;
// per-URL events are emitted as well so richer consumers (SSE clients,
// external wrappers) can republish live progress.
package status

import (
	"log/slog"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/sse"
)

// Reporter consumes progress events from the dispatcher.
type Reporter interface {
	RunStarted(folder string)
	PageArchived(rec models.URLRecord, filename string)
	PageFailed(rec models.URLRecord, err error)
	RunFinished(s models.RunSummary)
}

// Log reports progress through slog.
type Log struct {
	Logger *slog.Logger
}

func (l *Log) RunStarted(folder string) {
	l.Logger.Info("run started", slog.String("folder", folder))
}

func (l *Log) PageArchived(rec models.URLRecord, filename string) {
	l.Logger.Info("archived",
		slog.String("url", rec.URL),
		slog.String("title", rec.Title),
		slog.String("filename", filename))
}

func (l *Log) PageFailed(rec models.URLRecord, err error) {
	l.Logger.Warn("archive failed",
		slog.String("url", rec.URL),
		slog.String("error", err.Error()))
}

func (l *Log) RunFinished(s models.RunSummary) {
	if !s.FolderFound {
		l.Logger.Warn("bookmark folder not found")
		return
	}
	l.Logger.Info("run finished",
		slog.Int("found", s.Found),
		slog.Int("new", s.New),
		slog.Int("succeeded", s.Succeeded),
		slog.Int("failed", s.Failed))
}

// Broker republishes progress as SSE events.
type Broker struct {
	B *sse.Broker
}

func (b *Broker) RunStarted(folder string) {
	b.B.Publish(sse.Event{Type: "run.started", Data: map[string]string{"folder": folder}})
}

func (b *Broker) PageArchived(rec models.URLRecord, filename string) {
	b.B.Publish(sse.Event{Type: "page.archived", Data: map[string]string{
		"url":      rec.URL,
		"title":    rec.Title,
		"filename": filename,
	}})
}

func (b *Broker) PageFailed(rec models.URLRecord, err error) {
	b.B.Publish(sse.Event{Type: "page.failed", Data: map[string]string{
		"url":   rec.URL,
		"error": err.Error(),
	}})
}

func (b *Broker) RunFinished(s models.RunSummary) {
	b.B.Publish(sse.Event{Type: "run.summary", Data: s})
}

// Fanout forwards every event to each wrapped reporter, in order.
type Fanout []Reporter

func (f Fanout) RunStarted(folder string) {
	for _, r := range f {
		r.RunStarted(folder)
	}
}

func (f Fanout) PageArchived(rec models.URLRecord, filename string) {
	for _, r := range f {
		r.PageArchived(rec, filename)
	}
}

func (f Fanout) PageFailed(rec models.URLRecord, err error) {
	for _, r := range f {
		r.PageFailed(rec, err)
	}
}

func (f Fanout) RunFinished(s models.RunSummary) {
	for _, r := range f {
		r.RunFinished(s)
	}
}
