package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWatch_TriggersOnNewBackup(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int32
	go Watch(ctx, dir, 50*time.Millisecond, quietLogger(), func() {
		triggers.Add(1)
	})

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "bookmarks-2025-03-09.jsonlz4")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		return triggers.Load() >= 1
	}, "expected a trigger after backup write")
}

func TestWatch_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int32
	go Watch(ctx, dir, 150*time.Millisecond, quietLogger(), func() {
		triggers.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	// Several rapid writes should coalesce into a single trigger.
	path := filepath.Join(dir, "bookmarks-2025-03-09.jsonlz4")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	eventually(t, 2*time.Second, 20*time.Millisecond, func() bool {
		return triggers.Load() >= 1
	}, "expected a trigger after burst")

	// Allow any stray timer to fire, then check it stayed at one.
	time.Sleep(300 * time.Millisecond)
	if got := triggers.Load(); got != 1 {
		t.Errorf("triggers = %d, want 1", got)
	}
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var triggers atomic.Int32
	go Watch(ctx, dir, 50*time.Millisecond, quietLogger(), func() {
		triggers.Add(1)
	})

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if got := triggers.Load(); got != 0 {
		t.Errorf("triggers = %d, want 0 for unrelated file", got)
	}
}
