package cliconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/EmbeddedEvery/matrix-gui/pkg/log"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`device_name = "ONE"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan FileConfig, 1)
	w := NewWatcher(path, func(fc FileConfig) {
		select {
		case reloaded <- fc:
		default:
		}
	}, log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Give the watcher a moment to install before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`device_name = "TWO"`), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case fc := <-reloaded:
		if fc.DeviceName != "TWO" {
			t.Errorf("reloaded DeviceName = %q, want TWO", fc.DeviceName)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`device_name = "ONE"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan FileConfig, 1)
	w := NewWatcher(path, func(fc FileConfig) { reloaded <- fc }, log.NewNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}

	select {
	case <-reloaded:
		t.Error("reload triggered by unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_EmptyPathIsNoop(t *testing.T) {
	w := NewWatcher("", func(FileConfig) {}, log.NewNoopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() with empty path did not return")
	}
}
