package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestWatcher_CallsBackOnWrite(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "commands.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(script, []byte("LIST\n"), 0o644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changes := make(chan string, 4)
	errc := make(chan error, 1)
	watcher := NewWatcher(zerolog.Nop()).WithDelay(20 * time.Millisecond)
	go func() {
		errc <- watcher.Watch(ctx, []string{script}, func(path string) error {
			changes <- path
			return nil
		})
	}()

	// give the watcher time to register
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(other, []byte("ignored\n"), 0o644); err != nil {
		t.Fatalf("Failed to write other file: %v", err)
	}
	if err := os.WriteFile(script, []byte("INSTALL A\nEND\n"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite script: %v", err)
	}

	select {
	case path := <-changes:
		if path != script {
			t.Errorf("Expected change on %s, got %s", script, path)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for change notification")
	}

	cancel()
	if err := <-errc; err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "commands.txt")

	err := NewWatcher(zerolog.Nop()).Watch(context.Background(), []string{missing}, func(string) error {
		return nil
	})
	if err == nil {
		t.Fatal("Expected an error for an unwatchable directory")
	}
}
