package watch

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/d/a.pptx", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/d/a.PPTX", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/d/a.pptx", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/d/~$a.pptx", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		if got := relevant(tt.event); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestDue(t *testing.T) {
	now := time.Now()
	pending := map[string]time.Time{
		"/d/b.pptx": now.Add(-3 * time.Second),
		"/d/a.pptx": now.Add(-2 * time.Second),
		"/d/c.pptx": now.Add(-500 * time.Millisecond),
	}
	ready, wait := due(pending, now, 2*time.Second)
	if want := []string{"/d/a.pptx", "/d/b.pptx"}; !reflect.DeepEqual(ready, want) {
		t.Errorf("ready = %v, want %v", ready, want)
	}
	if wait != 1500*time.Millisecond {
		t.Errorf("wait = %v, want 1.5s", wait)
	}
	if len(pending) != 1 {
		t.Errorf("pending = %v", pending)
	}

	ready, wait = due(map[string]time.Time{}, now, time.Second)
	if ready != nil || wait != 0 {
		t.Errorf("due(empty) = %v, %v", ready, wait)
	}
}

func TestRunIngestsSettledFiles(t *testing.T) {
	dir := t.TempDir()
	got := make(chan []string, 4)
	w, err := New([]string{dir}, 50*time.Millisecond, func(_ context.Context, paths []string) error {
		got <- paths
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	target := filepath.Join(dir, "deck.pptx")
	os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644)
	os.WriteFile(target, []byte("one"), 0o644)
	os.WriteFile(target, []byte("two"), 0o644)

	select {
	case paths := <-got:
		if !reflect.DeepEqual(paths, []string{target}) {
			t.Errorf("ingested %v, want [%s]", paths, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ingest")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "nope")}, 0, nil, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
