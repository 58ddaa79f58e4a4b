package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/mindtower/pkg/document"
	"github.com/matzehuels/mindtower/pkg/editor"
	"github.com/matzehuels/mindtower/pkg/render"
)

func TestIsDocumentEvent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.json")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"write and chmod", fsnotify.Event{Name: path, Op: fsnotify.Write | fsnotify.Chmod}, true},
		{"unclean path", fsnotify.Event{Name: dir + "/./map.json", Op: fsnotify.Write}, true},
		{"chmod only", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "map.svg"), Op: fsnotify.Write}, false},
		{"editor swap file", fsnotify.Event{Name: path + ".swp", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDocumentEvent(tt.event, path); got != tt.want {
				t.Errorf("isDocumentEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

// writeSeed writes a seed document whose main idea is labeled title.
func writeSeed(t *testing.T, path, title string) {
	t.Helper()
	ed := editor.New(editor.Options{})
	ed.SetLabel("root", title)
	if err := document.WriteFile(path, ed.Snapshot()); err != nil {
		t.Fatal(err)
	}
}

func TestRunWatchInitialRender(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "map.json")
	output := filepath.Join(dir, "map.svg")
	writeSeed(t, input, "Garden")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(io.Discard, LogInfo)
	opts := renderOpts{output: output, format: render.FormatSVG, engine: engineNative}
	if err := c.runWatch(ctx, input, opts, time.Millisecond); err != nil {
		t.Fatalf("runWatch: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("initial render not written: %v", err)
	}
	if !strings.Contains(string(data), "Garden") {
		t.Error("rendered svg is missing the main idea")
	}
}

func TestRunWatchRerendersOnChange(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "map.json")
	output := filepath.Join(dir, "map.svg")
	writeSeed(t, input, "Before")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(io.Discard, LogInfo)
	opts := renderOpts{output: output, format: render.FormatSVG, engine: engineNative}
	done := make(chan error, 1)
	go func() { done <- c.runWatch(ctx, input, opts, 10*time.Millisecond) }()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			if data, err := os.ReadFile(output); err == nil && strings.Contains(string(data), want) {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
		t.Fatalf("output never contained %q", want)
	}

	waitFor("Before")
	writeSeed(t, input, "After")
	waitFor("After")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runWatch: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not stop after cancel")
	}
}
