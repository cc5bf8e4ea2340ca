package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowserFileSelectionReturnsMessage(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"song.mp3": "data",
	})
	defer restore()

	m := NewBrowser(".")

	// URL entry, then "..", then the file.
	for i := 0; i < 2; i++ {
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = model.(BrowserModel)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}

	msg := cmd()
	selected, ok := msg.(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", msg)
	}
	if filepath.Base(selected.Path) != "song.mp3" || !filepath.IsAbs(selected.Path) {
		t.Fatalf("expected absolute path to song.mp3, got %q", selected.Path)
	}
}

func TestBrowserURLSelectionReturnsMessage(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewBrowser(".")
	m.urlMode = true
	m.input.SetValue("https://example.com/clip.wav")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected URL selection command")
	}

	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", cmd())
	}
	if selected.Path != "https://example.com/clip.wav" {
		t.Fatalf("expected URL path, got %q", selected.Path)
	}
}

func TestBrowserCancelReturnsMessage(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewBrowser(".")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(BrowserCancelledMsg); !ok {
		t.Fatalf("expected BrowserCancelledMsg, got %T", cmd())
	}
}

func TestBrowserListsOnlyDecodableFiles(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"a.wav":     "data",
		"b.flac":    "data",
		"c.ogg":     "data",
		"d.mp3":     "data",
		"track.m4a": "data",
		"notes.txt": "data",
	})
	defer restore()

	m := NewBrowser(".")

	var names []string
	for _, item := range m.list.Items() {
		if file, ok := item.(fileItem); ok {
			names = append(names, file.name+file.ext)
		}
	}
	want := []string{"a.wav", "b.flac", "c.ogg", "d.mp3"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestBrowserEntersDirectories(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"sub/inner.wav": "data",
	})
	defer restore()

	m := NewBrowser(".")
	var idx int
	for i, item := range m.list.Items() {
		if d, ok := item.(dirItem); ok && d.name == "sub" {
			idx = i
		}
	}
	if idx == 0 {
		t.Fatal("expected sub directory to be listed")
	}
	m.list.Select(idx)

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if filepath.Base(m.Dir()) != "sub" {
		t.Fatalf("expected to enter sub, got %q", m.Dir())
	}

	found := false
	for _, item := range m.list.Items() {
		if f, ok := item.(fileItem); ok && f.name == "inner" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected inner.wav in sub directory listing")
	}
}

func TestBrowserMissingDirectory(t *testing.T) {
	m := NewBrowser(filepath.Join(t.TempDir(), "missing"))
	if !m.HasError() {
		t.Fatal("expected error for missing directory")
	}
}

func chdirTemp(t *testing.T, files map[string]string) func() {
	t.Helper()

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp dir: %v", err)
	}

	return func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}
}
