package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeFixtureWAV(t *testing.T, dir string, samples []int) string {
	t.Helper()

	path := filepath.Join(dir, "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	enc := wav.NewEncoder(f, 8000, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 8000},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestRenderWritesPNGAndDebugText(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	in := writeFixtureWAV(t, dir, []int{6553, -26214, 16384, 0, 3276, -3276})
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"render", "-group", "2", "-width", "300", "-height", "100", "-o", out, in}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v (stderr %q)", err, stderr.String())
	}

	text := stdout.String()
	for _, want := range []string{"Waveform samples: 3", "Value range: -0.8000 to 0.5000", "Wrote " + out} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 100 {
		t.Fatalf("expected 300x100 image, got %v", b)
	}
}

func TestRenderLogBarsGrowsImage(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	in := writeFixtureWAV(t, dir, make([]int, 40))
	out := filepath.Join(dir, "bars.png")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"render", "-mode", "logbars", "-group", "4", "-o", out, in}, &stdout, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	// 10 groups of 4 samples at a 25px pitch.
	if cfg.Width != 250 {
		t.Fatalf("expected grown width 250, got %d", cfg.Width)
	}
}

func TestRenderTooWideSuggestsClamp(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	in := writeFixtureWAV(t, dir, make([]int, 2000))
	out := filepath.Join(dir, "wide.png")

	err := run(context.Background(), []string{"render", "-mode", "logbars", "-group", "1", "-o", out, in}, &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "-policy clamp") {
		t.Fatalf("expected a too-wide error with a hint, got %v", err)
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Fatal("expected no PNG for a truncated layout")
	}

	err = run(context.Background(), []string{"render", "-mode", "logbars", "-policy", "clamp", "-group", "1", "-o", out, in}, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("clamped render unexpected error: %v", err)
	}
}

func TestRenderDefaultOutputName(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	in := writeFixtureWAV(t, dir, []int{100, 200, 300})

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(oldWD)

	if err := run(context.Background(), []string{"render", in}, &bytes.Buffer{}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "fixture.png")); err != nil {
		t.Fatalf("expected fixture.png: %v", err)
	}
}

func TestRenderSilentFileFails(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	in := writeFixtureWAV(t, dir, nil)

	var stdout bytes.Buffer
	err := run(context.Background(), []string{"render", "-o", filepath.Join(dir, "x.png"), in}, &stdout, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected an error for audio without samples")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "x.png")); statErr == nil {
		t.Fatal("expected no PNG for an empty waveform")
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := [][]string{
		{"render"},
		{"render", txt},
		{"render", dir},
		{"render", filepath.Join(dir, "missing.wav")},
		{"render", "-mode", "sparkle", txt},
	}
	for _, args := range cases {
		if err := run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
			t.Fatalf("run(%v) expected error", args)
		}
	}
}

func TestHelpPrintsUsage(t *testing.T) {
	var stderr bytes.Buffer
	if err := run(context.Background(), []string{"-h"}, &bytes.Buffer{}, &stderr); err != nil {
		t.Fatalf("run(-h) error = %v", err)
	}
	if !strings.Contains(stderr.String(), "wavy render") || !strings.Contains(stderr.String(), "-group") {
		t.Fatalf("unexpected usage text:\n%s", stderr.String())
	}
}
