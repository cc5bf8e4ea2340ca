package util

import (
	"testing"
	"time"
)

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		0:               "0 B",
		1023:            "1023 B",
		1024:            "1.0 KiB",
		1536:            "1.5 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Fatalf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(1500 * time.Millisecond); got != "1.500s" {
		t.Fatalf("FormatElapsed(1.5s) = %q", got)
	}
	if got := FormatElapsed(75 * time.Second); got != "1:15" {
		t.Fatalf("FormatElapsed(75s) = %q", got)
	}
	if got := FormatElapsed(-time.Second); got != "0.000s" {
		t.Fatalf("FormatElapsed(-1s) = %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename(` a/b:c*d?"e<f>g|h `); got != "abcdefgh" {
		t.Fatalf("SanitizeFilename() = %q", got)
	}
	if got := SanitizeFilename(" /:* "); got != "waveform" {
		t.Fatalf("SanitizeFilename() fallback = %q", got)
	}
}
