// Package media locates and reads the audio a waveform is drawn from.
package media

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/olivier-w/wavy/internal/decoder"
)

var audioExts = []string{".mp3", ".wav", ".flac", ".ogg"}

// IsSupportedExt returns true if a decoder exists for the extension.
func IsSupportedExt(ext string) bool {
	return decoder.Supported(ext)
}

// SupportedExtsList returns a human-readable list of supported formats.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}

// ExtOf returns the lowercased extension of a path or URL, ignoring any
// query string or fragment.
func ExtOf(name string) string {
	if IsURL(name) {
		if u, err := normalizeAndValidateURL(name); err == nil {
			if i := strings.IndexAny(u, "?#"); i >= 0 {
				u = u[:i]
			}
			return strings.ToLower(path.Ext(u))
		}
	}
	return strings.ToLower(filepath.Ext(name))
}
