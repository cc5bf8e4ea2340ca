package media

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds song information shown above the waveform.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// Label returns "Artist - Title", or just the title.
func (m Metadata) Label() string {
	if m.Artist == "" {
		return m.Title
	}
	return m.Artist + " - " + m.Title
}

// ReadMetadata reads ID3v2 tags from loaded audio, falling back to the
// source name.
func ReadMetadata(src Source) Metadata {
	if len(src.Data) > 0 {
		tag, err := id3v2.ParseReader(bytes.NewReader(src.Data), id3v2.Options{Parse: true})
		if err == nil {
			defer tag.Close()
			m := Metadata{
				Title:  strings.TrimSpace(tag.Title()),
				Artist: strings.TrimSpace(tag.Artist()),
				Album:  strings.TrimSpace(tag.Album()),
			}
			if m.Title != "" {
				return m
			}
		}
	}

	// Fallback: use filename without extension
	base := filepath.Base(src.Name)
	return Metadata{Title: strings.TrimSuffix(base, filepath.Ext(base))}
}
