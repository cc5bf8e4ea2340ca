package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// MaxFetchBytes caps how much a URL load reads.
const MaxFetchBytes = 256 << 20

const fetchTimeout = 60 * time.Second

var (
	// ErrUnsupportedScheme is returned for URLs other than http and https.
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	// ErrTooLarge is returned when a fetched body exceeds MaxFetchBytes.
	ErrTooLarge = errors.New("audio exceeds size limit")
)

var httpClient = &http.Client{Timeout: fetchTimeout}

// Source is audio loaded into memory.
type Source struct {
	// Name is a display name: the file name or the last URL path segment.
	Name string
	Ext  string
	Data []byte
}

// Size returns the byte length of the loaded audio.
func (s Source) Size() int64 { return int64(len(s.Data)) }

// IsURL returns true if the argument looks like a URL.
func IsURL(arg string) bool {
	arg = strings.ToLower(strings.TrimSpace(arg))
	return strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://")
}

// Load reads a local file or fetches an http(s) URL.
func Load(ctx context.Context, arg string) (Source, error) {
	if IsURL(arg) {
		return fetch(ctx, arg)
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return Source{}, fmt.Errorf("reading %s: %w", arg, err)
	}
	return Source{
		Name: filepath.Base(arg),
		Ext:  ExtOf(arg),
		Data: data,
	}, nil
}

func fetch(ctx context.Context, rawURL string) (Source, error) {
	normalized, err := normalizeAndValidateURL(rawURL)
	if err != nil {
		return Source{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return Source{}, err
	}
	req.Header.Set("User-Agent", "wavy")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Source{}, fmt.Errorf("fetching %s: %w", normalized, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Source{}, fmt.Errorf("fetching %s: %s", normalized, resp.Status)
	}
	if resp.ContentLength > MaxFetchBytes {
		return Source{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxFetchBytes+1))
	if err != nil {
		return Source{}, fmt.Errorf("reading %s: %w", normalized, err)
	}
	if len(data) > MaxFetchBytes {
		return Source{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxFetchBytes)
	}

	finalURL := normalized
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	name, ext := urlName(finalURL)
	if ext == "" {
		ext = extFromContentType(resp.Header.Get("Content-Type"))
	}
	return Source{Name: name, Ext: ext, Data: data}, nil
}

// normalizeAndValidateURL trims whitespace and quotes and checks the scheme.
func normalizeAndValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", raw)
	}
	return parsed.String(), nil
}

func urlName(rawURL string) (string, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, ""
	}
	base := path.Base(parsed.Path)
	if base == "/" || base == "." {
		return parsed.Host, ""
	}
	return base, strings.ToLower(path.Ext(base))
}

func extFromContentType(contentType string) string {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch contentType {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return ".wav"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	case "audio/ogg", "application/ogg", "audio/vorbis":
		return ".ogg"
	}
	return ""
}
