// Package decoder turns encoded audio into an amplitude envelope.
//
// The envelope holds one signed peak per group of mono samples, in [-1, 1].
// Line renders plot it as is; bar renders use its magnitude.
package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultGroupSize is used when no usable group size is given.
const DefaultGroupSize = 1024

// chunkFrames is how many mono samples are pulled per read.
const chunkFrames = 4096

var (
	// ErrDecode marks malformed or unreadable audio.
	ErrDecode = errors.New("decode failed")
	// ErrUnsupportedFormat marks audio no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrGroupSize marks a group size below 1.
	ErrGroupSize = errors.New("group size must be at least 1")
)

// Option configures Decode.
type Option func(*options)

type options struct {
	progress func(float64)
}

// WithProgress reports the share of the input consumed after every chunk.
func WithProgress(fn func(float64)) Option {
	return func(o *options) { o.progress = fn }
}

// Decode decodes data, picking the format from ext (".wav", ".mp3",
// ".flac" or ".ogg"), and reduces it to one signed peak per groupSize
// mono samples. A trailing partial group still yields a peak. Audio with
// no samples decodes to an empty envelope without error.
func Decode(ctx context.Context, data []byte, ext string, groupSize int, opts ...Option) ([]float64, error) {
	if groupSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrGroupSize, groupSize)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	counter := newCountingReader(data)
	src, err := newSource(ext, counter)
	if err != nil {
		return nil, err
	}

	g := newPeakGrouper(groupSize)
	buf := make([]float64, chunkFrames)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := src.readMono(buf)
		g.push(buf[:n])
		if o.progress != nil {
			o.progress(counter.Fraction())
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}

	if o.progress != nil {
		o.progress(1)
	}
	return g.finish(), nil
}

// peakGrouper keeps the sample with the largest magnitude in each group,
// sign included.
type peakGrouper struct {
	size  int
	count int
	peak  float64
	out   []float64
}

func newPeakGrouper(size int) *peakGrouper {
	return &peakGrouper{size: size}
}

func (g *peakGrouper) push(samples []float64) {
	for _, v := range samples {
		if math.IsNaN(v) {
			v = 0
		}
		if g.count == 0 || math.Abs(v) > math.Abs(g.peak) {
			g.peak = v
		}
		g.count++
		if g.count == g.size {
			g.flush()
		}
	}
}

func (g *peakGrouper) flush() {
	g.out = append(g.out, math.Max(-1, math.Min(1, g.peak)))
	g.count = 0
	g.peak = 0
}

func (g *peakGrouper) finish() []float64 {
	if g.count > 0 {
		g.flush()
	}
	if g.out == nil {
		return []float64{}
	}
	return g.out
}
