package decoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// monoSource is implemented by all format-specific decoders. Channels are
// averaged into one sample per frame, scaled to [-1, 1].
type monoSource interface {
	readMono(dst []float64) (int, error)
}

// countingReader wraps an io.ReadSeeker and tracks how far into the input
// the decoder has read.
type countingReader struct {
	reader io.ReadSeeker
	total  int64
	pos    int64
	mu     sync.Mutex
}

func newCountingReader(data []byte) *countingReader {
	return &countingReader{reader: bytes.NewReader(data), total: int64(len(data))}
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := cr.reader.Seek(offset, whence)
	if err == nil {
		cr.mu.Lock()
		cr.pos = pos
		cr.mu.Unlock()
	}
	return pos, err
}

// Fraction returns the share of the input consumed so far.
func (cr *countingReader) Fraction() float64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.total <= 0 {
		return 1
	}
	f := float64(cr.pos) / float64(cr.total)
	if f > 1 {
		f = 1
	}
	return f
}

// Supported reports whether ext (with leading dot) has a decoder.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".mp3", ".wav", ".flac", ".ogg":
		return true
	}
	return false
}

// newSource picks a decoder by file extension.
func newSource(ext string, r *countingReader) (monoSource, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return newMP3Source(r)
	case ".wav":
		return newWAVSource(r)
	case ".flac":
		return newFLACSource(r)
	case ".ogg":
		return newOGGSource(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// --- MP3 decoder ---

// go-mp3 always produces 16-bit little-endian stereo.
const mp3FrameSize = 4

type mp3Source struct {
	dec *mp3.Decoder
	raw []byte
}

func newMP3Source(r io.ReadSeeker) (*mp3Source, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: mp3: %w", ErrDecode, err)
	}
	return &mp3Source{dec: dec}, nil
}

func (s *mp3Source) readMono(dst []float64) (int, error) {
	need := len(dst) * mp3FrameSize
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}
	raw := s.raw[:need]

	n, err := io.ReadFull(s.dec, raw)
	frames := n / mp3FrameSize
	for i := 0; i < frames; i++ {
		off := i * mp3FrameSize
		left := int16(binary.LittleEndian.Uint16(raw[off:]))
		right := int16(binary.LittleEndian.Uint16(raw[off+2:]))
		dst[i] = (float64(left) + float64(right)) / 2 / 32768
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return frames, err
}

// --- WAV decoder ---

const wavFormatFloat = 3

type wavSource struct {
	dec      *wav.Decoder
	buf      *audio.IntBuffer
	channels int
	bitDepth int
	float    bool
}

func newWAVSource(r io.ReadSeeker) (*wavSource, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid WAV file", ErrDecode)
	}

	// FwdToPCM positions the reader at the start of PCM data
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: reading WAV PCM data: %w", ErrDecode, err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels < 1 {
		return nil, fmt.Errorf("%w: WAV has %d channels", ErrDecode, channels)
	}
	isFloat := dec.WavAudioFormat == wavFormatFloat
	switch {
	case isFloat && bitDepth != 32:
		return nil, fmt.Errorf("%w: %d-bit float WAV", ErrUnsupportedFormat, bitDepth)
	case bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32:
		return nil, fmt.Errorf("%w: %d-bit WAV", ErrUnsupportedFormat, bitDepth)
	}

	return &wavSource{
		dec:      dec,
		buf:      &audio.IntBuffer{Format: dec.Format(), SourceBitDepth: bitDepth},
		channels: channels,
		bitDepth: bitDepth,
		float:    isFloat,
	}, nil
}

func (s *wavSource) readMono(dst []float64) (int, error) {
	need := len(dst) * s.channels
	if cap(s.buf.Data) < need {
		s.buf.Data = make([]int, need)
	}
	s.buf.Data = s.buf.Data[:need]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, fmt.Errorf("reading WAV samples: %w", err)
	}
	frames := n / s.channels
	if frames == 0 {
		return 0, io.EOF
	}

	scale := float64(int64(1) << (s.bitDepth - 1))
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < s.channels; ch++ {
			v := s.buf.Data[i*s.channels+ch]
			switch {
			case s.float:
				sum += float64(math.Float32frombits(uint32(int32(v))))
			case s.bitDepth == 8:
				// 8-bit WAV is unsigned
				sum += float64(v-128) / 128
			default:
				sum += float64(v) / scale
			}
		}
		dst[i] = sum / float64(s.channels)
	}
	return frames, nil
}

// --- FLAC decoder ---

type flacSource struct {
	stream  *flac.Stream
	pending []float64
	scale   float64
}

func newFLACSource(r io.Reader) (*flacSource, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: flac: %w", ErrDecode, err)
	}
	bps := int(stream.Info.BitsPerSample)
	if bps < 4 || bps > 32 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bps)
	}
	return &flacSource{
		stream: stream,
		scale:  float64(int64(1) << (bps - 1)),
	}, nil
}

func (s *flacSource) readMono(dst []float64) (int, error) {
	// Drain buffered data first
	if len(s.pending) == 0 {
		frame, err := s.stream.ParseNext()
		if err != nil {
			return 0, err
		}

		channels := len(frame.Subframes)
		if channels == 0 {
			return 0, nil
		}
		nSamples := int(frame.Subframes[0].NSamples)
		for i := 0; i < nSamples; i++ {
			sum := 0.0
			for ch := 0; ch < channels; ch++ {
				sum += float64(frame.Subframes[ch].Samples[i])
			}
			s.pending = append(s.pending, sum/float64(channels)/s.scale)
		}
	}

	n := copy(dst, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// --- OGG Vorbis decoder ---

type oggSource struct {
	reader   *oggvorbis.Reader
	channels int
	raw      []float32
}

func newOGGSource(r io.Reader) (*oggSource, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: ogg: %w", ErrDecode, err)
	}
	channels := reader.Channels()
	if channels < 1 {
		return nil, fmt.Errorf("%w: OGG has %d channels", ErrDecode, channels)
	}
	return &oggSource{reader: reader, channels: channels}, nil
}

func (s *oggSource) readMono(dst []float64) (int, error) {
	// Read float32 samples (interleaved)
	need := len(dst) * s.channels
	if cap(s.raw) < need {
		s.raw = make([]float32, need)
	}
	raw := s.raw[:need]

	n, err := s.reader.Read(raw)
	frames := n / s.channels
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < s.channels; ch++ {
			sum += float64(raw[i*s.channels+ch])
		}
		dst[i] = sum / float64(s.channels)
	}
	if frames == 0 && err == nil {
		err = io.EOF
	}
	return frames, err
}
