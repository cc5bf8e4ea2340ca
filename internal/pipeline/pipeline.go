// Package pipeline runs one waveform request end to end: decode, optional
// spectrum, statistics and the final render into a slot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/olivier-w/wavy/internal/analysis"
	"github.com/olivier-w/wavy/internal/decoder"
	"github.com/olivier-w/wavy/internal/render"
	"go.uber.org/zap"
)

// ErrEmptyWaveform is reported when decoding yields no samples.
var ErrEmptyWaveform = errors.New("waveform is empty or invalid")

// DecodeFunc turns encoded bytes into an amplitude sequence.
type DecodeFunc func(ctx context.Context, data []byte, ext string, groupSize int, opts ...decoder.Option) ([]float64, error)

// Request is one user selection.
type Request struct {
	Name      string
	Ext       string
	Data      []byte
	GroupSize int
	// Spectrum replaces the envelope with its normalized FFT magnitude.
	Spectrum bool
	Options  render.Options
	// Progress, when set, receives the share of Data decoded so far.
	Progress func(float64)
}

// Result is what a run produced. Samples is kept so callers can re-render
// in another mode without decoding again.
type Result struct {
	Stats   analysis.Stats
	Samples []float64
	Debug   string
	Err     error
}

// Stale reports whether the run was superseded before it could draw.
func (r Result) Stale() bool {
	return errors.Is(r.Err, render.ErrStale) || errors.Is(r.Err, context.Canceled)
}

// Pipeline wires a decoder to a render slot.
type Pipeline struct {
	Slot   *render.Slot
	Decode DecodeFunc
	Logger *zap.Logger
}

// New returns a pipeline using the built-in decoders.
func New(slot *render.Slot, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Slot:   slot,
		Logger: logger,
		Decode: decoder.Decode,
	}
}

// Run executes req under ticket. Decode failures and empty results clear
// the canvas and leave an "Error: ..." debug text. A superseded ticket never
// draws.
func (p *Pipeline) Run(ticket render.Ticket, req Request) Result {
	log := p.logger().With(
		zap.String("name", req.Name),
		zap.Uint64("generation", ticket.Gen),
	)

	groupSize := req.GroupSize
	if groupSize < 1 {
		groupSize = decoder.DefaultGroupSize
	}

	var opts []decoder.Option
	if req.Progress != nil {
		opts = append(opts, decoder.WithProgress(req.Progress))
	}

	started := time.Now()
	samples, err := p.Decode(ticket.Ctx, req.Data, req.Ext, groupSize, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return Result{Err: err}
		}
		log.Warn("decode failed", zap.Error(err))
		return p.fail(ticket, err)
	}
	log.Debug("decoded",
		zap.Int("bytes", len(req.Data)),
		zap.Int("group_size", groupSize),
		zap.Int("samples", len(samples)),
		zap.Duration("elapsed", time.Since(started)),
	)

	if len(samples) == 0 {
		return p.fail(ticket, ErrEmptyWaveform)
	}
	if req.Spectrum {
		samples = analysis.Spectrum(samples)
	}

	stats := analysis.Compute(int64(len(req.Data)), samples)
	if err := p.Slot.Commit(ticket, samples, req.Options); err != nil {
		if !errors.Is(err, render.ErrStale) {
			log.Error("render failed", zap.Error(err))
		}
		return Result{Stats: stats, Samples: samples, Debug: errorText(err), Err: err}
	}
	log.Debug("rendered", zap.Stringer("mode", req.Options.Mode))

	return Result{Stats: stats, Samples: samples, Debug: stats.String()}
}

// Rerender draws cached samples with new options under a fresh ticket.
func (p *Pipeline) Rerender(ticket render.Ticket, samples []float64, opts render.Options) error {
	if len(samples) == 0 {
		return p.Slot.Clear(ticket)
	}
	return p.Slot.Commit(ticket, samples, opts)
}

func (p *Pipeline) fail(ticket render.Ticket, err error) Result {
	if clearErr := p.Slot.Clear(ticket); clearErr != nil {
		if errors.Is(clearErr, render.ErrStale) || errors.Is(clearErr, context.Canceled) {
			return Result{Err: clearErr}
		}
		p.logger().Error("clear failed", zap.Uint64("generation", ticket.Gen), zap.Error(clearErr))
		return Result{Debug: errorText(err), Err: errors.Join(err, clearErr)}
	}
	return Result{Debug: errorText(err), Err: err}
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func errorText(err error) string {
	return fmt.Sprintf("Error: %v", err)
}
