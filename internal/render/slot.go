package render

import (
	"context"
	"errors"
	"sync"

	"github.com/olivier-w/wavy/internal/canvas"
	"go.uber.org/zap"
)

// ErrStale is returned when a newer request has taken over the slot.
var ErrStale = errors.New("render superseded by a newer request")

// Ticket identifies one request for a Slot. Ctx is cancelled as soon as a
// newer request is acquired.
type Ticket struct {
	Gen uint64
	Ctx context.Context
}

// Slot serializes renders onto one canvas. Only the latest acquired ticket
// may draw; older tickets are refused and their contexts cancelled.
type Slot struct {
	mu     sync.Mutex
	canvas canvas.Canvas
	gen    uint64
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewSlot wraps c. A nil logger disables logging.
func NewSlot(c canvas.Canvas, logger *zap.Logger) *Slot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Slot{canvas: c, logger: logger}
}

// Acquire starts a new request, cancelling the one before it.
func (s *Slot) Acquire(parent context.Context) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.gen++
	s.logger.Debug("render slot acquired", zap.Uint64("generation", s.gen))
	return Ticket{Gen: s.gen, Ctx: ctx}
}

// Release cancels t's context if t is still the latest request.
func (s *Slot) Release(t Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Gen == s.gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Commit renders samples if t is still current.
func (s *Slot) Commit(t Ticket, samples []float64, opts Options) error {
	return s.do(t, func(c canvas.Canvas) error {
		return Render(c, samples, opts)
	})
}

// Clear wipes the canvas if t is still current.
func (s *Slot) Clear(t Ticket) error {
	return s.do(t, func(c canvas.Canvas) error {
		surface, err := c.Context()
		if err != nil {
			return err
		}
		surface.Clear()
		return nil
	})
}

// Inspect runs fn with the canvas if t is still current, holding the slot
// so no render can interleave.
func (s *Slot) Inspect(t Ticket, fn func(canvas.Canvas) error) error {
	return s.do(t, fn)
}

func (s *Slot) do(t Ticket, fn func(canvas.Canvas) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Gen != s.gen {
		s.logger.Debug("stale render dropped",
			zap.Uint64("generation", t.Gen),
			zap.Uint64("current", s.gen),
		)
		return ErrStale
	}
	if t.Ctx != nil {
		if err := t.Ctx.Err(); err != nil {
			return err
		}
	}
	return fn(s.canvas)
}
