// Package render draws amplitude sequences onto a canvas.
//
// A render is a pure function of its inputs: it clears the surface, lays the
// samples out and issues drawing calls. Nothing carries over between calls.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/olivier-w/wavy/internal/canvas"
	"github.com/olivier-w/wavy/internal/layout"
)

// ErrNoContext is returned when the canvas cannot provide a surface.
var ErrNoContext = canvas.ErrNoContext

// ErrTooWide is returned when a Grow layout needs a wider canvas than the
// surface supports.
var ErrTooWide = errors.New("waveform too wide for the canvas")

// Options configures one render.
type Options struct {
	Mode  Mode
	Style layout.BarStyle
	// Policy overrides the mode's width policy when set.
	Policy layout.WidthPolicy
}

// DefaultOptions returns line mode with the stock bar style.
func DefaultOptions() Options {
	return Options{Mode: ModeLine, Style: layout.DefaultBarStyle()}
}

func (o Options) policy() layout.WidthPolicy {
	if o.Policy != layout.PolicyDefault {
		return o.Policy
	}
	return o.Mode.DefaultPolicy()
}

// Render draws samples onto c. An empty sequence leaves a cleared surface.
// A canvas that cannot hand out a surface fails before anything is drawn.
func Render(c canvas.Canvas, samples []float64, opts Options) error {
	strat, ok := strategies[opts.Mode]
	if !ok {
		return fmt.Errorf("render: unknown mode %v", opts.Mode)
	}
	if !opts.Mode.Supports(opts.Policy) {
		return fmt.Errorf("render: %s mode does not support the %s policy", opts.Mode, opts.Policy)
	}
	if strat.emitBar != nil {
		if err := opts.Style.Validate(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}

	s, err := c.Context()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	s.Clear()
	if len(samples) == 0 {
		return nil
	}

	w, h := s.Size()
	if strat.emitBar == nil {
		renderLine(s, samples, float64(w), float64(h))
		return nil
	}

	plan := layout.PlanBars(samples, float64(w), float64(h), opts.Style, opts.policy(), strat.height)
	if cw := int(math.Ceil(plan.CanvasWidth)); cw != w {
		if lim, ok := s.(canvas.WidthLimiter); ok && cw > lim.MaxWidth() {
			return fmt.Errorf("%w: %d bars need %dpx, limit is %dpx", ErrTooWide, len(samples), cw, lim.MaxWidth())
		}
		s.Resize(cw, h)
	}

	g := s.LinearGradient(0, 0, 0, float64(h))
	for _, stop := range GradientStops {
		g.AddColorStop(stop.Offset, stop.Color)
	}
	s.SetFillStyle(g)

	for _, b := range plan.Bars {
		strat.emitBar(s, b, opts.Style)
	}
	return nil
}

// renderLine builds one path through every plotted vertex and strokes it
// once.
func renderLine(s canvas.Surface, samples []float64, w, h float64) {
	plan := layout.PlanLine(samples, w, h)
	if len(plan.Vertices) == 0 {
		return
	}

	s.BeginPath()
	s.SetStrokeStyle(LineColor)
	s.SetLineWidth(LineWidth)
	for i, v := range plan.Vertices {
		if i == 0 {
			s.MoveTo(v.X, v.Y)
		} else {
			s.LineTo(v.X, v.Y)
		}
	}
	s.Stroke()
}
