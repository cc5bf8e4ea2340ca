package render

import (
	"fmt"
	"strings"

	"github.com/olivier-w/wavy/internal/canvas"
	"github.com/olivier-w/wavy/internal/layout"
)

// Mode selects a rendering policy.
type Mode uint8

const (
	// ModeLine strokes one polyline through the signed samples.
	ModeLine Mode = iota
	// ModeLinearBar draws split bars scaled linearly by magnitude.
	ModeLinearBar
	// ModeLogBar draws rounded bars scaled by log10(1+9|v|).
	ModeLogBar
)

var modeNames = [...]string{
	ModeLine:      "line",
	ModeLinearBar: "bars",
	ModeLogBar:    "logbars",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// ParseMode parses "line", "bars" or "logbars".
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeLine, fmt.Errorf("unknown mode %q (want line, bars or logbars)", s)
}

// Fixed colours per mode.
var (
	LineColor = canvas.MustHex("#2196F3")

	GradientStops = []struct {
		Offset float64
		Color  canvas.Solid
	}{
		{0, canvas.MustHex("#1976D2")},
		{0.5, canvas.MustHex("#2196F3")},
		{1, canvas.MustHex("#64B5F6")},
	}
)

// LineWidth is the stroke width of line renders.
const LineWidth = 2

// strategy is what a mode contributes to the shared pipeline. Line mode
// has no bar emitter and is handled by renderLine.
type strategy struct {
	policy  layout.WidthPolicy
	height  layout.HeightFunc
	emitBar func(s canvas.Surface, b layout.Bar, style layout.BarStyle)
}

var strategies = map[Mode]strategy{
	ModeLine: {
		policy: layout.FitToCanvas,
	},
	ModeLinearBar: {
		policy:  layout.Clamp,
		height:  layout.LinearMagnitude,
		emitBar: emitSplitBar,
	},
	ModeLogBar: {
		policy:  layout.Grow,
		height:  layout.LogMagnitude,
		emitBar: emitRoundedBar,
	},
}

// DefaultPolicy returns the width policy a mode uses unless overridden.
func (m Mode) DefaultPolicy() layout.WidthPolicy {
	return strategies[m].policy
}

// Supports reports whether p can lay out the mode. Line mode only spreads
// samples across the canvas; bar modes need a fixed pitch.
func (m Mode) Supports(p layout.WidthPolicy) bool {
	strat, ok := strategies[m]
	if !ok {
		return false
	}
	switch p {
	case layout.PolicyDefault:
		return true
	case layout.FitToCanvas:
		return strat.emitBar == nil
	case layout.Clamp, layout.Grow:
		return strat.emitBar != nil
	}
	return false
}

// emitSplitBar draws the upper bar and a shorter lower mirror.
func emitSplitBar(s canvas.Surface, b layout.Bar, style layout.BarStyle) {
	s.FillRect(b.X, b.Mid-b.Height, style.Width, b.Height)
	s.FillRect(b.X, b.Mid, style.Width, b.Height*layout.LowerBarRatio)
}

// emitRoundedBar draws one rounded bar centred on the midline.
func emitRoundedBar(s canvas.Surface, b layout.Bar, style layout.BarStyle) {
	radius := min(style.Width/2, b.Height)
	s.FillRoundRect(b.X, b.Mid-b.Height, style.Width, 2*b.Height, radius)
}
