// Package layout turns an amplitude sequence into screen geometry.
//
// Nothing here touches a drawing surface. Every function is a pure mapping
// from samples and surface dimensions to positions, so a render can be
// recomputed at any time from its inputs alone.
package layout

import (
	"fmt"
	"math"
	"strings"
)

const (
	// HeightFill is the share of the half-height a full-scale bar occupies.
	HeightFill = 0.9
	// LowerBarRatio scales the lower half of a linear bar. It is a visual
	// flourish, not derived from the samples.
	LowerBarRatio = 0.8
)

// WidthPolicy selects how samples are spread horizontally.
type WidthPolicy uint8

const (
	// PolicyDefault defers to the rendering mode's own policy.
	PolicyDefault WidthPolicy = iota
	// FitToCanvas spaces samples evenly across the full surface width.
	FitToCanvas
	// Clamp uses a fixed bar pitch and drops bars that do not fit,
	// centering the ones that do.
	Clamp
	// Grow uses a fixed bar pitch and widens the surface to fit every bar.
	Grow
)

var policyNames = map[WidthPolicy]string{
	PolicyDefault: "default",
	FitToCanvas:   "fit",
	Clamp:         "clamp",
	Grow:          "grow",
}

func (p WidthPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("WidthPolicy(%d)", p)
}

// ParsePolicy parses a policy name as written in config files and flags.
func ParsePolicy(s string) (WidthPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PolicyDefault, nil
	}
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return PolicyDefault, fmt.Errorf("unknown width policy %q (want fit, clamp or grow)", s)
}

// BarStyle holds the per-render bar parameters, in pixels.
type BarStyle struct {
	Width     float64
	Gap       float64
	MinHeight float64
}

// DefaultBarStyle returns the stock 20px bars with a 5px gap.
func DefaultBarStyle() BarStyle {
	return BarStyle{Width: 20, Gap: 5, MinHeight: 2}
}

// Pitch is the horizontal step from one bar to the next.
func (s BarStyle) Pitch() float64 {
	return s.Width + s.Gap
}

// Validate reports a style that cannot produce a layout.
func (s BarStyle) Validate() error {
	switch {
	case !(s.Width > 0):
		return fmt.Errorf("bar width must be positive, got %v", s.Width)
	case s.Gap < 0 || math.IsNaN(s.Gap):
		return fmt.Errorf("bar gap must not be negative, got %v", s.Gap)
	case s.MinHeight < 0 || math.IsNaN(s.MinHeight):
		return fmt.Errorf("minimum bar height must not be negative, got %v", s.MinHeight)
	}
	return nil
}

// Finite reports whether v can be plotted.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
