package canvas

import (
	"fmt"
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Paint is a fill or stroke style sampled per pixel.
type Paint interface {
	At(x, y float64) color.NRGBA
}

// Solid is a flat colour.
type Solid color.NRGBA

func (s Solid) At(float64, float64) color.NRGBA { return color.NRGBA(s) }

// ParseHex parses a "#rrggbb" colour.
func ParseHex(s string) (Solid, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Solid{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Solid{R: r, G: g, B: b, A: 0xff}, nil
}

// MustHex is ParseHex for colour constants.
func MustHex(s string) Solid {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

type colorStop struct {
	offset float64
	color  colorful.Color
	alpha  float64
}

// Gradient is a linear gradient between two points.
type Gradient struct {
	x0, y0, x1, y1 float64
	stops          []colorStop
}

// NewLinearGradient creates a gradient with no stops. A gradient without
// stops paints transparent black.
func NewLinearGradient(x0, y0, x1, y1 float64) *Gradient {
	return &Gradient{x0: x0, y0: y0, x1: x1, y1: y1}
}

// AddColorStop adds a stop at offset, clamped to [0, 1]. Stops sharing an
// offset keep insertion order.
func (g *Gradient) AddColorStop(offset float64, c Solid) {
	if offset < 0 {
		offset = 0
	}
	if offset > 1 {
		offset = 1
	}
	g.stops = append(g.stops, colorStop{
		offset: offset,
		color: colorful.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
		},
		alpha: float64(c.A) / 255,
	})
	sort.SliceStable(g.stops, func(i, j int) bool {
		return g.stops[i].offset < g.stops[j].offset
	})
}

// Stops returns the stop offsets in order.
func (g *Gradient) Stops() []float64 {
	out := make([]float64, len(g.stops))
	for i, s := range g.stops {
		out[i] = s.offset
	}
	return out
}

func (g *Gradient) At(x, y float64) color.NRGBA {
	if len(g.stops) == 0 {
		return color.NRGBA{}
	}

	dx, dy := g.x1-g.x0, g.y1-g.y0
	var t float64
	if den := dx*dx + dy*dy; den > 0 {
		t = ((x-g.x0)*dx + (y-g.y0)*dy) / den
	}

	first, last := g.stops[0], g.stops[len(g.stops)-1]
	switch {
	case t <= first.offset:
		return toNRGBA(first.color, first.alpha)
	case t >= last.offset:
		return toNRGBA(last.color, last.alpha)
	}

	for i := 1; i < len(g.stops); i++ {
		hi := g.stops[i]
		if t > hi.offset {
			continue
		}
		lo := g.stops[i-1]
		span := hi.offset - lo.offset
		if span <= 0 {
			return toNRGBA(hi.color, hi.alpha)
		}
		f := (t - lo.offset) / span
		return toNRGBA(lo.color.BlendRgb(hi.color, f), lo.alpha+(hi.alpha-lo.alpha)*f)
	}
	return toNRGBA(last.color, last.alpha)
}

func toNRGBA(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
