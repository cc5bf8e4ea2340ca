package layout

import "math"

// Vertex is one point of a line plot.
type Vertex struct {
	Index int
	X, Y  float64
}

// LinePlan is the polyline for a line render.
type LinePlan struct {
	Step     float64
	Vertices []Vertex
}

// PlanLine spreads samples across width and maps each one through
// SignedLinear. Non-finite samples are left out, which makes the stroked
// line interpolate across the gap instead of breaking.
func PlanLine(samples []float64, width, height float64) LinePlan {
	if len(samples) == 0 {
		return LinePlan{}
	}

	step := width / float64(len(samples))
	vertices := make([]Vertex, 0, len(samples))
	for i, v := range samples {
		if !Finite(v) {
			continue
		}
		vertices = append(vertices, Vertex{
			Index: i,
			X:     float64(i) * step,
			Y:     SignedLinear(v, height),
		})
	}
	return LinePlan{Step: step, Vertices: vertices}
}

// Bar is one bar of a bar render. Mid is the vertical midline and Height
// the extent above it.
type Bar struct {
	Index  int
	X      float64
	Mid    float64
	Height float64
}

// BarPlan is the geometry for a bar render.
type BarPlan struct {
	// CanvasWidth is the surface width the plan was laid out for. Under
	// Grow it differs from the width passed in.
	CanvasWidth float64
	Offset      float64
	// Count is the number of bar slots, including slots of skipped samples.
	Count int
	Bars  []Bar
}

// BarCount returns how many bars of the given pitch fit into width, capped
// at n.
func BarCount(n int, width, pitch float64) int {
	if n <= 0 || !(pitch > 0) || !(width > 0) {
		return 0
	}
	fit := math.Floor(width / pitch)
	if fit >= float64(n) {
		return n
	}
	return int(fit)
}

// PlanBars lays out one bar per sample at a fixed pitch. Under Grow the
// canvas width becomes len(samples)*pitch and the offset is zero; under
// any other policy the bar count is clamped to the width and the bars are
// centered.
func PlanBars(samples []float64, width, height float64, style BarStyle, policy WidthPolicy, heightOf HeightFunc) BarPlan {
	pitch := style.Pitch()
	if len(samples) == 0 || !(pitch > 0) {
		return BarPlan{CanvasWidth: width}
	}

	plan := BarPlan{CanvasWidth: width}
	if policy == Grow {
		plan.Count = len(samples)
		plan.CanvasWidth = float64(len(samples)) * pitch
	} else {
		plan.Count = BarCount(len(samples), width, pitch)
		plan.Offset = (width - float64(plan.Count)*pitch) / 2
	}

	mid := height / 2
	plan.Bars = make([]Bar, 0, plan.Count)
	for i := 0; i < plan.Count; i++ {
		v := samples[i]
		if !Finite(v) {
			continue
		}
		plan.Bars = append(plan.Bars, Bar{
			Index:  i,
			X:      float64(i)*pitch + plan.Offset,
			Mid:    mid,
			Height: heightOf(v, height, style.MinHeight),
		})
	}
	return plan
}
