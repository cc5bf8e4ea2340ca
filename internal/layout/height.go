package layout

import "math"

// HeightFunc maps one sample to a half bar height for a surface of the
// given height.
type HeightFunc func(v, height, minHeight float64) float64

// SignedLinear maps a signed sample in [-1, 1] to a y coordinate, with 0 on
// the vertical midline.
func SignedLinear(v, height float64) float64 {
	mid := height / 2
	return mid + clamp(v, -1, 1)*mid
}

// LinearMagnitude scales |v| linearly into the upper half of the surface.
func LinearMagnitude(v, height, minHeight float64) float64 {
	scale := (height / 2) * HeightFill
	return math.Max(clamp(math.Abs(v), 0, 1)*scale, minHeight)
}

// LogMagnitude maps |v| through log10(1+9v), which fixes 0 and 1 and lifts
// everything in between, so quiet passages stay visible next to loud ones.
func LogMagnitude(v, height, minHeight float64) float64 {
	scale := (height / 2) * HeightFill
	logValue := math.Log10(1 + clamp(math.Abs(v), 0, 1)*9)
	return math.Max(logValue*scale, minHeight)
}
