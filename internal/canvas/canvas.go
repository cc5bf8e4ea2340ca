// Package canvas provides the drawing surfaces waveforms are rendered onto.
//
// The Surface interface mirrors the small slice of a 2D canvas API the
// renderer needs. Raster implements it on an in-memory RGBA image and
// Recorder implements it by logging every call.
package canvas

import "errors"

// ErrNoContext is returned when a surface cannot hand out a drawing context.
var ErrNoContext = errors.New("drawing context unavailable")

// Surface is a 2D drawing context.
type Surface interface {
	// Size returns the current pixel dimensions.
	Size() (width, height int)
	// Resize changes the pixel dimensions and clears the surface.
	Resize(width, height int)
	// Clear wipes every pixel.
	Clear()

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Stroke draws the current path with the stroke style and line width.
	Stroke()

	FillRect(x, y, w, h float64)
	FillRoundRect(x, y, w, h, radius float64)

	SetStrokeStyle(p Paint)
	SetLineWidth(w float64)
	SetFillStyle(p Paint)

	// LinearGradient creates a gradient running from (x0,y0) to (x1,y1).
	LinearGradient(x0, y0, x1, y1 float64) *Gradient
}

// WidthLimiter is implemented by surfaces that cannot be resized past a
// fixed width.
type WidthLimiter interface {
	MaxWidth() int
}

// Canvas is anything that can hand out a Surface.
type Canvas interface {
	Context() (Surface, error)
}
