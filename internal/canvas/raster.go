package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// MaxRasterWidth is the widest a raster can be resized to.
const MaxRasterWidth = 1 << 15

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

type point struct{ x, y float64 }

// Raster is a Surface backed by an RGBA image.
type Raster struct {
	img        *image.RGBA
	background color.NRGBA

	fill      Paint
	stroke    Paint
	lineWidth float64

	subpaths [][]point
}

// NewRaster creates a transparent raster of the given size.
func NewRaster(width, height int) *Raster {
	r := &Raster{
		fill:      Solid{A: 0xff},
		stroke:    Solid{A: 0xff},
		lineWidth: 1,
	}
	r.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	return r
}

// SetBackground sets the colour Clear paints. The zero value is transparent.
func (r *Raster) SetBackground(c color.NRGBA) {
	r.background = c
}

// Background returns the colour Clear paints.
func (r *Raster) Background() color.NRGBA { return r.background }

// Context returns the raster itself. A raster with no pixels has nothing
// to draw on and reports ErrNoContext.
func (r *Raster) Context() (Surface, error) {
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: raster is %dx%d", ErrNoContext, w, h)
	}
	return r, nil
}

// Image exposes the pixels.
func (r *Raster) Image() *image.RGBA { return r.img }

// EncodePNG writes the pixels as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// MaxWidth reports MaxRasterWidth.
func (r *Raster) MaxWidth() int { return MaxRasterWidth }

func (r *Raster) Resize(width, height int) {
	width = min(max(width, 0), MaxRasterWidth)
	r.img = image.NewRGBA(image.Rect(0, 0, width, max(height, 0)))
	r.subpaths = nil
	r.Clear()
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
}

func (r *Raster) BeginPath() { r.subpaths = nil }

func (r *Raster) MoveTo(x, y float64) {
	r.subpaths = append(r.subpaths, []point{{x, y}})
}

func (r *Raster) LineTo(x, y float64) {
	if len(r.subpaths) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := len(r.subpaths) - 1
	r.subpaths[last] = append(r.subpaths[last], point{x, y})
}

func (r *Raster) SetStrokeStyle(p Paint) { r.stroke = p }
func (r *Raster) SetFillStyle(p Paint)   { r.fill = p }

func (r *Raster) SetLineWidth(w float64) {
	if w > 0 && !math.IsInf(w, 0) {
		r.lineWidth = w
	}
}

func (r *Raster) LinearGradient(x0, y0, x1, y1 float64) *Gradient {
	return NewLinearGradient(x0, y0, x1, y1)
}

// Stroke draws every subpath as a polyline of lineWidth. Each segment
// becomes a quad and each interior vertex gets a square cap so joints
// stay filled.
func (r *Raster) Stroke() {
	hw := r.lineWidth / 2
	var polys [][]point
	for _, sp := range r.subpaths {
		for i := 1; i < len(sp); i++ {
			if q, ok := segmentQuad(sp[i-1], sp[i], hw); ok {
				polys = append(polys, q)
			}
			if i < len(sp)-1 {
				polys = append(polys, square(sp[i], hw))
			}
		}
	}
	r.fillPolygons(polys, r.stroke)
}

func (r *Raster) FillRect(x, y, w, h float64) {
	x, y, w, h = normRect(x, y, w, h)
	if w == 0 || h == 0 {
		return
	}
	r.fillPolygons([][]point{{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}}, r.fill)
}

func (r *Raster) FillRoundRect(x, y, w, h, radius float64) {
	x, y, w, h = normRect(x, y, w, h)
	if w == 0 || h == 0 {
		return
	}
	radius = math.Max(0, math.Min(radius, math.Min(w, h)/2))
	if radius == 0 {
		r.FillRect(x, y, w, h)
		return
	}

	minX, minY := math.Floor(x), math.Floor(y)
	z, bounds, ok := r.rasterizerFor(minX, minY, x+w, y+h)
	if !ok {
		return
	}
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	pt := func(px, py float64) (float32, float32) { return float32(px) - ox, float32(py) - oy }
	k := radius * (1 - kappa)

	z.MoveTo(pt(x+radius, y))
	z.LineTo(pt(x+w-radius, y))
	c1x, c1y := pt(x+w-k, y)
	c2x, c2y := pt(x+w, y+k)
	ex, ey := pt(x+w, y+radius)
	z.CubeTo(c1x, c1y, c2x, c2y, ex, ey)
	z.LineTo(pt(x+w, y+h-radius))
	c1x, c1y = pt(x+w, y+h-k)
	c2x, c2y = pt(x+w-k, y+h)
	ex, ey = pt(x+w-radius, y+h)
	z.CubeTo(c1x, c1y, c2x, c2y, ex, ey)
	z.LineTo(pt(x+radius, y+h))
	c1x, c1y = pt(x+k, y+h)
	c2x, c2y = pt(x, y+h-k)
	ex, ey = pt(x, y+h-radius)
	z.CubeTo(c1x, c1y, c2x, c2y, ex, ey)
	z.LineTo(pt(x, y+radius))
	c1x, c1y = pt(x, y+k)
	c2x, c2y = pt(x+k, y)
	ex, ey = pt(x+radius, y)
	z.CubeTo(c1x, c1y, c2x, c2y, ex, ey)
	z.ClosePath()

	r.drawMask(z, bounds, r.fill)
}

// fillPolygons rasterizes closed polygons in one pass. All polygons must
// share the same winding so overlaps add up instead of cancelling.
func (r *Raster) fillPolygons(polys [][]point, p Paint) {
	if len(polys) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, v := range poly {
			minX, maxX = math.Min(minX, v.x), math.Max(maxX, v.x)
			minY, maxY = math.Min(minY, v.y), math.Max(maxY, v.y)
		}
	}

	z, bounds, ok := r.rasterizerFor(math.Floor(minX), math.Floor(minY), maxX, maxY)
	if !ok {
		return
	}
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	for _, poly := range polys {
		z.MoveTo(float32(poly[0].x)-ox, float32(poly[0].y)-oy)
		for _, v := range poly[1:] {
			z.LineTo(float32(v.x)-ox, float32(v.y)-oy)
		}
		z.ClosePath()
	}
	r.drawMask(z, bounds, p)
}

// rasterizerFor returns a rasterizer covering the given box clipped to the
// image, so small shapes on a wide raster stay cheap.
func (r *Raster) rasterizerFor(minX, minY, maxX, maxY float64) (*vector.Rasterizer, image.Rectangle, bool) {
	if math.IsNaN(minX+minY+maxX+maxY) {
		return nil, image.Rectangle{}, false
	}
	box := image.Rect(clampCoord(minX), clampCoord(minY), clampCoord(math.Ceil(maxX)), clampCoord(math.Ceil(maxY)))
	box = box.Intersect(r.img.Bounds())
	if box.Empty() {
		return nil, image.Rectangle{}, false
	}
	z := vector.NewRasterizer(box.Dx(), box.Dy())
	z.DrawOp = draw.Over
	return z, box, true
}

func (r *Raster) drawMask(z *vector.Rasterizer, bounds image.Rectangle, p Paint) {
	if s, ok := p.(Solid); ok {
		z.Draw(r.img, bounds, image.NewUniform(color.NRGBA(s)), image.Point{})
		return
	}
	z.Draw(r.img, bounds, paintImage{p}, bounds.Min)
}

// paintImage adapts a Paint to image.Image in surface coordinates.
type paintImage struct{ p Paint }

func (pi paintImage) ColorModel() color.Model { return color.NRGBAModel }

func (pi paintImage) Bounds() image.Rectangle {
	return image.Rect(-MaxRasterWidth, -MaxRasterWidth, 2*MaxRasterWidth, 2*MaxRasterWidth)
}

func (pi paintImage) At(x, y int) color.Color {
	return pi.p.At(float64(x)+0.5, float64(y)+0.5)
}

func clampCoord(v float64) int {
	return int(math.Max(-1, math.Min(v, MaxRasterWidth+1)))
}

func normRect(x, y, w, h float64) (float64, float64, float64, float64) {
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	if math.IsNaN(x+y+w+h) || math.IsInf(x+y+w+h, 0) {
		return 0, 0, 0, 0
	}
	return x, y, w, h
}

// segmentQuad returns the quad covering a segment of half-width hw, wound
// the same way as an axis-aligned rectangle listed clockwise on screen.
func segmentQuad(a, b point, hw float64) ([]point, bool) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return nil, false
	}
	nx, ny := -dy/length*hw, dx/length*hw
	return []point{
		{a.x - nx, a.y - ny},
		{b.x - nx, b.y - ny},
		{b.x + nx, b.y + ny},
		{a.x + nx, a.y + ny},
	}, true
}

func square(c point, hw float64) []point {
	return []point{
		{c.x - hw, c.y - hw},
		{c.x + hw, c.y - hw},
		{c.x + hw, c.y + hw},
		{c.x - hw, c.y + hw},
	}
}
