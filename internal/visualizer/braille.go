// Package visualizer turns a rendered raster into coloured Braille text for
// terminal display.
package visualizer

import (
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// inkThreshold is the Lab distance from the background above which a pixel
// counts as drawn.
const inkThreshold = 0.08

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Braille downsamples img into cols x rows Braille cells. Each cell covers a
// 2x4 dot grid; a dot is lit when any pixel under it differs from bg. Cells
// are coloured with the average of their drawn pixels.
func Braille(img image.Image, bg color.Color, cols, rows int) string {
	return braille(img, bg, cols, rows, currentColorProfile())
}

func braille(img image.Image, bg color.Color, cols, rows int, p colorProfile) string {
	if img == nil || cols < 1 || rows < 1 {
		return ""
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return ""
	}

	background, _ := colorful.MakeColor(opaque(bg))
	dotCols, dotRows := cols*2, rows*4

	lit := make([]bool, dotCols*dotRows)
	sums := make([]colorful.Color, cols*rows)
	counts := make([]int, cols*rows)

	w, h := bounds.Dx(), bounds.Dy()
	for y := 0; y < h; y++ {
		dr := y * dotRows / h
		for x := 0; x < w; x++ {
			c, ok := colorful.MakeColor(opaque(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
			if !ok || c.DistanceLab(background) < inkThreshold {
				continue
			}
			dc := x * dotCols / w
			lit[dr*dotCols+dc] = true

			cell := (dr/4)*cols + dc/2
			sums[cell].R += c.R
			sums[cell].G += c.G
			sums[cell].B += c.B
			counts[cell]++
		}
	}

	var out strings.Builder
	ansi := newANSIState(p)
	for row := 0; row < rows; row++ {
		if row > 0 {
			ansi.reset(&out)
			out.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			var pattern uint
			for dx := 0; dx < 2; dx++ {
				for dy := 0; dy < 4; dy++ {
					if lit[(row*4+dy)*dotCols+col*2+dx] {
						pattern |= 1 << brailleBits[dx][dy]
					}
				}
			}
			cell := row*cols + col
			if n := counts[cell]; n > 0 {
				s := sums[cell]
				ansi.set(&out, colorful.Color{R: s.R / float64(n), G: s.G / float64(n), B: s.B / float64(n)})
			}
			out.WriteRune(rune(0x2800 + pattern))
		}
	}
	ansi.reset(&out)
	return out.String()
}

// opaque drops alpha so transparent pixels compare as their colour over
// black, which the raster never produces for drawn ink.
func opaque(c color.Color) color.Color {
	if c == nil {
		return color.Black
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return color.Black
	}
	return color.RGBA64{R: uint16(r * 0xffff / a), G: uint16(g * 0xffff / a), B: uint16(b * 0xffff / a), A: 0xffff}
}
