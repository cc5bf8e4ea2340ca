package canvas

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"
)

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#2196F3")
	if err != nil {
		t.Fatalf("ParseHex unexpected error: %v", err)
	}
	want := Solid{R: 0x21, G: 0x96, B: 0xF3, A: 0xff}
	if c != want {
		t.Fatalf("expected %+v, got %+v", want, c)
	}
	if _, err := ParseHex("blue-ish"); err == nil {
		t.Fatal("expected error for malformed colour")
	}
}

func TestGradientInterpolatesBetweenStops(t *testing.T) {
	g := NewLinearGradient(0, 0, 0, 100)
	g.AddColorStop(1, Solid{R: 255, A: 255})
	g.AddColorStop(0, Solid{B: 255, A: 255})

	if got := g.Stops(); got[0] != 0 || got[1] != 1 {
		t.Fatalf("expected stops sorted by offset, got %v", got)
	}
	if top := g.At(10, -5); top.B != 255 || top.R != 0 {
		t.Fatalf("expected first stop colour above the gradient, got %+v", top)
	}
	if bottom := g.At(10, 500); bottom.R != 255 || bottom.B != 0 {
		t.Fatalf("expected last stop colour below the gradient, got %+v", bottom)
	}
	mid := g.At(0, 50)
	if mid.R < 100 || mid.R > 155 || mid.B < 100 || mid.B > 155 {
		t.Fatalf("expected a blend halfway, got %+v", mid)
	}
}

func TestGradientWithoutStopsIsTransparent(t *testing.T) {
	if got := NewLinearGradient(0, 0, 1, 1).At(0, 0); got.A != 0 {
		t.Fatalf("expected transparent, got %+v", got)
	}
}

func TestRasterContextFailsWithoutPixels(t *testing.T) {
	_, err := NewRaster(0, 200).Context()
	if !errors.Is(err, ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
}

func TestRasterFillRect(t *testing.T) {
	r := NewRaster(20, 20)
	r.SetFillStyle(Solid{R: 255, A: 255})
	r.FillRect(5, 5, 10, 10)

	img := r.Image()
	if got := img.RGBAAt(10, 10); got.R != 255 || got.A != 255 {
		t.Fatalf("expected filled pixel inside rect, got %+v", got)
	}
	if got := img.RGBAAt(1, 1); got.A != 0 {
		t.Fatalf("expected untouched pixel outside rect, got %+v", got)
	}
}

func TestRasterFillRoundRectLeavesCornersEmpty(t *testing.T) {
	r := NewRaster(40, 40)
	r.SetFillStyle(Solid{G: 255, A: 255})
	r.FillRoundRect(0, 0, 40, 40, 20)

	img := r.Image()
	if got := img.RGBAAt(20, 20); got.G != 255 {
		t.Fatalf("expected centre filled, got %+v", got)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Fatalf("expected rounded corner to stay empty, got %+v", got)
	}
}

func TestRasterStrokeDrawsLine(t *testing.T) {
	r := NewRaster(50, 20)
	r.SetStrokeStyle(Solid{B: 255, A: 255})
	r.SetLineWidth(4)
	r.BeginPath()
	r.MoveTo(0, 10)
	r.LineTo(25, 10)
	r.LineTo(50, 10)
	r.Stroke()

	img := r.Image()
	for _, x := range []int{2, 25, 47} {
		if got := img.RGBAAt(x, 10); got.B != 255 {
			t.Fatalf("expected stroked pixel at x=%d, got %+v", x, got)
		}
	}
	if got := img.RGBAAt(25, 2); got.A != 0 {
		t.Fatalf("expected pixel away from line untouched, got %+v", got)
	}
}

func TestRasterClearAndResize(t *testing.T) {
	r := NewRaster(10, 10)
	r.SetBackground(color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	r.SetFillStyle(Solid{R: 255, A: 255})
	r.FillRect(0, 0, 10, 10)
	r.Clear()
	if got := r.Image().RGBAAt(5, 5); got.R != 10 {
		t.Fatalf("expected background after clear, got %+v", got)
	}

	r.Resize(30, 5)
	if w, h := r.Size(); w != 30 || h != 5 {
		t.Fatalf("expected 30x5 after resize, got %dx%d", w, h)
	}
	if got := r.Image().RGBAAt(25, 2); got.R != 10 {
		t.Fatalf("expected resized raster to be cleared to background, got %+v", got)
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(8, 4)
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Fatalf("expected 8x4 PNG, got %v", b)
	}
}

func TestRecorderCountsCalls(t *testing.T) {
	r := NewRecorder(100, 50)
	r.Clear()
	r.FillRect(0, 0, 1, 1)
	r.FillRect(1, 0, 1, 1)
	if r.Count("FillRect") != 2 || r.Count("Clear") != 1 {
		t.Fatalf("unexpected ops: %v", r.Ops)
	}
	r.Fail = true
	if _, err := r.Context(); !errors.Is(err, ErrNoContext) {
		t.Fatalf("expected ErrNoContext, got %v", err)
	}
}
