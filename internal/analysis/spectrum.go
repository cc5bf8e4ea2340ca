package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/olivier-w/wavy/internal/layout"
)

// Spectrum replaces an envelope with the magnitudes of its discrete Fourier
// transform, scaled so the strongest bin is 1. Only the lower half of the
// bins is kept since the input is real and the upper half mirrors it.
// Non-finite samples enter the transform as silence.
func Spectrum(envelope []float64) []float64 {
	if len(envelope) == 0 {
		return nil
	}

	in := make([]float64, len(envelope))
	for i, v := range envelope {
		if layout.Finite(v) {
			in[i] = v
		}
	}

	bins := fft.FFTReal(in)
	half := len(bins)/2 + 1
	if half > len(bins) {
		half = len(bins)
	}

	out := make([]float64, half)
	peak := 0.0
	for i := range out {
		out[i] = cmplx.Abs(bins[i])
		if out[i] > peak {
			peak = out[i]
		}
	}
	if peak == 0 {
		return out
	}
	for i := range out {
		out[i] /= peak
	}
	return out
}
