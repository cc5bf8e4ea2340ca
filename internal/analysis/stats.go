// Package analysis computes summaries and transforms of amplitude sequences.
package analysis

import (
	"fmt"
	"strings"

	"github.com/olivier-w/wavy/internal/layout"
	"gonum.org/v1/gonum/floats"
)

// Stats summarizes one decoded file for the debug panel.
type Stats struct {
	FileSize int64
	Samples  int
	// Finite counts the samples that entered Min, Max and Avg.
	Finite int
	Min    float64
	Max    float64
	Avg    float64
}

// Compute summarizes samples. Non-finite samples count toward Samples but
// are left out of the range and average.
func Compute(fileSize int64, samples []float64) Stats {
	s := Stats{FileSize: fileSize, Samples: len(samples)}

	finite := make([]float64, 0, len(samples))
	for _, v := range samples {
		if layout.Finite(v) {
			finite = append(finite, v)
		}
	}
	s.Finite = len(finite)
	if len(finite) == 0 {
		return s
	}

	s.Min = floats.Min(finite)
	s.Max = floats.Max(finite)
	s.Avg = floats.Sum(finite) / float64(len(finite))
	return s
}

// Lines returns the four debug panel lines.
func (s Stats) Lines() []string {
	return []string{
		fmt.Sprintf("File size: %d bytes", s.FileSize),
		fmt.Sprintf("Waveform samples: %d", s.Samples),
		fmt.Sprintf("Value range: %.4f to %.4f", s.Min, s.Max),
		fmt.Sprintf("Average value: %.4f", s.Avg),
	}
}

func (s Stats) String() string {
	return strings.Join(s.Lines(), "\n")
}
