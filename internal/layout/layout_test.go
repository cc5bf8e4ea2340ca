package layout

import (
	"math"
	"testing"
)

func TestPlanLineSkipsNonFiniteSamples(t *testing.T) {
	plan := PlanLine([]float64{math.NaN(), 0.5, 0.5}, 300, 200)
	if len(plan.Vertices) != 2 {
		t.Fatalf("expected 2 vertices, got %d", len(plan.Vertices))
	}
	if plan.Vertices[0].Index != 1 || plan.Vertices[0].X != 100 {
		t.Fatalf("expected first vertex at index 1, x=100, got %+v", plan.Vertices[0])
	}
	if plan.Vertices[0].Y != 150 {
		t.Fatalf("expected y=150 for 0.5 on a 200px surface, got %v", plan.Vertices[0].Y)
	}
}

func TestPlanLineEmpty(t *testing.T) {
	plan := PlanLine(nil, 800, 200)
	if len(plan.Vertices) != 0 {
		t.Fatalf("expected no vertices, got %d", len(plan.Vertices))
	}
}

func TestSignedLinearClampsToSurface(t *testing.T) {
	cases := []struct {
		v, want float64
	}{
		{v: -1, want: 0},
		{v: 0, want: 100},
		{v: 1, want: 200},
		{v: 3, want: 200},
		{v: -7, want: 0},
	}
	for _, tc := range cases {
		if got := SignedLinear(tc.v, 200); got != tc.want {
			t.Fatalf("SignedLinear(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestGrowWidensCanvasToFitEverySample(t *testing.T) {
	style := DefaultBarStyle()
	for _, n := range []int{1, 7, 32, 500} {
		samples := make([]float64, n)
		plan := PlanBars(samples, 800, 200, style, Grow, LogMagnitude)
		if want := float64(n) * style.Pitch(); plan.CanvasWidth != want {
			t.Fatalf("n=%d: expected canvas width %v, got %v", n, want, plan.CanvasWidth)
		}
		if plan.Offset != 0 {
			t.Fatalf("n=%d: expected zero offset, got %v", n, plan.Offset)
		}
		if len(plan.Bars) != n {
			t.Fatalf("n=%d: expected %d bars, got %d", n, n, len(plan.Bars))
		}
	}
}

func TestClampLimitsBarCountAndCenters(t *testing.T) {
	style := DefaultBarStyle()
	cases := []struct {
		n         int
		width     float64
		wantCount int
	}{
		{n: 10, width: 800, wantCount: 10},
		{n: 32, width: 800, wantCount: 32},
		{n: 33, width: 800, wantCount: 32},
		{n: 1000, width: 800, wantCount: 32},
		{n: 3, width: 10, wantCount: 0},
	}
	for _, tc := range cases {
		plan := PlanBars(make([]float64, tc.n), tc.width, 200, style, Clamp, LinearMagnitude)
		if plan.Count != tc.wantCount {
			t.Fatalf("n=%d width=%v: expected %d bars, got %d", tc.n, tc.width, tc.wantCount, plan.Count)
		}
		if float64(tc.n)*style.Pitch() <= tc.width && plan.Offset < 0 {
			t.Fatalf("n=%d width=%v: expected non-negative offset, got %v", tc.n, tc.width, plan.Offset)
		}
		if plan.CanvasWidth != tc.width {
			t.Fatalf("expected canvas width to stay %v, got %v", tc.width, plan.CanvasWidth)
		}
	}
}

func TestClampOffsetCentersBars(t *testing.T) {
	plan := PlanBars([]float64{0.1, 0.2}, 100, 200, DefaultBarStyle(), Clamp, LinearMagnitude)
	if plan.Offset != 25 {
		t.Fatalf("expected offset 25, got %v", plan.Offset)
	}
	if plan.Bars[1].X != 50 {
		t.Fatalf("expected second bar at x=50, got %v", plan.Bars[1].X)
	}
}

func TestPlanBarsKeepsSlotsOfSkippedSamples(t *testing.T) {
	plan := PlanBars([]float64{0.5, math.Inf(1), 0.5}, 800, 200, DefaultBarStyle(), Clamp, LinearMagnitude)
	if plan.Count != 3 || len(plan.Bars) != 2 {
		t.Fatalf("expected 3 slots and 2 bars, got %d slots and %d bars", plan.Count, len(plan.Bars))
	}
	if plan.Bars[1].Index != 2 || plan.Bars[1].X-plan.Bars[0].X != 50 {
		t.Fatalf("expected skipped slot to keep its pitch, got %+v", plan.Bars)
	}
}

func TestLinearMagnitudeReference(t *testing.T) {
	if got := LinearMagnitude(0.5, 200, 2); got != 45 {
		t.Fatalf("expected bar height 45, got %v", got)
	}
}

func TestMagnitudeHeightsAreMonotonicAndFloored(t *testing.T) {
	const minHeight = 2
	prevLin, prevLog := -1.0, -1.0
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000
		lin := LinearMagnitude(v, 200, minHeight)
		lg := LogMagnitude(v, 200, minHeight)
		if lin < minHeight || lg < minHeight {
			t.Fatalf("v=%v: heights %v/%v below minimum", v, lin, lg)
		}
		if lin < prevLin || lg < prevLog {
			t.Fatalf("v=%v: heights decreased (%v<%v or %v<%v)", v, lin, prevLin, lg, prevLog)
		}
		prevLin, prevLog = lin, lg
	}
}

func TestLogMagnitudeEndpointsAndShape(t *testing.T) {
	if got := LogMagnitude(0, 200, 2); got != 2 {
		t.Fatalf("expected minimum height at 0, got %v", got)
	}
	if got, want := LogMagnitude(1, 200, 0), LinearMagnitude(1, 200, 0); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected log and linear to agree at full scale, got %v vs %v", got, want)
	}

	// Equal spacing in v gives shrinking increments in height.
	prevStep := math.Inf(1)
	for i := 1; i <= 10; i++ {
		step := LogMagnitude(float64(i)/10, 200, 0) - LogMagnitude(float64(i-1)/10, 200, 0)
		if step >= prevStep {
			t.Fatalf("expected decreasing increments, step %d = %v after %v", i, step, prevStep)
		}
		prevStep = step
	}
}

func TestParsePolicy(t *testing.T) {
	for _, name := range []string{"fit", "clamp", "grow", "GROW "} {
		p, err := ParsePolicy(name)
		if err != nil {
			t.Fatalf("ParsePolicy(%q) unexpected error: %v", name, err)
		}
		if p == PolicyDefault {
			t.Fatalf("ParsePolicy(%q) returned default", name)
		}
	}
	if _, err := ParsePolicy("stretch"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestBarStyleValidate(t *testing.T) {
	if err := DefaultBarStyle().Validate(); err != nil {
		t.Fatalf("default style invalid: %v", err)
	}
	if err := (BarStyle{Width: 0, Gap: 1}).Validate(); err == nil {
		t.Fatal("expected error for zero width")
	}
	if err := (BarStyle{Width: 4, Gap: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative gap")
	}
}
