package canvas

import "fmt"

// Op is one recorded Surface call.
type Op struct {
	Name  string
	Args  []float64
	Paint Paint
}

func (o Op) String() string {
	return fmt.Sprintf("%s%v", o.Name, o.Args)
}

// Recorder is a Surface that records calls instead of drawing. Set Fail to
// make Context report ErrNoContext.
type Recorder struct {
	Width, Height int
	Fail          bool
	Ops           []Op
}

// NewRecorder creates a recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Context() (Surface, error) {
	if r.Fail {
		return nil, ErrNoContext
	}
	return r, nil
}

// Count returns how many calls named name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Find returns the recorded calls named name.
func (r *Recorder) Find(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() { r.Ops = nil }

func (r *Recorder) record(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
	r.record("Resize", float64(width), float64(height))
}

func (r *Recorder) Clear()              { r.record("Clear") }
func (r *Recorder) BeginPath()          { r.record("BeginPath") }
func (r *Recorder) MoveTo(x, y float64) { r.record("MoveTo", x, y) }
func (r *Recorder) LineTo(x, y float64) { r.record("LineTo", x, y) }
func (r *Recorder) Stroke()             { r.record("Stroke") }

func (r *Recorder) FillRect(x, y, w, h float64) { r.record("FillRect", x, y, w, h) }

func (r *Recorder) FillRoundRect(x, y, w, h, radius float64) {
	r.record("FillRoundRect", x, y, w, h, radius)
}

func (r *Recorder) SetStrokeStyle(p Paint) {
	r.Ops = append(r.Ops, Op{Name: "SetStrokeStyle", Paint: p})
}

func (r *Recorder) SetFillStyle(p Paint) {
	r.Ops = append(r.Ops, Op{Name: "SetFillStyle", Paint: p})
}

func (r *Recorder) SetLineWidth(w float64) { r.record("SetLineWidth", w) }

func (r *Recorder) LinearGradient(x0, y0, x1, y1 float64) *Gradient {
	r.record("LinearGradient", x0, y0, x1, y1)
	return NewLinearGradient(x0, y0, x1, y1)
}
