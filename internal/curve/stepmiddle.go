// Package curve turns ordered samples into band-centered step paths.
//
// The interpolation places every vertical transition halfway between two
// consecutive x positions, so on a band axis the step happens on the band
// boundary instead of on the band's tick. Spacing is assumed uniform: the
// bandwidth is taken from the first gap and reused for the whole sequence.
package curve

// Context receives drawing instructions.
type Context interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
}

// Point is one sample of a line.
type Point struct {
	X, Y float64
}

// AreaPoint is one sample of an area: Y1 is the upper boundary, Y0 the lower.
type AreaPoint struct {
	X, Y0, Y1 float64
}

const (
	areaNone  = -1 // drawing a plain line
	areaUpper = 0  // first pass of an area (y1, forward)
	areaLower = 1  // second pass of an area (y0, reversed)
)

// StepMiddle implements the line/area generator protocol on top of a Context.
type StepMiddle struct {
	ctx      Context
	areaLine int

	x, y    float64
	hasPrev bool

	bandwidth    float64
	hasBandwidth bool

	point int
}

func NewStepMiddle(ctx Context) *StepMiddle {
	return &StepMiddle{ctx: ctx, areaLine: areaNone}
}

func (s *StepMiddle) AreaStart() {
	s.areaLine = areaUpper
}

func (s *StepMiddle) AreaEnd() {
	s.areaLine = areaNone
}

// LineStart begins a pass. The lower pass of an area keeps the last point and
// bandwidth of the upper pass.
func (s *StepMiddle) LineStart() {
	if s.areaLine != areaLower {
		s.hasPrev = false
		s.hasBandwidth = false
		s.x, s.y, s.bandwidth = 0, 0, 0
	}
	s.point = 0
}

func (s *StepMiddle) LineEnd() {
	switch s.areaLine {
	case areaUpper:
		s.areaLine = areaLower
	case areaLower:
		s.ctx.ClosePath()
	}
}

func (s *StepMiddle) Point(x, y float64) {
	if !s.hasBandwidth && s.hasPrev {
		s.bandwidth = x - s.x
		s.hasBandwidth = true
	}
	half := s.bandwidth / 2

	if s.areaLine != areaLower {
		if s.point == 0 {
			s.ctx.MoveTo(x, y)
		} else {
			if s.point == 1 {
				s.ctx.MoveTo(s.x-half, s.y)
			}
			edge := s.x + half
			s.ctx.LineTo(edge, s.y)
			s.ctx.LineTo(edge, y)
			s.ctx.LineTo(x+half, y)
		}
	} else {
		right := x
		if s.point == 0 {
			right = s.x
		}
		s.ctx.LineTo(right+half, y)
		s.ctx.LineTo(x-half, y)
	}

	s.x, s.y = x, y
	s.hasPrev = true
	s.point++
}

// Line draws an open step-middle path through pts.
func Line(ctx Context, pts []Point) {
	if len(pts) == 0 {
		return
	}
	s := NewStepMiddle(ctx)
	s.LineStart()
	for _, p := range pts {
		s.Point(p.X, p.Y)
	}
	s.LineEnd()
}

// Area draws a closed step-middle region between Y0 and Y1.
func Area(ctx Context, pts []AreaPoint) {
	if len(pts) == 0 {
		return
	}
	s := NewStepMiddle(ctx)
	s.AreaStart()
	s.LineStart()
	for _, p := range pts {
		s.Point(p.X, p.Y1)
	}
	s.LineEnd()
	s.LineStart()
	for i := len(pts) - 1; i >= 0; i-- {
		s.Point(pts[i].X, pts[i].Y0)
	}
	s.LineEnd()
	s.AreaEnd()
}
