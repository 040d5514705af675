// Package scale maps data onto screen coordinates and back.
package scale

import (
	"math"

	"github.com/samber/lo"
)

// Band maps discrete labels onto equal-width intervals with no padding.
type Band struct {
	domain     []string
	start, end float64
}

func NewBand(domain []string, start, end float64) Band {
	return Band{domain: append([]string(nil), domain...), start: start, end: end}
}

func (b Band) Domain() []string {
	return b.domain
}

func (b Band) Len() int {
	return len(b.domain)
}

// Step is the distance between the starts of two adjacent bands.
func (b Band) Step() float64 {
	if len(b.domain) == 0 {
		return 0
	}
	return (b.end - b.start) / float64(len(b.domain))
}

// Bandwidth equals Step since bands are unpadded.
func (b Band) Bandwidth() float64 {
	return b.Step()
}

// Start is the position of the first band.
func (b Band) Start() float64 {
	return b.start
}

// At returns the start position of band i.
func (b Band) At(i int) float64 {
	return b.start + float64(i)*b.Step()
}

// Center returns the middle of band i.
func (b Band) Center(i int) float64 {
	return b.At(i) + b.Bandwidth()/2
}

// Position returns the start of the band for label.
func (b Band) Position(label string) (float64, bool) {
	i := lo.IndexOf(b.domain, label)
	if i < 0 {
		return 0, false
	}
	return b.At(i), true
}

// Invert returns the index of the band containing x, clamped to the domain.
// It returns -1 only for an empty domain.
func (b Band) Invert(x float64) int {
	if len(b.domain) == 0 {
		return -1
	}
	step := b.Step()
	if step == 0 {
		return 0
	}
	idx := int(math.Floor((x - b.start) / step))
	return lo.Clamp(idx, 0, len(b.domain)-1)
}

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

func (l Linear) Domain() (float64, float64) {
	return l.d0, l.d1
}

func (l Linear) Range() (float64, float64) {
	return l.r0, l.r1
}

// Scale maps v into the range. A collapsed domain maps to the range midpoint.
func (l Linear) Scale(v float64) float64 {
	if l.d1 == l.d0 {
		return (l.r0 + l.r1) / 2
	}
	t := (v - l.d0) / (l.d1 - l.d0)
	return l.r0 + t*(l.r1-l.r0)
}

// Invert maps a range position back into the domain.
func (l Linear) Invert(p float64) float64 {
	if l.r1 == l.r0 {
		return l.d0
	}
	t := (p - l.r0) / (l.r1 - l.r0)
	return l.d0 + t*(l.d1-l.d0)
}

// Ticks returns roughly n evenly spaced round values across the domain.
func (l Linear) Ticks(n int) []float64 {
	lo0, hi := math.Min(l.d0, l.d1), math.Max(l.d0, l.d1)
	if n <= 0 || hi == lo0 {
		return []float64{lo0}
	}
	step := niceStep((hi - lo0) / float64(n))
	first := math.Ceil(lo0/step) * step
	var out []float64
	for v := first; v <= hi+step*1e-9; v += step {
		out = append(out, math.Round(v/step)*step)
	}
	return out
}

func niceStep(raw float64) float64 {
	if raw <= 0 {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm >= 7.07:
		return 10 * mag
	case norm >= 3.16:
		return 5 * mag
	case norm >= 1.41:
		return 2 * mag
	default:
		return mag
	}
}
