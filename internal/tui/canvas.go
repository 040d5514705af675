package tui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var brailleDots = [4][2]rune{
	{0x01, 0x08}, // top
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80}, // bottom
}

// ink is what a pixel was painted with. Later strokes win when a cell mixes
// inks.
type ink struct {
	color lipgloss.Color
	seq   int
}

// brailleCanvas packs 2x4 pixels into every terminal cell.
type brailleCanvas struct {
	cw, ch int   // character dimensions
	pw, ph int   // pixel dimensions (cw*2, ch*4)
	grid   []ink // flat [ph*pw], seq 0 = empty
	seq    int
}

func newBrailleCanvas(cw, ch int) *brailleCanvas {
	if cw < 0 {
		cw = 0
	}
	if ch < 0 {
		ch = 0
	}
	pw, ph := cw*2, ch*4
	return &brailleCanvas{cw: cw, ch: ch, pw: pw, ph: ph, grid: make([]ink, pw*ph)}
}

// stroke starts a new paint layer and returns its ink.
func (c *brailleCanvas) stroke(color lipgloss.Color) ink {
	c.seq++
	return ink{color: color, seq: c.seq}
}

func (c *brailleCanvas) set(px, py int, in ink) {
	if px >= 0 && px < c.pw && py >= 0 && py < c.ph {
		c.grid[py*c.pw+px] = in
	}
}

func (c *brailleCanvas) at(px, py int) (ink, bool) {
	if px < 0 || px >= c.pw || py < 0 || py >= c.ph {
		return ink{}, false
	}
	in := c.grid[py*c.pw+px]
	return in, in.seq > 0
}

func (c *brailleCanvas) drawLine(x0, y0, x1, y1 float64, in ink) {
	dx := x1 - x0
	dy := y1 - y0
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps == 0 {
		c.set(int(math.Round(x0)), int(math.Round(y0)), in)
		return
	}
	xInc := dx / steps
	yInc := dy / steps
	x, y := x0, y0
	for i := 0; i <= int(math.Ceil(steps)); i++ {
		c.set(int(math.Round(x)), int(math.Round(y)), in)
		x += xInc
		y += yInc
	}
}

// fillPolygons paints the interior of every closed subpath using the
// even-odd rule, sampling at pixel centers.
func (c *brailleCanvas) fillPolygons(polys [][]point, in ink) {
	for py := 0; py < c.ph; py++ {
		sy := float64(py) + 0.5
		var xs []float64
		for _, poly := range polys {
			if len(poly) < 3 {
				continue
			}
			for i := range poly {
				a, b := poly[i], poly[(i+1)%len(poly)]
				if (a.y <= sy) == (b.y <= sy) {
					continue
				}
				xs = append(xs, a.x+(sy-a.y)*(b.x-a.x)/(b.y-a.y))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := int(math.Ceil(xs[i] - 0.5))
			end := int(math.Floor(xs[i+1] - 0.5))
			for px := start; px <= end; px++ {
				c.set(px, py, in)
			}
		}
	}
}

func (c *brailleCanvas) fillCircle(cx, cy, r float64, in ink) {
	for py := int(math.Floor(cy - r)); py <= int(math.Ceil(cy+r)); py++ {
		for px := int(math.Floor(cx - r)); px <= int(math.Ceil(cx+r)); px++ {
			dx, dy := float64(px)-cx, float64(py)-cy
			if dx*dx+dy*dy <= r*r {
				c.set(px, py, in)
			}
		}
	}
}

func (c *brailleCanvas) strokeRect(x, y, w, h float64, in ink) {
	c.drawLine(x, y, x+w, y, in)
	c.drawLine(x+w, y, x+w, y+h, in)
	c.drawLine(x+w, y+h, x, y+h, in)
	c.drawLine(x, y+h, x, y, in)
}

func (c *brailleCanvas) render() []string {
	lines := make([]string, c.ch)
	for cy := 0; cy < c.ch; cy++ {
		var sb strings.Builder
		for cx := 0; cx < c.cw; cx++ {
			pattern := rune(0x2800)
			var top ink
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					in, ok := c.at(cx*2+dx, cy*4+dy)
					if !ok {
						continue
					}
					pattern |= brailleDots[dy][dx]
					if in.seq > top.seq {
						top = in
					}
				}
			}
			if pattern == 0x2800 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(top.color).Render(string(pattern)))
		}
		lines[cy] = sb.String()
	}
	return lines
}

type point struct{ x, y float64 }

// pen records path commands in canvas pixels. It satisfies curve.Context,
// so a chart path can be replayed straight onto the canvas.
type pen struct {
	dx, dy   float64
	subpaths [][]point
}

func (p *pen) MoveTo(x, y float64) {
	p.subpaths = append(p.subpaths, []point{{x + p.dx, y + p.dy}})
}

func (p *pen) LineTo(x, y float64) {
	if len(p.subpaths) == 0 {
		p.MoveTo(x, y)
		return
	}
	last := len(p.subpaths) - 1
	p.subpaths[last] = append(p.subpaths[last], point{x + p.dx, y + p.dy})
}

// ClosePath is implicit for fills; strokes never close.
func (p *pen) ClosePath() {}

func (p *pen) stroke(c *brailleCanvas, in ink) {
	for _, sub := range p.subpaths {
		for i := 1; i < len(sub); i++ {
			c.drawLine(sub[i-1].x, sub[i-1].y, sub[i].x, sub[i].y, in)
		}
	}
}

// blendColor mixes fg toward bg; t=0 keeps fg. Unparseable colors fall back
// to fg unchanged.
func blendColor(fg string, bg lipgloss.Color, t float64) lipgloss.Color {
	a, err := colorful.Hex(fg)
	if err != nil {
		return lipgloss.Color(fg)
	}
	b, err := colorful.Hex(string(bg))
	if err != nil {
		return lipgloss.Color(fg)
	}
	return lipgloss.Color(a.BlendRgb(b, t).Clamped().Hex())
}
