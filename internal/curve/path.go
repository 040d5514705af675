package curve

import (
	"strconv"
	"strings"
)

type Op byte

const (
	OpMove  Op = 'M'
	OpLine  Op = 'L'
	OpClose Op = 'Z'
)

type Command struct {
	Op   Op
	X, Y float64
}

// Path records commands so they can be replayed on another Context or
// serialized as SVG path data.
type Path struct {
	Commands []Command
}

func (p *Path) MoveTo(x, y float64) {
	p.Commands = append(p.Commands, Command{Op: OpMove, X: x, Y: y})
}

func (p *Path) LineTo(x, y float64) {
	p.Commands = append(p.Commands, Command{Op: OpLine, X: x, Y: y})
}

func (p *Path) ClosePath() {
	p.Commands = append(p.Commands, Command{Op: OpClose})
}

// Replay sends the recorded commands to ctx.
func (p *Path) Replay(ctx Context) {
	for _, c := range p.Commands {
		switch c.Op {
		case OpMove:
			ctx.MoveTo(c.X, c.Y)
		case OpLine:
			ctx.LineTo(c.X, c.Y)
		case OpClose:
			ctx.ClosePath()
		}
	}
}

// String returns SVG path data, e.g. "M0,5L5,5Z".
func (p *Path) String() string {
	var sb strings.Builder
	for _, c := range p.Commands {
		sb.WriteByte(byte(c.Op))
		if c.Op == OpClose {
			continue
		}
		sb.WriteString(formatCoord(c.X))
		sb.WriteByte(',')
		sb.WriteString(formatCoord(c.Y))
	}
	return sb.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// VerticalTransitions returns the x positions of LineTo segments that change
// y without changing x.
func (p *Path) VerticalTransitions() []float64 {
	var out []float64
	var cx, cy float64
	for _, c := range p.Commands {
		switch c.Op {
		case OpMove:
			cx, cy = c.X, c.Y
		case OpLine:
			if c.X == cx && c.Y != cy {
				out = append(out, c.X)
			}
			cx, cy = c.X, c.Y
		}
	}
	return out
}
