package chart

import (
	"time"

	"github.com/janekbaraniewski/budgetview/internal/curve"
	"github.com/janekbaraniewski/budgetview/internal/selection"
	"github.com/janekbaraniewski/budgetview/internal/series"
	"github.com/janekbaraniewski/budgetview/internal/stack"
)

const yTickCount = 5

// Scene is everything a display adapter needs to draw one frame. All
// coordinates are plot-local: the origin is the top-left corner inside the
// margins.
type Scene struct {
	Width, Height float64
	Margin        Margin
	PlotWidth     float64
	PlotHeight    float64

	Layers    []LayerShape
	Outline   *Rect
	Highlight *Highlight
	Tooltip   *Tooltip

	XTicks []Tick
	YTicks []Tick

	Legend      []LegendItem
	ToggleLabel string

	Error   string
	Loading bool
}

// LayerShape is one category: its filled area, its top line and a dot on
// every real column.
type LayerShape struct {
	Key     string
	Code    string
	Name    string
	Color   string
	Opacity float64
	Area    curve.Path
	Line    curve.Path
	Dots    []Dot
}

type Dot struct {
	Column  int
	X, Y    float64
	R       float64
	Hovered bool
}

type Rect struct {
	X, Y, W, H float64
}

// Highlight is the hovered band. Clickable is set when selecting it drills
// down into child categories.
type Highlight struct {
	Rect
	Code      string
	Clickable bool
}

type Tooltip struct {
	X, Y  float64
	Name  string
	Year  string
	Value string
	Color string
}

type Tick struct {
	Pos   float64
	Label string
}

type LegendItem struct {
	Code   string
	Name   string
	Color  string
	Hidden bool
}

// Scene renders the state at now. It does not mutate the state.
func (s *State) Scene(now time.Time) Scene {
	sc := Scene{
		Width:       s.opts.Width,
		Height:      s.opts.Height,
		Margin:      s.opts.Margin,
		PlotWidth:   s.opts.PlotWidth(),
		PlotHeight:  s.opts.PlotHeight(),
		ToggleLabel: s.ToggleAllLabel(),
		Error:       s.errText,
		Loading:     s.loading,
	}
	if s.table == nil {
		return sc
	}

	columns := len(s.table.Columns)
	sel := s.sel.Current()
	displayed := make([][]stack.Band, len(s.table.Keys))

	for i, key := range s.table.Keys {
		bands := s.displayedBands(key, columns, now)
		displayed[i] = bands

		layer := LayerShape{
			Key:     key,
			Code:    series.CodeFromKey(key),
			Name:    DisplayName(s.table.Name(key)),
			Color:   s.opts.Color(i),
			Opacity: s.opacity(key, now),
		}

		areaPts := make([]curve.AreaPoint, columns)
		linePts := make([]curve.Point, columns)
		for c, b := range bands {
			x := s.x.Center(c)
			areaPts[c] = curve.AreaPoint{X: x, Y0: s.y.Scale(b.Lower), Y1: s.y.Scale(b.Upper)}
			linePts[c] = curve.Point{X: x, Y: s.y.Scale(b.Upper)}

			if s.table.Columns[c].Dummy() {
				continue
			}
			cur := selection.Selection{Column: c, Category: i}
			layer.Dots = append(layer.Dots, Dot{
				Column:  c,
				X:       x,
				Y:       s.y.Scale(b.Upper),
				R:       s.dotRadius(cur, now),
				Hovered: cur == sel,
			})
		}
		curve.Area(&layer.Area, areaPts)
		curve.Line(&layer.Line, linePts)

		sc.Layers = append(sc.Layers, layer)
		sc.Legend = append(sc.Legend, LegendItem{
			Code:   layer.Code,
			Name:   layer.Name,
			Color:  layer.Color,
			Hidden: s.vis.IsHidden(key),
		})
	}

	sc.Outline = s.outline(displayed)
	sc.XTicks, sc.YTicks = s.ticks()

	if sel.Valid() && sel.Category < len(displayed) && sel.Column < columns {
		key := s.table.Keys[sel.Category]
		b := displayed[sel.Category][sel.Column]
		top, bottom := s.y.Scale(b.Upper), s.y.Scale(b.Lower)
		code := series.CodeFromKey(key)

		sc.Highlight = &Highlight{
			Rect:      Rect{X: s.x.At(sel.Column), Y: top, W: s.x.Bandwidth(), H: bottom - top},
			Code:      code,
			Clickable: s.table.HasChildren,
		}
		sc.Tooltip = &Tooltip{
			X:     s.x.Center(sel.Column),
			Y:     top - s.opts.TooltipOffset,
			Name:  DisplayName(s.table.Name(key)),
			Year:  s.table.Columns[sel.Column].Label,
			Value: FormatAmount(s.table.Value(sel.Column, key)),
			Color: s.opts.Color(sel.Category),
		}
	}

	return sc
}

// outline frames the selected column from the baseline to the top of its
// displayed stack.
func (s *State) outline(displayed [][]stack.Band) *Rect {
	col := s.table.SelectedColumn
	if col < 0 || col >= len(s.table.Columns) {
		return nil
	}
	top := 0.0
	for _, bands := range displayed {
		if col < len(bands) && bands[col].Upper > top {
			top = bands[col].Upper
		}
	}
	y := s.y.Scale(top)
	return &Rect{
		X: s.x.Step() * float64(col),
		Y: y,
		W: s.x.Bandwidth(),
		H: s.y.Scale(0) - y,
	}
}

func (s *State) ticks() (xs, ys []Tick) {
	for i, col := range s.table.Columns {
		if col.Dummy() {
			continue
		}
		xs = append(xs, Tick{Pos: s.x.Center(i), Label: col.Label})
	}
	for _, v := range s.y.Ticks(yTickCount) {
		ys = append(ys, Tick{Pos: s.y.Scale(v), Label: FormatTick(v)})
	}
	return xs, ys
}

// LayerAt returns the shape for code, if present.
func (sc Scene) LayerAt(code string) (LayerShape, bool) {
	for _, l := range sc.Layers {
		if l.Code == code {
			return l, true
		}
	}
	return LayerShape{}, false
}
