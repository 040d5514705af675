package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/janekbaraniewski/budgetview/internal/chart"
	"github.com/janekbaraniewski/budgetview/internal/series"
	"github.com/samber/lo"
)

const (
	headerHeight = 2
	footerHeight = 2
	axisWidth    = 10
	minLegendW   = 24
	maxLegendW   = 40
	minTableH    = 5
	tableColW    = 14
	shareGaugeW  = 5

	// fadedOpacity is the point below which a fading layer is no longer drawn.
	fadedOpacity = 0.05
)

// chartMargin is in braille pixels: one text row of headroom for the tooltip.
var chartMargin = chart.Margin{Top: 4, Right: 1, Bottom: 1, Left: 1}

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// layout places every panel on screen. The plot rect is the braille canvas
// only; axis labels sit to its left and below it.
type layout struct {
	plot   rect
	legend rect
	table  rect
}

func computeLayout(w, h int, tableOpen bool) layout {
	contentH := h - headerHeight - footerHeight
	tableH := 0
	if tableOpen {
		tableH = max(contentH*2/5, minTableH)
	}
	regionH := contentH - tableH

	legendW := clamp(w/3, minLegendW, maxLegendW)
	plotX := axisWidth + 1
	return layout{
		plot:   rect{x: plotX, y: headerHeight, w: max(w-legendW-1-plotX, 0), h: max(regionH-1, 0)},
		legend: rect{x: w - legendW, y: headerHeight, w: legendW, h: regionH},
		table:  rect{x: 0, y: headerHeight + regionH, w: w, h: tableH},
	}
}

// chartSize is the canvas size in braille pixels for the plot rect.
func (l layout) chartSize() (float64, float64) {
	return float64(l.plot.w * 2), float64(l.plot.h * 4)
}

// toChart maps a terminal cell to plot-local chart coordinates, aiming at
// the middle of the cell.
func (l layout) toChart(x, y int) (float64, float64) {
	px := float64((x-l.plot.x)*2+1) - chartMargin.Left
	py := float64((y-l.plot.y)*4+2) - chartMargin.Top
	return px, py
}

// drawScene paints areas, the selected-year outline, lines, the hover band
// and dots, in that order.
func drawScene(c *brailleCanvas, sc chart.Scene) {
	dx, dy := sc.Margin.Left, sc.Margin.Top

	for _, layer := range sc.Layers {
		if layer.Opacity <= fadedOpacity {
			continue
		}
		p := &pen{dx: dx, dy: dy}
		layer.Area.Replay(p)
		c.fillPolygons(p.subpaths, c.stroke(blendColor(layer.Color, colorBase, 1-0.6*layer.Opacity)))
	}

	if o := sc.Outline; o != nil {
		c.strokeRect(o.X+dx, o.Y+dy, o.W, o.H, c.stroke(colorSurface1))
	}

	for _, layer := range sc.Layers {
		if layer.Opacity <= fadedOpacity {
			continue
		}
		p := &pen{dx: dx, dy: dy}
		layer.Line.Replay(p)
		p.stroke(c, c.stroke(blendColor(layer.Color, colorBase, 1-layer.Opacity)))
	}

	if hl := sc.Highlight; hl != nil && hl.Clickable {
		c.strokeRect(hl.X+dx, hl.Y+dy, hl.W, hl.H, c.stroke(colorAccent))
	}

	for _, layer := range sc.Layers {
		if layer.Opacity <= fadedOpacity {
			continue
		}
		for _, d := range layer.Dots {
			color := lipgloss.Color(layer.Color)
			if d.Hovered {
				color = colorText
			}
			// Dot radii are in screen units; a braille pixel is far coarser.
			c.fillCircle(d.X+dx, d.Y+dy, d.R/3, c.stroke(color))
		}
	}
}

// renderChartRegion returns the y axis, canvas and x labels, padded to
// width w.
func renderChartRegion(sc chart.Scene, l layout, w int) []string {
	c := newBrailleCanvas(l.plot.w, l.plot.h)
	drawScene(c, sc)
	rows := c.render()

	yLabels := make(map[int]string, len(sc.YTicks))
	for _, t := range sc.YTicks {
		yLabels[int((t.Pos+sc.Margin.Top)/4)] = t.Label
	}

	if tt := sc.Tooltip; tt != nil && len(rows) > 0 {
		text := tooltipText(tt)
		row := clamp(int((tt.Y+sc.Margin.Top)/4), 0, len(rows)-1)
		col := int(math.Round((tt.X+sc.Margin.Left)/2)) - lipgloss.Width(text)/2
		rows[row] = overlay(rows[row], text, col, l.plot.w)
	}

	var msg string
	switch {
	case sc.Error != "":
		msg = errorStyle.Render("⚠ " + sc.Error)
	case sc.Loading:
		msg = loaderStyle.Render("Loading…")
	}
	if msg != "" && len(rows) > 0 {
		col := (l.plot.w - lipgloss.Width(msg)) / 2
		rows[len(rows)/2] = overlay(rows[len(rows)/2], msg, col, l.plot.w)
	}

	out := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		axis := "│"
		label := ""
		if lbl, ok := yLabels[i]; ok {
			axis = "┤"
			label = lbl
		}
		line := chartAxisStyle.Render(padLeft(label, axisWidth)+axis) + row
		out = append(out, fitAnsiWidth(line, w))
	}
	out = append(out, fitAnsiWidth(chartAxisStyle.Render(strings.Repeat(" ", axisWidth)+"└")+renderXLabels(sc, l.plot.w), w))
	return out
}

func tooltipText(tt *chart.Tooltip) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(tt.Color)).Background(colorSurface0).Render(" ●")
	return dot + tooltipStyle.Render(" "+tt.Name+" · "+tt.Year+" · "+tt.Value+" ")
}

// renderXLabels centers each year under its column, dropping labels that
// would collide with the previous one.
func renderXLabels(sc chart.Scene, w int) string {
	buf := []rune(strings.Repeat(" ", w))
	lastEnd := -1
	for _, t := range sc.XTicks {
		label := []rune(t.Label)
		start := int(math.Round((t.Pos+sc.Margin.Left)/2)) - len(label)/2
		if start <= lastEnd || start < 0 || start+len(label) > w {
			continue
		}
		copy(buf[start:], label)
		lastEnd = start + len(label)
	}
	return labelStyle.Render(string(buf))
}

// overlay splices text into an ANSI line at cell column col, keeping the
// line width.
func overlay(line, text string, col, width int) string {
	tw := lipgloss.Width(text)
	if tw > width {
		text = ansi.Truncate(text, width, "…")
		tw = lipgloss.Width(text)
	}
	col = clamp(col, 0, max(width-tw, 0))
	left := ansi.Cut(line, 0, col)
	right := ansi.Cut(line, col+tw, width)
	return left + text + right
}

// legendRow is one line of the toggle list. Row 0 is the aggregate control.
type legendRow struct {
	code   string
	name   string
	color  string
	hidden bool
	// share of the selected year's visible total, -1 when hidden.
	share float64
}

func (m Model) legendRows() []legendRow {
	table := m.chart.Table()
	rows := []legendRow{{code: allRowCode, name: m.chart.ToggleAllLabel()}}
	if table == nil {
		return rows
	}
	opts := m.chart.Options()
	col := table.SelectedColumn
	total := m.chart.Stack().Total(col)
	return append(rows, lo.Map(table.Keys, func(key string, i int) legendRow {
		code := series.CodeFromKey(key)
		row := legendRow{
			code:   code,
			name:   chart.DisplayName(table.Name(key)),
			color:  opts.Color(i),
			hidden: m.chart.IsHidden(code),
			share:  -1,
		}
		if !row.hidden && total > 0 {
			row.share = table.Value(col, key) / total * 100
		}
		return row
	})...)
}

func (m Model) renderLegend(r rect) []string {
	title := " Categories"
	if table := m.chart.Table(); table != nil && table.SelectedColumn >= 0 {
		title += " · " + table.Columns[table.SelectedColumn].Label
	}
	lines := []string{panelTitleStyle.Render(title)}

	rows := m.legendRows()
	var segments []GaugeSegment
	for i, row := range rows {
		var line string
		if row.code == allRowCode {
			line = " " + helpKeyStyle.Render("[a]") + " " + labelStyle.Render(row.name)
		} else {
			box := "[x]"
			name := valueStyle
			if row.hidden {
				box = "[ ]"
				name = dimStyle
			}
			color := lipgloss.Color(row.color)
			gauge := RenderShareGauge(row.share, shareGaugeW, color)
			nameW := max(r.w-7-lipgloss.Width(gauge)-1, 1)
			line = " " + labelStyle.Render(box) + " " +
				lipgloss.NewStyle().Foreground(color).Render("●") + " " +
				name.Render(padRight(ansi.Truncate(row.name, nameW, "…"), nameW)) + gauge
			if row.share > 0 {
				segments = append(segments, GaugeSegment{Percent: row.share, Color: color})
			}
		}
		line = fitAnsiWidth(line, r.w)
		if i == m.cursor {
			line = cursorRowStyle.Render(ansi.Strip(line))
		}
		lines = append(lines, line)
	}
	if len(rows) > 1 {
		lines = append(lines, "", " "+RenderStackedGauge(segments, max(r.w-2, 1)))
	}
	return padLines(lines, r.w, r.h)
}

// renderTable draws the category table panel: one row per category, one
// column per year.
func (m Model) renderTable(r rect) []string {
	table := m.chart.Table()
	lines := []string{sectionSepStyle.Render(strings.Repeat("─", r.w))}
	title := panelTitleStyle.Render(" Table")
	if table == nil {
		return padLines(append(lines, title), r.w, r.h)
	}

	years := lo.Filter(table.Columns, func(c series.Column, _ int) bool { return !c.Dummy() })
	nameW := max(r.w-2-len(years)*tableColW, 8)

	header := " " + padRight("", nameW)
	for _, c := range years {
		header += padLeft(c.Label, tableColW)
	}
	lines = append(lines, title, labelStyle.Render(fitAnsiWidth(header, r.w)))

	visible := m.tableVisibleRows()
	total := len(table.Keys)
	offset := clamp(m.table.offset, 0, max(total-visible, 0))
	for i := offset; i < min(offset+visible, total); i++ {
		key := table.Keys[i]
		code := series.CodeFromKey(key)
		hidden := m.chart.IsHidden(code)

		row := " " + padRight(ansi.Truncate(chart.DisplayName(table.Name(key)), nameW-1, "…"), nameW)
		for _, c := range years {
			cell := "—"
			if !hidden {
				cell = chart.FormatTick(c.Values[key])
			}
			row += padLeft(cell, tableColW)
		}
		row = fitAnsiWidth(row, r.w)

		switch {
		case code == m.table.hover:
			row = hoverRowStyle.Render(row)
		case hidden:
			row = dimStyle.Render(row)
		default:
			row = valueStyle.Render(row)
		}
		lines = append(lines, row)
	}

	lines = padLines(lines, r.w, r.h-1)
	return append(lines, renderVerticalScrollBarLine(r.w, offset, visible, total))
}

// tableVisibleRows excludes the separator, title, header and scroll bar lines.
func (m Model) tableVisibleRows() int {
	return max(m.layout().table.h-4, 0)
}

// tableRowAt returns the category code under screen row y, if any.
func (m Model) tableRowAt(l layout, x, y int) (string, bool) {
	table := m.chart.Table()
	if table == nil || !l.table.contains(x, y) {
		return "", false
	}
	i := y - l.table.y - 3
	if i < 0 || i >= m.tableVisibleRows() {
		return "", false
	}
	idx := clamp(m.table.offset, 0, max(len(table.Keys)-m.tableVisibleRows(), 0)) + i
	if idx >= len(table.Keys) {
		return "", false
	}
	return series.CodeFromKey(table.Keys[idx]), true
}

func padLines(lines []string, w, h int) []string {
	if h < 0 {
		h = 0
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	lines = lines[:h]
	for i := range lines {
		lines[i] = fitAnsiWidth(lines[i], w)
	}
	return lines
}

func padLeft(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
