package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/janekbaraniewski/budgetview/internal/chart"
	"github.com/janekbaraniewski/budgetview/internal/curve"
)

func countInk(c *brailleCanvas) int {
	n := 0
	for _, in := range c.grid {
		if in.seq > 0 {
			n++
		}
	}
	return n
}

func TestEmptyCanvasRendersBlank(t *testing.T) {
	c := newBrailleCanvas(3, 2)
	lines := c.render()
	if len(lines) != 2 || lines[0] != "   " || lines[1] != "   " {
		t.Fatalf("lines = %q", lines)
	}
}

func TestFillPolygonsSquare(t *testing.T) {
	c := newBrailleCanvas(4, 2) // 8x8 pixels
	square := [][]point{{{0, 0}, {4, 0}, {4, 4}, {0, 4}}}
	c.fillPolygons(square, c.stroke("#ffffff"))

	if got := countInk(c); got != 16 {
		t.Fatalf("filled pixels = %d, want 16", got)
	}
	if _, ok := c.at(5, 5); ok {
		t.Fatal("pixel outside the square should stay empty")
	}
}

func TestFillPolygonsSkipsDegenerate(t *testing.T) {
	c := newBrailleCanvas(2, 1)
	c.fillPolygons([][]point{{{0, 0}, {4, 4}}}, c.stroke("#ffffff"))
	if got := countInk(c); got != 0 {
		t.Fatalf("filled pixels = %d, want 0", got)
	}
}

func TestRenderUsesLatestInk(t *testing.T) {
	c := newBrailleCanvas(1, 1)
	c.set(0, 0, c.stroke("#111111"))
	c.set(1, 3, c.stroke("#222222"))

	line := c.render()[0]
	if got := ansi.Strip(line); got != string(rune(0x2800|0x01|0x80)) {
		t.Fatalf("pattern = %q", got)
	}
	want := lipgloss.NewStyle().Foreground(lipgloss.Color("#222222")).Render(ansi.Strip(line))
	if line != want {
		t.Fatalf("cell should take the latest ink: %q vs %q", line, want)
	}
}

func TestPenReplaysChartPaths(t *testing.T) {
	var path curve.Path
	curve.Line(&path, []curve.Point{{X: 0, Y: 2}, {X: 6, Y: 2}})

	p := &pen{dx: 1, dy: 1}
	path.Replay(p)
	// The second sample moves back half a band before drawing.
	if len(p.subpaths) != 2 || p.subpaths[1][0] != (point{-2, 3}) {
		t.Fatalf("subpaths = %v", p.subpaths)
	}

	c := newBrailleCanvas(4, 2)
	p.stroke(c, c.stroke("#ffffff"))
	if _, ok := c.at(1, 3); !ok {
		t.Fatal("stroke should cover the offset origin")
	}
}

func TestBlendColor(t *testing.T) {
	if got := blendColor("#000000", "#ffffff", 0); got != "#000000" {
		t.Fatalf("t=0 = %q", got)
	}
	if got := blendColor("#000000", "#ffffff", 1); got != "#ffffff" {
		t.Fatalf("t=1 = %q", got)
	}
	if got := blendColor("not-a-color", "#ffffff", 0.5); got != "not-a-color" {
		t.Fatalf("invalid = %q", got)
	}
}

func TestDrawSceneSkipsFadedLayers(t *testing.T) {
	var area curve.Path
	curve.Area(&area, []curve.AreaPoint{{X: 0, Y0: 8, Y1: 0}, {X: 8, Y0: 8, Y1: 0}})

	sc := chart.Scene{
		Margin: chart.Margin{},
		Layers: []chart.LayerShape{{Color: "#64507d", Opacity: 0, Area: area}},
	}
	c := newBrailleCanvas(4, 2)
	drawScene(c, sc)
	if got := countInk(c); got != 0 {
		t.Fatalf("faded layer painted %d pixels", got)
	}

	sc.Layers[0].Opacity = 1
	drawScene(c, sc)
	if countInk(c) == 0 {
		t.Fatal("visible layer should paint")
	}
}

func TestOverlayKeepsWidth(t *testing.T) {
	line := strings.Repeat(".", 10)
	got := overlay(line, "abc", 8, 10)
	if ansi.Strip(got) != ".......abc" {
		t.Fatalf("overlay = %q", got)
	}
	if w := lipgloss.Width(got); w != 10 {
		t.Fatalf("width = %d", w)
	}
}
