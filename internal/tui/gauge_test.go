package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestRenderShareGauge(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    string
	}{
		{"quarter", 25, " 25.0%"},
		{"clamped", 140, "100.0%"},
		{"hidden", -1, "—"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(RenderShareGauge(tt.percent, 8, lipgloss.Color("#64507d")))
			if !strings.Contains(out, tt.want) {
				t.Fatalf("gauge = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestRenderShareGaugeFillsProportionally(t *testing.T) {
	out := ansi.Strip(RenderShareGauge(50, 10, lipgloss.Color("#64507d")))
	if got := strings.Count(out, "━"); got != 10 {
		t.Fatalf("bar cells = %d, want 10", got)
	}
	if lipgloss.Width(out) != 10+1+6 {
		t.Fatalf("width = %d", lipgloss.Width(out))
	}
}

func TestRenderStackedGaugeIsExactlyFull(t *testing.T) {
	segments := []GaugeSegment{
		{Percent: 33.3, Color: "#64507d"},
		{Percent: 33.3, Color: "#8c70ae"},
		{Percent: 33.4, Color: "#c9a2f9"},
	}
	out := ansi.Strip(RenderStackedGauge(segments, 20))
	if got := strings.Count(out, "█"); got != 20 {
		t.Fatalf("filled cells = %d, want 20", got)
	}
	if strings.Contains(out, "░") {
		t.Fatal("full gauge should have no track")
	}
}

func TestRenderStackedGaugePartial(t *testing.T) {
	out := ansi.Strip(RenderStackedGauge([]GaugeSegment{{Percent: 50, Color: "#64507d"}}, 10))
	if strings.Count(out, "█") != 5 || strings.Count(out, "░") != 5 {
		t.Fatalf("gauge = %q", out)
	}
}

func TestRenderStackedGaugeEmpty(t *testing.T) {
	if out := ansi.Strip(RenderStackedGauge(nil, 4)); out != "░░░░" {
		t.Fatalf("gauge = %q", out)
	}
}
