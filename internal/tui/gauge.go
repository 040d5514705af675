package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GaugeSegment is one colored run of a stacked gauge.
type GaugeSegment struct {
	Percent float64
	Color   lipgloss.Color
}

// RenderShareGauge draws a category's share of a year's total as a short bar
// followed by the percentage. A negative percent renders a dimmed track.
func RenderShareGauge(percent float64, width int, color lipgloss.Color) string {
	if width < 3 {
		width = 3
	}
	trackStyle := lipgloss.NewStyle().Foreground(colorSurface1)
	if percent < 0 {
		return trackStyle.Render(strings.Repeat("─", width)) + dimStyle.Render("     —")
	}
	percent = min(percent, 100)

	filled := int(percent / 100 * float64(width))
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		trackStyle.Render(strings.Repeat("━", width-filled))
	return fmt.Sprintf("%s %s", bar, labelStyle.Render(fmt.Sprintf("%5.1f%%", percent)))
}

// RenderStackedGauge lays segments side by side in one bar of the given
// width, largest remainder first so the bar is always exactly full when the
// segments sum to 100.
func RenderStackedGauge(segments []GaugeSegment, width int) string {
	if width < 1 {
		return ""
	}
	cells := make([]int, len(segments))
	rems := make([]float64, len(segments))
	used := 0
	for i, s := range segments {
		exact := max(s.Percent, 0) / 100 * float64(width)
		cells[i] = int(exact)
		rems[i] = exact - float64(cells[i])
		used += cells[i]
	}

	total := 0.0
	for _, s := range segments {
		total += max(s.Percent, 0)
	}
	target := width
	if total < 100-1e-9 {
		target = int(total / 100 * float64(width))
	}
	for used < target {
		best := -1
		for i := range rems {
			if best < 0 || rems[i] > rems[best] {
				best = i
			}
		}
		if best < 0 || rems[best] <= 0 {
			break
		}
		cells[best]++
		rems[best] = 0
		used++
	}

	var sb strings.Builder
	for i, s := range segments {
		if cells[i] > 0 {
			sb.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat("█", cells[i])))
		}
	}
	if used < width {
		sb.WriteString(lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("░", width-used)))
	}
	return sb.String()
}
