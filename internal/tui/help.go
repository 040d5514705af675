package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ─── Help Overlay ───────────────────────────────────────────────────────────

// renderHelpOverlay draws a centered popup with the chart legend and
// keybindings. Dismissed by pressing any key.
func (m Model) renderHelpOverlay(screenW, screenH int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSapphire)
	descStyle := lipgloss.NewStyle().Foreground(colorText)
	dimHintStyle := lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	var lines []string
	lines = append(lines, titleStyle.Render("  budgetview help"), "")

	// ── Chart ──
	lines = append(lines, headingStyle.Render("  Chart"), "")
	for _, row := range []string{
		"Each band is one budget category, stacked per year.",
		"The framed column is the selected year.",
		"Hover a band for its amount; click it to open its subcategories.",
		"Hidden categories collapse first, then fade out.",
	} {
		lines = append(lines, "    "+descStyle.Render(row))
	}
	lines = append(lines, "")

	// ── Keys ──
	lines = append(lines, headingStyle.Render("  Keys"), "")
	keys := []struct{ key, desc string }{
		{"↑↓ / j k", "Move the category cursor"},
		{"Space", "Show or hide the category under the cursor"},
		{"a", "Show all / hide all"},
		{"Enter", "Open the category under the cursor"},
		{"Backspace / Esc", "Back to the previous level"},
		{"p", "Toggle the category table"},
		{"PgUp / PgDn", "Scroll the table"},
		{"r", "Reload data"},
		{"t", "Cycle theme"},
		{"?", "Toggle this help"},
		{"q / Ctrl+C", "Quit"},
	}
	for _, k := range keys {
		lines = append(lines, "    "+keyStyle.Render(padRight(k.key, 18))+descStyle.Render(k.desc))
	}
	lines = append(lines, "", "  "+dimHintStyle.Render("Press any key to dismiss"))

	content := strings.Join(lines, "\n")

	contentW := 0
	for _, line := range lines {
		contentW = max(contentW, lipgloss.Width(line))
	}
	boxW := min(contentW+4, screenW-4)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorBase).
		Padding(1, 2).
		Width(boxW).
		Render(content)

	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}
