package tui

import "github.com/charmbracelet/lipgloss"

// ─── Color Palette ──────────────────────────────────────────────────────────

var (
	colorBase     lipgloss.Color
	colorSurface0 lipgloss.Color
	colorSurface1 lipgloss.Color
	colorText     lipgloss.Color
	colorSubtext  lipgloss.Color
	colorDim      lipgloss.Color
	colorAccent   lipgloss.Color
	colorBlue     lipgloss.Color
	colorSapphire lipgloss.Color
	colorGreen    lipgloss.Color
	colorYellow   lipgloss.Color
	colorRed      lipgloss.Color
	colorLavender lipgloss.Color
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	headerBrandStyle lipgloss.Style
	headerStyle      lipgloss.Style
	helpStyle        lipgloss.Style
	helpKeyStyle     lipgloss.Style
	labelStyle       lipgloss.Style
	valueStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	errorStyle       lipgloss.Style
	loaderStyle      lipgloss.Style
	chartAxisStyle   lipgloss.Style
	cursorRowStyle   lipgloss.Style
	hoverRowStyle    lipgloss.Style
	tooltipStyle     lipgloss.Style
	sectionSepStyle  lipgloss.Style
	panelTitleStyle  lipgloss.Style
)

// applyTheme rebinds every color and style to t. Styles are values, so they
// are rebuilt rather than mutated.
func applyTheme(t Theme) {
	colorBase = t.Base
	colorSurface0 = t.Surface0
	colorSurface1 = t.Surface1
	colorText = t.Text
	colorSubtext = t.Subtext
	colorDim = t.Dim
	colorAccent = t.Accent
	colorBlue = t.Blue
	colorSapphire = t.Sapphire
	colorGreen = t.Green
	colorYellow = t.Yellow
	colorRed = t.Red
	colorLavender = t.Lavender

	headerBrandStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	helpStyle = lipgloss.NewStyle().Foreground(colorDim)
	helpKeyStyle = lipgloss.NewStyle().Foreground(colorSapphire).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	loaderStyle = lipgloss.NewStyle().Foreground(colorYellow)
	chartAxisStyle = lipgloss.NewStyle().Foreground(colorDim)
	cursorRowStyle = lipgloss.NewStyle().Background(colorSurface0)
	hoverRowStyle = lipgloss.NewStyle().Background(colorSurface1).Foreground(colorText)
	tooltipStyle = lipgloss.NewStyle().Background(colorSurface0).Foreground(colorText)
	sectionSepStyle = lipgloss.NewStyle().Foreground(colorSurface1)
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
}
