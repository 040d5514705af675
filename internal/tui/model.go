package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/janekbaraniewski/budgetview/internal/bus"
	"github.com/janekbaraniewski/budgetview/internal/chart"
	"github.com/janekbaraniewski/budgetview/internal/core"
	"github.com/janekbaraniewski/budgetview/internal/route"
	"github.com/janekbaraniewski/budgetview/internal/source"
	"github.com/janekbaraniewski/budgetview/internal/visibility"
	"go.uber.org/zap"
)

// TableBusName identifies the category table on the event bus.
const TableBusName = "table"

const allRowCode = visibility.AllValue

var errNoSource = errors.New("no data source configured")

const (
	defaultLoaderDelay  = 500 * time.Millisecond
	defaultTickInterval = 50 * time.Millisecond
)

// DataMsg carries the result of one fetch cycle.
type DataMsg struct {
	Cycle string
	Resp  core.YearsResponse
	Err   error
}

type loaderMsg struct {
	cycle string
}

type tickMsg time.Time

// NavigateMsg moves the dashboard to another fragment, as a hash change would.
type NavigateMsg struct {
	Fragment route.Fragment
}

// ReloadMsg re-fetches the current fragment.
type ReloadMsg struct{}

// RowHoverMsg injects a hover from outside the dashboard. It is delivered to
// every bus subscriber.
type RowHoverMsg struct {
	Code string
}

// AppUpdateMsg announces a newer release in the footer.
type AppUpdateMsg struct {
	CurrentVersion string
	LatestVersion  string
	UpgradeHint    string
	NotesURL       string
}

type themePersistedMsg struct {
	err error
}

// tablePanel is shared by pointer so bus handlers see the live value across
// Model copies.
type tablePanel struct {
	offset int
	hover  string
}

// Options configures a dashboard Model.
type Options struct {
	Chart        chart.Options
	Source       source.Source
	Fragment     route.Fragment
	LoaderDelay  time.Duration
	TickInterval time.Duration
	Logger       *zap.Logger
	// PersistTheme stores the theme picked with "t". Nil keeps it in memory.
	PersistTheme func(name string) error
	// Now defaults to time.Now.
	Now func() time.Time
}

type Model struct {
	chart  *chart.State
	bus    *bus.Bus
	source source.Source
	log    *zap.Logger
	now    func() time.Time

	loaderDelay  time.Duration
	tickInterval time.Duration
	persistTheme func(string) error

	cycle   string
	pending bool
	ticking bool
	history []route.Fragment

	cursor    int
	overPlot  bool
	overTable bool
	table     *tablePanel
	showHelp  bool
	status    string
	notice    string

	width  int
	height int
}

func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.LoaderDelay <= 0 {
		opts.LoaderDelay = defaultLoaderDelay
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	chartOpts := opts.Chart
	chartOpts.Margin = chartMargin
	b := bus.New()
	st := chart.New(chartOpts, b, logger)
	st.SetFragment(opts.Fragment)

	m := Model{
		chart:        st,
		bus:          b,
		source:       opts.Source,
		log:          logger,
		now:          now,
		loaderDelay:  opts.LoaderDelay,
		tickInterval: opts.TickInterval,
		persistTheme: opts.PersistTheme,
		cycle:        uuid.NewString(),
		pending:      true,
		table:        &tablePanel{},
	}

	panel := m.table
	b.Subscribe(chart.BusName, func(msg bus.RowHover) { st.Mirror(msg, now()) })
	b.Subscribe(TableBusName, func(msg bus.RowHover) { panel.hover = msg.Code })
	return m
}

// Chart exposes the chart state, mainly for tests and exports.
func (m Model) Chart() *chart.State {
	return m.chart
}

func (m Model) Init() tea.Cmd {
	return m.fetchCmd(m.cycle, m.chart.Fragment())
}

func (m Model) fetchCmd(cycle string, frag route.Fragment) tea.Cmd {
	src := m.source
	fetch := func() tea.Msg {
		if src == nil {
			return DataMsg{Cycle: cycle, Err: errNoSource}
		}
		resp, err := src.Fetch(context.Background(), frag)
		return DataMsg{Cycle: cycle, Resp: resp, Err: err}
	}
	loader := tea.Tick(m.loaderDelay, func(time.Time) tea.Msg { return loaderMsg{cycle: cycle} })
	return tea.Batch(fetch, loader)
}

// startFetch supersedes any pending cycle.
func (m Model) startFetch() (Model, tea.Cmd) {
	m.cycle = uuid.NewString()
	m.pending = true
	m.log.Debug("fetch started", zap.String("cycle", m.cycle), zap.String("fragment", m.chart.Fragment().String()))
	return m, m.fetchCmd(m.cycle, m.chart.Fragment())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ensureTick starts the animation clock when a transition is in flight and
// the clock is idle.
func (m Model) ensureTick() (Model, tea.Cmd) {
	if m.ticking || !m.chart.Animating() {
		return m, nil
	}
	m.ticking = true
	return m, m.tickCmd()
}

func (m Model) persistThemeCmd(name string) tea.Cmd {
	persist := m.persistTheme
	if persist == nil {
		return nil
	}
	return func() tea.Msg {
		return themePersistedMsg{err: persist(name)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncChartSize()
		return m, nil

	case DataMsg:
		if msg.Cycle != m.cycle {
			m.log.Debug("stale response dropped", zap.String("cycle", msg.Cycle))
			return m, nil
		}
		m.pending = false
		if msg.Err != nil {
			m.chart.Fail(msg.Err)
			return m, nil
		}
		if err := m.chart.Load(msg.Resp, m.now()); err != nil {
			m.log.Debug("showing dataset error inline", zap.String("cycle", msg.Cycle), zap.Error(err))
		}
		m.cursor = clamp(m.cursor, 0, len(m.legendRows())-1)
		return m.ensureTick()

	case loaderMsg:
		if msg.cycle == m.cycle && m.pending {
			m.chart.SetLoading(true)
		}
		return m, nil

	case tickMsg:
		if m.chart.Advance(m.now()) {
			return m, m.tickCmd()
		}
		m.ticking = false
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Fragment, true)

	case ReloadMsg:
		return m.startFetch()

	case RowHoverMsg:
		m.bus.Publish("", bus.NewRowHover(msg.Code))
		return m.ensureTick()

	case AppUpdateMsg:
		m.notice = fmt.Sprintf("%s available (%s): %s", msg.LatestVersion, msg.CurrentVersion, msg.UpgradeHint)
		if msg.NotesURL != "" && !strings.Contains(msg.UpgradeHint, msg.NotesURL) {
			m.notice += ", notes at " + msg.NotesURL
		}
		return m, nil

	case themePersistedMsg:
		if msg.err != nil {
			m.log.Warn("theme persist failed", zap.Error(msg.err))
			m.status = "theme not saved: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

// navigate applies a fragment change. Only anchor or code changes re-fetch;
// the popup flag just opens or closes the table panel.
func (m Model) navigate(next route.Fragment, push bool) (Model, tea.Cmd) {
	prev := m.chart.Fragment()
	if next == prev {
		return m, nil
	}
	m.chart.SetFragment(next)
	m.syncChartSize()
	if !route.NeedsRefetch(prev, next) {
		return m, nil
	}
	if push {
		m.history = append(m.history, prev)
	}
	m.cursor = 0
	m.table.offset = 0
	m.table.hover = ""
	return m.startFetch()
}

func (m Model) back() (Model, tea.Cmd) {
	if n := len(m.history); n > 0 {
		prev := m.history[n-1]
		m.history = m.history[:n-1]
		return m.navigate(prev, false)
	}
	frag := m.chart.Fragment()
	if frag.Code == "" {
		return m, nil
	}
	return m.navigate(frag.WithCode(""), false)
}

func navigateCmd(frag route.Fragment) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Fragment: frag} }
}

func (m Model) layout() layout {
	return computeLayout(m.width, m.height, m.chart.Fragment().Popup)
}

func (m Model) syncChartSize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	w, h := m.layout().chartSize()
	if w > 0 && h > 0 {
		m.chart.Resize(w, h)
	}
}

// toggleRow applies a legend row: row 0 is the aggregate control.
func (m Model) toggleRow(idx int) (Model, tea.Cmd) {
	rows := m.legendRows()
	if idx < 0 || idx >= len(rows) {
		return m, nil
	}
	now := m.now()
	if rows[idx].code == allRowCode {
		m.chart.ToggleAll(now)
	} else {
		m.chart.Apply(rows[idx].code, rows[idx].hidden, now)
	}
	return m.ensureTick()
}

// drill navigates into the category under the legend cursor.
func (m Model) drill() (Model, tea.Cmd) {
	table := m.chart.Table()
	rows := m.legendRows()
	if table == nil || !table.HasChildren || m.cursor <= 0 || m.cursor >= len(rows) {
		return m, nil
	}
	return m, navigateCmd(m.chart.Fragment().WithCode(rows[m.cursor].code))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, len(m.legendRows())-1)
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, len(m.legendRows())-1)
	case " ":
		return m.toggleRow(m.cursor)
	case "a":
		m.chart.ToggleAll(m.now())
		return m.ensureTick()
	case "enter":
		if m.cursor == 0 {
			return m.toggleRow(0)
		}
		return m.drill()
	case "p":
		frag := m.chart.Fragment()
		return m, navigateCmd(frag.WithPopup(!frag.Popup))
	case "backspace", "esc":
		return m.back()
	case "r":
		return m.startFetch()
	case "t":
		name := CycleTheme()
		m.status = ""
		return m, m.persistThemeCmd(name)
	case "pgdown":
		m.scrollTable(m.tableVisibleRows())
	case "pgup":
		m.scrollTable(-m.tableVisibleRows())
	}
	return m, nil
}

func (m Model) scrollTable(delta int) {
	table := m.chart.Table()
	if table == nil {
		return
	}
	maxOffset := max(len(table.Keys)-m.tableVisibleRows(), 0)
	m.table.offset = clamp(m.table.offset+delta, 0, maxOffset)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	l := m.layout()

	switch msg.Action {
	case tea.MouseActionMotion:
		m = m.pointerAt(l, msg.X, msg.Y)
		return m.ensureTick()

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if l.table.contains(msg.X, msg.Y) {
				m.scrollTable(-1)
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if l.table.contains(msg.X, msg.Y) {
				m.scrollTable(1)
			}
			return m, nil
		case tea.MouseButtonLeft:
			switch {
			case l.plot.contains(msg.X, msg.Y):
				m = m.pointerAt(l, msg.X, msg.Y)
				if frag, ok := m.chart.Click(); ok {
					return m, navigateCmd(frag)
				}
				return m.ensureTick()
			case l.legend.contains(msg.X, msg.Y):
				row := msg.Y - l.legend.y - 1
				if row >= 0 && row < len(m.legendRows()) {
					m.cursor = row
					return m.toggleRow(row)
				}
			}
		}
	}
	return m, nil
}

// pointerAt routes a pointer position to the plot or the table. Leaving the
// plot clears the chart hover; leaving the table withdraws its hover.
func (m Model) pointerAt(l layout, x, y int) Model {
	now := m.now()
	if l.plot.contains(x, y) {
		px, py := l.toChart(x, y)
		m.chart.PointerMove(px, py, now)
		m.overPlot = true
	} else if m.overPlot {
		m.chart.PointerLeave(now)
		m.overPlot = false
	}

	code, onRow := m.tableRowAt(l, x, y)
	switch {
	case onRow && code != m.table.hover:
		m.table.hover = code
		m.bus.Publish(TableBusName, bus.NewRowHover(code))
		m.overTable = true
	case onRow:
		m.overTable = true
	case m.overTable:
		m.table.hover = ""
		m.bus.Publish(TableBusName, bus.NewRowHover(""))
		m.overTable = false
	}
	return m
}

func (m Model) View() string {
	if m.width < 60 || m.height < 16 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Render("\n  Terminal too small. Resize to at least 60×16.")
	}
	if m.showHelp {
		return m.renderHelpOverlay(m.width, m.height)
	}

	l := m.layout()
	sc := m.chart.Scene(m.now())

	chartW := l.legend.x - 1
	region := renderChartRegion(sc, l, chartW)
	legend := m.renderLegend(l.legend)
	sep := sectionSepStyle.Render("│")

	lines := []string{m.renderHeader(m.width), sectionSepStyle.Render(strings.Repeat("━", m.width))}
	for i := 0; i < l.legend.h; i++ {
		left := strings.Repeat(" ", chartW)
		if i < len(region) {
			left = region[i]
		}
		lines = append(lines, left+sep+legend[i])
	}
	if l.table.h > 0 {
		lines = append(lines, m.renderTable(l.table)...)
	}
	lines = append(lines, sectionSepStyle.Render(strings.Repeat("━", m.width)), m.renderFooter(sc))
	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(w int) string {
	left := headerBrandStyle.Render("▤ budgetview") + "  " + headerStyle.Render(m.chart.Fragment().String())
	if m.chart.Loading() {
		left += "  " + loaderStyle.Render("⟳ loading")
	}
	right := labelStyle.Render(ThemeName())
	gap := max(w-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return fitAnsiWidth(left+strings.Repeat(" ", gap)+right, w)
}

func (m Model) renderFooter(sc chart.Scene) string {
	var line string
	switch {
	case m.status != "":
		line = " " + errorStyle.Render(m.status)
	case sc.Highlight != nil && sc.Highlight.Clickable && sc.Tooltip != nil:
		line = " " + helpKeyStyle.Render("click") + helpStyle.Render(" open "+sc.Tooltip.Name)
	case m.notice != "":
		line = " " + loaderStyle.Render(m.notice)
	default:
		line = " " + helpStyle.Render("space toggle · a all · enter open · ⌫ back · p table · r reload · ? help")
	}
	return fitAnsiWidth(line, m.width)
}
