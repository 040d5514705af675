// Package chart coordinates the stacked comparison chart: it owns the aligned
// dataset, the visibility controller, the selection and the running
// transitions, and renders all of it into a declarative Scene.
//
// A State is driven from a single event loop. Handlers mutate it; Scene reads
// it and never mutates.
package chart

import (
	"strconv"
	"time"

	"github.com/janekbaraniewski/budgetview/internal/anim"
	"github.com/janekbaraniewski/budgetview/internal/bus"
	"github.com/janekbaraniewski/budgetview/internal/core"
	"github.com/janekbaraniewski/budgetview/internal/route"
	"github.com/janekbaraniewski/budgetview/internal/scale"
	"github.com/janekbaraniewski/budgetview/internal/selection"
	"github.com/janekbaraniewski/budgetview/internal/series"
	"github.com/janekbaraniewski/budgetview/internal/stack"
	"github.com/janekbaraniewski/budgetview/internal/visibility"
	"go.uber.org/zap"
)

// BusName identifies the chart on the event bus.
const BusName = "chart"

const (
	transitionGrow  = "loadGrow"
	transitionHover = "hoverDot"
	transitionFade  = "fade"
)

type fadePhase int

const (
	phaseVisible fadePhase = iota
	phaseCollapsing
	phaseFading
	phaseFaded
)

type State struct {
	opts Options
	log  *zap.Logger
	bus  *bus.Bus

	fragment route.Fragment

	table *series.Table
	vis   *visibility.Controller
	stack stack.Stack
	x     scale.Band
	y     scale.Linear

	sel      selection.Model
	hovered  selection.Selection
	timeline *anim.Timeline
	phases   map[string]fadePhase

	loading bool
	errText string
}

func New(opts Options, b *bus.Bus, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	return &State{
		opts:     opts.withDefaults(),
		log:      log,
		bus:      b,
		hovered:  selection.None,
		timeline: anim.NewTimeline(),
		phases:   make(map[string]fadePhase),
	}
}

func (s *State) Options() Options {
	return s.opts
}

func (s *State) Table() *series.Table {
	return s.table
}

func (s *State) Stack() stack.Stack {
	return s.stack
}

func (s *State) Fragment() route.Fragment {
	return s.fragment
}

func (s *State) SetFragment(f route.Fragment) {
	s.fragment = f
}

func (s *State) Loading() bool {
	return s.loading
}

func (s *State) SetLoading(on bool) {
	s.loading = on
}

func (s *State) Err() string {
	return s.errText
}

// Selection returns the highlighted (column, category) pair.
func (s *State) Selection() selection.Selection {
	return s.sel.Current()
}

// IsHidden reports whether the category with code is hidden.
func (s *State) IsHidden(code string) bool {
	return s.vis != nil && s.vis.IsHidden(series.Key(code))
}

// Resolver exposes the current hit-testing geometry.
func (s *State) Resolver() selection.Resolver {
	r := selection.Resolver{X: s.x, Y: s.y, Stack: s.stack, Table: s.table}
	if s.vis != nil {
		r.Hidden = s.vis.IsHidden
	}
	return r
}

func (s *State) reset() {
	s.table = nil
	s.vis = nil
	s.stack = stack.Stack{}
	s.x = scale.Band{}
	s.y = scale.Linear{}
	s.sel = selection.Model{}
	s.hovered = selection.None
	s.timeline.Reset()
	s.phases = make(map[string]fadePhase)
	s.errText = ""
}

// Load discards everything derived from the previous dataset and builds the
// chart for resp, growing every layer from the zero baseline.
func (s *State) Load(resp core.YearsResponse, now time.Time) error {
	s.reset()
	s.loading = false

	table, err := series.Build(resp)
	if err != nil {
		s.errText = err.Error()
		s.log.Warn("chart dataset rejected", zap.Error(err))
		return err
	}

	s.table = table
	s.vis = visibility.NewController(table)
	s.stack = stack.Compute(table)

	max := s.stack.Max()
	if max <= 0 {
		max = 1
	}
	s.x = scale.NewBand(table.Labels(), 0, s.opts.PlotWidth())
	s.y = scale.NewLinear(0, max, s.opts.PlotHeight(), 0)

	for _, layer := range s.stack.Layers {
		target := flattenBands(layer.Bands)
		s.timeline.Start(layerTarget(layer.Key), transitionGrow, anim.Transition{
			From:     make([]float64, len(target)),
			To:       target,
			Duration: s.opts.GrowDuration,
			Ease:     anim.CubicInOut,
		}, now)
		s.phases[layer.Key] = phaseVisible
	}

	s.log.Debug("chart loaded",
		zap.Int("columns", len(table.Columns)),
		zap.Int("categories", len(table.Keys)),
		zap.Int("selected_column", table.SelectedColumn),
		zap.Bool("has_children", table.HasChildren),
	)
	return nil
}

// Resize changes the canvas size and rebuilds both scales. The y domain and
// every running transition are kept, since both live in data units.
func (s *State) Resize(width, height float64) {
	s.opts.Width, s.opts.Height = width, height
	if s.table == nil {
		return
	}
	_, max := s.y.Domain()
	s.x = scale.NewBand(s.table.Labels(), 0, s.opts.PlotWidth())
	s.y = scale.NewLinear(0, max, s.opts.PlotHeight(), 0)
	s.log.Debug("chart resized", zap.Float64("width", width), zap.Float64("height", height))
}

// Fail clears the dataset and records an inline error.
func (s *State) Fail(err error) {
	s.reset()
	s.loading = false
	if err != nil {
		s.errText = err.Error()
		s.log.Warn("chart fetch failed", zap.Error(err))
	}
}

// PointerMove resolves a pointer position in plot-local coordinates.
func (s *State) PointerMove(px, py float64, now time.Time) selection.Event {
	if s.table == nil {
		return selection.Event{Kind: selection.Unchanged, Selection: selection.None}
	}
	ev := s.sel.Set(s.Resolver().AtPointer(px, py))
	s.applyHover(ev, now, true)
	return ev
}

// PointerLeave clears any hover.
func (s *State) PointerLeave(now time.Time) selection.Event {
	ev := s.sel.Clear()
	s.applyHover(ev, now, false)
	return ev
}

// Mirror highlights the category a neighbouring component reports as hovered,
// at the selected column. It does not publish back.
func (s *State) Mirror(m bus.RowHover, now time.Time) selection.Event {
	if s.table == nil {
		return selection.Event{Kind: selection.Unchanged, Selection: selection.None}
	}
	sel := selection.None
	if m.Code != "" {
		sel = s.Resolver().ForCode(m.Code, s.table.SelectedColumn)
	}
	ev := s.sel.Set(sel)
	s.applyHover(ev, now, false)
	return ev
}

func (s *State) applyHover(ev selection.Event, now time.Time, publish bool) {
	if ev.Kind == selection.Unchanged {
		return
	}
	if s.hovered.Valid() {
		s.timeline.Set(s.dotTarget(s.hovered), transitionHover, []float64{s.opts.DotRadius})
	}
	s.hovered = ev.Selection
	if ev.Kind != selection.Changed {
		return
	}

	s.timeline.Start(s.dotTarget(ev.Selection), transitionHover, anim.Transition{
		From:     []float64{s.opts.DotRadius},
		To:       []float64{s.opts.HoverRadius},
		Duration: s.opts.HoverDuration,
		Ease:     anim.CubicInOut,
	}, now)

	if publish && s.bus != nil {
		code := series.CodeFromKey(s.table.Keys[ev.Selection.Category])
		s.bus.Publish(BusName, bus.NewRowHover(code))
	}
}

// Click returns the drill-down fragment for the highlighted category. It only
// navigates when the dataset has child categories.
func (s *State) Click() (route.Fragment, bool) {
	sel := s.sel.Current()
	if s.table == nil || !s.table.HasChildren || !sel.Valid() {
		return route.Fragment{}, false
	}
	code := series.CodeFromKey(s.table.Keys[sel.Category])
	next := s.fragment.WithCode(code)
	s.log.Debug("chart drill down", zap.String("code", code), zap.String("fragment", next.String()))
	return next, true
}

// Apply handles a legend checkbox: value is a category code or "all".
func (s *State) Apply(value string, checked bool, now time.Time) []string {
	if s.vis == nil {
		return nil
	}
	changed := s.vis.Apply(value, checked)
	if len(changed) > 0 {
		s.retarget(now)
	}
	return changed
}

// ToggleAll flips every category following the aggregate label.
func (s *State) ToggleAll(now time.Time) []string {
	if s.vis == nil {
		return nil
	}
	changed := s.vis.ToggleAll()
	if len(changed) > 0 {
		s.retarget(now)
	}
	return changed
}

// ToggleAllLabel is the current text of the aggregate control.
func (s *State) ToggleAllLabel() string {
	if s.vis == nil {
		return visibility.LabelHideAll
	}
	return s.vis.Label()
}

// retarget recomputes the stack and animates every layer from where it is
// drawn now. Newly hidden layers collapse first and fade once the collapse
// has finished.
func (s *State) retarget(now time.Time) {
	s.stack = stack.Compute(s.table)

	for _, layer := range s.stack.Layers {
		key := layer.Key
		target := layerTarget(key)
		from, ok := s.timeline.Value(target, transitionGrow, now)
		if !ok {
			from = make([]float64, 2*len(layer.Bands))
		}

		hidden := s.vis.IsHidden(key)
		switch {
		case hidden && s.phases[key] == phaseVisible:
			s.phases[key] = phaseCollapsing
		case !hidden && s.phases[key] != phaseVisible:
			s.phases[key] = phaseVisible
			s.timeline.Set(target, transitionFade, []float64{1})
		}

		tr := anim.Transition{
			From:     from,
			To:       flattenBands(layer.Bands),
			Duration: s.opts.GrowDuration,
			Ease:     anim.CubicInOut,
		}
		if s.phases[key] == phaseCollapsing {
			tr.OnDone = func(done time.Time) { s.startFade(key, done) }
		}
		s.timeline.Start(target, transitionGrow, tr, now)
	}

	if sel := s.sel.Current(); sel.Valid() && s.vis.IsHidden(s.table.Keys[sel.Category]) {
		s.applyHover(s.sel.Clear(), now, false)
	}

	s.log.Debug("chart visibility changed", zap.Strings("hidden", s.vis.HiddenKeys()))
}

func (s *State) startFade(key string, now time.Time) {
	if s.phases[key] != phaseCollapsing {
		return
	}
	s.phases[key] = phaseFading
	s.timeline.Start(layerTarget(key), transitionFade, anim.Transition{
		From:     []float64{1},
		To:       []float64{0},
		Duration: s.opts.FadeDuration,
		OnDone: func(time.Time) {
			if s.phases[key] == phaseFading {
				s.phases[key] = phaseFaded
			}
		},
	}, now)
}

// Advance settles transitions up to now. It reports whether any are still
// running, so the caller knows whether to keep ticking.
func (s *State) Advance(now time.Time) bool {
	s.timeline.Advance(now)
	return s.timeline.Active()
}

// Animating reports whether a transition is in flight.
func (s *State) Animating() bool {
	return s.timeline.Active()
}

func (s *State) displayedBands(key string, columns int, now time.Time) []stack.Band {
	v, ok := s.timeline.Value(layerTarget(key), transitionGrow, now)
	if !ok {
		return make([]stack.Band, columns)
	}
	return unflattenBands(v, columns)
}

func (s *State) opacity(key string, now time.Time) float64 {
	switch s.phases[key] {
	case phaseFaded:
		return 0
	case phaseFading:
		if v, ok := s.timeline.Value(layerTarget(key), transitionFade, now); ok && len(v) == 1 {
			return v[0]
		}
		return 1
	default:
		return 1
	}
}

func (s *State) dotRadius(sel selection.Selection, now time.Time) float64 {
	if v, ok := s.timeline.Value(s.dotTarget(sel), transitionHover, now); ok && len(v) == 1 {
		return v[0]
	}
	return s.opts.DotRadius
}

func (s *State) dotTarget(sel selection.Selection) string {
	key := ""
	if s.table != nil && sel.Category >= 0 && sel.Category < len(s.table.Keys) {
		key = s.table.Keys[sel.Category]
	}
	return "dot/" + key + "/" + strconv.Itoa(sel.Column)
}

func layerTarget(key string) string {
	return "layer/" + key
}

func flattenBands(bands []stack.Band) []float64 {
	out := make([]float64, 0, 2*len(bands))
	for _, b := range bands {
		out = append(out, b.Lower, b.Upper)
	}
	return out
}

func unflattenBands(v []float64, columns int) []stack.Band {
	out := make([]stack.Band, columns)
	for i := range out {
		if 2*i+1 < len(v) {
			out[i] = stack.Band{Lower: v[2*i], Upper: v[2*i+1]}
		}
	}
	return out
}
