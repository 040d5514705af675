// Package anim runs named, interruptible transitions over float vectors.
//
// Each transition is identified by a target and a name. Starting a transition
// on a (target, name) pair that is already running replaces it; nothing is
// queued. Completion callbacks fire from Advance, so sequences are chained by
// starting the next step inside OnDone.
package anim

import (
	"sort"
	"time"
)

// Ease maps linear progress in [0,1] to eased progress.
type Ease func(float64) float64

func Linear(t float64) float64 { return t }

// CubicInOut matches the default easing of the browser chart.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

type Transition struct {
	From, To []float64
	Delay    time.Duration
	Duration time.Duration
	Ease     Ease
	// OnDone runs once after the transition reaches To. It does not run when
	// the transition is interrupted.
	OnDone func(now time.Time)

	start time.Time
}

func (t *Transition) progress(now time.Time) float64 {
	elapsed := now.Sub(t.start) - t.Delay
	if elapsed <= 0 {
		return 0
	}
	if t.Duration <= 0 || elapsed >= t.Duration {
		return 1
	}
	p := float64(elapsed) / float64(t.Duration)
	if t.Ease != nil {
		p = t.Ease(p)
	}
	return p
}

func (t *Transition) value(now time.Time) []float64 {
	p := t.progress(now)
	out := make([]float64, len(t.To))
	for i := range t.To {
		from := 0.0
		if i < len(t.From) {
			from = t.From[i]
		}
		out[i] = from + (t.To[i]-from)*p
	}
	return out
}

func (t *Transition) done(now time.Time) bool {
	return now.Sub(t.start) >= t.Delay+t.Duration
}

type slot struct {
	target, name string
}

// Timeline owns every running transition. It is not safe for concurrent use;
// the owner drives it from a single event loop.
type Timeline struct {
	running map[slot]*Transition
	settled map[slot][]float64
}

func NewTimeline() *Timeline {
	return &Timeline{
		running: make(map[slot]*Transition),
		settled: make(map[slot][]float64),
	}
}

// Start begins tr on (target, name), interrupting any transition there.
func (tl *Timeline) Start(target, name string, tr Transition, now time.Time) {
	tr.start = now
	tr.From = append([]float64(nil), tr.From...)
	tr.To = append([]float64(nil), tr.To...)
	tl.running[slot{target, name}] = &tr
	delete(tl.settled, slot{target, name})
}

// Set jumps (target, name) straight to v, interrupting any transition.
func (tl *Timeline) Set(target, name string, v []float64) {
	s := slot{target, name}
	delete(tl.running, s)
	tl.settled[s] = append([]float64(nil), v...)
}

// Interrupt stops the transition on (target, name) where it currently is.
func (tl *Timeline) Interrupt(target, name string, now time.Time) {
	s := slot{target, name}
	if tr, ok := tl.running[s]; ok {
		tl.settled[s] = tr.value(now)
		delete(tl.running, s)
	}
}

// Value returns the current vector of (target, name).
func (tl *Timeline) Value(target, name string, now time.Time) ([]float64, bool) {
	s := slot{target, name}
	if tr, ok := tl.running[s]; ok {
		return tr.value(now), true
	}
	v, ok := tl.settled[s]
	return v, ok
}

// Running reports whether (target, name) is still transitioning.
func (tl *Timeline) Running(target, name string) bool {
	_, ok := tl.running[slot{target, name}]
	return ok
}

// Active reports whether any transition is still running.
func (tl *Timeline) Active() bool {
	return len(tl.running) > 0
}

// Advance settles finished transitions and fires their callbacks in a stable
// order. Callbacks may start new transitions.
func (tl *Timeline) Advance(now time.Time) {
	var finished []slot
	for s, tr := range tl.running {
		if tr.done(now) {
			finished = append(finished, s)
		}
	}
	sort.Slice(finished, func(i, j int) bool {
		if finished[i].target != finished[j].target {
			return finished[i].target < finished[j].target
		}
		return finished[i].name < finished[j].name
	})

	for _, s := range finished {
		tr, ok := tl.running[s]
		if !ok || !tr.done(now) {
			continue
		}
		delete(tl.running, s)
		tl.settled[s] = append([]float64(nil), tr.To...)
		if tr.OnDone != nil {
			tr.OnDone(now)
		}
	}
}

// Reset drops every transition and settled value.
func (tl *Timeline) Reset() {
	tl.running = make(map[slot]*Transition)
	tl.settled = make(map[slot][]float64)
}
