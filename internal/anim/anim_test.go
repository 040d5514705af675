package anim

import (
	"math"
	"reflect"
	"testing"
	"time"
)

var t0 = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func TestTransitionInterpolates(t *testing.T) {
	tl := NewTimeline()
	tl.Start("layer", "grow", Transition{
		From:     []float64{0, 10},
		To:       []float64{100, 20},
		Duration: time.Second,
		Ease:     Linear,
	}, t0)

	got, ok := tl.Value("layer", "grow", t0.Add(500*time.Millisecond))
	if !ok || !reflect.DeepEqual(got, []float64{50, 15}) {
		t.Fatalf("midpoint = %v, %v; want [50 15]", got, ok)
	}

	tl.Advance(t0.Add(time.Second))
	if tl.Running("layer", "grow") {
		t.Fatal("transition should have settled")
	}
	got, _ = tl.Value("layer", "grow", t0.Add(2*time.Second))
	if !reflect.DeepEqual(got, []float64{100, 20}) {
		t.Fatalf("settled = %v, want [100 20]", got)
	}
}

func TestStartInterruptsSameName(t *testing.T) {
	tl := NewTimeline()
	firstDone := false
	tl.Start("dot", "hover", Transition{
		From: []float64{3}, To: []float64{6}, Duration: time.Second,
		OnDone: func(time.Time) { firstDone = true },
	}, t0)

	tl.Start("dot", "hover", Transition{
		From: []float64{3}, To: []float64{3}, Duration: 100 * time.Millisecond,
	}, t0.Add(200*time.Millisecond))

	tl.Advance(t0.Add(2 * time.Second))
	if firstDone {
		t.Fatal("interrupted transition fired its callback")
	}
	got, _ := tl.Value("dot", "hover", t0.Add(2*time.Second))
	if got[0] != 3 {
		t.Fatalf("value = %v, want last request to win", got)
	}
}

func TestDifferentNamesRunIndependently(t *testing.T) {
	tl := NewTimeline()
	tl.Start("layer", "grow", Transition{To: []float64{1}, Duration: time.Second}, t0)
	tl.Start("layer", "fade", Transition{To: []float64{0}, Duration: time.Second}, t0)
	if !tl.Running("layer", "grow") || !tl.Running("layer", "fade") {
		t.Fatal("both transitions should run")
	}
}

func TestOnDoneChainsSequence(t *testing.T) {
	tl := NewTimeline()
	var phases []string

	tl.Start("layer", "grow", Transition{
		To:       []float64{0},
		Duration: time.Second,
		OnDone: func(now time.Time) {
			phases = append(phases, "collapsed")
			tl.Start("layer", "fade", Transition{
				From: []float64{1}, To: []float64{0}, Duration: 150 * time.Millisecond,
				OnDone: func(time.Time) { phases = append(phases, "faded") },
			}, now)
		},
	}, t0)

	tl.Advance(t0.Add(500 * time.Millisecond))
	if len(phases) != 0 {
		t.Fatalf("phases = %v, want none yet", phases)
	}
	tl.Advance(t0.Add(time.Second))
	if !reflect.DeepEqual(phases, []string{"collapsed"}) {
		t.Fatalf("phases = %v", phases)
	}
	op, _ := tl.Value("layer", "fade", t0.Add(time.Second))
	if op[0] != 1 {
		t.Fatalf("fade should start fully opaque, got %v", op)
	}
	tl.Advance(t0.Add(time.Second + 150*time.Millisecond))
	if !reflect.DeepEqual(phases, []string{"collapsed", "faded"}) {
		t.Fatalf("phases = %v", phases)
	}
	if tl.Active() {
		t.Fatal("timeline should be idle")
	}
}

func TestDelayHoldsStartValue(t *testing.T) {
	tl := NewTimeline()
	tl.Start("x", "y", Transition{From: []float64{1}, To: []float64{0}, Delay: time.Second, Duration: time.Second}, t0)
	got, _ := tl.Value("x", "y", t0.Add(900*time.Millisecond))
	if got[0] != 1 {
		t.Fatalf("value during delay = %v, want 1", got)
	}
}

func TestInterruptAndSet(t *testing.T) {
	tl := NewTimeline()
	tl.Start("x", "y", Transition{From: []float64{0}, To: []float64{10}, Duration: time.Second, Ease: Linear}, t0)
	tl.Interrupt("x", "y", t0.Add(300*time.Millisecond))
	got, ok := tl.Value("x", "y", t0.Add(time.Hour))
	if !ok || math.Abs(got[0]-3) > 1e-9 {
		t.Fatalf("interrupted value = %v, want 3", got)
	}

	tl.Set("x", "y", []float64{7})
	got, _ = tl.Value("x", "y", t0)
	if got[0] != 7 {
		t.Fatalf("set value = %v, want 7", got)
	}
	tl.Reset()
	if _, ok := tl.Value("x", "y", t0); ok {
		t.Fatal("reset should drop values")
	}
}

func TestCubicInOut(t *testing.T) {
	if CubicInOut(0) != 0 || CubicInOut(1) != 1 || CubicInOut(0.5) != 0.5 {
		t.Fatalf("easing endpoints wrong: %v %v %v", CubicInOut(0), CubicInOut(0.5), CubicInOut(1))
	}
}
