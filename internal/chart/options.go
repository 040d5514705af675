package chart

import "time"

type Margin struct {
	Top, Right, Bottom, Left float64
}

type Options struct {
	Width  float64
	Height float64
	Margin Margin

	Palette []string

	GrowDuration  time.Duration
	HoverDuration time.Duration
	FadeDuration  time.Duration

	DotRadius   float64
	HoverRadius float64
	// TooltipOffset lifts the tooltip above the highlighted point.
	TooltipOffset float64
}

var defaultPalette = []string{
	"#64507d",
	"#8c70ae",
	"#c9a2f9",
	"#efe2fd",
	"#101a34",
	"#283c78",
	"#3756ae",
	"#899acd",
	"#c3cce6",
}

func DefaultOptions() Options {
	return Options{
		Width:         640,
		Height:        480,
		Margin:        Margin{Top: 20, Right: 20, Bottom: 30, Left: 70},
		Palette:       append([]string(nil), defaultPalette...),
		GrowDuration:  2000 * time.Millisecond,
		HoverDuration: 150 * time.Millisecond,
		FadeDuration:  150 * time.Millisecond,
		DotRadius:     3,
		HoverRadius:   6,
		TooltipOffset: 16,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Margin == (Margin{}) {
		o.Margin = d.Margin
	}
	if len(o.Palette) == 0 {
		o.Palette = d.Palette
	}
	if o.GrowDuration < 0 {
		o.GrowDuration = 0
	}
	if o.HoverDuration < 0 {
		o.HoverDuration = 0
	}
	if o.FadeDuration < 0 {
		o.FadeDuration = 0
	}
	if o.DotRadius <= 0 {
		o.DotRadius = d.DotRadius
	}
	if o.HoverRadius <= 0 {
		o.HoverRadius = d.HoverRadius
	}
	if o.TooltipOffset == 0 {
		o.TooltipOffset = d.TooltipOffset
	}
	return o
}

// PlotWidth is the drawable width inside the margins.
func (o Options) PlotWidth() float64 {
	return o.Width - o.Margin.Left - o.Margin.Right
}

func (o Options) PlotHeight() float64 {
	return o.Height - o.Margin.Top - o.Margin.Bottom
}

// Color returns the palette color for stack position i.
func (o Options) Color(i int) string {
	if len(o.Palette) == 0 {
		return "#000000"
	}
	if i < 0 {
		i = 0
	}
	return o.Palette[i%len(o.Palette)]
}
