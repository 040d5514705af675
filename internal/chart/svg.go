package chart

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

const (
	gridColor   = "#0001"
	areaAlpha   = "44"
	outlineSize = 2
)

var (
	textPolicy     *bluemonday.Policy
	textPolicyOnce sync.Once
)

// sanitizeText strips markup from names coming from the data source and
// escapes what remains for use as SVG text.
func sanitizeText(s string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy.Sanitize(s)
}

// attr escapes a data-derived value for use inside a quoted attribute.
func attr(s string) string {
	return html.EscapeString(s)
}

// WriteSVG renders sc as a standalone SVG document.
func WriteSVG(w io.Writer, sc Scene) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
	}

	p(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s">`+"\n", num(sc.Width), num(sc.Height))
	p(`<g transform="translate(%s,%s)">`+"\n", num(sc.Margin.Left), num(sc.Margin.Top))

	if sc.Error != "" {
		p(`<text class="error" x="%s" y="%s" text-anchor="middle">%s</text>`+"\n",
			num(sc.PlotWidth/2), num(sc.PlotHeight/2), sanitizeText(sc.Error))
	}

	p(`<g class="grid" stroke="%s">`+"\n", gridColor)
	for _, t := range sc.YTicks {
		p(`<line x1="0" x2="%s" y1="%s" y2="%s"/>`+"\n", num(sc.PlotWidth), num(t.Pos), num(t.Pos))
	}
	for _, t := range sc.XTicks {
		p(`<line x1="%s" x2="%s" y1="0" y2="%s"/>`+"\n", num(t.Pos), num(t.Pos), num(sc.PlotHeight))
	}
	p("</g>\n")

	p(`<g class="areas">` + "\n")
	for _, l := range sc.Layers {
		p(`<path data-key="%s" d="%s" fill="%s%s" opacity="%s"/>`+"\n",
			attr(l.Key), l.Area.String(), attr(l.Color), areaAlpha, num(l.Opacity))
	}
	p("</g>\n")

	p(`<g class="lines">` + "\n")
	for _, l := range sc.Layers {
		p(`<path data-key="%s" d="%s" fill="none" stroke="%s" opacity="%s"/>`+"\n",
			attr(l.Key), l.Line.String(), attr(l.Color), num(l.Opacity))
	}
	p("</g>\n")

	p(`<g class="dots">` + "\n")
	for _, l := range sc.Layers {
		for _, d := range l.Dots {
			if d.Hovered {
				p(`<circle data-key="%s" cx="%s" cy="%s" r="%s" fill="white" stroke="%s" stroke-width="2" opacity="%s"/>`+"\n",
					attr(l.Key), num(d.X), num(d.Y), num(d.R), attr(l.Color), num(l.Opacity))
				continue
			}
			p(`<circle data-key="%s" cx="%s" cy="%s" r="%s" fill="%s" opacity="%s"/>`+"\n",
				attr(l.Key), num(d.X), num(d.Y), num(d.R), attr(l.Color), num(l.Opacity))
		}
	}
	p("</g>\n")

	if o := sc.Outline; o != nil {
		p(`<rect id="selectedYear" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#000" stroke-width="%d"/>`+"\n",
			num(o.X), num(o.Y), num(o.W), num(o.H), outlineSize)
	}

	p(`<g class="axis-x" transform="translate(0,%s)">`+"\n", num(sc.PlotHeight))
	for _, t := range sc.XTicks {
		p(`<text x="%s" y="18" text-anchor="middle">%s</text>`+"\n", num(t.Pos), sanitizeText(t.Label))
	}
	p("</g>\n")

	p(`<g class="axis-y">` + "\n")
	for _, t := range sc.YTicks {
		p(`<text x="-6" y="%s" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n", num(t.Pos), sanitizeText(t.Label))
	}
	p("</g>\n")

	if tt := sc.Tooltip; tt != nil {
		p(`<g class="tooltip" transform="translate(%s,%s)">`+"\n", num(tt.X), num(tt.Y))
		p(`<text class="tooltip-name" text-anchor="middle" fill="%s">%s</text>`+"\n", attr(tt.Color), sanitizeText(tt.Name))
		p(`<text class="tooltip-year" text-anchor="middle" dy="-14">%s</text>`+"\n", sanitizeText(tt.Year))
		p(`<text class="tooltip-value" text-anchor="middle" dy="14">%s</text>`+"\n", sanitizeText(tt.Value))
		p("</g>\n")
	}

	p("</g>\n</svg>\n")
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
