package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/janekbaraniewski/budgetview/internal/core"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"ODHODKI", "Odhodki"},
		{"ŠOLSTVO IN ŠPORT", "Šolstvo in šport"},
		{"Javna uprava", "Javna uprava"},
		{"EU sredstva", "EU sredstva"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.in); got != tt.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmountCarriesCurrency(t *testing.T) {
	got := FormatAmount(1234.5)
	if !strings.HasSuffix(got, " EUR") {
		t.Fatalf("FormatAmount = %q, want EUR suffix", got)
	}
	if !strings.Contains(got, "50") {
		t.Fatalf("FormatAmount = %q, want two decimals", got)
	}
}

func TestWriteSVG(t *testing.T) {
	s := New(testOptions(), nil, nil)
	resp := core.YearsResponse{
		Year: "2023",
		YearsData: map[string][]core.CategoryRecord{
			"2022": {{Code: "01", Name: "<script>alert(1)</script>Uprava", Amount: 3}},
			"2023": {{Code: "01", Name: "<script>alert(1)</script>Uprava", Amount: 5}},
		},
	}
	if err := s.Load(resp, t0); err != nil {
		t.Fatal(err)
	}
	done := t0.Add(time.Second)
	s.Advance(done)
	px, py := pointerFor(s, 1, 1)
	s.PointerMove(px, py, done)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, s.Scene(done)); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`viewBox="0 0 640 480"`,
		`transform="translate(70,20)"`,
		`data-key="code_01"`,
		`fill="#64507d44"`,
		`id="selectedYear"`,
		`class="tooltip-name"`,
		">2022</text>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("svg missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script") {
		t.Fatal("category name markup should be stripped")
	}
}

func TestWriteSVGError(t *testing.T) {
	s := New(testOptions(), nil, nil)
	_ = s.Load(core.YearsResponse{}, t0)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, s.Scene(t0)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `class="error"`) {
		t.Fatal("empty dataset should render an inline error")
	}
}

func TestWriteSVGEscapesAttributes(t *testing.T) {
	opts := testOptions()
	opts.Palette = []string{`#fff" onclick="y`}
	s := New(opts, nil, nil)
	resp := core.YearsResponse{
		Year: "2023",
		YearsData: map[string][]core.CategoryRecord{
			"2022": {{Code: `01" onload="x`, Name: "Uprava", Amount: 3}},
			"2023": {{Code: `01" onload="x`, Name: "Uprava", Amount: 5}},
		},
	}
	if err := s.Load(resp, t0); err != nil {
		t.Fatal(err)
	}
	done := t0.Add(time.Second)
	s.Advance(done)

	var buf bytes.Buffer
	if err := WriteSVG(&buf, s.Scene(done)); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, ` onload="`) || strings.Contains(out, ` onclick="`) {
		t.Fatalf("attribute injected:\n%s", out)
	}
	if !strings.Contains(out, `data-key="code_01&#34; onload=&#34;x"`) {
		t.Fatalf("escaped key missing:\n%s", out)
	}
}
