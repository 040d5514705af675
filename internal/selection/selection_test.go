package selection

import (
	"testing"

	"github.com/janekbaraniewski/budgetview/internal/core"
	"github.com/janekbaraniewski/budgetview/internal/scale"
	"github.com/janekbaraniewski/budgetview/internal/series"
	"github.com/janekbaraniewski/budgetview/internal/stack"
)

// Three years at 100 units per band; y maps [0,100] onto [400,0].
func testResolver(t *testing.T) Resolver {
	t.Helper()
	table, err := series.Build(core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{
			"2020": {{Code: "A", Amount: 10}, {Code: "B", Amount: 20}},
			"2021": {{Code: "A", Amount: 30}, {Code: "B", Amount: 40}},
			"2022": {{Code: "A", Amount: 50}, {Code: "B", Amount: 50}},
		},
		Year: "2021",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return Resolver{
		X:     scale.NewBand(table.Labels(), 0, 300),
		Y:     scale.NewLinear(0, 100, 400, 0),
		Stack: stack.Compute(table),
		Table: table,
	}
}

func TestAtPointer(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name string
		x, y float64
		want Selection
	}{
		{name: "lower band of 2021", x: 150, y: 300, want: Selection{Column: 1, Category: 0}},
		{name: "upper band of 2021", x: 150, y: 200, want: Selection{Column: 1, Category: 1}},
		{name: "above the 2021 total", x: 150, y: 50, want: None},
		{name: "below the axis", x: 150, y: 420, want: None},
		{name: "left clamps to first column", x: -50, y: 390, want: Selection{Column: 0, Category: 0}},
		{name: "right clamps to last column", x: 900, y: 10, want: Selection{Column: 2, Category: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.AtPointer(tt.x, tt.y); got != tt.want {
				t.Fatalf("AtPointer(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestAtPointerSkipsDummyColumns(t *testing.T) {
	table, err := series.Build(core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{"2022": {{Code: "A", Amount: 100}}},
		Year:      "2022",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r := Resolver{
		X:     scale.NewBand(table.Labels(), 0, 300),
		Y:     scale.NewLinear(0, 100, 400, 0),
		Stack: stack.Compute(table),
		Table: table,
	}
	if got := r.AtPointer(50, 399); got != None {
		t.Fatalf("dummy column selected: %v", got)
	}
	if got := r.AtPointer(150, 399); got != (Selection{Column: 1, Category: 0}) {
		t.Fatalf("real column = %v, want (1,0)", got)
	}
}

func TestAtPointerFullyHiddenStack(t *testing.T) {
	r := testResolver(t)
	for _, col := range r.Table.Columns {
		for k := range col.Values {
			col.Values[k] = 0
		}
	}
	r.Stack = stack.Compute(r.Table)
	if got := r.AtPointer(150, 399); got != None {
		t.Fatalf("hidden stack selected: %v", got)
	}
}

func TestForCode(t *testing.T) {
	r := testResolver(t)

	if got := r.ForCode("B", 1); got != (Selection{Column: 1, Category: 1}) {
		t.Fatalf("ForCode(B) = %v, want (1,1)", got)
	}
	if got := r.ForCode("Z", 1); got != None {
		t.Fatalf("unknown code = %v, want none", got)
	}
	r.Hidden = func(key string) bool { return key == "code_B" }
	if got := r.ForCode("B", 1); got != None {
		t.Fatalf("hidden code = %v, want none", got)
	}
}

func TestModelEvents(t *testing.T) {
	var m Model
	if m.Current() != None {
		t.Fatalf("initial = %v, want none", m.Current())
	}

	a := Selection{Column: 1, Category: 0}
	b := Selection{Column: 1, Category: 1}

	steps := []struct {
		set  Selection
		want EventKind
	}{
		{set: None, want: Unchanged},
		{set: a, want: Changed},
		{set: a, want: Unchanged},
		{set: b, want: Changed},
		{set: None, want: Cleared},
		{set: None, want: Unchanged},
		{set: Selection{Column: 2, Category: -1}, want: Unchanged},
	}
	for i, step := range steps {
		ev := m.Set(step.set)
		if ev.Kind != step.want {
			t.Fatalf("step %d: kind = %v, want %v", i, ev.Kind, step.want)
		}
	}
}
