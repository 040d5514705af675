package visibility

import (
	"reflect"
	"testing"

	"github.com/janekbaraniewski/budgetview/internal/core"
	"github.com/janekbaraniewski/budgetview/internal/series"
	"github.com/janekbaraniewski/budgetview/internal/stack"
)

func testTable(t *testing.T) *series.Table {
	t.Helper()
	table, err := series.Build(core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{
			"2020": {{Code: "A", Amount: 10}, {Code: "B", Amount: 0}, {Code: "C", Amount: 4}},
			"2021": {{Code: "A", Amount: 12}, {Code: "B", Amount: 6}, {Code: "C", Amount: 1}},
		},
		Year: "2021",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return table
}

func TestHideShowRoundTrip(t *testing.T) {
	table := testTable(t)
	before := table.Clone()
	stackBefore := stack.Compute(table)
	c := NewController(table)

	if !c.Hide("code_A") {
		t.Fatal("Hide returned false")
	}
	if !c.IsHidden("code_A") {
		t.Fatal("code_A should be hidden")
	}
	for _, col := range table.Columns {
		if col.Values["code_A"] != 0 {
			t.Fatalf("%s code_A = %v, want 0", col.Label, col.Values["code_A"])
		}
	}
	if v, ok := c.Saved("code_A", "2021"); !ok || v != 12 {
		t.Fatalf("saved = %v, %v; want 12", v, ok)
	}

	if !c.Show("code_A") {
		t.Fatal("Show returned false")
	}
	if c.IsHidden("code_A") {
		t.Fatal("code_A should be visible")
	}
	if !reflect.DeepEqual(table.Columns, before.Columns) {
		t.Fatalf("columns not restored: %+v vs %+v", table.Columns, before.Columns)
	}
	if !reflect.DeepEqual(stack.Compute(table), stackBefore) {
		t.Fatal("stack after restore differs from stack before hide")
	}
}

func TestZeroValueIsNotHidden(t *testing.T) {
	c := NewController(testTable(t))
	if c.IsHidden("code_B") {
		t.Fatal("zero value mistaken for hidden")
	}
	if c.Show("code_B") {
		t.Fatal("Show on a visible key should be a no-op")
	}
	if !c.Hide("code_B") {
		t.Fatal("Hide on a zero-valued visible key should succeed")
	}
	if c.Hide("code_B") {
		t.Fatal("second Hide should be a no-op")
	}
}

func TestApply(t *testing.T) {
	c := NewController(testTable(t))

	if got := c.Apply("C", false); !reflect.DeepEqual(got, []string{"code_C"}) {
		t.Fatalf("Apply(C, false) = %v", got)
	}
	if got := c.Apply("C", false); got != nil {
		t.Fatalf("repeated hide = %v, want nil", got)
	}
	if got := c.Apply("C", true); !reflect.DeepEqual(got, []string{"code_C"}) {
		t.Fatalf("Apply(C, true) = %v", got)
	}
	if got := c.Apply("missing", false); got != nil {
		t.Fatalf("unknown code = %v, want nil", got)
	}
}

func TestHideAllShowAllRestoresDataset(t *testing.T) {
	table := testTable(t)
	before := table.Clone()
	c := NewController(table)

	c.Hide("code_B")
	if c.Label() != LabelHideAll {
		t.Fatalf("label = %q, want %q", c.Label(), LabelHideAll)
	}

	changed := c.ToggleAll()
	if !reflect.DeepEqual(changed, []string{"code_A", "code_C"}) {
		t.Fatalf("hide all changed = %v, want [code_A code_C]", changed)
	}
	if c.Label() != LabelShowAll {
		t.Fatalf("label = %q, want %q", c.Label(), LabelShowAll)
	}
	if got := stack.Compute(table).Max(); got != 0 {
		t.Fatalf("max after hide all = %v, want 0", got)
	}

	changed = c.ToggleAll()
	if len(changed) != 3 {
		t.Fatalf("show all changed = %v, want 3 keys", changed)
	}
	if c.Label() != LabelHideAll {
		t.Fatalf("label = %q, want %q", c.Label(), LabelHideAll)
	}
	if len(c.HiddenKeys()) != 0 {
		t.Fatalf("hidden keys = %v, want none", c.HiddenKeys())
	}
	if !reflect.DeepEqual(table.Columns, before.Columns) {
		t.Fatal("dataset not restored after show all")
	}
}

func TestLabelFollowsSingleToggles(t *testing.T) {
	c := NewController(testTable(t))

	steps := []struct {
		code    string
		checked bool
		label   string
	}{
		{code: "A", checked: false, label: LabelHideAll},
		{code: "B", checked: false, label: LabelHideAll},
		{code: "C", checked: false, label: LabelShowAll},
		{code: "B", checked: true, label: LabelHideAll},
		{code: "B", checked: false, label: LabelShowAll},
	}
	for i, step := range steps {
		c.Apply(step.code, step.checked)
		if got := c.Label(); got != step.label {
			t.Fatalf("step %d: label = %q, want %q", i, got, step.label)
		}
	}

	if got := c.Apply(AllValue, true); len(got) != 3 {
		t.Fatalf("Apply(all, true) = %v", got)
	}
	if got := c.Apply(AllValue, true); len(got) != 0 {
		t.Fatalf("second show all = %v, want none", got)
	}
}
