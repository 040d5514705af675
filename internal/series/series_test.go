package series

import (
	"errors"
	"reflect"
	"testing"

	"github.com/janekbaraniewski/budgetview/internal/core"
)

func rec(code, name string, amount float64) core.CategoryRecord {
	return core.CategoryRecord{Code: code, Name: name, Amount: core.Amount(amount)}
}

func TestBuildAlignsKeysAcrossColumns(t *testing.T) {
	resp := core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{
			"2022": {rec("B", "Beta", 5), rec("C", "Gamma", 9)},
			"2020": {rec("A", "Alpha", 1)},
			"2021": {rec("A", "Alpha", 2), rec("B", "Beta", 3)},
		},
		Year: "2021",
	}

	table, err := Build(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := table.Labels(), []string{"2020", "2021", "2022"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	if got, want := table.Keys, []string{"code_A", "code_B", "code_C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	if table.SelectedColumn != 1 {
		t.Fatalf("selected = %d, want 1", table.SelectedColumn)
	}

	for _, col := range table.Columns {
		if len(col.Values) != len(table.Keys) {
			t.Fatalf("column %s has %d values, want %d", col.Label, len(col.Values), len(table.Keys))
		}
		for _, key := range table.Keys {
			if _, ok := col.Values[key]; !ok {
				t.Fatalf("column %s missing %s", col.Label, key)
			}
		}
	}
	if v := table.Value(0, "code_C"); v != 0 {
		t.Fatalf("2020 code_C = %v, want 0 fill", v)
	}
	if v := table.Value(2, "code_C"); v != 9 {
		t.Fatalf("2022 code_C = %v, want 9", v)
	}
}

func TestBuildSingleYearPadsWithDummies(t *testing.T) {
	resp := core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{
			"2022": {rec("A", "Alpha", 100)},
		},
		Year: "2022",
	}

	table, err := Build(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := table.Labels(), []string{DummyBefore, "2022", DummyAfter}; !reflect.DeepEqual(got, want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	if table.SelectedColumn != 1 {
		t.Fatalf("selected = %d, want 1", table.SelectedColumn)
	}
	if table.Value(1, "code_A") != 100 {
		t.Fatalf("real column value = %v, want 100", table.Value(1, "code_A"))
	}
	if table.Value(0, "code_A") != 0 || table.Value(2, "code_A") != 0 {
		t.Fatal("dummy columns must carry zero values")
	}
	if table.RealColumns() != 1 {
		t.Fatalf("real columns = %d, want 1", table.RealColumns())
	}
}

func TestBuildEmptyDataset(t *testing.T) {
	_, err := Build(core.YearsResponse{YearsData: map[string][]core.CategoryRecord{}})
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	resp := core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{
			"2020": {rec("A", "Alpha", 1), rec("B", "Beta", 2)},
			"2021": {rec("B", "Beta", 3)},
		},
		Year: "2020",
	}
	first, err := Build(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Columns[0].Values["code_A"] = 999

	second, err := Build(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Value(0, "code_A") != 1 {
		t.Fatalf("state leaked between builds: %v", second.Value(0, "code_A"))
	}
	if second.SelectedColumn != 0 {
		t.Fatalf("selected = %d, want 0", second.SelectedColumn)
	}
}

func TestBuildUnknownYearSelectsLastColumn(t *testing.T) {
	resp := core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{
			"2020": {rec("A", "Alpha", 1)},
			"2021": {rec("A", "Alpha", 2)},
		},
		Year: "1999",
	}
	table, err := Build(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.SelectedColumn != 1 {
		t.Fatalf("selected = %d, want 1", table.SelectedColumn)
	}
}

func TestBuildHasChildren(t *testing.T) {
	child := rec("A1", "Child", 1)
	parent := rec("A", "Alpha", 1)
	parent.Children = []core.CategoryRecord{child}

	table, err := Build(core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{"2020": {parent}, "2021": {rec("A", "Alpha", 2)}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !table.HasChildren {
		t.Fatal("HasChildren = false, want true")
	}

	flat, _ := Build(core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{"2020": {rec("A", "Alpha", 1)}, "2021": {rec("A", "Alpha", 2)}},
	})
	if flat.HasChildren {
		t.Fatal("HasChildren = true, want false")
	}
}

func TestKeyRoundTrip(t *testing.T) {
	if Key("0401") != "code_0401" {
		t.Fatalf("Key = %q", Key("0401"))
	}
	if CodeFromKey("code_0401") != "0401" {
		t.Fatalf("CodeFromKey = %q", CodeFromKey("code_0401"))
	}
}

func TestClone(t *testing.T) {
	table, _ := Build(core.YearsResponse{
		YearsData: map[string][]core.CategoryRecord{"2020": {rec("A", "Alpha", 1)}, "2021": {rec("A", "Alpha", 2)}},
	})
	clone := table.Clone()
	clone.Columns[0].Values["code_A"] = 50
	if table.Value(0, "code_A") != 1 {
		t.Fatal("clone shares column maps with the original")
	}
	if !reflect.DeepEqual(table.Keys, clone.Keys) {
		t.Fatalf("keys differ: %v vs %v", table.Keys, clone.Keys)
	}
}
