// Package series aligns per-year category records into columns that can be
// stacked: every column carries every category key seen in the dataset.
package series

import (
	"errors"
	"sort"
	"strings"

	"github.com/janekbaraniewski/budgetview/internal/core"
	"github.com/samber/lo"
)

const (
	keyPrefix = "code_"

	// DummyBefore and DummyAfter pad a single-year dataset so band geometry
	// has a defined width.
	DummyBefore = "0000-dummy"
	DummyAfter  = "9999-dummy"
)

var ErrEmptyDataset = errors.New("series: dataset has no years")

// Key returns the stable category key for a code.
func Key(code string) string {
	return keyPrefix + code
}

// CodeFromKey is the inverse of Key.
func CodeFromKey(key string) string {
	return strings.TrimPrefix(key, keyPrefix)
}

// IsDummy reports whether label is one of the padding sentinels.
func IsDummy(label string) bool {
	return label == DummyBefore || label == DummyAfter
}

type Column struct {
	Label  string
	Values map[string]float64
}

func (c Column) Dummy() bool {
	return IsDummy(c.Label)
}

// Table is the aligned dataset for one fetch.
type Table struct {
	Columns []Column
	// Keys is the category key set in insertion order; it fixes stack order
	// and color assignment.
	Keys  []string
	Names map[string]string

	SelectedColumn int
	HasChildren    bool
}

// Build aligns resp into a Table. Nothing is shared with previous tables.
func Build(resp core.YearsResponse) (*Table, error) {
	if len(resp.YearsData) == 0 {
		return nil, ErrEmptyDataset
	}

	labels := lo.Keys(resp.YearsData)
	sort.Strings(labels)

	t := &Table{
		Names:          make(map[string]string),
		SelectedColumn: -1,
	}
	seen := make(map[string]bool)

	for i, label := range labels {
		if label == resp.Year {
			t.SelectedColumn = i
		}
		col := Column{Label: label, Values: make(map[string]float64)}
		for _, rec := range resp.YearsData[label] {
			key := Key(rec.Code)
			if !seen[key] {
				seen[key] = true
				t.Keys = append(t.Keys, key)
				t.Names[key] = rec.Name
			}
			col.Values[key] = rec.Value()
			if rec.HasChildren() {
				t.HasChildren = true
			}
		}
		t.Columns = append(t.Columns, col)
	}

	if t.SelectedColumn < 0 {
		t.SelectedColumn = len(t.Columns) - 1
	}

	if len(t.Columns) == 1 {
		t.Columns = []Column{
			{Label: DummyBefore, Values: make(map[string]float64)},
			t.Columns[0],
			{Label: DummyAfter, Values: make(map[string]float64)},
		}
		t.SelectedColumn = 1
	}

	for _, col := range t.Columns {
		for _, key := range t.Keys {
			if _, ok := col.Values[key]; !ok {
				col.Values[key] = 0
			}
		}
	}

	return t, nil
}

// Labels returns column labels in order.
func (t *Table) Labels() []string {
	return lo.Map(t.Columns, func(c Column, _ int) string { return c.Label })
}

// KeyIndex returns the stack position of key, or -1.
func (t *Table) KeyIndex(key string) int {
	return lo.IndexOf(t.Keys, key)
}

// Value returns the live value of key in column i.
func (t *Table) Value(col int, key string) float64 {
	if col < 0 || col >= len(t.Columns) {
		return 0
	}
	return t.Columns[col].Values[key]
}

// Name returns the display name for key.
func (t *Table) Name(key string) string {
	if n, ok := t.Names[key]; ok && n != "" {
		return n
	}
	return CodeFromKey(key)
}

// RealColumns counts columns that are not padding.
func (t *Table) RealColumns() int {
	return lo.CountBy(t.Columns, func(c Column) bool { return !c.Dummy() })
}

// Clone returns a deep copy, used to snapshot values before a mutation.
func (t *Table) Clone() *Table {
	out := &Table{
		Keys:           append([]string(nil), t.Keys...),
		Names:          make(map[string]string, len(t.Names)),
		SelectedColumn: t.SelectedColumn,
		HasChildren:    t.HasChildren,
	}
	for k, v := range t.Names {
		out.Names[k] = v
	}
	for _, col := range t.Columns {
		values := make(map[string]float64, len(col.Values))
		for k, v := range col.Values {
			values[k] = v
		}
		out.Columns = append(out.Columns, Column{Label: col.Label, Values: values})
	}
	return out
}
