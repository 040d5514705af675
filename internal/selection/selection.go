// Package selection resolves pointer positions and external category codes
// into a highlighted (column, category) pair.
package selection

import (
	"fmt"

	"github.com/janekbaraniewski/budgetview/internal/scale"
	"github.com/janekbaraniewski/budgetview/internal/series"
	"github.com/janekbaraniewski/budgetview/internal/stack"
)

type Selection struct {
	Column   int
	Category int
}

// None is the empty selection.
var None = Selection{Column: -1, Category: -1}

func (s Selection) Valid() bool {
	return s.Column >= 0 && s.Category >= 0
}

func (s Selection) String() string {
	if !s.Valid() {
		return "none"
	}
	return fmt.Sprintf("(%d,%d)", s.Column, s.Category)
}

// Resolver holds the geometry needed to resolve a selection. X and Y are in
// chart-local coordinates.
type Resolver struct {
	X      scale.Band
	Y      scale.Linear
	Stack  stack.Stack
	Table  *series.Table
	Hidden func(key string) bool
}

// AtPointer resolves a pointer position. Padding columns and positions
// outside every band resolve to None.
func (r Resolver) AtPointer(px, py float64) Selection {
	if r.Table == nil || r.X.Len() == 0 {
		return None
	}
	col := r.X.Invert(px)
	if col < 0 || col >= len(r.Table.Columns) || r.Table.Columns[col].Dummy() {
		return None
	}

	y := r.Y.Invert(py)
	if y < 0 {
		return None
	}
	for i, top := range r.Stack.Tops(col) {
		if y < top {
			return Selection{Column: col, Category: i}
		}
	}
	return None
}

// ForCode resolves an externally selected category code at column.
func (r Resolver) ForCode(code string, column int) Selection {
	if r.Table == nil || column < 0 || column >= len(r.Table.Columns) {
		return None
	}
	key := series.Key(code)
	idx := r.Table.KeyIndex(key)
	if idx < 0 {
		return None
	}
	if r.Hidden != nil && r.Hidden(key) {
		return None
	}
	return Selection{Column: column, Category: idx}
}

type EventKind int

const (
	Unchanged EventKind = iota
	Changed
	Cleared
)

func (k EventKind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Cleared:
		return "cleared"
	default:
		return "unchanged"
	}
}

type Event struct {
	Kind      EventKind
	Selection Selection
}

// Model tracks the current selection and reports exactly one event per
// update.
type Model struct {
	current Selection
	init    bool
}

func (m *Model) Current() Selection {
	if !m.init {
		return None
	}
	return m.current
}

func (m *Model) Set(sel Selection) Event {
	prev := m.Current()
	if !sel.Valid() {
		sel = None
	}
	m.current = sel
	m.init = true

	switch {
	case sel == prev:
		return Event{Kind: Unchanged, Selection: sel}
	case !sel.Valid():
		return Event{Kind: Cleared, Selection: None}
	default:
		return Event{Kind: Changed, Selection: sel}
	}
}

func (m *Model) Clear() Event {
	return m.Set(None)
}
