// Package visibility hides and restores categories inside a series table.
//
// A hidden key has its live values zeroed and the previous values parked in a
// Store. Store membership is the only record of hidden-ness: a visible
// category whose value happens to be zero is still visible.
package visibility

import (
	"github.com/janekbaraniewski/budgetview/internal/series"
	"github.com/samber/lo"
)

// AllValue is the control value of the aggregate hide/show toggle.
const AllValue = "all"

const (
	LabelHideAll = "hide all"
	LabelShowAll = "show all"
)

// Store maps a hidden category key to its values by column label.
type Store map[string]map[string]float64

type Controller struct {
	table  *series.Table
	hidden Store
}

func NewController(table *series.Table) *Controller {
	return &Controller{table: table, hidden: make(Store)}
}

func (c *Controller) IsHidden(key string) bool {
	_, ok := c.hidden[key]
	return ok
}

// Hide zeroes key in every column. It reports whether anything changed.
func (c *Controller) Hide(key string) bool {
	if c.IsHidden(key) || c.table.KeyIndex(key) < 0 {
		return false
	}
	saved := make(map[string]float64, len(c.table.Columns))
	for _, col := range c.table.Columns {
		saved[col.Label] = col.Values[key]
		col.Values[key] = 0
	}
	c.hidden[key] = saved
	return true
}

// Show restores key's saved values and drops its store entry.
func (c *Controller) Show(key string) bool {
	saved, ok := c.hidden[key]
	if !ok {
		return false
	}
	for _, col := range c.table.Columns {
		col.Values[key] = saved[col.Label]
	}
	delete(c.hidden, key)
	return true
}

func (c *Controller) Toggle(key string) bool {
	if c.IsHidden(key) {
		return c.Show(key)
	}
	return c.Hide(key)
}

// Apply handles a checkbox change: value is a category code or AllValue.
// It returns the keys whose state changed.
func (c *Controller) Apply(value string, checked bool) []string {
	if value == AllValue {
		return c.SetAll(checked)
	}
	key := series.Key(value)
	var changed bool
	if checked {
		changed = c.Show(key)
	} else {
		changed = c.Hide(key)
	}
	if !changed {
		return nil
	}
	return []string{key}
}

// SetAll moves every key to the requested state, skipping keys already there.
func (c *Controller) SetAll(visible bool) []string {
	changed := lo.Filter(c.table.Keys, func(key string, _ int) bool {
		if visible {
			return c.Show(key)
		}
		return c.Hide(key)
	})
	if visible {
		c.hidden = make(Store)
	}
	return changed
}

// ToggleAll follows the aggregate label: "show all" shows, "hide all" hides.
func (c *Controller) ToggleAll() []string {
	return c.SetAll(c.AllHidden())
}

// AllHidden reports whether every key is hidden. An empty key set counts as
// not hidden.
func (c *Controller) AllHidden() bool {
	if len(c.table.Keys) == 0 {
		return false
	}
	return lo.EveryBy(c.table.Keys, c.IsHidden)
}

// Label is the text for the aggregate control.
func (c *Controller) Label() string {
	if c.AllHidden() {
		return LabelShowAll
	}
	return LabelHideAll
}

// HiddenKeys lists hidden keys in stack order.
func (c *Controller) HiddenKeys() []string {
	return lo.Filter(c.table.Keys, func(key string, _ int) bool { return c.IsHidden(key) })
}

// Saved returns the parked value for key in column label.
func (c *Controller) Saved(key, label string) (float64, bool) {
	saved, ok := c.hidden[key]
	if !ok {
		return 0, false
	}
	v, ok := saved[label]
	return v, ok
}
