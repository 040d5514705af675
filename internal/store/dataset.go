// Package store keeps budget line items and answers comparison queries: for a
// parent category, the child categories of every year.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/janekbaraniewski/budgetview/internal/core"
	"github.com/samber/lo"
)

// Item is one category of one municipality's budget in one year. Top-level
// categories have an empty ParentCode.
type Item struct {
	Municipality string      `json:"municipality,omitempty"`
	Year         string      `json:"year"`
	Code         string      `json:"code"`
	ParentCode   string      `json:"parent_code,omitempty"`
	Name         string      `json:"name"`
	Amount       core.Amount `json:"amount,omitempty"`
	Planned      core.Amount `json:"planned,omitempty"`
}

// Dataset is the seed file format.
type Dataset struct {
	Municipality string `json:"municipality"`
	// Year is the year selected when the dataset is shown.
	Year  string `json:"year"`
	Items []Item `json:"items"`
}

func DecodeDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("store: decode dataset: %w", err)
	}
	for i := range ds.Items {
		if ds.Items[i].Municipality == "" {
			ds.Items[i].Municipality = ds.Municipality
		}
	}
	return ds, nil
}

func LoadDataset(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("store: open dataset: %w", err)
	}
	defer f.Close()
	return DecodeDataset(f)
}

// Comparison groups the children of parentCode by year. Children of each
// returned category are attached one level deep so callers can tell whether a
// drill-down is possible.
func Comparison(items []Item, parentCode, year string) core.YearsResponse {
	parentCode = strings.TrimSpace(parentCode)
	byYear := lo.GroupBy(items, func(it Item) string { return it.Year })

	resp := core.YearsResponse{
		YearsData: make(map[string][]core.CategoryRecord),
		Year:      year,
	}
	for y, yearItems := range byYear {
		children := lo.GroupBy(yearItems, func(it Item) string { return it.ParentCode })
		level := children[parentCode]
		if len(level) == 0 {
			continue
		}
		sort.SliceStable(level, func(i, j int) bool { return level[i].Code < level[j].Code })

		resp.YearsData[y] = lo.Map(level, func(it Item, _ int) core.CategoryRecord {
			rec := it.record()
			rec.Children = lo.Map(children[it.Code], func(c Item, _ int) core.CategoryRecord {
				return c.record()
			})
			return rec
		})
	}
	return resp
}

func (it Item) record() core.CategoryRecord {
	return core.CategoryRecord{
		Code:    it.Code,
		Name:    it.Name,
		Amount:  it.Amount,
		Planned: it.Planned,
	}
}
