package stack

import "github.com/janekbaraniewski/budgetview/internal/series"

// Band is the [Lower, Upper] extent of one category in one column.
type Band struct {
	Lower, Upper float64
}

func (b Band) Height() float64 {
	return b.Upper - b.Lower
}

// Layer holds one category's bands across all columns.
type Layer struct {
	Key   string
	Index int
	Bands []Band
}

type Stack struct {
	Layers []Layer
	Totals []float64
}

// Compute stacks the table's values in key insertion order. It always
// recomputes from scratch.
func Compute(t *series.Table) Stack {
	s := Stack{
		Layers: make([]Layer, len(t.Keys)),
		Totals: make([]float64, len(t.Columns)),
	}
	for i, key := range t.Keys {
		s.Layers[i] = Layer{Key: key, Index: i, Bands: make([]Band, len(t.Columns))}
	}

	for c, col := range t.Columns {
		sum := 0.0
		for i, key := range t.Keys {
			v := col.Values[key]
			s.Layers[i].Bands[c] = Band{Lower: sum, Upper: sum + v}
			sum += v
		}
		s.Totals[c] = sum
	}
	return s
}

// Max is the largest band top across the whole stack.
func (s Stack) Max() float64 {
	max := 0.0
	for _, layer := range s.Layers {
		for _, b := range layer.Bands {
			if b.Upper > max {
				max = b.Upper
			}
		}
	}
	return max
}

// Tops returns each layer's top in column col, in stack order.
func (s Stack) Tops(col int) []float64 {
	out := make([]float64, len(s.Layers))
	for i, layer := range s.Layers {
		if col >= 0 && col < len(layer.Bands) {
			out[i] = layer.Bands[col].Upper
		}
	}
	return out
}

// Band returns the band of layer i in column col.
func (s Stack) Band(layer, col int) (Band, bool) {
	if layer < 0 || layer >= len(s.Layers) {
		return Band{}, false
	}
	bands := s.Layers[layer].Bands
	if col < 0 || col >= len(bands) {
		return Band{}, false
	}
	return bands[col], true
}

// Total returns the column total, or 0 when col is out of range.
func (s Stack) Total(col int) float64 {
	if col < 0 || col >= len(s.Totals) {
		return 0
	}
	return s.Totals[col]
}
