package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value that may arrive as a JSON number, a numeric
// string (decimal fields are serialized as strings) or null.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = Amount(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(v)
	return nil
}

// CategoryRecord is one category's value within one year.
type CategoryRecord struct {
	Code     string           `json:"code"`
	Name     string           `json:"name"`
	Amount   Amount           `json:"amount,omitempty"`
	Planned  Amount           `json:"planned,omitempty"`
	Children []CategoryRecord `json:"children,omitempty"`
}

// Value returns the realized amount, falling back to the planned amount when
// the realized one is zero.
func (r CategoryRecord) Value() float64 {
	if r.Amount != 0 {
		return float64(r.Amount)
	}
	return float64(r.Planned)
}

func (r CategoryRecord) HasChildren() bool {
	return len(r.Children) > 0
}

// YearsResponse is the payload of the comparison data endpoint.
type YearsResponse struct {
	YearsData map[string][]CategoryRecord `json:"years_data"`
	Year      string                      `json:"year"`
}

// DecodeYearsResponse parses a comparison payload.
func DecodeYearsResponse(data []byte) (YearsResponse, error) {
	var resp YearsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return YearsResponse{}, fmt.Errorf("decode years response: %w", err)
	}
	return resp, nil
}
