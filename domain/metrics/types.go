// Package metrics is the derivation engine: pure, deterministic functions
// that reshape raw procedure result sets into the derived values the
// dashboards chart. Nothing in here does I/O, and nothing in here errors on
// degenerate input — empty series, zero denominators and missing cells all
// degrade to null or neutral sentinels so a page can render partial data.
package metrics

import (
	"encoding/json"
	"math"
)

// Nullable is a float that may be absent. Growth rates, for example, are
// undefined (not zero) for the first period of a series.
type Nullable struct {
	Value float64
	Valid bool
}

// Null is the absent value.
var Null = Nullable{}

// Some wraps a present value. NaN and infinities collapse to null so they
// can never leak into a JSON payload.
func Some(v float64) Nullable {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Null
	}
	return Nullable{Value: v, Valid: true}
}

// MarshalJSON renders absent values as JSON null.
func (n Nullable) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts null or a number.
func (n *Nullable) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Null
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// Annotation marks, per field, which row holds the maximum and which the
// minimum, for table cell highlighting.
type Annotation struct {
	MaxIndex map[string]int `json:"max_index"`
	MinIndex map[string]int `json:"min_index"`
}
