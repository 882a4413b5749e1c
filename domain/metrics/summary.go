package metrics

import (
	"math"

	"github.com/montanaflynn/stats"

	"shoplens/domain/rowset"
)

// Summary aggregates one numeric column for KPI cards.
type Summary struct {
	Sum   float64  `json:"sum"`
	Mean  Nullable `json:"mean"`
	Max   Nullable `json:"max"`
	Min   Nullable `json:"min"`
	Count int      `json:"count"`
}

// Summarize computes sum/mean/max/min over the non-null cells of a column.
// An empty or all-null column yields a zero sum and null mean/max/min;
// degenerate input is a rendering fact, not an error.
func Summarize(rows rowset.ResultSet, field string) Summary {
	col := rows.Column(field)
	clean := make(stats.Float64Data, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	out := Summary{Count: len(clean)}
	if len(clean) == 0 {
		return out
	}
	out.Sum, _ = stats.Sum(clean)
	if mean, err := stats.Mean(clean); err == nil {
		out.Mean = Some(mean)
	}
	if max, err := stats.Max(clean); err == nil {
		out.Max = Some(max)
	}
	if min, err := stats.Min(clean); err == nil {
		out.Min = Some(min)
	}
	return out
}

// Ratio divides two per-row columns, null where the denominator is zero,
// null, or missing. Used for derived comparisons like orders per user.
func Ratio(rows rowset.ResultSet, numField, denField string) []Nullable {
	out := make([]Nullable, len(rows))
	for i, row := range rows {
		num, numOK := row.Float(numField)
		den, denOK := row.Float(denField)
		if !numOK || !denOK || den == 0 {
			continue
		}
		out[i] = Some(num / den)
	}
	return out
}
