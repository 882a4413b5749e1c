package metrics

import (
	"math"
	"sort"

	"shoplens/domain/rowset"
)

// Period is one point of a time-ordered series: a calendar label plus the
// metric values observed in that period.
type Period struct {
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
}

// PeriodSeries is an ordered-by-time sequence of periods. Construction sorts
// ascending by the calendar key, so shift and delta computations can assume
// chronological order no matter how the procedure returned its rows.
type PeriodSeries struct {
	Periods []Period `json:"periods"`
}

// NewPeriodSeries builds a series from a result set whose labelField column
// carries an unambiguous ascending sort key ("2024-03", "2024-Q1", a date).
// Each valueField becomes an entry in every period's value map; null cells
// are simply absent from the map. Rows with an empty label are dropped.
func NewPeriodSeries(rows rowset.ResultSet, labelField string, valueFields ...string) PeriodSeries {
	periods := make([]Period, 0, len(rows))
	for _, row := range rows {
		label := row.String(labelField)
		if label == "" {
			continue
		}
		p := Period{Label: label, Values: make(map[string]float64, len(valueFields))}
		for _, field := range valueFields {
			if v, ok := row.Float(field); ok {
				p.Values[field] = v
			}
		}
		periods = append(periods, p)
	}
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Label < periods[j].Label
	})
	return PeriodSeries{Periods: periods}
}

// Labels returns the period labels in series order.
func (s PeriodSeries) Labels() []string {
	out := make([]string, len(s.Periods))
	for i, p := range s.Periods {
		out[i] = p.Label
	}
	return out
}

// Column returns one metric across all periods, NaN where absent.
func (s PeriodSeries) Column(field string) []float64 {
	out := make([]float64, len(s.Periods))
	for i, p := range s.Periods {
		if v, ok := p.Values[field]; ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Len returns the number of periods.
func (s PeriodSeries) Len() int { return len(s.Periods) }

// Last returns the final period, or false on an empty series.
func (s PeriodSeries) Last() (Period, bool) {
	if len(s.Periods) == 0 {
		return Period{}, false
	}
	return s.Periods[len(s.Periods)-1], true
}

// LatestChange is the period-over-period change of the final period, null
// when the series is shorter than two periods or the delta is undefined.
func (s PeriodSeries) LatestChange(field string) Nullable {
	changes := PeriodOverPeriodChange(s, field)
	if len(changes) == 0 {
		return Null
	}
	return changes[len(changes)-1]
}
