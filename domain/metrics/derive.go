package metrics

import (
	"math"
	"sort"

	"shoplens/domain/rowset"
)

// PeriodOverPeriodChange computes the percent change of field against the
// previous period, position by position. The first period is always null,
// and any period whose predecessor is zero or null is null. A series shorter
// than two periods yields an all-null result of matching length.
func PeriodOverPeriodChange(s PeriodSeries, field string) []Nullable {
	out := make([]Nullable, len(s.Periods))
	for i := range s.Periods {
		if i == 0 {
			continue
		}
		prev, prevOK := s.Periods[i-1].Values[field]
		cur, curOK := s.Periods[i].Values[field]
		if !prevOK || !curOK || prev == 0 || math.IsNaN(prev) || math.IsNaN(cur) {
			continue
		}
		out[i] = Some((cur/prev - 1) * 100)
	}
	return out
}

// ShareOfTotal computes each row's percentage of the column total. When the
// total is zero every share is zero, never NaN. Null cells contribute
// nothing to the total and take a zero share.
func ShareOfTotal(rows rowset.ResultSet, field string) []float64 {
	col := rows.Column(field)
	var total float64
	for _, v := range col {
		if !math.IsNaN(v) {
			total += v
		}
	}
	out := make([]float64, len(col))
	if total == 0 {
		return out
	}
	for i, v := range col {
		if !math.IsNaN(v) {
			out[i] = v / total * 100
		}
	}
	return out
}

// MinMaxAnnotate finds, for each field, the row index of the maximum and
// minimum value. Fields in invert swap their max/min roles, used where lower
// is better (discount percentage). Null cells never win either slot; a field
// with no numeric cells is absent from the result.
//
// Tie rule: the first occurrence in input order wins both max and min, so a
// constant column points both annotations at row 0. That mirrors the
// long-standing behavior of the tables this feeds and is pinned by tests.
func MinMaxAnnotate(rows rowset.ResultSet, fields []string, invert map[string]bool) Annotation {
	ann := Annotation{
		MaxIndex: make(map[string]int, len(fields)),
		MinIndex: make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		col := rows.Column(field)
		maxIdx, minIdx := -1, -1
		for i, v := range col {
			if math.IsNaN(v) {
				continue
			}
			if maxIdx < 0 || v > col[maxIdx] {
				maxIdx = i
			}
			if minIdx < 0 || v < col[minIdx] {
				minIdx = i
			}
		}
		if maxIdx < 0 {
			continue
		}
		if invert[field] {
			maxIdx, minIdx = minIdx, maxIdx
		}
		ann.MaxIndex[field] = maxIdx
		ann.MinIndex[field] = minIdx
	}
	return ann
}

// Normalize0To100 rescales values linearly onto [0,100] using the group's
// own min and max. A flat group (max == min) maps every value to the neutral
// midpoint 50 rather than dividing by zero. Null inputs stay null.
func Normalize0To100(values []Nullable) []Nullable {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !v.Valid {
			continue
		}
		lo = math.Min(lo, v.Value)
		hi = math.Max(hi, v.Value)
	}
	out := make([]Nullable, len(values))
	for i, v := range values {
		if !v.Valid {
			continue
		}
		if hi == lo {
			out[i] = Some(50)
			continue
		}
		out[i] = Some((v.Value - lo) / (hi - lo) * 100)
	}
	return out
}

// NormalizeByGroupMax expresses each value as a percentage of the group
// maximum, with 0 when the maximum is not positive. This is the radar-chart
// scaling: axes meet at 0 and the group leader sits at 100.
func NormalizeByGroupMax(values []float64) []float64 {
	var max float64
	for _, v := range values {
		if !math.IsNaN(v) && v > max {
			max = v
		}
	}
	out := make([]float64, len(values))
	if max <= 0 {
		return out
	}
	for i, v := range values {
		if !math.IsNaN(v) {
			out[i] = v / max * 100
		}
	}
	return out
}

// BucketAssign sorts rows by a caller-supplied canonical key ordering, e.g.
// discount tiers or activity labels. Rows whose key is not in knownOrder
// sort after all known keys, keeping their encountered order. The sort is
// stable throughout.
func BucketAssign(rows rowset.ResultSet, keyField string, knownOrder []string) rowset.ResultSet {
	rank := make(map[string]int, len(knownOrder))
	for i, key := range knownOrder {
		rank[key] = i
	}
	out := make(rowset.ResultSet, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iKnown := rank[out[i].String(keyField)]
		rj, jKnown := rank[out[j].String(keyField)]
		if iKnown && jKnown {
			return ri < rj
		}
		// Known keys before unknown; two unknowns keep encountered order.
		return iKnown && !jKnown
	})
	return out
}

// TopN returns up to n rows ordered by field, descending unless descending
// is false. Ties keep their original input order (stable sort), which makes
// the slice deterministic. Null cells sort last in either direction.
func TopN(rows rowset.ResultSet, field string, n int, descending bool) rowset.ResultSet {
	out := make(rowset.ResultSet, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		vi, iOK := out[i].Float(field)
		vj, jOK := out[j].Float(field)
		if !iOK || !jOK {
			return iOK
		}
		if descending {
			return vi > vj
		}
		return vi < vj
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
