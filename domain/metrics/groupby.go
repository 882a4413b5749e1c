package metrics

import (
	"math"

	"shoplens/domain/rowset"
)

// Agg selects how a grouped column collapses.
type Agg int

const (
	AggSum Agg = iota
	AggMean
)

// GroupBy collapses rows sharing a key into one row per key, aggregating
// each listed column by its Agg. Output rows appear in first-seen key order,
// so a stable input yields a stable table. Null cells are skipped, and a
// group with no numeric cells for a column aggregates to null.
func GroupBy(rows rowset.ResultSet, keyField string, aggs map[string]Agg) rowset.ResultSet {
	type bucket struct {
		sums   map[string]float64
		counts map[string]int
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)

	for _, row := range rows {
		key := row.String(keyField)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{sums: make(map[string]float64), counts: make(map[string]int)}
			buckets[key] = b
			order = append(order, key)
		}
		for field := range aggs {
			if v, ok := row.Float(field); ok && !math.IsNaN(v) {
				b.sums[field] += v
				b.counts[field]++
			}
		}
	}

	out := make(rowset.ResultSet, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		row := rowset.Row{keyField: key}
		for field, agg := range aggs {
			if b.counts[field] == 0 {
				row[field] = nil
				continue
			}
			switch agg {
			case AggMean:
				row[field] = b.sums[field] / float64(b.counts[field])
			default:
				row[field] = b.sums[field]
			}
		}
		out = append(out, row)
	}
	return out
}
