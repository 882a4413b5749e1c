package rowset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Row is a single procedure result row: column name -> scalar value.
// Values come straight from the database driver, so a column may hold
// int64, float64, string, time.Time, []byte or nil depending on the driver.
type Row map[string]any

// ResultSet is an ordered sequence of rows sharing one column set.
type ResultSet []Row

// Empty reports whether the set has no rows.
func (rs ResultSet) Empty() bool {
	return len(rs) == 0
}

// Columns returns the column names of the first row in sorted order.
// Result sets share one column set across rows, so the first row is enough.
func (rs ResultSet) Columns() []string {
	if len(rs) == 0 {
		return nil
	}
	cols := make([]string, 0, len(rs[0]))
	for name := range rs[0] {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// Float reads a numeric column from a row. The second return is false when
// the column is missing, null, or not coercible to a number. It never panics;
// dashboards render partial data rather than fail a page on one bad cell.
func (r Row) Float(field string) (float64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case float32:
		return float64(t), true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case []byte:
		f, err := strconv.ParseFloat(string(t), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// String reads a column as text. Null and missing columns read as "".
func (r Row) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Time reads a column as a timestamp. The second return is false when the
// column is missing, null, or not a date in a recognized layout.
func (r Row) Time(field string) (time.Time, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		return parseDate(t)
	case []byte:
		return parseDate(string(t))
	default:
		return time.Time{}, false
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Column extracts one numeric column across all rows. Cells that are null or
// non-numeric come back as NaN so positions stay aligned with the row order.
func (rs ResultSet) Column(field string) []float64 {
	out := make([]float64, len(rs))
	for i, row := range rs {
		if f, ok := row.Float(field); ok {
			out[i] = f
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Strings extracts one text column across all rows.
func (rs ResultSet) Strings(field string) []string {
	out := make([]string, len(rs))
	for i, row := range rs {
		out[i] = row.String(field)
	}
	return out
}

// Filter returns the rows for which keep is true, in input order.
func (rs ResultSet) Filter(keep func(Row) bool) ResultSet {
	out := make(ResultSet, 0, len(rs))
	for _, row := range rs {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}
