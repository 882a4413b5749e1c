package rowset

import (
	"math"
	"testing"
	"time"
)

func TestRowFloat_DriverTypes(t *testing.T) {
	row := Row{
		"f64":   123.5,
		"i64":   int64(42),
		"bytes": []byte("7.25"),
		"text":  "19",
		"null":  nil,
		"junk":  "not-a-number",
		"nan":   math.NaN(),
	}

	cases := []struct {
		field string
		want  float64
		ok    bool
	}{
		{"f64", 123.5, true},
		{"i64", 42, true},
		{"bytes", 7.25, true},
		{"text", 19, true},
		{"null", 0, false},
		{"junk", 0, false},
		{"nan", 0, false},
		{"missing", 0, false},
	}
	for _, c := range cases {
		got, ok := row.Float(c.field)
		if ok != c.ok || got != c.want {
			t.Errorf("Float(%q) = %.2f, %v; want %.2f, %v", c.field, got, ok, c.want, c.ok)
		}
	}
}

func TestRowString(t *testing.T) {
	ts := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	row := Row{"name": "Gold", "raw": []byte("Silver"), "when": ts, "null": nil}

	if got := row.String("name"); got != "Gold" {
		t.Errorf("expected Gold, got %q", got)
	}
	if got := row.String("raw"); got != "Silver" {
		t.Errorf("expected Silver, got %q", got)
	}
	if got := row.String("when"); got != "2024-03-15" {
		t.Errorf("timestamps must render as dates, got %q", got)
	}
	if got := row.String("null"); got != "" {
		t.Errorf("null must read as empty, got %q", got)
	}
}

func TestRowTime(t *testing.T) {
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	row := Row{"native": ts, "text": "2024-06-01", "junk": "yesterday"}

	if got, ok := row.Time("native"); !ok || !got.Equal(ts) {
		t.Errorf("expected native timestamp back, got %v, %v", got, ok)
	}
	if got, ok := row.Time("text"); !ok || !got.Equal(ts) {
		t.Errorf("expected parsed date, got %v, %v", got, ok)
	}
	if _, ok := row.Time("junk"); ok {
		t.Error("unparseable date must report false")
	}
}

func TestResultSetColumnAndFilter(t *testing.T) {
	rows := ResultSet{
		{"Province": "ON", "Users": 10.0},
		{"Province": "QC", "Users": nil},
	}

	col := rows.Column("Users")
	if col[0] != 10 || !math.IsNaN(col[1]) {
		t.Errorf("expected [10 NaN], got %v", col)
	}

	kept := rows.Filter(func(r Row) bool { return r.String("Province") == "QC" })
	if len(kept) != 1 || kept[0].String("Province") != "QC" {
		t.Errorf("expected just the QC row, got %v", kept)
	}

	if !(ResultSet{}).Empty() || rows.Empty() {
		t.Error("Empty must track row count")
	}
}
