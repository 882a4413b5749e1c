package metrics

import (
	"math"
	"testing"

	"shoplens/domain/rowset"
)

func TestSummarize(t *testing.T) {
	rows := rowset.ResultSet{
		{"Province": "ON", "Users": 10.0},
		{"Province": "QC", "Users": nil},
		{"Province": "BC", "Users": 30.0},
	}

	s := Summarize(rows, "Users")
	if s.Count != 2 {
		t.Errorf("expected 2 counted cells, got %d", s.Count)
	}
	if s.Sum != 40 {
		t.Errorf("expected sum 40, got %.2f", s.Sum)
	}
	if !s.Mean.Valid || s.Mean.Value != 20 {
		t.Errorf("expected mean 20, got %+v", s.Mean)
	}
	if !s.Max.Valid || s.Max.Value != 30 {
		t.Errorf("expected max 30, got %+v", s.Max)
	}
	if !s.Min.Valid || s.Min.Value != 10 {
		t.Errorf("expected min 10, got %+v", s.Min)
	}
}

func TestSummarize_EmptyColumn(t *testing.T) {
	s := Summarize(rowset.ResultSet{{"Users": nil}}, "Users")
	if s.Count != 0 || s.Sum != 0 {
		t.Errorf("expected zero count and sum, got %+v", s)
	}
	if s.Mean.Valid || s.Max.Valid || s.Min.Valid {
		t.Errorf("all-null column must yield null aggregates, got %+v", s)
	}
}

func TestRatio(t *testing.T) {
	rows := rowset.ResultSet{
		{"Orders": 20.0, "Users": 4.0},
		{"Orders": 10.0, "Users": 0.0},
		{"Orders": nil, "Users": 5.0},
	}

	out := Ratio(rows, "Orders", "Users")
	if !out[0].Valid || out[0].Value != 5 {
		t.Errorf("expected 5 orders per user, got %+v", out[0])
	}
	if out[1].Valid {
		t.Errorf("zero denominator must be null, got %+v", out[1])
	}
	if out[2].Valid {
		t.Errorf("null numerator must be null, got %+v", out[2])
	}
}

func TestGroupBy_SumAndMeanFirstSeenOrder(t *testing.T) {
	rows := rowset.ResultSet{
		{"Category": "Books", "Revenue": 10.0, "Margin": 2.0},
		{"Category": "Toys", "Revenue": 5.0, "Margin": nil},
		{"Category": "Books", "Revenue": 30.0, "Margin": 4.0},
	}

	out := GroupBy(rows, "Category", map[string]Agg{
		"Revenue": AggSum,
		"Margin":  AggMean,
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(out))
	}
	if out[0].String("Category") != "Books" || out[1].String("Category") != "Toys" {
		t.Errorf("groups must keep first-seen order, got %q then %q",
			out[0].String("Category"), out[1].String("Category"))
	}
	if v, _ := out[0].Float("Revenue"); v != 40 {
		t.Errorf("expected Books revenue 40, got %.2f", v)
	}
	if v, _ := out[0].Float("Margin"); v != 3 {
		t.Errorf("expected Books mean margin 3, got %.2f", v)
	}
	// The only Margin cell for Toys was null, so the aggregate is null.
	if _, ok := out[1].Float("Margin"); ok {
		t.Error("group with no numeric cells must aggregate to null")
	}
}

func TestElasticityTrend_FitsLine(t *testing.T) {
	rows := rowset.ResultSet{
		{"AvgMarkup": 1.0, "TotalQuantity": 10.0},
		{"AvgMarkup": 2.0, "TotalQuantity": 8.0},
		{"AvgMarkup": 3.0, "TotalQuantity": 6.0},
	}

	trend, ok := ElasticityTrend(rows, "AvgMarkup", "TotalQuantity")
	if !ok {
		t.Fatal("expected a fitted trend")
	}
	if math.Abs(trend.Slope-(-2)) > 1e-9 {
		t.Errorf("expected slope -2, got %.4f", trend.Slope)
	}
	if math.Abs(trend.Y0-10) > 1e-9 || math.Abs(trend.Y1-6) > 1e-9 {
		t.Errorf("endpoints off the fitted line: %+v", trend)
	}
}

func TestElasticityTrend_DegenerateInputs(t *testing.T) {
	// Two points are not enough to call it a trend.
	few := rowset.ResultSet{
		{"AvgMarkup": 1.0, "TotalQuantity": 10.0},
		{"AvgMarkup": 2.0, "TotalQuantity": 8.0},
	}
	if _, ok := ElasticityTrend(few, "AvgMarkup", "TotalQuantity"); ok {
		t.Error("fewer than three points must not produce a trend")
	}

	// A vertical stack of points has no defined slope.
	flat := rowset.ResultSet{
		{"AvgMarkup": 2.0, "TotalQuantity": 10.0},
		{"AvgMarkup": 2.0, "TotalQuantity": 8.0},
		{"AvgMarkup": 2.0, "TotalQuantity": 6.0},
	}
	if _, ok := ElasticityTrend(flat, "AvgMarkup", "TotalQuantity"); ok {
		t.Error("coincident x values must not produce a trend")
	}
}

func TestNullableJSON(t *testing.T) {
	if b, _ := Null.MarshalJSON(); string(b) != "null" {
		t.Errorf("null must marshal to JSON null, got %s", b)
	}
	if b, _ := Some(2.5).MarshalJSON(); string(b) != "2.5" {
		t.Errorf("expected 2.5, got %s", b)
	}
	if Some(math.NaN()).Valid || Some(math.Inf(1)).Valid {
		t.Error("NaN and infinities must collapse to null")
	}
}
