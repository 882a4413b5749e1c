package chart

import (
	"math"
	"testing"
)

func TestFormatValue(t *testing.T) {
	cases := []struct {
		kind FieldKind
		v    float64
		want string
	}{
		{FieldCurrency, 1234567.5, "$1,234,567.50"},
		{FieldCurrency, 0, "$0.00"},
		{FieldCurrency, -950.25, "$-950.25"},
		{FieldPercent, 12.3456, "12.35%"},
		{FieldCount, 1234567, "1,234,567"},
		{FieldCount, 999, "999"},
		{FieldRaw, 2.5, "2.5"},
		{FieldCurrency, math.NaN(), "$0.00"},
	}
	for _, c := range cases {
		if got := FormatValue(c.kind, c.v); got != c.want {
			t.Errorf("FormatValue(%s, %v) = %q, want %q", c.kind, c.v, got, c.want)
		}
	}
}

func TestPaletteFor_FixedThenRotation(t *testing.T) {
	labels := []string{"Active", "Silent", "Ontario", "Quebec", "Active"}

	palette := PaletteFor(ActivityColors, labels)
	if palette["Active"] != "#36C2F6" || palette["Silent"] != "#FF9900" {
		t.Errorf("fixed labels must keep their semantic colors, got %v", palette)
	}
	if palette["Ontario"] != defaultPalette[0] || palette["Quebec"] != defaultPalette[1] {
		t.Errorf("unknown labels must draw from the rotation in first-seen order, got %v", palette)
	}
	if len(palette) != 4 {
		t.Errorf("duplicate labels must not consume rotation slots, got %d entries", len(palette))
	}
}

func TestPaletteFor_IsStable(t *testing.T) {
	labels := []string{"ON", "QC", "BC"}
	first := PaletteFor(nil, labels)
	second := PaletteFor(nil, labels)
	for _, l := range labels {
		if first[l] != second[l] {
			t.Errorf("label %q changed color between renders: %q vs %q", l, first[l], second[l])
		}
	}
}

func TestWithDualAxes(t *testing.T) {
	spec := Spec{
		Kind:   KindLine,
		XField: "Month",
		Series: []Series{
			{Name: "Revenue", Field: "Revenue", Kind: FieldCurrency},
			{Name: "Orders", Field: "Orders", Kind: FieldCount},
			{Name: "Users", Field: "Users", Kind: FieldCount},
		},
	}.WithDualAxes(
		Axis{Title: "Revenue", Kind: FieldCurrency},
		Axis{Title: "Volume", Kind: FieldCount},
	)

	if spec.Series[0].Axis != 1 {
		t.Errorf("first series must ride the primary axis, got %d", spec.Series[0].Axis)
	}
	for i := 1; i < len(spec.Series); i++ {
		if spec.Series[i].Axis != 2 {
			t.Errorf("series %d must ride the secondary axis, got %d", i, spec.Series[i].Axis)
		}
	}
	if len(spec.Axes) != 2 || spec.Axes[0].Side != "left" || spec.Axes[1].Side != "right" {
		t.Errorf("expected one axis per side, got %+v", spec.Axes)
	}
}

func TestBounded(t *testing.T) {
	axis := Bounded(Axis{Title: "Success Rate", Kind: FieldPercent}, 0, 100)
	if axis.Min == nil || axis.Max == nil || *axis.Min != 0 || *axis.Max != 100 {
		t.Errorf("expected [0,100] bounds, got %+v", axis)
	}
}
