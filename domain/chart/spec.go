// Package chart builds declarative chart and table specifications. A spec
// names the fields of an already-derived dataset and how a renderer should
// bind them; it carries no pixels and is never mutated after construction.
package chart

import "shoplens/domain/metrics"

// Kind is the chart family a renderer should draw.
type Kind string

const (
	KindBar     Kind = "bar"
	KindHBar    Kind = "hbar"
	KindLine    Kind = "line"
	KindArea    Kind = "area"
	KindPie     Kind = "pie"
	KindDonut   Kind = "donut"
	KindScatter Kind = "scatter"
	KindRadar   Kind = "radar"
	KindTable   Kind = "table"
)

// FieldKind declares how a field's values are formatted. Formatting follows
// the declaration, never the magnitude of the data.
type FieldKind string

const (
	FieldCurrency FieldKind = "currency"
	FieldPercent  FieldKind = "percent"
	FieldCount    FieldKind = "count"
	FieldRaw      FieldKind = "raw"
)

// Series binds one y (or radial) field of the dataset to a rendered series.
// Axis is 1 for the primary scale and 2 for the secondary.
type Series struct {
	Name   string    `json:"name"`
	Field  string    `json:"field"`
	Kind   FieldKind `json:"kind"`
	Axis   int       `json:"axis"`
	Color  string    `json:"color,omitempty"`
	Dashed bool      `json:"dashed,omitempty"`
}

// Axis describes one value axis.
type Axis struct {
	Title string    `json:"title"`
	Kind  FieldKind `json:"kind"`
	Side  string    `json:"side,omitempty"` // "left" or "right"
	Min   *float64  `json:"min,omitempty"`
	Max   *float64  `json:"max,omitempty"`
}

// Column describes one table column.
type Column struct {
	Field string    `json:"field"`
	Title string    `json:"title"`
	Kind  FieldKind `json:"kind"`
}

// Spec is a complete renderer-agnostic chart or table description.
type Spec struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title,omitempty"`
	XField string `json:"x_field,omitempty"`
	XTitle string `json:"x_title,omitempty"`

	// SeriesField, when set, slices rows into one rendered series per
	// distinct value (pie slices, radar rings, colored bar groups).
	SeriesField string   `json:"series_field,omitempty"`
	Series      []Series `json:"series,omitempty"`
	Axes        []Axis   `json:"axes,omitempty"`

	// Table shape.
	Columns   []Column            `json:"columns,omitempty"`
	Highlight *metrics.Annotation `json:"highlight,omitempty"`

	// Palette keys slice colors for categorical charts. The same semantic
	// category always maps to the same color across sections and renders.
	Palette map[string]string `json:"palette,omitempty"`
}

// WithDualAxes assigns the first series to axis 1 and every other series to
// axis 2, tagging the spec with one axis per side. Used when metrics of
// incompatible scale (currency against counts, rates against totals) share
// one chart.
func (s Spec) WithDualAxes(primary Axis, secondary Axis) Spec {
	primary.Side = "left"
	secondary.Side = "right"
	for i := range s.Series {
		if i == 0 {
			s.Series[i].Axis = 1
		} else {
			s.Series[i].Axis = 2
		}
	}
	s.Axes = []Axis{primary, secondary}
	return s
}

// WithAxis sets a single shared value axis and points every series at it.
func (s Spec) WithAxis(axis Axis) Spec {
	axis.Side = "left"
	for i := range s.Series {
		s.Series[i].Axis = 1
	}
	s.Axes = []Axis{axis}
	return s
}

// Bounded returns a copy of the axis clamped to [min, max], used for rate
// axes that must span 0-100 regardless of the data.
func Bounded(axis Axis, min, max float64) Axis {
	axis.Min = &min
	axis.Max = &max
	return axis
}
