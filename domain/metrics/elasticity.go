package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"shoplens/domain/rowset"
)

// TrendLine is a fitted straight line over an x/y scatter, drawn on the
// price-elasticity chart to show how demand moves against markup.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	X0        float64 `json:"x0"`
	Y0        float64 `json:"y0"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
}

// ElasticityTrend fits an ordinary least-squares line of yField against
// xField. It needs at least three points with both cells present; below
// that, or when all x values coincide, there is no meaningful trend and the
// second return is false.
func ElasticityTrend(rows rowset.ResultSet, xField, yField string) (TrendLine, bool) {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		x, xOK := row.Float(xField)
		y, yOK := row.Float(yField)
		if !xOK || !yOK {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 3 {
		return TrendLine{}, false
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if hi == lo {
		return TrendLine{}, false
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return TrendLine{}, false
	}
	return TrendLine{
		Slope:     beta,
		Intercept: alpha,
		X0:        lo,
		Y0:        alpha + beta*lo,
		X1:        hi,
		Y1:        alpha + beta*hi,
	}, true
}
