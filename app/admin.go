package app

import (
	"context"
	"fmt"
	"strings"

	"shoplens/domain/chart"
	"shoplens/domain/metrics"
	"shoplens/domain/rowset"
	"shoplens/internal"
	"shoplens/internal/auth"
	"shoplens/ports"
)

// growthMetricNames maps the growth-trajectory display names onto the
// columns the procedure emits.
var growthMetricNames = map[string]string{
	"Order Count":         "OrderCount",
	"Unique Customers":    "UniqueCustomers",
	"Revenue":             "Revenue",
	"Avg Order Value":     "AvgOrderValue",
	"Revenue Per Customer": "RevenuePerCustomer",
	"Orders Per 100 Users": "OrdersPerHundredUsers",
}

var defaultGrowthMetrics = []string{"Revenue", "Order Count", "Unique Customers"}

// radarMetrics are the axes of the regional comparison radar.
var radarMetrics = []struct {
	Field   string
	Display string
}{
	{"TotalUsers", "Users"},
	{"TotalOrders", "Orders"},
	{"TotalRevenue", "Revenue"},
	{"OrdersPerUser", "Orders/User"},
	{"RevenuePerUser", "Revenue/User"},
}

// AdminController renders the overall business view.
type AdminController struct {
	gw      ports.ProcedureGateway
	catalog ports.Catalog
	log     *internal.Logger
}

// NewAdminController creates the admin dashboard controller.
func NewAdminController(gw ports.ProcedureGateway, catalog ports.Catalog) *AdminController {
	return &AdminController{gw: gw, catalog: catalog, log: internal.DefaultLogger}
}

func (c *AdminController) Role() auth.Role { return auth.RoleAdmin }

func (c *AdminController) Sections() []SectionID {
	return []SectionID{
		SectionBusinessOverview,
		SectionGrowthTrajectory,
		SectionProductPerformance,
		SectionRegionalMarket,
	}
}

func (c *AdminController) RenderSection(ctx context.Context, sc auth.SessionContext, id SectionID, p Params) Section {
	switch id {
	case SectionBusinessOverview:
		return c.businessOverview(ctx, sc)
	case SectionGrowthTrajectory:
		return c.growthTrajectory(ctx, sc, p)
	case SectionProductPerformance:
		return c.productPerformance(ctx, sc, p)
	case SectionRegionalMarket:
		return c.regionalMarket(ctx, sc, p)
	default:
		return unknownSection(id)
	}
}

// businessOverview is the KPI grid: period totals decorated with
// month-over-month deltas taken from the trailing six months of history.
func (c *AdminController) businessOverview(ctx context.Context, sc auth.SessionContext) Section {
	const title = "Business Overview"
	rows := fetch(ctx, c.gw, c.log, "admin_business_overview", sc.StartDate, sc.EndDate)
	if rows.Empty() {
		return emptySection(SectionBusinessOverview, title, "no data for the selected period")
	}
	data := rows[0]

	histStart := sc.StartDate.AddDate(0, 0, -180)
	hist := fetch(ctx, c.gw, c.log, "admin_business_growth_trajectory", histStart, sc.EndDate)
	series := metrics.NewPeriodSeries(hist, "Month", "Revenue", "OrderCount", "UniqueCustomers", "AvgOrderValue")

	kpis := []KPI{
		kpiCount("Total Users", data, "TotalUsers"),
		withDelta(kpiCount("Total Orders", data, "TotalOrders"), series.LatestChange("OrderCount")),
		withDelta(kpiCurrency("Total Revenue", data, "TotalRevenue"), series.LatestChange("Revenue")),
		withDelta(kpiCurrency("Avg Order Value", data, "AvgOrderValue"), series.LatestChange("AvgOrderValue")),
		kpiCount("Total Products", data, "TotalProducts"),
		kpiPercent("Order Completion Rate", data, "OrderCompletionRate"),
	}
	return Section{ID: SectionBusinessOverview, Title: title, KPIs: kpis}
}

// growthTrajectory plots the selected monthly metrics over the trailing
// year. Revenue holds the primary axis; every other metric rides the
// secondary count axis, dashed.
func (c *AdminController) growthTrajectory(ctx context.Context, sc auth.SessionContext, p Params) Section {
	const title = "Business Growth Trajectory"
	start := sc.StartDate.AddDate(0, 0, -365)
	rows := fetch(ctx, c.gw, c.log, "admin_business_growth_trajectory", start, sc.EndDate)
	if rows.Empty() {
		return emptySection(SectionGrowthTrajectory, title, "no growth history available")
	}

	selected := p.Metrics
	if len(selected) == 0 {
		selected = defaultGrowthMetrics
	}

	fields := make([]string, 0, len(selected))
	series := make([]chart.Series, 0, len(selected))
	for _, name := range selected {
		field, ok := growthMetricNames[name]
		if !ok {
			continue
		}
		fields = append(fields, field)
		kind := chart.FieldCount
		if name == "Revenue" || name == "Avg Order Value" || name == "Revenue Per Customer" {
			kind = chart.FieldCurrency
		}
		series = append(series, chart.Series{
			Name:   name,
			Field:  field,
			Kind:   kind,
			Dashed: field != "Revenue",
		})
	}
	if len(series) == 0 {
		return emptySection(SectionGrowthTrajectory, title, "no metrics selected")
	}

	// Revenue first so dual-axis assignment puts it on the primary scale.
	for i, s := range series {
		if s.Field == "Revenue" && i != 0 {
			series[0], series[i] = series[i], series[0]
		}
	}

	monthly := metrics.NewPeriodSeries(rows, "Month", fields...)
	spec := chart.Spec{
		Kind:   chart.KindLine,
		Title:  title,
		XField: "Month",
		XTitle: "Month",
		Series: series,
	}.WithDualAxes(
		chart.Axis{Title: "Revenue ($)", Kind: chart.FieldCurrency},
		chart.Axis{Title: "Count", Kind: chart.FieldCount},
	)

	return Section{
		ID:     SectionGrowthTrajectory,
		Title:  title,
		Charts: []Chart{{Spec: spec, Rows: seriesRows(monthly, "Month")}},
	}
}

// productPerformance builds the category comparison table with min/max
// highlighting (discount inverted, lower is better) and the top-10 products
// chart for the chosen metric.
func (c *AdminController) productPerformance(ctx context.Context, sc auth.SessionContext, p Params) Section {
	const title = "Product Performance Analysis"

	all, err := c.catalog.Categories(ctx)
	if err != nil || len(all) == 0 {
		return emptySection(SectionProductPerformance, title, "no product categories available")
	}
	selected := all
	if p.Category != "" {
		selected = []string{p.Category}
	}

	rows := fetch(ctx, c.gw, c.log, "admin_product_performance",
		sc.StartDate, sc.EndDate, quoteList(selected))
	if rows.Empty() {
		return emptySection(SectionProductPerformance, title, "no data for the selected categories")
	}

	byCategory := metrics.GroupBy(rows, "Category", map[string]metrics.Agg{
		"OrderCount":            metrics.AggSum,
		"TotalQuantitySold":     metrics.AggSum,
		"TotalRevenue":          metrics.AggSum,
		"AvgSellingPrice":       metrics.AggMean,
		"AvgDiscountPercentage": metrics.AggMean,
	})
	highlight := metrics.MinMaxAnnotate(byCategory,
		[]string{"OrderCount", "TotalQuantitySold", "TotalRevenue", "AvgSellingPrice", "AvgDiscountPercentage"},
		map[string]bool{"AvgDiscountPercentage": true})

	table := chart.Spec{
		Kind:  chart.KindTable,
		Title: "Category Performance Comparison",
		Columns: []chart.Column{
			{Field: "Category", Title: "Product Category", Kind: chart.FieldRaw},
			{Field: "OrderCount", Title: "Order Count", Kind: chart.FieldCount},
			{Field: "TotalQuantitySold", Title: "Units Sold", Kind: chart.FieldCount},
			{Field: "TotalRevenue", Title: "Revenue", Kind: chart.FieldCurrency},
			{Field: "AvgSellingPrice", Title: "Avg Price", Kind: chart.FieldCurrency},
			{Field: "AvgDiscountPercentage", Title: "Avg Discount", Kind: chart.FieldPercent},
		},
		Highlight: &highlight,
	}

	metricField := p.Metric
	if metricField == "" {
		metricField = "TotalRevenue"
	}
	metricKind := chart.FieldCount
	if metricField == "TotalRevenue" || metricField == "AvgSellingPrice" {
		metricKind = chart.FieldCurrency
	}
	top := metrics.TopN(rows, metricField, 10, true)
	topSpec := chart.Spec{
		Kind:        chart.KindHBar,
		Title:       "Top 10 Products by " + metricField,
		XField:      "ProductName",
		SeriesField: "Category",
		Series:      []chart.Series{{Name: metricField, Field: metricField, Kind: metricKind}},
		Palette:     chart.PaletteFor(nil, top.Strings("Category")),
	}.WithAxis(chart.Axis{Title: metricField, Kind: metricKind})

	return Section{
		ID:    SectionProductPerformance,
		Title: title,
		Charts: []Chart{
			{Spec: table, Rows: byCategory},
			{Spec: topSpec, Rows: top},
		},
	}
}

// regionalMarket ranks provinces by the chosen metric and compares selected
// provinces on a radar normalized to the group maximum of each axis.
func (c *AdminController) regionalMarket(ctx context.Context, sc auth.SessionContext, p Params) Section {
	const title = "Regional Market Analysis"
	rows := fetch(ctx, c.gw, c.log, "admin_market_penetration_by_region", sc.StartDate, sc.EndDate)
	if rows.Empty() {
		return emptySection(SectionRegionalMarket, title, "no regional data available")
	}

	metricField := p.Metric
	if metricField == "" {
		metricField = "TotalRevenue"
	}
	metricKind := chart.FieldCount
	switch metricField {
	case "TotalRevenue", "RevenuePerUser":
		metricKind = chart.FieldCurrency
	case "MarketSharePercent":
		metricKind = chart.FieldPercent
	}

	top := metrics.TopN(rows, metricField, 10, true)
	rankSpec := chart.Spec{
		Kind:   chart.KindBar,
		Title:  "Top 10 Provinces by " + metricField,
		XField: "Province",
		Series: []chart.Series{{Name: metricField, Field: metricField, Kind: metricKind}},
	}.WithAxis(chart.Axis{Title: metricField, Kind: metricKind})

	// Radar: normalize each axis against the maximum across all provinces,
	// then keep only the provinces under comparison.
	selected := p.Provinces
	if len(selected) == 0 {
		for _, row := range metrics.TopN(rows, "TotalRevenue", 3, true) {
			selected = append(selected, row.String("Province"))
		}
	}
	normalized := make(rowset.ResultSet, len(rows))
	for i, row := range rows {
		normalized[i] = rowset.Row{"Province": row.String("Province")}
	}
	for _, m := range radarMetrics {
		col := metrics.NormalizeByGroupMax(rows.Column(m.Field))
		for i := range normalized {
			normalized[i][m.Display] = col[i]
		}
	}
	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[name] = true
	}
	compared := normalized.Filter(func(r rowset.Row) bool { return want[r.String("Province")] })

	radarSeries := make([]chart.Series, len(radarMetrics))
	for i, m := range radarMetrics {
		radarSeries[i] = chart.Series{Name: m.Display, Field: m.Display, Kind: chart.FieldPercent, Axis: 1}
	}
	radarSpec := chart.Spec{
		Kind:        chart.KindRadar,
		Title:       "Regional Performance Comparison (% of Maximum)",
		SeriesField: "Province",
		Series:      radarSeries,
		Axes:        []chart.Axis{chart.Bounded(chart.Axis{Kind: chart.FieldPercent}, 0, 100)},
		Palette:     chart.PaletteFor(nil, compared.Strings("Province")),
	}

	return Section{
		ID:    SectionRegionalMarket,
		Title: title,
		Charts: []Chart{
			{Spec: rankSpec, Rows: top},
			{Spec: radarSpec, Rows: compared},
		},
	}
}

// quoteList renders category names the way the procedure expects its set
// parameter: single-quoted, comma-separated.
func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + strings.ReplaceAll(item, "'", "''") + "'"
	}
	return strings.Join(quoted, ",")
}

// seriesRows converts a period series back into chartable rows, one per
// period, labeled by labelField.
func seriesRows(s metrics.PeriodSeries, labelField string) []rowset.Row {
	rows := make([]rowset.Row, len(s.Periods))
	for i, period := range s.Periods {
		row := rowset.Row{labelField: period.Label}
		for field, v := range period.Values {
			row[field] = v
		}
		rows[i] = row
	}
	return rows
}

// KPI helpers shared by the controllers.

func kpiCount(label string, row rowset.Row, field string) KPI {
	v, _ := row.Float(field)
	return KPI{Label: label, Value: chart.FormatValue(chart.FieldCount, v)}
}

func kpiCurrency(label string, row rowset.Row, field string) KPI {
	v, _ := row.Float(field)
	return KPI{Label: label, Value: chart.FormatValue(chart.FieldCurrency, v)}
}

func kpiPercent(label string, row rowset.Row, field string) KPI {
	v, _ := row.Float(field)
	return KPI{Label: label, Value: chart.FormatValue(chart.FieldPercent, v)}
}

func withDelta(k KPI, change metrics.Nullable) KPI {
	if !change.Valid {
		return k
	}
	k.Delta = fmt.Sprintf("%.1f%%", change.Value)
	k.DeltaDown = change.Value < 0
	return k
}
