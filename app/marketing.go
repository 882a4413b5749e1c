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

// discountOrder is the canonical display order of discount levels.
var discountOrder = []string{
	"0% (No Discount)",
	"0.01% to 10.00%",
	"10.01% to 20.00%",
	"20.01% to 30.00%",
	"30.01% to 40.00%",
	"Over 40.00%",
}

// markupOrder is the canonical display order of price markup ranges.
var markupOrder = []string{
	"Under 25%",
	"25% to 50%",
	"50% to 75%",
	"75% to 100%",
	"Over 100%",
}

// MarketingController renders discount, seasonality and pricing analytics.
// Every section is parameterized by product category, defaulting to the
// first category in the catalog.
type MarketingController struct {
	gw      ports.ProcedureGateway
	catalog ports.Catalog
	log     *internal.Logger
}

// NewMarketingController creates the marketing analytics controller.
func NewMarketingController(gw ports.ProcedureGateway, catalog ports.Catalog) *MarketingController {
	return &MarketingController{gw: gw, catalog: catalog, log: internal.DefaultLogger}
}

func (c *MarketingController) Role() auth.Role { return auth.RoleMarketingAnalyst }

func (c *MarketingController) Sections() []SectionID {
	return []SectionID{
		SectionDiscountProfitability,
		SectionQuarterlySales,
		SectionPriceElasticity,
	}
}

func (c *MarketingController) RenderSection(ctx context.Context, sc auth.SessionContext, id SectionID, p Params) Section {
	category, ok := c.resolveCategory(ctx, p.Category)
	if !ok {
		return emptySection(id, string(id), "no product categories available")
	}
	switch id {
	case SectionDiscountProfitability:
		return c.discountProfitability(ctx, sc, category)
	case SectionQuarterlySales:
		return c.quarterlySales(ctx, category)
	case SectionPriceElasticity:
		return c.priceElasticity(ctx, category)
	default:
		return unknownSection(id)
	}
}

// resolveCategory validates a requested category against the catalog, or
// picks the first one when none is requested.
func (c *MarketingController) resolveCategory(ctx context.Context, requested string) (string, bool) {
	categories, err := c.catalog.Categories(ctx)
	if err != nil || len(categories) == 0 {
		return "", false
	}
	if requested == "" {
		return categories[0], true
	}
	for _, cat := range categories {
		if cat == requested {
			return cat, true
		}
	}
	return categories[0], true
}

// discountProfitability charts how a category sells across discount levels:
// one bar chart per metric, levels in canonical order and fixed colors,
// plus totals as KPIs.
func (c *MarketingController) discountProfitability(ctx context.Context, sc auth.SessionContext, category string) Section {
	title := "Discount Profitability Analysis"
	rows := fetch(ctx, c.gw, c.log, "AnalyzeDiscountProfitability", category, sc.StartDate, sc.EndDate)
	if rows.Empty() {
		return emptySection(SectionDiscountProfitability, title,
			fmt.Sprintf("no discount data available for %s in the selected period", category))
	}
	ordered := metrics.BucketAssign(rows, "DiscountLevel", discountOrder)
	palette := chart.PaletteFor(chart.DiscountLevelColors, ordered.Strings("DiscountLevel"))

	charts := []Chart{}
	for _, m := range []struct {
		Field string
		Name  string
		Kind  chart.FieldKind
	}{
		{"TotalQuantitySold", "Quantity Sold", chart.FieldCount},
		{"NumberOfUniqueProductIDsSoldUnderTheDiscountLevel", "Unique Products", chart.FieldCount},
		{"TotalSalesRevenue", "Sales Revenue", chart.FieldCurrency},
		{"TotalProfit", "Profit", chart.FieldCurrency},
	} {
		spec := chart.Spec{
			Kind:        chart.KindBar,
			Title:       fmt.Sprintf("%s by Discount Level for %s", m.Name, category),
			XField:      "DiscountLevel",
			SeriesField: "DiscountLevel",
			Series:      []chart.Series{{Name: m.Name, Field: m.Field, Kind: m.Kind}},
			Palette:     palette,
		}.WithAxis(chart.Axis{Title: m.Name, Kind: m.Kind})
		charts = append(charts, Chart{Spec: spec, Rows: ordered})
	}

	kpis := []KPI{
		{Label: "Total Quantity Sold", Value: chart.FormatValue(chart.FieldCount, metrics.Summarize(ordered, "TotalQuantitySold").Sum)},
		{Label: "Total Unique Products", Value: chart.FormatValue(chart.FieldCount, metrics.Summarize(ordered, "NumberOfUniqueProductIDsSoldUnderTheDiscountLevel").Sum)},
		{Label: "Total Revenue", Value: chart.FormatValue(chart.FieldCurrency, metrics.Summarize(ordered, "TotalSalesRevenue").Sum)},
		{Label: "Total Profit", Value: chart.FormatValue(chart.FieldCurrency, metrics.Summarize(ordered, "TotalProfit").Sum)},
	}

	return Section{ID: SectionDiscountProfitability, Title: title, KPIs: kpis, Charts: charts}
}

// quarterlySales charts a category's seasonality: one bar chart per metric
// and a normalized multi-line comparison where each metric is scaled to its
// own quarterly maximum.
func (c *MarketingController) quarterlySales(ctx context.Context, category string) Section {
	title := "Quarterly Sales Pattern Analysis"
	rows := fetch(ctx, c.gw, c.log, "QuarterlySalesAnalysis", category)
	if rows.Empty() {
		return emptySection(SectionQuarterlySales, title,
			fmt.Sprintf("no quarterly sales data available for %s", category))
	}
	palette := chart.PaletteFor(chart.QuarterColors, rows.Strings("Quarter"))

	quarterMetrics := []struct {
		Field string
		Name  string
		Kind  chart.FieldKind
	}{
		{"NumberOfUniqueProductIDsSoldInTheQuarter", "Unique Products", chart.FieldCount},
		{"TotalQuantitySoldInTheQuarter", "Quantity Sold", chart.FieldCount},
		{"TotalSalesRevenueInTheQuarter", "Sales Revenue", chart.FieldCurrency},
		{"TotalProfitInTheQuarter", "Profit", chart.FieldCurrency},
	}

	charts := []Chart{}
	for _, m := range quarterMetrics {
		spec := chart.Spec{
			Kind:        chart.KindBar,
			Title:       fmt.Sprintf("%s by Quarter for %s", m.Name, category),
			XField:      "Quarter",
			SeriesField: "Quarter",
			Series:      []chart.Series{{Name: m.Name, Field: m.Field, Kind: m.Kind}},
			Palette:     palette,
		}.WithAxis(chart.Axis{Title: m.Name, Kind: m.Kind})
		charts = append(charts, Chart{Spec: spec, Rows: rows})
	}

	normalized := make(rowset.ResultSet, len(rows))
	for i, row := range rows {
		normalized[i] = rowset.Row{"Quarter": row.String("Quarter")}
	}
	trendSeries := make([]chart.Series, 0, len(quarterMetrics))
	for _, m := range quarterMetrics {
		col := metrics.NormalizeByGroupMax(rows.Column(m.Field))
		for i := range normalized {
			normalized[i][m.Field] = col[i]
		}
		trendSeries = append(trendSeries, chart.Series{Name: m.Name, Field: m.Field, Kind: chart.FieldPercent})
	}
	trendSpec := chart.Spec{
		Kind:   chart.KindLine,
		Title:  fmt.Sprintf("Normalized Quarterly Trends for %s (%% of Maximum)", category),
		XField: "Quarter",
		XTitle: "Quarter",
		Series: trendSeries,
	}.WithAxis(chart.Axis{Title: "Percentage of Maximum Value", Kind: chart.FieldPercent})
	charts = append(charts, Chart{Spec: trendSpec, Rows: normalized})

	return Section{ID: SectionQuarterlySales, Title: title, Charts: charts}
}

// priceElasticity analyzes the category's most popular product across
// markup ranges, with a demand scatter, a fitted trend when there are
// enough points, and pricing recommendations as markdown notes.
func (c *MarketingController) priceElasticity(ctx context.Context, category string) Section {
	title := "Product Price Elasticity Analysis"
	rows := fetch(ctx, c.gw, c.log, "ProductPriceElasticityAnalysis", category)
	if rows.Empty() {
		return emptySection(SectionPriceElasticity, title,
			fmt.Sprintf("no price elasticity data available for %s", category))
	}
	ordered := metrics.BucketAssign(rows, "MarkupRange", markupOrder)
	palette := chart.PaletteFor(chart.MarkupRangeColors, ordered.Strings("MarkupRange"))
	product := ordered[0]

	kpis := []KPI{
		{Label: "Product ID", Value: product.String("ProductID")},
		{Label: "Product Name", Value: product.String("ProductName")},
		kpiCurrency("Original Cost", product, "OriginalCost"),
	}

	charts := []Chart{}
	for _, m := range []struct {
		Field string
		Name  string
		Kind  chart.FieldKind
	}{
		{"TotalQuantitySoldForTheMarkup", "Quantity Sold", chart.FieldCount},
		{"TotalRevenueForTheMarkup", "Revenue", chart.FieldCurrency},
		{"TotalProfitForTheMarkup", "Profit", chart.FieldCurrency},
		{"AverageUnitProfitForTheMarkup", "Avg Unit Profit", chart.FieldCurrency},
	} {
		spec := chart.Spec{
			Kind:        chart.KindBar,
			Title:       fmt.Sprintf("%s by Price Markup Range for %s", m.Name, product.String("ProductName")),
			XField:      "MarkupRange",
			SeriesField: "MarkupRange",
			Series:      []chart.Series{{Name: m.Name, Field: m.Field, Kind: m.Kind}},
			Palette:     palette,
		}.WithAxis(chart.Axis{Title: m.Name, Kind: m.Kind})
		charts = append(charts, Chart{Spec: spec, Rows: ordered})
	}

	section := Section{ID: SectionPriceElasticity, Title: title, KPIs: kpis, Charts: charts}
	if len(ordered) < 2 {
		return section
	}

	byMarkup := metrics.TopN(ordered, "AvgMarkupPercentageInTheMarkupRange", -1, false)
	scatter := chart.Spec{
		Kind:   chart.KindScatter,
		Title:  fmt.Sprintf("Price Elasticity for %s", product.String("ProductName")),
		XField: "AvgMarkupPercentageInTheMarkupRange",
		XTitle: "Average Markup Percentage",
		Series: []chart.Series{{Name: "Quantity Sold", Field: "TotalQuantitySoldForTheMarkup", Kind: chart.FieldCount}},
	}.WithAxis(chart.Axis{Title: "Quantity Sold", Kind: chart.FieldCount})
	scatterChart := Chart{Spec: scatter, Rows: byMarkup}
	if trend, ok := metrics.ElasticityTrend(byMarkup, "AvgMarkupPercentageInTheMarkupRange", "TotalQuantitySoldForTheMarkup"); ok {
		scatterChart.Trend = &trend
	}
	section.Charts = append(section.Charts, scatterChart)

	section.Notes = pricingRecommendations(ordered)
	return section
}

// pricingRecommendations writes the three recommendation blocks, each from
// the markup range winning its objective, as markdown.
func pricingRecommendations(rows rowset.ResultSet) string {
	var b strings.Builder
	b.WriteString("### Pricing Recommendations\n")
	for _, rec := range []struct {
		Heading string
		Field   string
	}{
		{"For Maximum Profit", "TotalProfitForTheMarkup"},
		{"For Maximum Revenue", "TotalRevenueForTheMarkup"},
		{"For Maximum Volume", "TotalQuantitySoldForTheMarkup"},
	} {
		best := metrics.TopN(rows, rec.Field, 1, true)
		if best.Empty() {
			continue
		}
		row := best[0]
		fmt.Fprintf(&b, "\n#### %s\n", rec.Heading)
		fmt.Fprintf(&b, "**Recommended Markup Range:** %s\n\n", row.String("MarkupRange"))
		fmt.Fprintf(&b, "**Average Markup:** %s\n\n",
			chart.FormatValue(chart.FieldPercent, mustFloat(row, "AvgMarkupPercentageInTheMarkupRange")))
		switch rec.Field {
		case "TotalProfitForTheMarkup":
			fmt.Fprintf(&b, "**Expected Unit Profit:** %s\n",
				chart.FormatValue(chart.FieldCurrency, mustFloat(row, "AverageUnitProfitForTheMarkup")))
		case "TotalRevenueForTheMarkup":
			qty := mustFloat(row, "TotalQuantitySoldForTheMarkup")
			perUnit := 0.0
			if qty > 0 {
				perUnit = mustFloat(row, "TotalRevenueForTheMarkup") / qty
			}
			fmt.Fprintf(&b, "**Expected Revenue per Unit:** %s\n",
				chart.FormatValue(chart.FieldCurrency, perUnit))
		default:
			fmt.Fprintf(&b, "**Expected Units Sold:** %s\n",
				chart.FormatValue(chart.FieldCount, mustFloat(row, "TotalQuantitySoldForTheMarkup")))
		}
	}
	return b.String()
}
