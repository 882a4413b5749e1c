package app

import (
	"context"
	"fmt"
	"sort"

	"shoplens/domain/chart"
	"shoplens/domain/metrics"
	"shoplens/domain/rowset"
	"shoplens/internal"
	"shoplens/internal/auth"
	"shoplens/ports"
)

// tierOrder is the canonical display order of spending tiers.
var tierOrder = []string{"Platinum", "Gold", "Silver", "Bronze"}

// FinanceController renders the revenue and payments dashboard.
type FinanceController struct {
	gw  ports.ProcedureGateway
	log *internal.Logger
}

// NewFinanceController creates the finance analytics controller.
func NewFinanceController(gw ports.ProcedureGateway) *FinanceController {
	return &FinanceController{gw: gw, log: internal.DefaultLogger}
}

func (c *FinanceController) Role() auth.Role { return auth.RoleFinanceAnalyst }

func (c *FinanceController) Sections() []SectionID {
	return []SectionID{
		SectionMonthlyRevenue,
		SectionPaymentMethods,
		SectionFailedPayments,
		SectionSpendingTiers,
	}
}

func (c *FinanceController) RenderSection(ctx context.Context, sc auth.SessionContext, id SectionID, p Params) Section {
	switch id {
	case SectionMonthlyRevenue:
		return c.monthlyRevenue(ctx)
	case SectionPaymentMethods:
		return c.paymentMethods(ctx)
	case SectionFailedPayments:
		return c.failedPayments(ctx, p)
	case SectionSpendingTiers:
		return c.spendingTiers(ctx)
	default:
		return unknownSection(id)
	}
}

// monthlyRevenue is the revenue trend with its month-over-month growth rate
// on a secondary axis. Growth of the first month is undefined and renders
// as a gap, not a zero.
func (c *FinanceController) monthlyRevenue(ctx context.Context) Section {
	const title = "Monthly Revenue Trend"
	rows := fetch(ctx, c.gw, c.log, "MonthlyRevenueTrendAnalysis")
	if rows.Empty() {
		return emptySection(SectionMonthlyRevenue, title, "no revenue data available")
	}

	series := metrics.NewPeriodSeries(rows, "Month", "TotalRevenue")
	growth := metrics.PeriodOverPeriodChange(series, "TotalRevenue")

	chartRows := seriesRows(series, "Month")
	for i := range chartRows {
		// Scalar or nil, so Row.Float and the exporter can read the cell.
		if growth[i].Valid {
			chartRows[i]["MonthlyGrowth"] = growth[i].Value
		} else {
			chartRows[i]["MonthlyGrowth"] = nil
		}
	}

	summary := metrics.Summarize(rows, "TotalRevenue")
	kpis := []KPI{
		{Label: "Total Revenue", Value: chart.FormatValue(chart.FieldCurrency, summary.Sum)},
		{Label: "Avg Monthly Revenue", Value: chart.FormatValue(chart.FieldCurrency, summary.Mean.Value)},
	}
	latest := series.LatestChange("TotalRevenue")
	if latest.Valid {
		kpis = append(kpis, KPI{
			Label:     "Latest Monthly Growth",
			Value:     fmt.Sprintf("%.2f%%", latest.Value),
			DeltaDown: latest.Value < 0,
		})
	} else {
		kpis = append(kpis, KPI{Label: "Latest Monthly Growth", Value: "N/A"})
	}

	spec := chart.Spec{
		Kind:   chart.KindArea,
		Title:  "Monthly Revenue Trend and Growth Rate",
		XField: "Month",
		XTitle: "Month",
		Series: []chart.Series{
			{Name: "Revenue", Field: "TotalRevenue", Kind: chart.FieldCurrency, Color: "#FF9900"},
			{Name: "Monthly Growth (%)", Field: "MonthlyGrowth", Kind: chart.FieldPercent, Color: "#36C2F6", Dashed: true},
		},
	}.WithDualAxes(
		chart.Axis{Title: "Revenue ($)", Kind: chart.FieldCurrency},
		chart.Axis{Title: "Growth Rate (%)", Kind: chart.FieldPercent},
	)

	return Section{
		ID:     SectionMonthlyRevenue,
		Title:  title,
		KPIs:   kpis,
		Charts: []Chart{{Spec: spec, Rows: chartRows}},
	}
}

// paymentMethods shows the payment type mix and success rates: a pie of
// payment volume, and a success-rate ranking with the volume line on the
// secondary axis. The rate axis is pinned to 0-100.
func (c *FinanceController) paymentMethods(ctx context.Context) Section {
	const title = "Payment Method Analysis"
	rows := fetch(ctx, c.gw, c.log, "PaymentMethodAnalysis")
	if rows.Empty() {
		return emptySection(SectionPaymentMethods, title, "no payment method data available")
	}

	pie := chart.Spec{
		Kind:        chart.KindPie,
		Title:       "Payment Method Distribution",
		SeriesField: "PaymentType",
		Series:      []chart.Series{{Name: "Total Payments", Field: "TotalPayments", Kind: chart.FieldCount}},
		Palette:     chart.PaletteFor(nil, rows.Strings("PaymentType")),
	}

	bySuccess := metrics.TopN(rows, "SuccessRate", -1, true)
	success := chart.Spec{
		Kind:   chart.KindBar,
		Title:  "Success Rate Comparison",
		XField: "PaymentType",
		XTitle: "Payment Method",
		Series: []chart.Series{
			{Name: "Success Rate", Field: "SuccessRate", Kind: chart.FieldPercent, Color: "#36C2F6"},
			{Name: "Total Payments", Field: "TotalPayments", Kind: chart.FieldCount, Color: "#FF9900"},
		},
	}.WithDualAxes(
		chart.Bounded(chart.Axis{Title: "Success Rate (%)", Kind: chart.FieldPercent}, 0, 100),
		chart.Axis{Title: "Total Payments", Kind: chart.FieldCount},
	)

	return Section{
		ID:    SectionPaymentMethods,
		Title: title,
		Charts: []Chart{
			{Spec: pie, Rows: rows},
			{Spec: success, Rows: bySuccess},
		},
	}
}

// failedPayments analyzes the year's failed payments at daily, monthly and
// quarterly grain plus the ten worst days. All rollups derive from the one
// daily result set.
func (c *FinanceController) failedPayments(ctx context.Context, p Params) Section {
	const title = "Failed Payments Analysis"
	year := p.Year
	if year == 0 {
		year = 2024
	}
	rows := fetch(ctx, c.gw, c.log, "FailedPaymentsAnalysis", year)
	if rows.Empty() {
		return emptySection(SectionFailedPayments, title, "no failed payment data available")
	}

	// Daily rows with derived month and quarter labels, date-ordered.
	daily := make(rowset.ResultSet, 0, len(rows))
	for _, row := range rows {
		ts, ok := row.Time("FailedDate")
		if !ok {
			continue
		}
		count, _ := row.Float("FailedPayments")
		daily = append(daily, rowset.Row{
			"FailedDate":     ts.Format("2006-01-02"),
			"FailedPayments": count,
			"Month":          ts.Format("2006-01"),
			"Quarter":        fmt.Sprintf("%d-Q%d", ts.Year(), (int(ts.Month())-1)/3+1),
		})
	}
	if daily.Empty() {
		return emptySection(SectionFailedPayments, title, "no failed payment data available")
	}
	sort.SliceStable(daily, func(i, j int) bool {
		return daily[i].String("FailedDate") < daily[j].String("FailedDate")
	})

	dailySpec := chart.Spec{
		Kind:   chart.KindLine,
		Title:  fmt.Sprintf("Daily Failed Payments (%d)", year),
		XField: "FailedDate",
		XTitle: "Date",
		Series: []chart.Series{{Name: "Failed Payments", Field: "FailedPayments", Kind: chart.FieldCount}},
	}.WithAxis(chart.Axis{Title: "Failed Payments", Kind: chart.FieldCount})

	monthly := metrics.GroupBy(daily, "Month", map[string]metrics.Agg{"FailedPayments": metrics.AggSum})
	monthlySpec := chart.Spec{
		Kind:   chart.KindBar,
		Title:  fmt.Sprintf("Monthly Failed Payments (%d)", year),
		XField: "Month",
		XTitle: "Month",
		Series: []chart.Series{
			{Name: "Failed Payments", Field: "FailedPayments", Kind: chart.FieldCount, Color: "#e41a1c"},
			{Name: "Trend", Field: "FailedPayments", Kind: chart.FieldCount, Color: "#377eb8"},
		},
	}.WithAxis(chart.Axis{Title: "Failed Payments", Kind: chart.FieldCount})

	quarterly := metrics.GroupBy(daily, "Quarter", map[string]metrics.Agg{"FailedPayments": metrics.AggSum})
	quarterlySpec := chart.Spec{
		Kind:   chart.KindBar,
		Title:  fmt.Sprintf("Quarterly Failed Payments (%d)", year),
		XField: "Quarter",
		XTitle: "Quarter",
		Series: []chart.Series{
			{Name: "Failed Payments", Field: "FailedPayments", Kind: chart.FieldCount, Color: "#e41a1c"},
			{Name: "Trend", Field: "FailedPayments", Kind: chart.FieldCount, Color: "#377eb8"},
		},
	}.WithAxis(chart.Axis{Title: "Failed Payments", Kind: chart.FieldCount})

	// Worst days, tagged with their share of the day-level maximum so the
	// renderer can shade bar intensity.
	top := metrics.TopN(daily, "FailedPayments", 10, true)
	intensity := metrics.NormalizeByGroupMax(top.Column("FailedPayments"))
	topRows := make(rowset.ResultSet, len(top))
	for i, row := range top {
		topRows[i] = rowset.Row{
			"FailedDate":        row.String("FailedDate"),
			"FailedPayments":    mustFloat(row, "FailedPayments"),
			"FailurePercentage": intensity[i],
		}
	}
	topSpec := chart.Spec{
		Kind:   chart.KindHBar,
		Title:  fmt.Sprintf("Top 10 Days with Most Failed Payments (%d)", year),
		XField: "FailedDate",
		Series: []chart.Series{{Name: "Failed Payments", Field: "FailedPayments", Kind: chart.FieldCount}},
	}.WithAxis(chart.Axis{Title: "Number of Failed Payments", Kind: chart.FieldCount})

	summary := metrics.Summarize(daily, "FailedPayments")
	kpis := []KPI{
		{Label: "Total Failed Payments", Value: chart.FormatValue(chart.FieldCount, summary.Sum)},
		{Label: "Avg Daily Failed Payments", Value: fmt.Sprintf("%.2f", summary.Mean.Value)},
	}
	if worst := metrics.TopN(daily, "FailedPayments", 1, true); !worst.Empty() {
		kpis = append(kpis, KPI{
			Label: "Worst Day",
			Value: fmt.Sprintf("%s: %s", worst[0].String("FailedDate"),
				chart.FormatValue(chart.FieldCount, mustFloat(worst[0], "FailedPayments"))),
		})
	}

	return Section{
		ID:    SectionFailedPayments,
		Title: title,
		KPIs:  kpis,
		Charts: []Chart{
			{Spec: dailySpec, Rows: daily},
			{Spec: monthlySpec, Rows: monthly},
			{Spec: quarterlySpec, Rows: quarterly},
			{Spec: topSpec, Rows: topRows},
		},
	}
}

// spendingTiers is the tier mix pie plus one KPI card per tier, with each
// tier's share of the user base. Tiers missing from the data still render a
// zero card.
func (c *FinanceController) spendingTiers(ctx context.Context) Section {
	const title = "User Spending Tiers"
	rows := fetch(ctx, c.gw, c.log, "UserTierAnalysis")
	if rows.Empty() {
		return emptySection(SectionSpendingTiers, title, "no user tier data available")
	}

	ordered := metrics.BucketAssign(rows, "UserTier", tierOrder)
	shares := metrics.ShareOfTotal(ordered, "UserCount")
	chartRows := make(rowset.ResultSet, len(ordered))
	for i, row := range ordered {
		chartRows[i] = rowset.Row{
			"UserTier":   row.String("UserTier"),
			"UserCount":  mustFloat(row, "UserCount"),
			"Percentage": shares[i],
		}
	}

	spec := chart.Spec{
		Kind:        chart.KindPie,
		Title:       title,
		SeriesField: "UserTier",
		Series:      []chart.Series{{Name: "Users", Field: "UserCount", Kind: chart.FieldCount}},
		Palette:     chart.PaletteFor(chart.TierColors, chartRows.Strings("UserTier")),
	}

	kpis := make([]KPI, 0, len(tierOrder))
	for _, tier := range tierOrder {
		kpi := KPI{Label: tier + " Users", Value: "0"}
		for i, row := range chartRows {
			if row.String("UserTier") == tier {
				kpi.Value = chart.FormatValue(chart.FieldCount, mustFloat(row, "UserCount"))
				kpi.Delta = fmt.Sprintf("%.2f%%", shares[i])
				break
			}
		}
		kpis = append(kpis, kpi)
	}

	return Section{
		ID:     SectionSpendingTiers,
		Title:  title,
		KPIs:   kpis,
		Charts: []Chart{{Spec: spec, Rows: chartRows}},
	}
}

func mustFloat(row rowset.Row, field string) float64 {
	v, _ := row.Float(field)
	return v
}
