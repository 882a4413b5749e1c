package app

import (
	"context"
	"strings"

	"shoplens/domain/chart"
	"shoplens/domain/metrics"
	"shoplens/domain/rowset"
	"shoplens/internal"
	"shoplens/internal/auth"
	"shoplens/ports"
)

// activityOrder is the canonical display order of activity labels.
var activityOrder = []string{"Active", "Silent", "Lost", "No Orders"}

// UserController renders the user behavior dashboard.
type UserController struct {
	gw  ports.ProcedureGateway
	log *internal.Logger
}

// NewUserController creates the user analytics controller.
func NewUserController(gw ports.ProcedureGateway) *UserController {
	return &UserController{gw: gw, log: internal.DefaultLogger}
}

func (c *UserController) Role() auth.Role { return auth.RoleUserAnalyst }

func (c *UserController) Sections() []SectionID {
	return []SectionID{
		SectionProvincialUsers,
		SectionVIPComparison,
		SectionUserRetention,
		SectionUserActivity,
	}
}

func (c *UserController) RenderSection(ctx context.Context, sc auth.SessionContext, id SectionID, p Params) Section {
	switch id {
	case SectionProvincialUsers:
		return c.provincialUsers(ctx, p)
	case SectionVIPComparison:
		return c.vipComparison(ctx, p)
	case SectionUserRetention:
		return c.userRetention(ctx, p)
	case SectionUserActivity:
		return c.userActivity(ctx)
	default:
		return unknownSection(id)
	}
}

// provincialUsers shows where users live: summary KPIs, the top-10
// provinces for the chosen user type, and a metric-selectable ranking.
// The Non-VIP count is derived by subtraction; the procedure only reports
// totals and VIPs.
func (c *UserController) provincialUsers(ctx context.Context, p Params) Section {
	const title = "User Distribution by Province"
	rows := fetch(ctx, c.gw, c.log, "ProvincialUserAnalysis")
	if rows.Empty() {
		return emptySection(SectionProvincialUsers, title, "no provincial data available")
	}

	users := metrics.Summarize(rows, "UserCount")
	vips := metrics.Summarize(rows, "VIPUserCount")
	kpis := []KPI{
		{Label: "Total Provinces", Value: chart.FormatValue(chart.FieldCount, float64(len(rows)))},
		{Label: "Total Users", Value: chart.FormatValue(chart.FieldCount, users.Sum)},
		{Label: "VIP Users", Value: chart.FormatValue(chart.FieldCount, vips.Sum)},
	}

	filtered := make(rowset.ResultSet, len(rows))
	suffix := "All Users"
	for i, row := range rows {
		count, _ := row.Float("UserCount")
		vip, _ := row.Float("VIPUserCount")
		switch p.UserType {
		case "vip":
			count = vip
			suffix = "VIP Users"
		case "non_vip":
			count -= vip
			suffix = "Non-VIP Users"
		}
		filtered[i] = rowset.Row{
			"Province":  row.String("Province"),
			"UserCount": count,
		}
	}
	topUsers := metrics.TopN(filtered, "UserCount", 10, true)
	countSpec := chart.Spec{
		Kind:    chart.KindBar,
		Title:   "Top 10 Provinces by User Count (" + suffix + ")",
		XField:  "Province",
		XTitle:  "Province",
		Series:  []chart.Series{{Name: "Number of Users", Field: "UserCount", Kind: chart.FieldCount}},
		Palette: chart.PaletteFor(nil, topUsers.Strings("Province")),
	}.WithAxis(chart.Axis{Title: "Number of Users", Kind: chart.FieldCount})

	metricField := p.Metric
	if metricField == "" {
		metricField = "UserCount"
	}
	metricKind := chart.FieldCount
	switch metricField {
	case "VIPPercentage":
		metricKind = chart.FieldPercent
	case "AvgOrderValue", "AvgUserSpend":
		metricKind = chart.FieldCurrency
	}
	topMetric := metrics.TopN(rows, metricField, 10, true)
	metricSpec := chart.Spec{
		Kind:   chart.KindHBar,
		Title:  "Top 10 Provinces by " + metricField,
		XField: "Province",
		Series: []chart.Series{{Name: metricField, Field: metricField, Kind: metricKind}},
	}.WithAxis(chart.Axis{Title: metricField, Kind: metricKind})

	return Section{
		ID:    SectionProvincialUsers,
		Title: title,
		KPIs:  kpis,
		Charts: []Chart{
			{Spec: countSpec, Rows: topUsers},
			{Spec: metricSpec, Rows: topMetric},
		},
	}
}

// vipComparison contrasts VIP and non-VIP populations on one chosen metric.
// OrdersPerUser is derived here; the rest come straight off the procedure.
func (c *UserController) vipComparison(ctx context.Context, p Params) Section {
	const title = "VIP vs Non-VIP User Comparison"
	rows := fetch(ctx, c.gw, c.log, "VIPUserComparison")
	if rows.Empty() {
		return emptySection(SectionVIPComparison, title, "no VIP comparison data available")
	}

	metricField := p.Metric
	if metricField == "" {
		metricField = "UserCount"
	}
	metricKind := chart.FieldCount
	switch metricField {
	case "AvgSpentPerUser", "AvgOrderValue":
		metricKind = chart.FieldCurrency
	case "OrdersPerUser":
		metricKind = chart.FieldRaw
	}

	compare := make(rowset.ResultSet, len(rows))
	ordersPerUser := metrics.Ratio(rows, "TotalOrders", "UserCount")
	for i, row := range rows {
		out := rowset.Row{"UserType": row.String("UserType")}
		if metricField == "OrdersPerUser" {
			if ordersPerUser[i].Valid {
				out["OrdersPerUser"] = ordersPerUser[i].Value
			}
		} else if v, ok := row.Float(metricField); ok {
			out[metricField] = v
		}
		compare[i] = out
	}

	spec := chart.Spec{
		Kind:        chart.KindBar,
		Title:       title,
		XField:      "UserType",
		XTitle:      "User Type",
		SeriesField: "UserType",
		Series:      []chart.Series{{Name: metricField, Field: metricField, Kind: metricKind}},
		Palette:     chart.PaletteFor(chart.UserTypeColors, compare.Strings("UserType")),
	}.WithAxis(chart.Axis{Title: metricField, Kind: metricKind})

	return Section{
		ID:     SectionVIPComparison,
		Title:  title,
		Charts: []Chart{{Spec: spec, Rows: compare}},
	}
}

// userRetention plots 7- and 30-day retention per registration month. The
// procedure mixes per-month rows with a "-Total" summary row; the chart
// excludes the summary, the KPI cards are built from it.
func (c *UserController) userRetention(ctx context.Context, p Params) Section {
	const title = "User Retention Analysis"
	year := p.Year
	if year == 0 {
		year = 2024
	}
	rows := fetch(ctx, c.gw, c.log, "UserRetentionAnalysis", year)
	if rows.Empty() {
		return emptySection(SectionUserRetention, title, "no retention data available")
	}

	isTotal := func(r rowset.Row) bool { return strings.Contains(r.String("RegMonth"), "-Total") }
	monthly := rows.Filter(func(r rowset.Row) bool { return !isTotal(r) })
	series := metrics.NewPeriodSeries(monthly, "RegMonth", "Retention_7_Day", "Retention_30_Day")

	spec := chart.Spec{
		Kind:   chart.KindLine,
		Title:  title,
		XField: "RegMonth",
		XTitle: "Registration Month",
		Series: []chart.Series{
			{Name: "7-Day Retention", Field: "Retention_7_Day", Kind: chart.FieldPercent, Color: "#36C2F6"},
			{Name: "30-Day Retention", Field: "Retention_30_Day", Kind: chart.FieldPercent, Color: "#FF9900"},
		},
	}.WithAxis(chart.Axis{Title: "Retention Rate (%)", Kind: chart.FieldPercent})

	section := Section{
		ID:     SectionUserRetention,
		Title:  title,
		Charts: []Chart{{Spec: spec, Rows: seriesRows(series, "RegMonth")}},
	}

	if totals := rows.Filter(isTotal); !totals.Empty() {
		section.KPIs = []KPI{
			kpiCount("Total New Users", totals[0], "UserCount"),
			kpiPercent("7-Day Retention Rate", totals[0], "Retention_7_Day"),
			kpiPercent("30-Day Retention Rate", totals[0], "Retention_30_Day"),
		}
	}
	return section
}

// userActivity shows the activity segmentation donut in canonical order
// with fixed segment colors, plus one KPI card per segment. Absent segments
// still get a zero card so the grid shape is stable.
func (c *UserController) userActivity(ctx context.Context) Section {
	const title = "User Activity Analysis"
	rows := fetch(ctx, c.gw, c.log, "UserActivityAnalysis")
	if rows.Empty() {
		return emptySection(SectionUserActivity, title, "no user activity data available")
	}

	ordered := metrics.BucketAssign(rows, "ActivityLabel", activityOrder)
	spec := chart.Spec{
		Kind:        chart.KindDonut,
		Title:       title,
		SeriesField: "ActivityLabel",
		Series:      []chart.Series{{Name: "Users", Field: "UserCount", Kind: chart.FieldCount}},
		Palette:     chart.PaletteFor(chart.ActivityColors, ordered.Strings("ActivityLabel")),
	}

	kpis := make([]KPI, 0, len(activityOrder))
	for _, label := range activityOrder {
		var count float64
		for _, row := range ordered {
			if row.String("ActivityLabel") == label {
				count, _ = row.Float("UserCount")
				break
			}
		}
		kpis = append(kpis, KPI{
			Label: label + " Users",
			Value: chart.FormatValue(chart.FieldCount, count),
		})
	}

	return Section{
		ID:     SectionUserActivity,
		Title:  title,
		KPIs:   kpis,
		Charts: []Chart{{Spec: spec, Rows: ordered}},
	}
}
