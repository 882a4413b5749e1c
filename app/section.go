// Package app hosts the dashboard controllers: per-role orchestration that
// fetches raw rows through the procedure gateway, runs the derivation
// engine, and emits chart specifications. Controllers sequence; they do not
// compute.
package app

import (
	"context"

	"shoplens/domain/chart"
	"shoplens/domain/metrics"
	"shoplens/domain/rowset"
	"shoplens/internal"
	"shoplens/internal/auth"
	"shoplens/ports"
)

// SectionID identifies one dashboard section.
type SectionID string

const (
	SectionBusinessOverview      SectionID = "business_overview"
	SectionGrowthTrajectory      SectionID = "growth_trajectory"
	SectionProductPerformance    SectionID = "product_performance"
	SectionRegionalMarket        SectionID = "regional_market"
	SectionProvincialUsers       SectionID = "provincial_users"
	SectionVIPComparison         SectionID = "vip_comparison"
	SectionUserRetention         SectionID = "user_retention"
	SectionUserActivity          SectionID = "user_activity"
	SectionMonthlyRevenue        SectionID = "monthly_revenue"
	SectionPaymentMethods        SectionID = "payment_methods"
	SectionFailedPayments        SectionID = "failed_payments"
	SectionSpendingTiers         SectionID = "spending_tiers"
	SectionDiscountProfitability SectionID = "discount_profitability"
	SectionQuarterlySales        SectionID = "quarterly_sales"
	SectionPriceElasticity       SectionID = "price_elasticity"
)

// KPI is one headline card: a formatted value and an optional delta badge.
type KPI struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Delta     string `json:"delta,omitempty"`
	DeltaDown bool   `json:"delta_down,omitempty"`
}

// Chart pairs a renderable spec with the derived rows it binds. Trend, when
// present, is a fitted overlay line for scatter charts.
type Chart struct {
	Spec  chart.Spec         `json:"spec"`
	Rows  []rowset.Row       `json:"rows"`
	Trend *metrics.TrendLine `json:"trend,omitempty"`
}

// Section is one independent dashboard block. An empty or failed fetch
// yields Empty=true with a message; siblings render regardless.
type Section struct {
	ID      SectionID `json:"id"`
	Title   string    `json:"title"`
	Empty   bool      `json:"empty"`
	Message string    `json:"message,omitempty"`
	KPIs    []KPI     `json:"kpis,omitempty"`
	Charts  []Chart   `json:"charts,omitempty"`

	// Notes carries markdown commentary (pricing recommendations); the
	// HTTP layer renders it to HTML for browser clients.
	Notes string `json:"notes,omitempty"`
}

// Params are the per-section render options a user can choose. Zero values
// mean section defaults.
type Params struct {
	Metric    string   `json:"metric,omitempty"`
	Category  string   `json:"category,omitempty"`
	Provinces []string `json:"provinces,omitempty"`
	UserType  string   `json:"user_type,omitempty"`
	Metrics   []string `json:"metrics,omitempty"`
	Year      int      `json:"year,omitempty"`
}

// Controller renders the ordered sections of one role's dashboard.
type Controller interface {
	Role() auth.Role
	Sections() []SectionID
	RenderSection(ctx context.Context, sc auth.SessionContext, id SectionID, p Params) Section
}

// emptySection is the "no data" placeholder for a section.
func emptySection(id SectionID, title, message string) Section {
	return Section{ID: id, Title: title, Empty: true, Message: message}
}

// unknownSection is the placeholder for a section id the controller does
// not own.
func unknownSection(id SectionID) Section {
	return Section{ID: id, Title: string(id), Empty: true, Message: "unknown section"}
}

// fetch invokes a procedure and soaks up failure: errors are already logged
// by the gateway, so callers only see rows, possibly none.
func fetch(ctx context.Context, gw ports.ProcedureGateway, log *internal.Logger, name string, params ...any) rowset.ResultSet {
	rows, err := gw.Invoke(ctx, name, params...)
	if err != nil {
		log.Warn("section fetch degraded, %s: %v", name, err)
		return rowset.ResultSet{}
	}
	return rows
}
