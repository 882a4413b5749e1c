package app

import (
	"context"
	"testing"
	"time"

	"shoplens/domain/rowset"
	"shoplens/internal/auth"
	"shoplens/internal/errors"
)

// scriptedGateway serves canned result sets keyed by procedure name.
type scriptedGateway struct {
	results map[string]rowset.ResultSet
	errs    map[string]error
	calls   []string
}

func (g *scriptedGateway) Invoke(_ context.Context, name string, _ ...any) (rowset.ResultSet, error) {
	g.calls = append(g.calls, name)
	if err, ok := g.errs[name]; ok {
		return rowset.ResultSet{}, err
	}
	return g.results[name], nil
}

type staticCatalog struct {
	categories []string
}

func (c staticCatalog) ObservedDateRange(_ context.Context) (time.Time, time.Time, error) {
	return time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil
}

func (c staticCatalog) Categories(_ context.Context) ([]string, error) {
	return c.categories, nil
}

func testSession(role auth.Role) auth.SessionContext {
	return auth.SessionContext{
		Username:  "tester",
		Role:      role,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(gw *scriptedGateway) *DashboardService {
	return NewDashboardService(gw, staticCatalog{categories: []string{"Books", "Toys"}})
}

func TestSectionsPerRole(t *testing.T) {
	svc := newTestService(&scriptedGateway{})

	cases := []struct {
		role auth.Role
		want []SectionID
	}{
		{auth.RoleAdmin, []SectionID{
			SectionBusinessOverview, SectionGrowthTrajectory,
			SectionProductPerformance, SectionRegionalMarket,
		}},
		{auth.RoleUserAnalyst, []SectionID{
			SectionProvincialUsers, SectionVIPComparison,
			SectionUserRetention, SectionUserActivity,
		}},
		{auth.RoleFinanceAnalyst, []SectionID{
			SectionMonthlyRevenue, SectionPaymentMethods,
			SectionFailedPayments, SectionSpendingTiers,
		}},
		{auth.RoleMarketingAnalyst, []SectionID{
			SectionDiscountProfitability, SectionQuarterlySales,
			SectionPriceElasticity,
		}},
	}
	for _, c := range cases {
		got, err := svc.Sections(c.role)
		if err != nil {
			t.Fatalf("%s: Sections failed: %v", c.role, err)
		}
		if len(got) != len(c.want) {
			t.Fatalf("%s: expected %d sections, got %d", c.role, len(c.want), len(got))
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s section %d: expected %s, got %s", c.role, i, c.want[i], got[i])
			}
		}
	}
}

func TestRenderDashboard_EmptyDataDegradesEverySection(t *testing.T) {
	svc := newTestService(&scriptedGateway{})

	sections, err := svc.RenderDashboard(context.Background(), testSession(auth.RoleFinanceAnalyst))
	if err != nil {
		t.Fatalf("RenderDashboard failed: %v", err)
	}
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}
	for _, s := range sections {
		if !s.Empty {
			t.Errorf("section %s should be an empty placeholder", s.ID)
		}
		if s.Message == "" {
			t.Errorf("section %s placeholder needs a message", s.ID)
		}
	}
}

func TestRenderDashboard_FailureIsolatedToItsSection(t *testing.T) {
	gw := &scriptedGateway{
		results: map[string]rowset.ResultSet{
			"UserTierAnalysis": {
				{"UserTier": "Gold", "UserCount": 10.0},
				{"UserTier": "Silver", "UserCount": 30.0},
			},
		},
		errs: map[string]error{
			"MonthlyRevenueTrendAnalysis": errors.DatabaseError("connection reset"),
		},
	}
	svc := newTestService(gw)

	sections, err := svc.RenderDashboard(context.Background(), testSession(auth.RoleFinanceAnalyst))
	if err != nil {
		t.Fatalf("one failed procedure must not fail the page: %v", err)
	}

	byID := make(map[SectionID]Section, len(sections))
	for _, s := range sections {
		byID[s.ID] = s
	}
	if !byID[SectionMonthlyRevenue].Empty {
		t.Error("the failed section must degrade to a placeholder")
	}
	if byID[SectionSpendingTiers].Empty {
		t.Error("a sibling section with data must still render")
	}
}

func TestRenderSection_AdminBusinessOverview(t *testing.T) {
	gw := &scriptedGateway{
		results: map[string]rowset.ResultSet{
			"admin_business_overview": {{
				"TotalUsers":          1200.0,
				"TotalOrders":         3400.0,
				"TotalRevenue":        98765.43,
				"AvgOrderValue":       29.05,
				"TotalProducts":       210.0,
				"OrderCompletionRate": 96.5,
			}},
			"admin_business_growth_trajectory": {
				{"Month": "2024-05", "Revenue": 10000.0, "OrderCount": 300.0},
				{"Month": "2024-06", "Revenue": 12000.0, "OrderCount": 360.0},
			},
		},
	}
	svc := newTestService(gw)

	section, err := svc.RenderSection(context.Background(),
		testSession(auth.RoleAdmin), SectionBusinessOverview, Params{})
	if err != nil {
		t.Fatalf("RenderSection failed: %v", err)
	}
	if section.Empty {
		t.Fatalf("expected a rendered section, got placeholder: %s", section.Message)
	}
	if len(section.KPIs) != 6 {
		t.Fatalf("expected 6 KPI cards, got %d", len(section.KPIs))
	}
	if section.KPIs[0].Value != "1,200" {
		t.Errorf("expected grouped user count, got %q", section.KPIs[0].Value)
	}
	if section.KPIs[2].Value != "$98,765.43" {
		t.Errorf("expected formatted revenue, got %q", section.KPIs[2].Value)
	}
	// Revenue grew 20% month over month; the delta badge carries it.
	if section.KPIs[2].Delta != "20.0%" || section.KPIs[2].DeltaDown {
		t.Errorf("expected +20.0%% delta, got %+v", section.KPIs[2])
	}
}

func TestRenderSection_RejectsForeignSection(t *testing.T) {
	svc := newTestService(&scriptedGateway{})

	_, err := svc.RenderSection(context.Background(),
		testSession(auth.RoleFinanceAnalyst), SectionBusinessOverview, Params{})
	if errors.GetCode(err) != errors.CodeNotFound {
		t.Errorf("a section outside the role's dashboard must be NOT_FOUND, got %v", err)
	}
}

func TestRenderSection_SpendingTierShares(t *testing.T) {
	gw := &scriptedGateway{
		results: map[string]rowset.ResultSet{
			"UserTierAnalysis": {
				{"UserTier": "Bronze", "UserCount": 50.0},
				{"UserTier": "Platinum", "UserCount": 10.0},
				{"UserTier": "Gold", "UserCount": 40.0},
			},
		},
	}
	svc := newTestService(gw)

	section, err := svc.RenderSection(context.Background(),
		testSession(auth.RoleFinanceAnalyst), SectionSpendingTiers, Params{})
	if err != nil {
		t.Fatalf("RenderSection failed: %v", err)
	}
	if section.Empty {
		t.Fatalf("expected a rendered section, got placeholder: %s", section.Message)
	}
	if len(section.Charts) == 0 {
		t.Fatal("expected at least the tier distribution chart")
	}
	// Rows come back in canonical tier order regardless of input order.
	rows := section.Charts[0].Rows
	if rows[0]["UserTier"] != "Platinum" || rows[1]["UserTier"] != "Gold" {
		t.Errorf("tiers must sort canonically, got %v then %v",
			rows[0]["UserTier"], rows[1]["UserTier"])
	}
	// Shares of the three tier counts sum to 100.
	var total float64
	for _, r := range rows {
		total += r["Percentage"].(float64)
	}
	if total < 99.999 || total > 100.001 {
		t.Errorf("tier shares must sum to 100, got %.4f", total)
	}
}

func TestQuoteList(t *testing.T) {
	got := quoteList([]string{"Books", "Kids' Toys"})
	want := "'Books','Kids'' Toys'"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
