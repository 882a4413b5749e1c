package app

import (
	"context"
	"math"
	"testing"

	"shoplens/domain/rowset"
	"shoplens/internal/auth"
)

func TestMonthlyRevenue_GrowthColumnReadsAsScalar(t *testing.T) {
	gw := &scriptedGateway{results: map[string]rowset.ResultSet{
		"MonthlyRevenueTrendAnalysis": {
			{"Month": "2024-01", "TotalRevenue": 100.0},
			{"Month": "2024-02", "TotalRevenue": 150.0},
		},
	}}
	ctrl := NewFinanceController(gw)

	section := ctrl.RenderSection(context.Background(),
		testSession(auth.RoleFinanceAnalyst), SectionMonthlyRevenue, Params{})
	if section.Empty {
		t.Fatalf("expected a rendered section, got placeholder: %s", section.Message)
	}

	rows := section.Charts[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 chart rows, got %d", len(rows))
	}

	// The derived growth cell must be readable through the row accessor,
	// not buried in a wrapper type the accessor cannot coerce.
	v, ok := rows[1].Float("MonthlyGrowth")
	if !ok || math.Abs(v-50) > 1e-9 {
		t.Errorf("expected 50%% growth readable via Float, got %.4f, %v", v, ok)
	}

	// First month's growth is undefined: the cell is present and null.
	if _, ok := rows[0].Float("MonthlyGrowth"); ok {
		t.Error("first-month growth must read as null")
	}
	if cell, present := rows[0]["MonthlyGrowth"]; !present || cell != nil {
		t.Errorf("first-month growth cell must be an explicit null, got %v", cell)
	}
}
