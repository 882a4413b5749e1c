package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"shoplens/domain/rowset"
)

type countingGateway struct {
	calls int
	rows  rowset.ResultSet
	err   error
}

func (g *countingGateway) Invoke(_ context.Context, _ string, _ ...any) (rowset.ResultSet, error) {
	g.calls++
	return g.rows, g.err
}

func TestInvoke_ServesFromCacheInsideTTL(t *testing.T) {
	inner := &countingGateway{rows: rowset.ResultSet{{"Revenue": 100.0}}}
	g := New(inner, 10*time.Minute)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return clock }

	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		rows, err := g.Invoke(ctx, "admin_business_overview", start, end)
		if err != nil {
			t.Fatalf("invoke %d failed: %v", i, err)
		}
		if len(rows) != 1 {
			t.Fatalf("invoke %d: expected 1 row, got %d", i, len(rows))
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected one database call, got %d", inner.calls)
	}
}

func TestInvoke_ExpiresAfterTTL(t *testing.T) {
	inner := &countingGateway{rows: rowset.ResultSet{}}
	g := New(inner, 10*time.Minute)

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return clock }

	ctx := context.Background()
	g.Invoke(ctx, "PaymentMethodAnalysis")
	clock = clock.Add(10*time.Minute + time.Second)
	g.Invoke(ctx, "PaymentMethodAnalysis")

	if inner.calls != 2 {
		t.Errorf("expected a second call past the TTL, got %d", inner.calls)
	}
}

func TestInvoke_DistinctParamsMissSeparately(t *testing.T) {
	inner := &countingGateway{rows: rowset.ResultSet{}}
	g := New(inner, 10*time.Minute)

	ctx := context.Background()
	g.Invoke(ctx, "VIPUserComparison", "vip")
	g.Invoke(ctx, "VIPUserComparison", "non_vip")
	g.Invoke(ctx, "VIPUserComparison", "vip")

	if inner.calls != 2 {
		t.Errorf("expected one call per distinct parameter set, got %d", inner.calls)
	}
}

func TestInvoke_FailuresAreNotCached(t *testing.T) {
	inner := &countingGateway{err: errors.New("connection reset")}
	g := New(inner, 10*time.Minute)

	ctx := context.Background()
	if _, err := g.Invoke(ctx, "UserTierAnalysis"); err == nil {
		t.Fatal("expected the inner error through")
	}

	inner.err = nil
	inner.rows = rowset.ResultSet{{"Tier": "Gold"}}
	rows, err := g.Invoke(ctx, "UserTierAnalysis")
	if err != nil || len(rows) != 1 {
		t.Errorf("retry after failure must hit the database, got %v, %v", rows, err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 calls, got %d", inner.calls)
	}
}

func TestFlush(t *testing.T) {
	inner := &countingGateway{rows: rowset.ResultSet{}}
	g := New(inner, 10*time.Minute)

	ctx := context.Background()
	g.Invoke(ctx, "UserActivityAnalysis")
	g.Flush()
	g.Invoke(ctx, "UserActivityAnalysis")

	if inner.calls != 2 {
		t.Errorf("flush must drop cached entries, got %d calls", inner.calls)
	}
}

func TestCacheKey_CanonicalizesDates(t *testing.T) {
	morning := time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 1, 22, 45, 0, 0, time.UTC)

	a := cacheKey("MonthlyRevenueTrendAnalysis", []any{morning})
	b := cacheKey("MonthlyRevenueTrendAnalysis", []any{evening})
	if a != b {
		t.Errorf("same calendar day must share a key: %q vs %q", a, b)
	}

	c := cacheKey("MonthlyRevenueTrendAnalysis", []any{morning.AddDate(0, 0, 1)})
	if a == c {
		t.Error("different days must not share a key")
	}
}
