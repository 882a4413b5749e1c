// Package cache decorates the procedure gateway with a bounded
// time-to-live cache keyed by procedure name and parameters. Derivation
// downstream is pure, so serving a cached result set is indistinguishable
// from recomputing it inside the TTL window. There is deliberately no
// single-flight de-duplication: concurrent misses on one key each invoke
// the procedure, which is idempotent and cheap.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shoplens/domain/rowset"
	"shoplens/ports"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shoplens_proc_cache_hits_total",
		Help: "Procedure results served from cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shoplens_proc_cache_misses_total",
		Help: "Procedure invocations that went to the database.",
	})
)

type entry struct {
	rows     rowset.ResultSet
	cachedAt time.Time
}

// Gateway wraps an inner ProcedureGateway with TTL caching.
type Gateway struct {
	inner ports.ProcedureGateway
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// New wraps inner with a cache holding results for ttl.
func New(inner ports.ProcedureGateway, ttl time.Duration) *Gateway {
	return &Gateway{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Invoke serves from cache inside the TTL window, otherwise invokes the
// inner gateway. Failed invocations are not cached; the next render retries.
func (g *Gateway) Invoke(ctx context.Context, name string, params ...any) (rowset.ResultSet, error) {
	key := cacheKey(name, params)

	g.mu.RLock()
	e, ok := g.entries[key]
	g.mu.RUnlock()
	if ok && g.now().Sub(e.cachedAt) < g.ttl {
		cacheHits.Inc()
		return e.rows, nil
	}

	cacheMisses.Inc()
	rows, err := g.inner.Invoke(ctx, name, params...)
	if err != nil {
		return rows, err
	}

	g.mu.Lock()
	g.entries[key] = entry{rows: rows, cachedAt: g.now()}
	g.mu.Unlock()
	return rows, nil
}

// Flush drops every cached result, used by the "refresh data" action.
func (g *Gateway) Flush() {
	g.mu.Lock()
	g.entries = make(map[string]entry)
	g.mu.Unlock()
}

// cacheKey canonicalizes a procedure call. Dates reduce to their calendar
// day so that equal filter ranges hit the same entry regardless of the
// time-of-day noise in a time.Time.
func cacheKey(name string, params []any) string {
	var b strings.Builder
	b.WriteString(name)
	for _, p := range params {
		b.WriteByte('|')
		if t, ok := p.(time.Time); ok {
			b.WriteString(t.Format("2006-01-02"))
			continue
		}
		fmt.Fprintf(&b, "%v", p)
	}
	return b.String()
}
