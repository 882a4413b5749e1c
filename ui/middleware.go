package ui

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shoplens/internal/auth"
)

const sessionCookie = "shoplens_session"

type ctxKey string

const sessionContextKey ctxKey = "session"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoplens_http_requests_total",
		Help: "HTTP requests by method and status.",
	}, []string{"method", "status"})
	httpDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shoplens_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	})
)

// metricsMiddleware records request counts and latency.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		httpRequests.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		httpDuration.Observe(time.Since(start).Seconds())
	})
}

// requireSession resolves the session cookie into an immutable
// SessionContext and stores it on the request context. Requests without a
// live session get a 401 with a user-visible message.
func (a *App) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		sc, err := a.sessions.Context(cookie.Value)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "session expired, log in again")
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, sc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom reads the SessionContext placed by requireSession.
func sessionFrom(r *http.Request) auth.SessionContext {
	sc, _ := r.Context().Value(sessionContextKey).(auth.SessionContext)
	return sc
}

// token reads the raw session token, for mutations on the session store.
func token(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
