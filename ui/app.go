// Package ui is the HTTP surface: session login, the per-role dashboard
// endpoints that emit chart specifications for an external renderer, and
// the workbook export.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shoplens/app"
	"shoplens/internal"
	"shoplens/internal/auth"
	"shoplens/internal/cache"
)

// App represents the dashboard HTTP application.
type App struct {
	router     *chi.Mux
	dashboards *app.DashboardService
	sessions   *auth.SessionStore
	authn      *auth.Authenticator
	procCache  *cache.Gateway
	log        *internal.Logger
}

// NewApp wires the router, middleware and routes.
func NewApp(dashboards *app.DashboardService, sessions *auth.SessionStore, authn *auth.Authenticator, procCache *cache.Gateway) *App {
	a := &App{
		router:     chi.NewRouter(),
		dashboards: dashboards,
		sessions:   sessions,
		authn:      authn,
		procCache:  procCache,
		log:        internal.DefaultLogger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(metricsMiddleware)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	a.router.Handle("/metrics", promhttp.Handler())

	a.router.Post("/api/login", a.handleLogin)

	// Everything below requires a live session.
	a.router.Group(func(r chi.Router) {
		r.Use(a.requireSession)
		r.Post("/api/logout", a.handleLogout)
		r.Get("/api/session", a.handleSession)
		r.Put("/api/filters/daterange", a.handleDateRange)
		r.Post("/api/refresh", a.handleRefresh)
		r.Get("/api/dashboard", a.handleDashboard)
		r.Get("/api/dashboard/sections/{id}", a.handleSection)
		r.Get("/api/dashboard/export", a.handleExport)
	})
}

// Router exposes the handler for the HTTP server and tests.
func (a *App) Router() http.Handler {
	return a.router
}
