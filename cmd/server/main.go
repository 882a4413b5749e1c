package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"shoplens/adapters/postgres"
	"shoplens/app"
	"shoplens/internal"
	"shoplens/internal/auth"
	"shoplens/internal/cache"
	"shoplens/internal/config"
	"shoplens/ui"
)

func main() {
	log := internal.DefaultLogger

	// .env is a developer convenience; production injects real env vars.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration invalid: %v", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Error("database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	authn, err := auth.NewAuthenticator(cfg.Auth)
	if err != nil {
		log.Error("credential configuration invalid: %v", err)
		os.Exit(1)
	}

	gateway := cache.New(postgres.NewProcedureGateway(db), cfg.Cache.TTL)
	catalog := postgres.NewCatalog(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	minDate, maxDate, err := app.Prefetch(ctx, catalog)
	cancel()
	if err != nil {
		log.Warn("prefetch degraded, using fallback date bounds: %v", err)
	}

	sessions := auth.NewSessionStore(minDate, maxDate)
	dashboards := app.NewDashboardService(gateway, catalog)
	webApp := ui.NewApp(dashboards, sessions, authn, gateway)

	addr := ":" + cfg.Server.Port
	log.Info("shoplens listening on %s (orders %s..%s)", addr,
		minDate.Format("2006-01-02"), maxDate.Format("2006-01-02"))
	if err := http.ListenAndServe(addr, webApp.Router()); err != nil {
		log.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
