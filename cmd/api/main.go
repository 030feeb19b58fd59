package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_search/internal/adapters/http_server"
	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/app"
	"hotel_search/internal/shared"
	mysqlrepo "hotel_search/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	rec := observability.NewStageRecorder()
	strategies, err := app.NewStrategies(cfg.DefaultStrategy, map[string]app.HotelLister{
		app.StrategyUnoptimized: app.NewUnoptimizedService(repo, rec, cfg.EnrichWorkers),
		app.StrategyOneRequest:  app.NewOneRequestService(repo, rec),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("strategy setup failed")
	}

	// http
	srv := server.New(server.Options{
		Timeout:     cfg.RequestTimeout,
		RateLimit:   cfg.RateLimitRPS,
		CORSOrigins: cfg.CORSOrigins,
	})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: strategies})

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("default_strategy", cfg.DefaultStrategy).
		Int("enrich_workers", cfg.EnrichWorkers).
		Msg("API listening")
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
