package main

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/app"
	"hotel_search/internal/shared"
	mysqlrepo "hotel_search/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	f, err := os.Open(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("open seed file failed")
	}
	hotels, err := app.LoadFixtures(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid seed file")
	}

	log.Info().
		Str("file", cfg.SeedFile).
		Int("hotels", len(hotels)).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	seeder := app.NewSeedService(mysqlrepo.New(db))
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, h := range hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(h app.FixtureHotel) {
			defer wg.Done()
			defer sem.Release(1)

			id, err := seeder.SeedHotel(ctx, h)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("hotel", h.Name).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int64("id", id).Str("hotel", h.Name).Msg("seed ok")
		}(h)
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatal().Int32("failed", n).Msg("seeding incomplete")
	}
	log.Info().Msg("seeding completed")
}
