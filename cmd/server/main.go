package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmledger/internal/config"
	"farmledger/internal/infra"
	"farmledger/internal/router"
	"farmledger/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DatabaseTracing)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := router.Wire(cfg, db, rdb)

	if _, err := app.Tables.EnsureBaseRation(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure base ration")
	}

	// Worker pool for async mail; processors are wired here so the pool sees
	// the same infrastructure as the HTTP side.
	pool := worker.NewPool(rdb, app.DeadLetters)
	pool.Handle(worker.QueueEmail, worker.NewEmailWorker(app.Mailer))
	pool.Start(ctx, cfg.WorkerPoolSize)

	sched, err := worker.NewScheduler(cfg.FeedCostCron, app.FeedCost, time.Duration(cfg.FeedCostLockSeconds)*time.Second)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.FeedCostCron).Msg("invalid FEED_COST_CRON")
	}
	sched.Start()

	r := router.New(cfg, db, rdb, app)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("farmledger listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	sched.Stop(shutdownCtx)
	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
