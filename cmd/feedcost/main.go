// Command feedcost runs the feed-cost allocator once.
//
//	feedcost [-eartag TAG]
//
// With -eartag the accumulated feed cost of that animal is printed after the
// run. Without Redis the run proceeds unlocked.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"farmledger/internal/config"
	"farmledger/internal/infra"
	"farmledger/internal/router"
	"farmledger/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	eartag := flag.String("eartag", "", "print the feed cost of this animal after the run")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DatabaseTracing)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; running without lock or cache")
		rdb = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.FeedCostLockSeconds)*time.Second)
	defer cancel()

	app := router.Wire(cfg, db, rdb)
	run, err := app.FeedCost.Run(ctx, service.TriggerCLI)
	if err != nil {
		log.Fatal().Err(err).Msg("feed cost run failed")
	}
	fmt.Printf("processed=%d skipped=%d total_increment=%s same_day_repeat=%t\n",
		run.Processed, run.Skipped, run.TotalIncrement.StringFixed(2), run.SameDayRepeat)

	if *eartag != "" {
		a, err := app.AnimalRepo.FindByEartag(ctx, *eartag)
		if err != nil {
			log.Fatal().Err(err).Str("eartag", *eartag).Msg("animal not found")
		}
		fmt.Printf("%s feed_cost=%s\n", a.Eartag, a.FeedCost.StringFixed(2))
	}
}
