// Command assignration gives the Base Ration to every animal that never had
// a ration log.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"farmledger/internal/config"
	"farmledger/internal/infra"
	"farmledger/internal/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DatabaseTracing)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx := context.Background()
	app := router.Wire(cfg, db, nil)
	if _, err := app.Tables.EnsureBaseRation(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure base ration")
	}
	n, err := app.Animals.AssignBaseRation(ctx)
	if err != nil {
		log.Fatal().Err(err).Int("assigned", n).Msg("assignment stopped")
	}
	fmt.Printf("base ration assigned to %d animals\n", n)
}
