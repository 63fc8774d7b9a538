// Command seeduser creates or updates an admin account.
//
//	seeduser -username admin -email admin@farm.local -password secret
//
// The password may also come from SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"farmledger/internal/config"
	"farmledger/internal/infra"
	"farmledger/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "login name")
	email := flag.String("email", "admin@farmledger.local", "account email")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "account password")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(*password) < 8 {
		log.Fatal().Msg("password must be at least 8 characters (use -password or SEED_ADMIN_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (username, email, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, true, now(), now())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    email = EXCLUDED.email,
		    role = EXCLUDED.role,
		    active = true,
		    updated_at = now()
	`, *username, *email, string(hash), model.RoleAdmin)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("upsert failed")
	}
	fmt.Printf("admin user %q created/updated\n", *username)
}
