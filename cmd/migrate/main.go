package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/fitai/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/fitai/backend/internal/infrastructure/observability"
	"github.com/zatekoja/fitai/backend/pkg/config"
)

func main() {
	direction := flag.String("direction", string(postgres.MigrateUp), "migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	observability.InitLogger("fitai-migrate", cfg.App.Env, cfg.App.LogLevel)

	version, err := postgres.Migrate(cfg.Database.MigrationURL(), postgres.MigrationDirection(*direction))
	if err != nil {
		log.Fatal().Err(err).Str("direction", *direction).Msg("migration failed")
	}

	log.Info().Str("direction", *direction).Uint("version", version).Msg("migrations applied")
}
