package main

import (
	"context"
	"os"

	"capibara-storefront/internal/config"
	"capibara-storefront/internal/db"
	"capibara-storefront/internal/logging"
	"capibara-storefront/internal/migrate"
)

func main() {
	if err := config.LoadDotEnv(os.Getenv("DOTENV_PATH")); err != nil {
		bootLogger := logging.New("info", "migrate")
		bootLogger.Fatal().Err(err).Msg("load .env")
	}
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect db")
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Fatal().Err(err).Msg("read schema version")
	}
	logger.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
}
