package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"zoolbot-admin/internal/common/config"
	"zoolbot-admin/internal/common/logger"
	"zoolbot-admin/internal/platform/mongodb"
	"zoolbot-admin/internal/provision"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Init("setup-db", false)

	cfg, err := config.LoadStore()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Info().Str("database", cfg.Database).Msg("🚀 Setting up Zoolbot database")

	client, err := mongodb.Open(ctx, cfg.URI, cfg.Database, cfg.ConnectTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Could not connect to MongoDB")
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()

	report, err := provision.New(mongodb.NewDatabase(client.DB())).Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Database setup failed")
	}

	if len(report.FailedIndexes) > 0 {
		logger.Warn().Str("indexes", strings.Join(report.FailedIndexes, ", ")).Msg("Some indexes could not be created")
	}
	logger.Info().Msg("🎉 Database setup completed")
}
