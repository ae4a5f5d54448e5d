package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"zoolbot-admin/internal/admin"
	rcache "zoolbot-admin/internal/cache/redis"
	"zoolbot-admin/internal/common/config"
	"zoolbot-admin/internal/common/logger"
	apphttp "zoolbot-admin/internal/http"
	"zoolbot-admin/internal/platform/mongodb"
	redisplatform "zoolbot-admin/internal/platform/redis"
	"zoolbot-admin/internal/platform/telegram"
	"zoolbot-admin/internal/provision"
	mongorepo "zoolbot-admin/internal/repository/mongo"
)

const serviceName = "zoolbot-admin-bot"

func main() {
	// Create cancellable root context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Init(serviceName, false)
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(serviceName, cfg.Debug)
	logger.Info().Ints64("admins", cfg.AdminIDs()).Str("sessions", cfg.Session.Backend).Msg("🤖 Starting Zoolbot Admin Bot")

	mc, err := mongodb.Open(ctx, cfg.Store.URI, cfg.Store.Database, cfg.Store.ConnectTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Could not connect to MongoDB")
	}
	defer func() {
		if err := mc.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.Store.Database).Msg("✅ Connected to MongoDB")

	// Same index set as setup-db; failures are logged and the bot keeps going.
	provision.New(mongodb.NewDatabase(mc.DB())).EnsureIndexes(ctx)

	checks := []apphttp.Check{mc}
	var sessions admin.SessionStore
	switch cfg.Session.Backend {
	case "redis":
		rdb, err := redisplatform.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("❌ Could not connect to Redis")
		}
		defer rdb.Close()
		sessions = rcache.NewSessionStore(rdb, cfg.Session.TTL)
		checks = append(checks, rdb)
	default:
		sessions = admin.NewMemorySessionStore()
	}

	bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.Debug)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Could not authorize the bot")
	}

	db := mc.DB()
	svc := admin.NewService(
		mongorepo.NewUserRepository(db),
		mongorepo.NewTaskRepository(db),
		mongorepo.NewTransactionRepository(db),
		mongorepo.NewSettingsRepository(db),
	).WithBroadcast(bot, mongorepo.NewAnnouncementRepository(db), cfg.Broadcast.Delay)

	flow := admin.NewFlow(svc, sessions, admin.AllowIDs(cfg.AdminIDs()...), bot)

	var server *http.Server
	if cfg.Health.Addr != "" {
		server = apphttp.NewServer(cfg.Health.Addr, apphttp.NewHealthRouter(serviceName, cfg.Debug, checks...))
		go func() {
			logger.Info().Str("addr", cfg.Health.Addr).Msg("Health server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Health server stopped")
			}
		}()
	}

	bot.Run(ctx, flow.Handle)

	logger.Info().Msg("Shutting down...")
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Health server forced to shutdown")
		}
	}
	logger.Info().Msg("Bot stopped")
}
