package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// StoreConfig is the part of the configuration shared by the bot and the setup CLI.
type StoreConfig struct {
	URI            string        `env:"MONGODB_URI,required,notEmpty"`
	Database       string        `env:"DB_NAME" envDefault:"zoolbot"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"5s"`
}

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Store StoreConfig

	Telegram struct {
		BotToken string  `env:"BOT_TOKEN,required,notEmpty"`
		Debug    bool    `env:"TELEGRAM_DEBUG" envDefault:"false"`
		AdminID  int64   `env:"ADMIN_ID"`
		AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
	}

	Session struct {
		// memory or redis
		Backend string        `env:"SESSION_BACKEND" envDefault:"memory"`
		TTL     time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Broadcast struct {
		Delay time.Duration `env:"BROADCAST_DELAY" envDefault:"50ms"`
	}

	Health struct {
		// Empty disables the probe server.
		Addr string `env:"HEALTH_ADDR" envDefault:":8081"`
	}
}

// Load reads the admin bot configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	// .env is optional; in production variables are set directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if len(cfg.AdminIDs()) == 0 {
		return nil, fmt.Errorf("ADMIN_ID or ADMIN_IDS must be set")
	}
	switch cfg.Session.Backend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("invalid SESSION_BACKEND: %q", cfg.Session.Backend)
	}
	return cfg, nil
}

// LoadStore reads only the store settings; used by the setup CLI which has no bot token.
func LoadStore() (*StoreConfig, error) {
	_ = godotenv.Load()

	cfg := &StoreConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// AdminIDs merges ADMIN_ID and ADMIN_IDS without duplicates.
func (c *Config) AdminIDs() []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	add := func(id int64) {
		if id == 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	add(c.Telegram.AdminID)
	for _, id := range c.Telegram.AdminIDs {
		add(id)
	}
	return ids
}
