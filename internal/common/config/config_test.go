package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "42")
	t.Setenv("ADMIN_IDS", "42,7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "zoolbot", cfg.Store.Database)
	assert.Equal(t, 5*time.Second, cfg.Store.ConnectTimeout)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 50*time.Millisecond, cfg.Broadcast.Delay)
	assert.Equal(t, []int64{42, 7}, cfg.AdminIDs())
}

func TestLoadRequiresAdmin(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "")
	t.Setenv("ADMIN_IDS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "1")
	t.Setenv("SESSION_BACKEND", "etcd")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadStore(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("DB_NAME", "zoolbot_test")
	t.Setenv("BOT_TOKEN", "")

	cfg, err := LoadStore()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.URI)
	assert.Equal(t, "zoolbot_test", cfg.Database)
}

func TestLoadStoreRequiresURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	_, err := LoadStore()
	assert.Error(t, err)
}
