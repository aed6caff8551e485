package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MONGO_URI", "MONGO_DATABASE", "REDIS_URL", "TIMEZONE", "STORE_UTC",
		"DEFAULT_DAILY_QUOTA", "CHAT_TOKEN_COST", "CARD_TOKEN_COST",
		"CHAT_HISTORY_LIMIT", "JWT_TTL_HOURS", "DEBUG",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "planora", cfg.MongoDatabase)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.NotNil(t, cfg.Location)
	assert.False(t, cfg.StoreUTC)
	assert.Equal(t, 500, cfg.DefaultDailyQuota)
	assert.Equal(t, 50, cfg.ChatTokenCost)
	assert.Equal(t, 50, cfg.CardTokenCost)
	assert.Equal(t, 50, cfg.ChatHistoryLimit)
	assert.False(t, cfg.Debug)
}

func TestLoadCustomTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestLoadBooleanForms(t *testing.T) {
	t.Setenv("STORE_UTC", "1")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.StoreUTC)
	assert.True(t, cfg.Debug)
}

func TestLoadIgnoresBadInts(t *testing.T) {
	t.Setenv("DEFAULT_DAILY_QUOTA", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.DefaultDailyQuota)
}
