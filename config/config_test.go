package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GO_ENV", "DB_DRIVER", "SESSION_TTL_HOURS", "COOKIE_SECURE",
		"TIMEZONE", "AI_PROVIDER", "OPENAI_MODEL", "DOUBT_RESPONDER", "CRON_ENABLED",
	} {
		t.Setenv(key, "")
	}

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 5001, env.PORT)
	assert.Equal(t, "postgres", env.DB_DRIVER)
	assert.Equal(t, 7*24*time.Hour, env.SESSION_TTL)
	assert.False(t, env.COOKIE_SECURE)
	assert.Equal(t, time.Local, env.TIMEZONE)
	assert.Equal(t, "openai", env.AI_PROVIDER)
	assert.Equal(t, "gpt-3.5-turbo", env.OPENAI_MODEL)
	assert.Equal(t, "keyword", env.DOUBT_RESPONDER)
	assert.True(t, env.CRON_ENABLED)
}

func TestGet_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GO_ENV", "production")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SESSION_TTL_HOURS", "12")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CRON_ENABLED", "false")

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 9090, env.PORT)
	assert.Equal(t, "sqlite", env.DB_DRIVER)
	assert.Equal(t, 12*time.Hour, env.SESSION_TTL)
	assert.True(t, env.COOKIE_SECURE, "production defaults to secure cookies")
	assert.Equal(t, "UTC", env.TIMEZONE.String())
	assert.False(t, env.CRON_ENABLED)
}

func TestGet_InvalidTimezone(t *testing.T) {
	t.Setenv("TIMEZONE", "Not/AZone")

	_, err := Get()
	assert.Error(t, err)
}
