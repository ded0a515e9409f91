package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", ":9999")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("JWT_SECRET_KEY", "env-access")
	t.Setenv("JWT_REFRESH_SECRET_KEY", "env-refresh")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("REFRESH_TOKEN_TTL", "24h")
	t.Setenv("SWEEP_INTERVAL", "5m")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, "env-access", c.AccessSecretKey)
	assert.Equal(t, "env-refresh", c.RefreshSecretKey)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 5*time.Minute, c.SweepInterval)
}

func TestParseEnv_MalformedDurationKeepsPrevious(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
}

func TestParseEnv_EmptyValuesIgnored(t *testing.T) {
	t.Setenv("ADDRESS", "")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
}
