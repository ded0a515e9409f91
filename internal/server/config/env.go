package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config values from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// take precedence over it (godotenv does not overwrite existing values).
//
// Recognized variables:
//
//	ADDRESS                 HTTP bind address
//	DATABASE_DSN            PostgreSQL DSN
//	JWT_SECRET_KEY          access-token HMAC secret
//	JWT_REFRESH_SECRET_KEY  refresh-token HMAC secret
//	ACCESS_TOKEN_TTL        access token validity (Go duration, e.g. "15m")
//	REFRESH_TOKEN_TTL       refresh token validity (Go duration, e.g. "168h")
//	SWEEP_INTERVAL          expiry sweep interval (Go duration, e.g. "1m")
//
// Malformed duration values are ignored and the previous value is kept.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET_KEY"); v != "" {
		config.AccessSecretKey = v
	}
	if v := os.Getenv("JWT_REFRESH_SECRET_KEY"); v != "" {
		config.RefreshSecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SweepInterval = d
		}
	}
}
