package jwtmw

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	EnvKeyJWTSecret    = "JWT_SECRET"
	EnvKeySessionTTL   = "SESSION_TTL"
	EnvKeyCookieSecure = "COOKIE_SECURE"

	defaultSessionTTL = 24 * time.Hour
)

// Config holds the signing secret and session cookie settings.
type Config struct {
	Secret       string
	SessionTTL   time.Duration
	CookieSecure bool
}

// LoadConfig reads the auth settings from the environment. Without
// JWT_SECRET a random secret is generated, which invalidates every
// session on restart.
func LoadConfig() Config {
	cfg := Config{
		Secret:     os.Getenv(EnvKeyJWTSecret),
		SessionTTL: defaultSessionTTL,
	}
	if v := os.Getenv(EnvKeySessionTTL); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		} else {
			slog.Warn("invalid SESSION_TTL, using default", "value", v, "default", defaultSessionTTL)
		}
	}
	if v := os.Getenv(EnvKeyCookieSecure); v != "" {
		cfg.CookieSecure, _ = strconv.ParseBool(v)
	}
	if cfg.Secret == "" {
		slog.Warn("JWT_SECRET not set; generating an ephemeral secret")
		b := make([]byte, 32)
		_, _ = rand.Read(b)
		cfg.Secret = hex.EncodeToString(b)
	}
	return cfg
}
