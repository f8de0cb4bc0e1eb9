package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             string
	APIKey           string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	CatalogPath      string
	DriftTimeout     time.Duration
	DriftConcurrency int
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ReleaseRateLimit int
	NewRelicLicense  string
	NewRelicAppName  string
	NewRelicEnabled  bool
}

func Load() *Config {
	newRelicEnabledStr := getEnv("NEW_RELIC_ENABLED", "false")
	newRelicEnabled, err := strconv.ParseBool(newRelicEnabledStr)
	if err != nil {
		newRelicEnabled = false
	}

	driftTimeout, err := time.ParseDuration(getEnv("DRIFT_TIMEOUT", "10s"))
	if err != nil || driftTimeout <= 0 {
		driftTimeout = 10 * time.Second
	}

	return &Config{
		Port:             getEnv("PORT", "3000"),
		APIKey:           getEnv("RELEASE_API_KEY", "change-me-release-api-key"),
		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DBPath:           getEnv("DB_PATH", "./releases.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CatalogPath:      getEnv("CATALOG_PATH", ""),
		DriftTimeout:     driftTimeout,
		DriftConcurrency: getEnvInt("DRIFT_CONCURRENCY", 8, 0),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0, 0),
		ReleaseRateLimit: getEnvInt("RELEASE_RATE_LIMIT", 60, 1),
		NewRelicLicense:  getEnv("NEW_RELIC_LICENSE_KEY", ""),
		NewRelicAppName:  getEnv("NEW_RELIC_APP_NAME", "release-tracker"),
		NewRelicEnabled:  newRelicEnabled,
	}
}

// RateLimitEnabled reports whether writes are throttled through redis.
func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset, not an
// integer, or below min.
func getEnvInt(key string, defaultValue, min int) int {
	value, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil || value < min {
		return defaultValue
	}
	return value
}
