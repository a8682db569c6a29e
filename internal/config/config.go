package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string
	DBURL            string
	JWTSecret        string
	JWTExpiry        time.Duration
	BcryptCost       int
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int

	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int

	TrendingWindowDays   int
	TrendingViewWeight   float64
	TrendingRatingWeight float64
	TrendingTopLimit     int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DBURL:            os.Getenv("DB_URL"),
		JWTSecret:        os.Getenv("AUTH_JWT_SECRET"),
		JWTExpiry:        getEnvDuration("AUTH_JWT_EXPIRY", 24*time.Hour),
		BcryptCost:       getEnvInt("AUTH_BCRYPT_COST", 10),
		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),

		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),

		TrendingWindowDays:   getEnvInt("TRENDING_WINDOW_DAYS", 7),
		TrendingViewWeight:   getEnvFloat("TRENDING_VIEW_WEIGHT", 1.0),
		TrendingRatingWeight: getEnvFloat("TRENDING_RATING_WEIGHT", 10.0),
		TrendingTopLimit:     getEnvInt("TRENDING_TOP_LIMIT", 10),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if cfg.JWTExpiry <= 0 {
		return Config{}, fmt.Errorf("AUTH_JWT_EXPIRY must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("AUTH_BCRYPT_COST must be between 4 and 31")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	if cfg.TrendingWindowDays < 0 {
		return Config{}, fmt.Errorf("TRENDING_WINDOW_DAYS must be non-negative")
	}
	if cfg.TrendingTopLimit <= 0 {
		return Config{}, fmt.Errorf("TRENDING_TOP_LIMIT must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
