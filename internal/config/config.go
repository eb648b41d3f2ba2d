package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool
	MigrationsDir  string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Match hosting
	TickRateHz            int
	MatchWaitMinutes      int
	MatchRetentionMinutes int
	ReaperPollSeconds     int

	// Settings
	SettingsCacheSeconds int

	// Security
	JWTSecret              string
	ControlTokenTTLMinutes int
	AdminTokenHash         string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/pong?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "3100"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Match hosting
		TickRateHz:            getEnvInt("TICK_RATE_HZ", 60),
		MatchWaitMinutes:      getEnvInt("MATCH_WAIT_MINUTES", 10),
		MatchRetentionMinutes: getEnvInt("MATCH_RETENTION_MINUTES", 5),
		ReaperPollSeconds:     getEnvInt("REAPER_POLL_SECONDS", 30),

		// Settings
		SettingsCacheSeconds: getEnvInt("SETTINGS_CACHE_SECONDS", 3600),

		// Security
		JWTSecret:              getEnv("JWT_SECRET", "change-me-in-production"),
		ControlTokenTTLMinutes: getEnvInt("CONTROL_TOKEN_TTL_MINUTES", 120),
		AdminTokenHash:         getEnv("ADMIN_TOKEN_HASH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
