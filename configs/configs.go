// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// DBDSN is the ClickHouse connection string.
	DBDSN string

	// ServerPort is the HTTP listen port for the trigger/scheduler API.
	ServerPort string

	// Log holds logger settings (level, format).
	Log LogConfig

	// Feed contains Kafka settings for the saved-transaction feed.
	// The feed is disabled when Broker is empty.
	Feed FeedConfig

	// Scrape contains pipeline settings shared by all runs.
	Scrape ScrapeConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is "json" or "text".
	Format string
}

// FeedConfig holds Kafka connection settings for the downstream feed.
type FeedConfig struct {
	// Broker is the Kafka broker address (e.g., "localhost:9092").
	Broker string

	// Topic is the topic saved transactions are published to.
	Topic string
}

// ScrapeConfig holds settings shared by all pipeline runs.
type ScrapeConfig struct {
	// MaxPages is the default listing-page cap per source.
	MaxPages int

	// WindowDays is the trailing discovery window in days.
	WindowDays int

	// GovRequestDelay is the minimum delay between requests to
	// government disclosure sites.
	GovRequestDelay time.Duration

	// APIRequestDelay is the minimum delay between requests to
	// structured-feed sources (EDGAR, bulk datasets).
	APIRequestDelay time.Duration

	// RequestTimeout bounds every document fetch.
	RequestTimeout time.Duration
}

// getDatabaseDSN constructs the ClickHouse DSN from environment variables.
func getDatabaseDSN() string {
	dbUser := getEnv("CLICKHOUSE_USER", "default")
	dbPassword := getEnv("CLICKHOUSE_PASSWORD", "")
	dbHost := getEnv("CLICKHOUSE_HOST", "localhost")
	dbPort := getEnv("CLICKHOUSE_TCP_PORT", "9000")
	dbName := getEnv("CLICKHOUSE_DB", "default")

	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%s/%s?dial_timeout=10s&read_timeout=20s",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		DBDSN:      getDatabaseDSN(),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Feed: FeedConfig{
			Broker: getEnv("KAFKA_BROKER", ""),
			Topic:  getEnv("KAFKA_FEED_TOPIC", "capitolwatch_trades"),
		},
		Scrape: ScrapeConfig{
			MaxPages:        getEnvInt("SCRAPE_MAX_PAGES", 3),
			WindowDays:      getEnvInt("SCRAPE_WINDOW_DAYS", 90),
			GovRequestDelay: time.Duration(getEnvInt("SCRAPE_GOV_DELAY_MS", 3000)) * time.Millisecond,
			APIRequestDelay: time.Duration(getEnvInt("SCRAPE_API_DELAY_MS", 120)) * time.Millisecond,
			RequestTimeout:  time.Duration(getEnvInt("SCRAPE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
