package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read through this package.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data provider
	Provider ProviderConfig

	// EOD ingestion
	Ingest IngestConfig

	// Analysis defaults
	Analysis AnalysisConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ProviderConfig holds the market data provider configuration
type ProviderConfig struct {
	BaseURL        string
	RequestsPerSec float64 // fetch pacing across the universe
	Timeout        time.Duration
}

// IngestConfig holds EOD ingestion policy knobs
type IngestConfig struct {
	MinQualityScore int // bars scoring below this are rejected
	Workers         int // bounded worker pool size
	MaxFailureNotes int // cap on failure reasons kept per JobRun
}

// AnalysisConfig holds analysis and cache defaults
type AnalysisConfig struct {
	ProfitTarget float64 // e.g. 0.04 for 4%
	MaxHoldDays  int
	CacheTTL     time.Duration
}

// SchedulerConfig holds the scheduled trigger defaults
type SchedulerConfig struct {
	Enabled         bool
	EODTime         string // "HH:MM" wall clock in Timezone
	Timezone        string // IANA name, e.g. America/New_York
	MarketDaysOnly  bool
	RefreshEnabled  bool
	RefreshInterval int // minutes, 1-60
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Provider: ProviderConfig{
			BaseURL:        getEnv("PROVIDER_BASE_URL", "https://query1.finance.yahoo.com"),
			RequestsPerSec: getEnvAsFloat("PROVIDER_REQUESTS_PER_SEC", 2.0),
			Timeout:        getEnvAsDuration("PROVIDER_TIMEOUT", "30s"),
		},

		Ingest: IngestConfig{
			MinQualityScore: getEnvAsInt("INGEST_MIN_QUALITY_SCORE", 50),
			Workers:         getEnvAsInt("INGEST_WORKERS", 5),
			MaxFailureNotes: getEnvAsInt("INGEST_MAX_FAILURE_NOTES", 50),
		},

		Analysis: AnalysisConfig{
			ProfitTarget: getEnvAsFloat("ANALYSIS_PROFIT_TARGET", 0.04),
			MaxHoldDays:  getEnvAsInt("ANALYSIS_MAX_HOLD_DAYS", 30),
			CacheTTL:     getEnvAsDuration("ANALYSIS_CACHE_TTL", "1h"),
		},

		Scheduler: SchedulerConfig{
			Enabled:         getEnvAsBool("SCHEDULER_ENABLED", true),
			EODTime:         getEnv("SCHEDULER_EOD_TIME", "18:00"),
			Timezone:        getEnv("SCHEDULER_TIMEZONE", "America/New_York"),
			MarketDaysOnly:  getEnvAsBool("SCHEDULER_MARKET_DAYS_ONLY", true),
			RefreshEnabled:  getEnvAsBool("PRICE_REFRESH_ENABLED", true),
			RefreshInterval: getEnvAsInt("PRICE_REFRESH_INTERVAL_MINUTES", 5),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Ingest.Workers < 1 {
		return fmt.Errorf("INGEST_WORKERS must be positive")
	}

	if c.Scheduler.RefreshInterval < 1 || c.Scheduler.RefreshInterval > 60 {
		return fmt.Errorf("PRICE_REFRESH_INTERVAL_MINUTES must be between 1 and 60")
	}

	if _, err := time.Parse("15:04", c.Scheduler.EODTime); err != nil {
		return fmt.Errorf("SCHEDULER_EOD_TIME must be HH:MM: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE is not a valid timezone: %w", err)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
