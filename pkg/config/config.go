package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the pipeline.
// Environment variables are read here and nowhere else.
type Config struct {
	Env string // development, staging, production

	// Data lake layout
	DataDir   string // root of the qa/ and prod/ layers
	RulesFile string // optional YAML rule-set override

	// Extraction
	Extract ExtractConfig

	// Dashboard server
	Port         string
	DashboardDir string // static assets served at /; optional

	// Scheduler
	Schedule string // cron expression for scheduled pipeline runs

	// Logging
	LogLevel  string
	LogFormat string
}

// ExtractConfig holds the external API settings for extraction.
type ExtractConfig struct {
	RandomUserURL      string
	JSONPlaceholderURL string
	CustomerCount      int
	Nationalities      string // comma-separated, passed to RandomUser
	Seed               int64  // seed for synthesized interaction fields
	Timeout            time.Duration
}

// Load reads configuration from the environment, consulting .env
// files when present. Only this function calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		DataDir:   getEnv("DATA_DIR", "data"),
		RulesFile: getEnv("RULES_FILE", ""),

		Extract: ExtractConfig{
			RandomUserURL:      getEnv("RANDOMUSER_URL", "https://randomuser.me/api/"),
			JSONPlaceholderURL: getEnv("JSONPLACEHOLDER_URL", "https://jsonplaceholder.typicode.com"),
			CustomerCount:      getEnvAsInt("CUSTOMER_COUNT", 50),
			Nationalities:      getEnv("CUSTOMER_NATIONALITIES", "us,gb,ca"),
			Seed:               int64(getEnvAsInt("EXTRACT_SEED", 42)),
			Timeout:            getEnvAsDuration("HTTP_TIMEOUT", "30s"),
		},

		Port:         getEnv("PORT", "8080"),
		DashboardDir: getEnv("DASHBOARD_DIR", ""),

		Schedule: getEnv("PIPELINE_SCHEDULE", "0 0 6 * * *"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks required configuration values.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}

	if c.Extract.CustomerCount <= 0 {
		return fmt.Errorf("CUSTOMER_COUNT must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from a few likely locations.
func loadEnvFile() {
	paths := []string{".env"}

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
