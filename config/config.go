package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lpHedgeSim/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Binance API (optional: ticker endpoints are public)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Price Oracle
	OracleEnabled  bool
	OracleTimeout  time.Duration
	OracleMaxTries int
	QuoteSymbol    string // Quote currency used for ticker lookups (e.g., "USDT")

	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel // Use the LogLevel type from the logger adapter
	LogFormat string          // "std" or "zap"
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Price Oracle
	cfg.OracleEnabled = getEnvAsBool("ORACLE_ENABLED", true)

	timeoutSeconds := getEnvAsInt("ORACLE_TIMEOUT_SECONDS", 10)
	if timeoutSeconds <= 0 {
		errs = append(errs, "ORACLE_TIMEOUT_SECONDS must be positive")
	}
	cfg.OracleTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.OracleMaxTries = getEnvAsInt("ORACLE_MAX_RETRIES", 3)
	if cfg.OracleMaxTries <= 0 {
		errs = append(errs, "ORACLE_MAX_RETRIES must be positive")
	}

	cfg.QuoteSymbol = getEnv("QUOTE_SYMBOL", "USDT")
	if cfg.QuoteSymbol == "" {
		errs = append(errs, "QUOTE_SYMBOL must be set")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/lp_simulator.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "std"))
	if cfg.LogFormat != "std" && cfg.LogFormat != "zap" {
		errs = append(errs, "LOG_FORMAT must be 'std' or 'zap'")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
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
