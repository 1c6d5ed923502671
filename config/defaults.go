// Package config provides centralized default values for makerfolio
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

// loadEnvFile loads environment variables from .env file
func loadEnvFile() {
	envLoaded.Do(func() {
		loadEnvFileOnce()
	})
}

func loadEnvFileOnce() {
	file, err := os.Open(".env")
	if err != nil {
		// .env file is optional, don't error if it doesn't exist
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first = sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Only set if not already set in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func init() {
	// Ensure .env is loaded before any config access
	loadEnvFile()
}

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvDuration reads environment variable as duration with fallback
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		// Try as integer seconds
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

// Server Configuration
var (
	Port = getEnvString("PORT", "8080")
)

// Database Configuration
var (
	SQLitePath    = getEnvString("SQLITE_PATH", "./data/makerfolio.db")
	TursoDatabase = getEnvString("TURSO_DATABASE", "")
	TursoToken    = getEnvString("TURSO_TOKEN", "")

	// Database Pool
	DBMaxOpenConns           = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns           = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes     = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
)

// Event Recording Configuration
var (
	// Trailing window inside which a repeat view from the same actor on the
	// same entity is folded into the existing event
	ViewDedupWindow = getEnvDuration("VIEW_DEDUP_WINDOW", 24*time.Hour)
)

// Query Configuration
var (
	ItemTopKLimit        = getEnvInt("ITEM_TOP_K_LIMIT", 5)
	OwnerTopKLimit       = getEnvInt("OWNER_TOP_K_LIMIT", 10)
	TopItemsLimit        = getEnvInt("TOP_ITEMS_LIMIT", 5)
	RecentViewersLimit   = getEnvInt("RECENT_VIEWERS_LIMIT", 10)
	IdentityCacheEntries = getEnvInt("IDENTITY_CACHE_ENTRIES", 2048)
)

// TTL Configuration
var (
	SummaryCacheTTL = time.Duration(getEnvInt("SUMMARY_CACHE_TTL_MINUTES", 15)) * time.Minute
	RollupTTL       = time.Duration(getEnvInt("ROLLUP_TTL_MINUTES", 10)) * time.Minute
)

// Cleanup Intervals
var (
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
)

// Rate Limiting
var (
	IngestRatePerSecond = getEnvInt("INGEST_RATE_PER_SECOND", 20)
	IngestBurst         = getEnvInt("INGEST_BURST", 40)
)
