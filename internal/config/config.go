// Package config provides centralized configuration loaded from a local
// secrets file and environment variables. Shared by cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSecretsFile is read when TENNIS_SECRETS_FILE is unset.
const DefaultSecretsFile = "neo4j.env"

// --------------------------------------------------------------------------
// Config struct, populated from the secrets file and environment
// --------------------------------------------------------------------------

type Config struct {
	// Graph database
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Headless browser
	ChromePath      string
	BrowserHeadless bool
	WaitTimeout     time.Duration // bound on every wait-for-load
	SettleDelay     time.Duration // fixed delay before scraping rendered detail pages
	PagesPerMinute  int

	// Optional Postgres ledger of scrape runs
	RunLogDatabaseURL string
	RunLogMaxConns    int
	RunLogMaxLife     time.Duration
}

// Load reads the secrets file and builds the configuration. A missing
// secrets file or missing graph credentials is fatal for both commands.
func Load() (*Config, error) {
	return LoadFile(envOr("TENNIS_SECRETS_FILE", DefaultSecretsFile))
}

// LoadFile is Load with an explicit secrets file path.
func LoadFile(secrets string) (*Config, error) {
	if err := godotenv.Load(secrets); err != nil {
		return nil, fmt.Errorf("load secrets file %s: %w", secrets, err)
	}

	cfg := &Config{
		Neo4jURI:      os.Getenv("NEO4J_URI"),
		Neo4jUsername: os.Getenv("NEO4J_USERNAME"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase: envOr("NEO4J_DATABASE", "neo4j"),

		APIHost:     envOr("API_HOST", "127.0.0.1"),
		APIPort:     envInt("API_PORT", envInt("PORT", 5000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		ChromePath:      envOr("CHROME_PATH", ""),
		BrowserHeadless: envBool("BROWSER_HEADLESS", true),
		WaitTimeout:     time.Duration(envInt("BROWSER_WAIT_SECONDS", 10)) * time.Second,
		SettleDelay:     time.Duration(envInt("BROWSER_SETTLE_SECONDS", 10)) * time.Second,
		PagesPerMinute:  envInt("BROWSER_PAGES_PER_MINUTE", 30),

		RunLogDatabaseURL: envOr("RUNLOG_DATABASE_URL", ""),
		RunLogMaxConns:    envInt("RUNLOG_POOL_MAX_CONNS", 4),
		RunLogMaxLife:     time.Duration(envInt("RUNLOG_POOL_MAX_LIFETIME", 3600)) * time.Second,
	}

	var missing []string
	for _, kv := range [][2]string{
		{"NEO4J_URI", cfg.Neo4jURI},
		{"NEO4J_USERNAME", cfg.Neo4jUsername},
		{"NEO4J_PASSWORD", cfg.Neo4jPassword},
	} {
		if kv[1] == "" {
			missing = append(missing, kv[0])
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s must be set in %s", strings.Join(missing, ", "), secrets)
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
