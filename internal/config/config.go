package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the table engine
type Config struct {
	// Discord configuration (optional; the engine runs headless without it)
	Token   string
	AppID   string
	GuildID string

	// Storage
	DataDir    string
	SQLitePath string

	// Elasticsearch hand-history archival (optional)
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string

	// Scheduler tuning
	PollInterval      time.Duration // how often the maintenance pass runs
	IdleThreshold     time.Duration // no chip-bearing active player for this long -> abandoned
	BetweenHandsDelay time.Duration // pause between the end of one hand and the next
	ChipCheckPause    time.Duration // how long to pause a game that fails its chip check
	TurnTimeout       time.Duration // how long the current actor may stall before being acted for

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	dataDir := getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data"))

	cfg := &Config{
		Token:   os.Getenv("DISCORD_TOKEN"),
		AppID:   os.Getenv("APP_ID"),
		GuildID: os.Getenv("GUILD_ID"),

		DataDir:    dataDir,
		SQLitePath: getEnvWithDefault("SQLITE_PATH", filepath.Join(dataDir, "blondie.db")),

		ElasticsearchURL:      os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),

		PollInterval:      getDurationWithDefault("POLL_INTERVAL_SECONDS", 2*time.Second),
		IdleThreshold:     getDurationWithDefault("IDLE_THRESHOLD_SECONDS", 10*time.Minute),
		BetweenHandsDelay: getDurationWithDefault("BETWEEN_HANDS_SECONDS", 8*time.Second),
		ChipCheckPause:    getDurationWithDefault("CHIP_CHECK_PAUSE_SECONDS", 60*time.Second),
		TurnTimeout:       getDurationWithDefault("TURN_TIMEOUT_SECONDS", 60*time.Second),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	if c.IdleThreshold <= 0 {
		return fmt.Errorf("IDLE_THRESHOLD_SECONDS must be positive")
	}
	// Discord is optional, but a token without an app ID is a misconfiguration
	if c.Token != "" && c.AppID == "" {
		return fmt.Errorf("APP_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

// DiscordEnabled returns true when the Discord broadcaster should be wired up
func (c *Config) DiscordEnabled() bool {
	return c.Token != ""
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationWithDefault reads an integer number of seconds from the
// environment, falling back to the default on absence or parse failure
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
