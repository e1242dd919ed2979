package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// fileConfig is the on-disk schema of ~/.config/spark-mcp/config.json.
// Only these two keys are recognized; anything else is ignored.
type fileConfig struct {
	SignatureImagePath string `json:"signature_image_path"`
	PDFOutputDir       string `json:"pdf_output_dir"`
}

// Config holds the application configuration.
type Config struct {
	// SparkBase is the Spark Desktop core-data directory holding the three
	// foreign databases and the attachment cache.
	SparkBase string

	// CalendarDBPath overrides the calendar database location. Empty means
	// <SparkBase>/calendar.sqlite.
	CalendarDBPath string

	// SignatureImagePath is the default signature image for PDF signing.
	SignatureImagePath string

	// PDFOutputDir is where PDF operations write when no explicit output
	// path is given.
	PDFOutputDir string

	// TemplateDir holds persisted PDF templates, one JSON file each.
	TemplateDir string

	SearchResultLimit int
	LogLevel          string
}

const sparkDataDir = "Library/Containers/com.readdle.SparkDesktop.appstore/Data/Library/Application Support/Spark Desktop/core-data"

// LoadConfig builds the configuration from defaults, the optional JSON
// config file, and environment overrides, in that order.
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg := &Config{
		SparkBase:          filepath.Join(home, sparkDataDir),
		SignatureImagePath: filepath.Join(home, "Documents/letter-template/sig.png"),
		PDFOutputDir:       filepath.Join(home, "Downloads"),
		TemplateDir:        filepath.Join(home, ".config", "spark-mcp", "templates"),
		SearchResultLimit:  getEnvInt("SEARCH_RESULT_LIMIT", 100),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	// Merge the user config file. A missing or malformed file is not an
	// error; defaults stand.
	cfgPath := getEnv("SPARK_MCP_CONFIG", filepath.Join(home, ".config", "spark-mcp", "config.json"))
	if data, err := os.ReadFile(cfgPath); err == nil {
		var fc fileConfig
		if err := json.Unmarshal(data, &fc); err == nil {
			if fc.SignatureImagePath != "" {
				cfg.SignatureImagePath = fc.SignatureImagePath
			}
			if fc.PDFOutputDir != "" {
				cfg.PDFOutputDir = fc.PDFOutputDir
			}
		}
	}

	// Environment overrides win over the file.
	cfg.SparkBase = getEnv("SPARK_BASE", cfg.SparkBase)
	cfg.CalendarDBPath = getEnv("CALENDAR_DB_PATH", cfg.CalendarDBPath)
	cfg.TemplateDir = getEnv("SPARK_MCP_TEMPLATE_DIR", cfg.TemplateDir)

	return cfg, nil
}

// MessagesDBPath returns the location of the transactional message store.
func (c *Config) MessagesDBPath() string {
	return filepath.Join(c.SparkBase, "messages.sqlite")
}

// SearchDBPath returns the location of the full-text index.
func (c *Config) SearchDBPath() string {
	return filepath.Join(c.SparkBase, "search_fts5.sqlite")
}

// CalendarPath returns the location of the calendar database.
func (c *Config) CalendarPath() string {
	if c.CalendarDBPath != "" {
		return c.CalendarDBPath
	}
	return filepath.Join(c.SparkBase, "calendar.sqlite")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.SearchResultLimit < 1 || c.SearchResultLimit > 1000 {
		return fmt.Errorf("SEARCH_RESULT_LIMIT must be between 1 and 1000")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
