package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Point SPARK_MCP_CONFIG at an absent file so a developer's real config
// never leaks into assertions.
func loadClean(t *testing.T) *Config {
	t.Helper()
	t.Setenv("SPARK_MCP_CONFIG", filepath.Join(t.TempDir(), "absent.json"))
	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadClean(t)

	assert.Contains(t, cfg.SparkBase, "Spark Desktop/core-data")
	assert.Equal(t, 100, cfg.SearchResultLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.TemplateDir)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SPARK_BASE", "/tmp/spark-data")
	t.Setenv("CALENDAR_DB_PATH", "/tmp/other/calendar.sqlite")
	t.Setenv("SPARK_MCP_TEMPLATE_DIR", "/tmp/templates")
	t.Setenv("SEARCH_RESULT_LIMIT", "25")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := loadClean(t)

	assert.Equal(t, "/tmp/spark-data", cfg.SparkBase)
	assert.Equal(t, 25, cfg.SearchResultLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/templates", cfg.TemplateDir)
	assert.Equal(t, "/tmp/other/calendar.sqlite", cfg.CalendarPath())
}

func TestLoadConfigFileMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"signature_image_path": "/tmp/sig.png",
		"pdf_output_dir": "/tmp/out",
		"unknown_key": true
	}`), 0644))
	t.Setenv("SPARK_MCP_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sig.png", cfg.SignatureImagePath)
	assert.Equal(t, "/tmp/out", cfg.PDFOutputDir)
}

func TestLoadConfigMalformedFileIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))
	t.Setenv("SPARK_MCP_CONFIG", path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.PDFOutputDir)
}

func TestDatabasePaths(t *testing.T) {
	cfg := &Config{SparkBase: "/data/spark"}

	assert.Equal(t, "/data/spark/messages.sqlite", cfg.MessagesDBPath())
	assert.Equal(t, "/data/spark/search_fts5.sqlite", cfg.SearchDBPath())
	assert.Equal(t, "/data/spark/calendar.sqlite", cfg.CalendarPath())
}

func TestValidate(t *testing.T) {
	cfg := &Config{SearchResultLimit: 100}
	assert.NoError(t, cfg.Validate())

	cfg.SearchResultLimit = 0
	assert.Error(t, cfg.Validate())

	cfg.SearchResultLimit = 1001
	assert.Error(t, cfg.Validate())
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("SEARCH_RESULT_LIMIT", "not-a-number")
	assert.Equal(t, 100, getEnvInt("SEARCH_RESULT_LIMIT", 100))

	t.Setenv("SEARCH_RESULT_LIMIT", "42")
	assert.Equal(t, 42, getEnvInt("SEARCH_RESULT_LIMIT", 100))
}
