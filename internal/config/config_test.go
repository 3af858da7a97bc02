package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/knowledge-engine/suggester/internal/config"
)

var configKeys = []string{
	"CATALOG_SOURCE",
	"CATALOG_PATH",
	"CATALOG_BADGER_DIR",
	"CATALOG_URL",
	"CATALOG_FETCH_TIMEOUT",
	"CATALOG_RESPECT_ROBOTS",
	"CATALOG_STRIP_HTML",
	"CATALOG_USER_AGENT",
	"RANKER_EXACT_MATCH_WEIGHT",
	"RANKER_NAME_MATCH_WEIGHT",
	"RANKER_DEFAULT_LIMIT",
	"RANKER_MAX_LIMIT",
	"SERVER_ADDR",
	"SERVER_ENABLE_METRICS",
	"LOG_LEVEL",
}

// clearEnv unsets every config variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	clearEnv(t)

	cfg := config.Load()

	assert.Equal(t, config.SourceFile, cfg.Catalog.Source)
	assert.Equal(t, "data.json", cfg.Catalog.Path)
	assert.Equal(t, "./data/catalog", cfg.Catalog.BadgerDir)
	assert.Equal(t, "", cfg.Catalog.URL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.FetchTimeout)
	assert.True(t, cfg.Catalog.RespectRobots)
	assert.True(t, cfg.Catalog.StripHTML)
	assert.Equal(t, "TextureSuggester/1.0", cfg.Catalog.UserAgent)

	assert.Equal(t, 2, cfg.Ranker.ExactMatchWeight)
	assert.Equal(t, 5, cfg.Ranker.NameMatchWeight)
	assert.Equal(t, 5, cfg.Ranker.DefaultLimit)
	assert.Equal(t, 50, cfg.Ranker.MaxLimit)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.EnableMetrics)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)

	envVars := map[string]string{
		"CATALOG_SOURCE":            "http",
		"CATALOG_URL":               "https://textures.example.com/catalog.json",
		"CATALOG_FETCH_TIMEOUT":     "3s",
		"CATALOG_RESPECT_ROBOTS":    "false",
		"CATALOG_STRIP_HTML":        "0",
		"RANKER_EXACT_MATCH_WEIGHT": "3",
		"RANKER_NAME_MATCH_WEIGHT":  "7",
		"RANKER_DEFAULT_LIMIT":      "10",
		"RANKER_MAX_LIMIT":          "20",
		"SERVER_ADDR":               "127.0.0.1:9000",
		"SERVER_ENABLE_METRICS":     "false",
		"LOG_LEVEL":                 "debug",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg := config.Load()

	assert.Equal(t, config.SourceHTTP, cfg.Catalog.Source)
	assert.Equal(t, "https://textures.example.com/catalog.json", cfg.Catalog.URL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.FetchTimeout)
	assert.False(t, cfg.Catalog.RespectRobots)
	assert.False(t, cfg.Catalog.StripHTML)
	assert.Equal(t, 3, cfg.Ranker.ExactMatchWeight)
	assert.Equal(t, 7, cfg.Ranker.NameMatchWeight)
	assert.Equal(t, 10, cfg.Ranker.DefaultLimit)
	assert.Equal(t, 20, cfg.Ranker.MaxLimit)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.False(t, cfg.Server.EnableMetrics)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestGetStringEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue string
		expected     string
	}{
		{"Existing env var", "TEST_STRING", "test_value", "default", "test_value"},
		{"Non-existing env var", "NON_EXISTENT", "", "default", "default"},
		{"Empty env var", "EMPTY_VAR", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)
			assert.Equal(t, tt.expected, config.GetStringEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		envValue     string
		defaultValue int
		expected     int
	}{
		{"Valid int", "TEST_INT", "42", 10, 42},
		{"Invalid int", "TEST_INT_INVALID", "not_a_number", 10, 10},
		{"Negative int", "TEST_INT_NEG", "-5", 10, -5},
		{"Zero", "TEST_INT_ZERO", "0", 10, 0},
		{"Non-existing env var", "NON_EXISTENT", "", 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)
			assert.Equal(t, tt.expected, config.GetIntEnv(tt.key, tt.defaultValue))
		})
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		expected     bool
	}{
		{"True string", "true", false, true},
		{"False string", "false", true, false},
		{"1 (true)", "1", false, true},
		{"0 (false)", "0", true, false},
		{"Invalid bool", "invalid", true, true},
		{"Unset", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.envValue)
			assert.Equal(t, tt.expected, config.GetBoolEnv("TEST_BOOL", tt.defaultValue))
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue time.Duration
		expected     time.Duration
	}{
		{"Seconds", "5s", 1 * time.Second, 5 * time.Second},
		{"Minutes", "10m", 1 * time.Second, 10 * time.Minute},
		{"Combined", "1h30m", 1 * time.Second, 90 * time.Minute},
		{"Invalid duration", "invalid", 5 * time.Second, 5 * time.Second},
		{"Unset", "", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.envValue)
			assert.Equal(t, tt.expected, config.GetDurationEnv("TEST_DURATION", tt.defaultValue))
		})
	}
}
