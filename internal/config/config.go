package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the suggestion service
type Config struct {
	Catalog CatalogConfig
	Ranker  RankerConfig
	Server  ServerConfig
	Log     LogConfig
}

// CatalogConfig selects where the catalog is loaded from
type CatalogConfig struct {
	Source        string
	Path          string
	BadgerDir     string
	URL           string
	FetchTimeout  time.Duration
	RespectRobots bool
	StripHTML     bool
	UserAgent     string
}

// RankerConfig holds scoring weights and result limits
type RankerConfig struct {
	ExactMatchWeight int
	NameMatchWeight  int
	DefaultLimit     int
	MaxLimit         int
}

type ServerConfig struct {
	Addr          string
	EnableMetrics bool
}

type LogConfig struct {
	Level string
}

// Catalog source kinds
const (
	SourceFile   = "file"
	SourceBadger = "badger"
	SourceHTTP   = "http"
)

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Source:        GetStringEnv("CATALOG_SOURCE", SourceFile),
			Path:          GetStringEnv("CATALOG_PATH", "data.json"),
			BadgerDir:     GetStringEnv("CATALOG_BADGER_DIR", "./data/catalog"),
			URL:           GetStringEnv("CATALOG_URL", ""),
			FetchTimeout:  GetDurationEnv("CATALOG_FETCH_TIMEOUT", 10*time.Second),
			RespectRobots: GetBoolEnv("CATALOG_RESPECT_ROBOTS", true),
			StripHTML:     GetBoolEnv("CATALOG_STRIP_HTML", true),
			UserAgent:     GetStringEnv("CATALOG_USER_AGENT", "TextureSuggester/1.0"),
		},
		Ranker: RankerConfig{
			ExactMatchWeight: GetIntEnv("RANKER_EXACT_MATCH_WEIGHT", 2),
			NameMatchWeight:  GetIntEnv("RANKER_NAME_MATCH_WEIGHT", 5),
			DefaultLimit:     GetIntEnv("RANKER_DEFAULT_LIMIT", 5),
			MaxLimit:         GetIntEnv("RANKER_MAX_LIMIT", 50),
		},
		Server: ServerConfig{
			Addr:          GetStringEnv("SERVER_ADDR", ":8080"),
			EnableMetrics: GetBoolEnv("SERVER_ENABLE_METRICS", true),
		},
		Log: LogConfig{
			Level: GetStringEnv("LOG_LEVEL", "info"),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
