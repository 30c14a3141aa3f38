package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath string `validate:"required"`
	LogDir   string `validate:"required"`
	CacheDir string `validate:"required"`

	// Default input files; CLI flags take precedence.
	CasesCSV   string
	ActionsCSV string
	SitesCSV   string

	EnableMermaidCharts bool
	CasesPerTurbine     float64       `validate:"gt=0"`
	MetricsFile         string
	SnapshotTTL         time.Duration `validate:"gte=1s"`
}

// PrefsDir is where the preference database lives.
func (c *AppConfig) PrefsDir() string {
	return filepath.Join(c.CacheDir, "prefs")
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	return FromEnv(exeDir)
}

// FromEnv builds the configuration from the process environment alone. exeDir is the
// default data path when DATA_PATH is unset.
func FromEnv(exeDir string) (*AppConfig, error) {
	// 1. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		logDir = filepath.Join(dataPath, "logs")
	}
	cacheDir := filepath.Join(dataPath, "cache")

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", cacheDir).Msg("Failed to create cache directory")
	}

	// 2. Resolve paths relative to the data directory
	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		CasesCSV:            dataFile(dataPath, getEnv("CASES_CSV", "")),
		ActionsCSV:          dataFile(dataPath, getEnv("ACTIONS_CSV", "")),
		SitesCSV:            dataFile(dataPath, getEnv("SITES_CSV", "")),
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		CasesPerTurbine:     getEnvFloat("CASES_PER_TURBINE_TARGET", 3),
		MetricsFile:         getEnv("METRICS_FILE", ""),
		SnapshotTTL:         time.Duration(getEnvInt("SNAPSHOT_CACHE_TTL_SECONDS", 300)) * time.Second,
	}

	// 3. Validate
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func dataFile(dataPath, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dataPath, name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-integer setting")
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric setting")
	}
	return fallback
}
