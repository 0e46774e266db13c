package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"chapterops/internal/batch"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Tag         batch.Config
	DataPath    string
	LogDir      string
	StateDBPath string
	CatalogPath string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority)
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

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	stateDBPath := getEnv("STATE_DB", filepath.Join(dataPath, "state", "chapterops.db"))
	catalogPath := getEnv("CATALOG_PATH", "")

	timeoutMs := getEnvInt("TAG_TIMEOUT_MS", 20000)
	maxScope := getEnvInt("TAG_MAX_SCOPE", 250)

	cfg := &AppConfig{
		Tag: batch.Config{
			EndpointURL: getEnv("TAG_ENDPOINT_URL", ""),
			Timeout:     time.Duration(timeoutMs) * time.Millisecond,
			MaxScope:    maxScope,
			Actor:       getEnv("TAG_ACTOR", "unknown"),
		},
		DataPath:    dataPath,
		LogDir:      logDir,
		StateDBPath: stateDBPath,
		CatalogPath: catalogPath,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-numeric environment value")
	}
	return fallback
}
