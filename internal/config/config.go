package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"phenoserver/internal/models"
)

// Config holds all runtime settings, sourced from environment variables with
// defaults that work out of the box.
type Config struct {
	Port                int
	ModelPath           string
	ModelInputSize      int
	ConfidenceThreshold float64
	IOUThreshold        float64
	StaticDir           string
	LogDirectory        string
	MockSeed            int64          // 0 means time-seeded
	StageColors         map[int]string // hex overrides per stage id, empty = default
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                getEnvAsInt("PORT", 8080),
		ModelPath:           getEnv("MODEL_PATH", filepath.Join(".", "models", "pmc_phasenet.onnx")),
		ModelInputSize:      getEnvAsInt("MODEL_INPUT_SIZE", 640),
		ConfidenceThreshold: getEnvAsFloat("CONF_THRESHOLD", 0.5),
		IOUThreshold:        getEnvAsFloat("IOU_THRESHOLD", 0.4),
		StaticDir:           getEnv("STATIC_DIR", filepath.Join(".", "static")),
		LogDirectory:        getEnv("LOG_DIR", filepath.Join(".", "logs")),
		MockSeed:            getEnvAsInt64("MOCK_SEED", 0),
		StageColors: map[int]string{
			models.StageElongation: getEnv("ELONGATION_COLOR", ""),
			models.StageRipening:   getEnv("RIPENING_COLOR", ""),
			models.StageDecline:    getEnv("DECLINE_COLOR", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
