package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port                 string  `yaml:"port"`
	BaseURL              string  `yaml:"base_url"`
	StoragePath          string  `yaml:"storage_path"`
	MetadataPath         string  `yaml:"metadata_path"`
	MaxFileSize          int64   `yaml:"max_file_size"`
	DefaultRetentionDays int     `yaml:"default_retention_days"`
	RateLimitRPS         float64 `yaml:"rate_limit_rps"`
	RateLimitBurst       int     `yaml:"rate_limit_burst"`
}

// Load builds the configuration from environment variables (with a .env
// file loaded first when present). When FILEDROP_CONFIG points at a YAML
// file, its values override the environment.
func Load() (*Config, error) {
	// Best-effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:8080"),
		StoragePath:          getEnv("STORAGE_PATH", "./storage/files"),
		MetadataPath:         getEnv("METADATA_PATH", "./storage/metadata"),
		MaxFileSize:          getEnvInt64("MAX_FILE_SIZE", 50*1024*1024), // 50 MiB
		DefaultRetentionDays: getEnvInt("DEFAULT_RETENTION_DAYS", 7),
		RateLimitRPS:         getEnvFloat64("RATE_LIMIT_RPS", 10),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 20),
	}

	if path := os.Getenv("FILEDROP_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat64(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
