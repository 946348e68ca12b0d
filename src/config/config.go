package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port               string        `yaml:"port"`
	DatabasePath       string        `yaml:"database_path"`
	LogLevel           string        `yaml:"log_level"`
	MaxUploadSizeBytes int64         `yaml:"max_upload_size_bytes"`
	DefaultAccountID   string        `yaml:"default_account_id"`
	AllowedOrigins     []string      `yaml:"cors_allowed_origins"`
	RateLimitInterval  time.Duration `yaml:"rate_limit_interval"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`

	// Import pipeline
	ImportBatchSize int           `yaml:"import_batch_size"`
	ParseCacheTTL   time.Duration `yaml:"parse_cache_ttl"`
}

var Cfg *AppConfig

// Defaults returns the configuration used when neither a config file nor the
// environment provide a value.
func Defaults() *AppConfig {
	return &AppConfig{
		Port:               "8080",
		DatabasePath:       "./tradejournal.db",
		LogLevel:           "info",
		MaxUploadSizeBytes: 10 * 1024 * 1024,
		DefaultAccountID:   "default",
		AllowedOrigins:     []string{"http://localhost:3000"},
		RateLimitInterval:  100 * time.Millisecond,
		RateLimitBurst:     30,
		ImportBatchSize:    100,
		ParseCacheTTL:      15 * time.Minute,
	}
}

// LoadConfig builds Cfg from defaults, an optional YAML file and the environment,
// in that order of precedence (environment wins). An empty path falls back to
// CONFIG_FILE.
func LoadConfig(path string) (*AppConfig, error) {
	if errEnv := godotenv.Load(); errEnv != nil {
		log.Println("Info: No .env file loaded, relying on OS environment variables and defaults:", errEnv)
	}

	cfg := Defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cfg.ImportBatchSize <= 0 {
		log.Printf("WARNING: import batch size %d is not positive, using default 100", cfg.ImportBatchSize)
		cfg.ImportBatchSize = 100
	}
	if cfg.MaxUploadSizeBytes <= 0 {
		log.Printf("WARNING: max upload size %d is not positive, using default 10MB", cfg.MaxUploadSizeBytes)
		cfg.MaxUploadSizeBytes = 10 * 1024 * 1024
	}

	Cfg = cfg
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.MaxUploadSizeBytes = getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", cfg.MaxUploadSizeBytes)
	cfg.DefaultAccountID = getEnv("DEFAULT_ACCOUNT_ID", cfg.DefaultAccountID)
	cfg.RateLimitInterval = getEnvAsDuration("RATE_LIMIT_INTERVAL", cfg.RateLimitInterval)
	cfg.RateLimitBurst = getEnvAsInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	cfg.ImportBatchSize = getEnvAsInt("IMPORT_BATCH_SIZE", cfg.ImportBatchSize)
	cfg.ParseCacheTTL = getEnvAsDuration("PARSE_CACHE_TTL", cfg.ParseCacheTTL)

	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}
