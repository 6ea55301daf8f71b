package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. METALERP_PORT
const EnvPrefix = "METALERP"

// Config holds all runtime configuration
type Config struct {
	// Server
	Port        int    `mapstructure:"PORT"`
	Env         string `mapstructure:"APP_ENV"` // development | production
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	Timezone    string `mapstructure:"TIMEZONE"`

	// Storage
	StoreDriver string `mapstructure:"STORE_DRIVER"` // memory | file | redis | postgres
	DataDir     string `mapstructure:"DATA_DIR"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	RedisPrefix string `mapstructure:"REDIS_PREFIX"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// AI collaborator
	GeminiAPIKey  string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel   string `mapstructure:"GEMINI_MODEL"`
	GeminiBaseURL string `mapstructure:"GEMINI_BASE_URL"`

	// Backups
	BackupSchedule string `mapstructure:"BACKUP_SCHEDULE"`
	BackupDir      string `mapstructure:"BACKUP_DIR"`
	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	// Reports
	ReportDir string `mapstructure:"REPORT_DIR"`
}

var defaults = map[string]interface{}{
	"PORT":             8080,
	"APP_ENV":          "development",
	"LOG_LEVEL":        "info",
	"CORS_ORIGINS":     "*",
	"TIMEZONE":         "America/Sao_Paulo",
	"STORE_DRIVER":     "file",
	"DATA_DIR":         "./data",
	"REDIS_URL":        "redis://localhost:6379/0",
	"REDIS_PREFIX":     "metalerp:",
	"DATABASE_URL":     "",
	"GEMINI_API_KEY":   "",
	"GEMINI_MODEL":     "gemini-2.5-flash",
	"GEMINI_BASE_URL":  "https://generativelanguage.googleapis.com",
	"BACKUP_SCHEDULE":  "",
	"BACKUP_DIR":       "./backups",
	"MINIO_ENDPOINT":   "",
	"MINIO_ACCESS_KEY": "",
	"MINIO_SECRET_KEY": "",
	"MINIO_BUCKET":     "metalerp-backups",
	"MINIO_USE_SSL":    false,
	"REPORT_DIR":       "./reports",
}

// Load reads configuration from a local .env file, the environment and an optional config file.
// Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	// Optional .env for local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	switch c.StoreDriver {
	case "memory", "file", "redis", "postgres":
	default:
		return fmt.Errorf("unknown store driver: %q", c.StoreDriver)
	}
	if c.StoreDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres store")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location returns the configured time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AllowedOrigins splits CORS_ORIGINS on commas
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// MinioEnabled reports whether backups go to an object store instead of BACKUP_DIR
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}
