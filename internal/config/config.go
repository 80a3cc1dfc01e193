package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendFile = "file"
	BackendR2   = "r2"
)

type Config struct {
	Env       string          `yaml:"env"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Bundle    BundleConfig    `yaml:"bundle"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logger    LoggerConfig    `yaml:"logger"`
}

type ServerConfig struct {
	Port               int           `yaml:"port"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	TrainRatePerMinute int           `yaml:"train_rate_per_minute"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
	MinConns int32  `yaml:"min_conns"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type BundleConfig struct {
	Backend        string        `yaml:"backend"`
	Path           string        `yaml:"path"`
	ObjectKey      string        `yaml:"object_key"`
	ReloadInterval time.Duration `yaml:"reload_interval"`
	R2             R2Config      `yaml:"r2"`
}

type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
}

type AnalyticsConfig struct {
	RecentPredictions int  `yaml:"recent_predictions"`
	SuggestionLimit   int  `yaml:"suggestion_limit"`
	TopCustomers      int  `yaml:"top_customers"`
	ClampNegative     bool `yaml:"clamp_negative_predictions"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Port:               8000,
			AllowedOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			ShutdownTimeout:    15 * time.Second,
			TrainRatePerMinute: 2,
		},
		Database: DatabaseConfig{
			MaxConns: 10,
			MinConns: 2,
		},
		Bundle: BundleConfig{
			Backend:        BackendFile,
			Path:           "data/price_model.json",
			ObjectKey:      "models/price_model.json",
			ReloadInterval: time.Minute,
		},
		Analytics: AnalyticsConfig{
			RecentPredictions: 10,
			SuggestionLimit:   5,
			TopCustomers:      5,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and environment variables, in that order of precedence.
// Outside production a .env file is read first.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = getEnvString("APP_ENV", c.Env)

	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", c.Server.AllowedOrigins)
	c.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.TrainRatePerMinute = getEnvInt("TRAIN_RATE_PER_MINUTE", c.Server.TrainRatePerMinute)

	c.Database.URL = getEnvString("DATABASE_URL", c.Database.URL)
	c.Database.MaxConns = int32(getEnvInt("DB_MAX_CONNS", int(c.Database.MaxConns)))
	c.Database.MinConns = int32(getEnvInt("DB_MIN_CONNS", int(c.Database.MinConns)))

	c.Auth.JWTSecret = getEnvString("JWT_SECRET", c.Auth.JWTSecret)

	c.Bundle.Backend = strings.ToLower(getEnvString("BUNDLE_BACKEND", c.Bundle.Backend))
	c.Bundle.Path = getEnvString("BUNDLE_PATH", c.Bundle.Path)
	c.Bundle.ObjectKey = getEnvString("BUNDLE_OBJECT_KEY", c.Bundle.ObjectKey)
	c.Bundle.ReloadInterval = getEnvDuration("BUNDLE_RELOAD_INTERVAL", c.Bundle.ReloadInterval)
	c.Bundle.R2.Endpoint = getEnvString("R2_ENDPOINT", c.Bundle.R2.Endpoint)
	c.Bundle.R2.AccessKey = getEnvString("R2_ACCESS_KEY", c.Bundle.R2.AccessKey)
	c.Bundle.R2.SecretKey = getEnvString("R2_SECRET_KEY", c.Bundle.R2.SecretKey)
	c.Bundle.R2.Bucket = getEnvString("R2_BUCKET_NAME", c.Bundle.R2.Bucket)

	c.Analytics.RecentPredictions = getEnvInt("RECENT_PREDICTIONS", c.Analytics.RecentPredictions)
	c.Analytics.SuggestionLimit = getEnvInt("SUGGESTION_LIMIT", c.Analytics.SuggestionLimit)
	c.Analytics.TopCustomers = getEnvInt("TOP_CUSTOMERS", c.Analytics.TopCustomers)
	c.Analytics.ClampNegative = getEnvBool("CLAMP_NEGATIVE_PREDICTIONS", c.Analytics.ClampNegative)

	c.Logger.Level = getEnvString("LOG_LEVEL", c.Logger.Level)
	c.Logger.Format = getEnvString("LOG_FORMAT", c.Logger.Format)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if c.Server.TrainRatePerMinute <= 0 {
		return fmt.Errorf("train rate per minute must be positive")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}

	if c.Database.MinConns < 0 || c.Database.MaxConns < 1 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("invalid pool size: min %d, max %d", c.Database.MinConns, c.Database.MaxConns)
	}

	switch c.Bundle.Backend {
	case BackendFile:
		if c.Bundle.Path == "" {
			return fmt.Errorf("bundle path cannot be empty")
		}
	case BackendR2:
		r2 := c.Bundle.R2
		if r2.Endpoint == "" || r2.AccessKey == "" || r2.SecretKey == "" || r2.Bucket == "" {
			return fmt.Errorf("r2 backend needs R2_ENDPOINT, R2_ACCESS_KEY, R2_SECRET_KEY and R2_BUCKET_NAME")
		}
		if c.Bundle.ObjectKey == "" {
			return fmt.Errorf("bundle object key cannot be empty")
		}
	default:
		return fmt.Errorf("invalid bundle backend %q, must be one of: %s, %s", c.Bundle.Backend, BackendFile, BackendR2)
	}

	if c.Bundle.ReloadInterval < 0 {
		return fmt.Errorf("bundle reload interval cannot be negative")
	}

	if c.Analytics.RecentPredictions <= 0 || c.Analytics.SuggestionLimit <= 0 || c.Analytics.TopCustomers <= 0 {
		return fmt.Errorf("analytics windows must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	return nil
}

// RequireServer checks the settings only the HTTP service needs.
func (c *Config) RequireServer() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
