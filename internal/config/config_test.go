package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "ALLOWED_ORIGINS", "SHUTDOWN_TIMEOUT", "TRAIN_RATE_PER_MINUTE",
		"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "JWT_SECRET",
		"BUNDLE_BACKEND", "BUNDLE_PATH", "BUNDLE_OBJECT_KEY", "BUNDLE_RELOAD_INTERVAL",
		"R2_ENDPOINT", "R2_ACCESS_KEY", "R2_SECRET_KEY", "R2_BUCKET_NAME",
		"RECENT_PREDICTIONS", "SUGGESTION_LIMIT", "TOP_CUSTOMERS", "CLAMP_NEGATIVE_PREDICTIONS",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("APP_ENV", "production")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/dyno")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Bundle.Backend)
	assert.Equal(t, 10, cfg.Analytics.RecentPredictions)
	assert.Equal(t, 5, cfg.Analytics.SuggestionLimit)
	assert.False(t, cfg.Analytics.ClampNegative)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":8000", cfg.Address())
	assert.Error(t, cfg.RequireServer())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "dyno.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9100
  shutdown_timeout: 5s
database:
  url: postgres://from-file/dyno
bundle:
  reload_interval: 30s
analytics:
  recent_predictions: 25
  clamp_negative_predictions: true
logger:
  level: debug
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9200")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres://from-file/dyno", cfg.Database.URL)
	assert.Equal(t, 30*time.Second, cfg.Bundle.ReloadInterval)
	assert.Equal(t, 25, cfg.Analytics.RecentPredictions)
	assert.True(t, cfg.Analytics.ClampNegative)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"BUNDLE_BACKEND": "gcs"}, "invalid bundle backend"},
		{"r2 without credentials", map[string]string{"BUNDLE_BACKEND": "r2", "R2_ENDPOINT": "https://r2.example"}, "r2 backend"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "invalid log level"},
		{"bad pool", map[string]string{"DB_MIN_CONNS": "20"}, "invalid pool size"},
		{"zero window", map[string]string{"TOP_CUSTOMERS": "0"}, "analytics windows"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATABASE_URL", "postgres://localhost/dyno")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_R2Backend(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/dyno")
	t.Setenv("BUNDLE_BACKEND", "R2")
	t.Setenv("R2_ENDPOINT", "https://acct.r2.cloudflarestorage.com")
	t.Setenv("R2_ACCESS_KEY", "ak")
	t.Setenv("R2_SECRET_KEY", "sk")
	t.Setenv("R2_BUCKET_NAME", "models")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendR2, cfg.Bundle.Backend)
	assert.Equal(t, "models", cfg.Bundle.R2.Bucket)
	assert.NoError(t, cfg.RequireServer())
}
