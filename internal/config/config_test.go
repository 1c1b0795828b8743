package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml or .env is found
	chdirTemp(t)
	t.Setenv("API_URL", "")
	os.Unsetenv("API_URL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, 3*time.Second, cfg.API.CategoryTimeout())
	assert.Equal(t, 30*time.Second, cfg.API.ScoreTimeout())
	assert.Equal(t, 60*time.Second, cfg.API.MonitoringTimeout())
	assert.InDelta(t, 50000.0, cfg.Form.MaxAmount, 0.001)
	assert.InDelta(t, 10000.0, cfg.Form.MaxVolumeMavg, 0.001)
	assert.InDelta(t, 5000.0, cfg.Form.MaxVolumeMstd, 0.001)
	assert.Equal(t, 50, cfg.Form.MaxTransFreq)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
api:
  url: http://localhost:8000
  score_timeout_secs: 10
log:
  level: debug
  format: json
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.URL)
	assert.Equal(t, 10*time.Second, cfg.API.ScoreTimeout())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 60, cfg.API.MonitoringTimeoutSecs)
}

func TestLoadBareAPIURLOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api:\n  url: http://file:1\n"), 0644))
	t.Setenv("API_URL", "http://env:2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:2", cfg.API.URL)
}

func TestLoadPrefixedEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("FRAUD_SERVER_PORT", "3000")
	t.Setenv("FRAUD_API_SCORE_TIMEOUT_SECS", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 45, cfg.API.ScoreTimeoutSecs)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	t.Setenv("API_URL", "")
	os.Unsetenv("API_URL")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("API_URL=http://dotenv:3\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:3", cfg.API.URL)
}

func validConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:                   "http://localhost:8000",
			CategoryTimeoutSecs:   3,
			ScoreTimeoutSecs:      30,
			MonitoringTimeoutSecs: 60,
		},
		Form: FormConfig{MaxAmount: 50000, MaxVolumeMavg: 10000, MaxVolumeMstd: 5000, MaxTransFreq: 50},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"relative url", func(c *Config) { c.API.URL = "localhost" }, "absolute URL"},
		{"empty url", func(c *Config) { c.API.URL = "" }, "absolute URL"},
		{"zero score timeout", func(c *Config) { c.API.ScoreTimeoutSecs = 0 }, "positive"},
		{"slow category lookup", func(c *Config) { c.API.CategoryTimeoutSecs = 10 }, "category_timeout_secs"},
		{"slow monitoring", func(c *Config) { c.API.MonitoringTimeoutSecs = 120 }, "monitoring_timeout_secs"},
		{"no amount cap", func(c *Config) { c.Form.MaxAmount = 0 }, "max_amount"},
		{"no freq cap", func(c *Config) { c.Form.MaxTransFreq = 0 }, "caps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
