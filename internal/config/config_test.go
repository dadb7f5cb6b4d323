package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 300, cfg.Server.DebounceMillis)
	assert.Equal(t, "https://ytheys.ossean.in", cfg.GitHub.BaseURL)
	assert.InDelta(t, 10.0, cfg.GitHub.RequestsPerSec, 0.001)
	assert.Equal(t, 10, cfg.GitHub.Burst)
	assert.Equal(t, 8, cfg.Enrich.Concurrency)
	assert.Equal(t, 6, cfg.Enrich.CacheTTLHours)
	assert.Equal(t, 5, cfg.Enrich.BreakerThreshold)
	assert.Equal(t, 30, cfg.Enrich.BreakerResetSecs)
	assert.Equal(t, "test@ossean.in", cfg.Auth.Email)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
	assert.False(t, cfg.Auth.Bypass)
	assert.Equal(t, 300, cfg.Monitoring.CheckIntervalSecs)
	assert.InDelta(t, 0.5, cfg.Monitoring.FailureRateThreshold, 0.001)
	assert.Empty(t, cfg.Seeds.Path)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/agencies
log:
  level: debug
  format: console
server:
  port: 9090
enrich:
  concurrency: 4
auth:
  bypass: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/agencies", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Enrich.Concurrency)
	assert.True(t, cfg.Auth.Bypass)
	// Defaults still apply for unset values
	assert.Equal(t, 6, cfg.Enrich.CacheTTLHours)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("AGENCY_STORE_DRIVER", "sqlite")
	t.Setenv("AGENCY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("AGENCY_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Enrich.Concurrency = 8
	cfg.Enrich.CacheTTLHours = 6
	cfg.GitHub.RequestsPerSec = 10
	cfg.Server.Port = 8080
	cfg.Server.DebounceMillis = 300
	cfg.Auth.Email = "test@ossean.in"
	cfg.Auth.Password = "devpass123"
	cfg.Auth.Secret = "dev-only-secret"
	return cfg
}

func TestValidateServe_Valid(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_MissingSecret(t *testing.T) {
	cfg := validDefaults()
	cfg.Auth.Secret = ""

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret is required")
}

func TestValidateServe_BypassSkipsCredentialChecks(t *testing.T) {
	cfg := validDefaults()
	cfg.Auth.Bypass = true
	cfg.Auth.Email = ""
	cfg.Auth.Password = ""

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_MissingCredentials(t *testing.T) {
	cfg := validDefaults()
	cfg.Auth.Email = ""

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "auth.email is required")
}

func TestValidateCLI_SkipsServerChecks(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0
	cfg.Auth.Secret = ""

	assert.NoError(t, cfg.Validate("cli"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Enrich.Concurrency = 0
	err := cfg.Validate("cli")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "enrich.concurrency must be between 1 and 50")

	cfg.Enrich.Concurrency = 51
	err = cfg.Validate("cli")
	assert.Error(t, err)

	cfg.Enrich.Concurrency = 50
	assert.NoError(t, cfg.Validate("cli"))
}
