package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alankar423/CreatorIQ/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
  environment: development
  log_level: debug
providers:
  OpenAI:
    api_key: sk-test
    timeout_ms: 30000
  anthropic:
    api_key: sk-ant-test
rate_limits:
  analyze:
    window_ms: 60000
    max_requests: 10
cost_tracker:
  max_records: 500
batch:
  concurrency: 5
  delay_ms: 1000
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.RateLimits.Analyze.MaxRequests)
	assert.Equal(t, 500, cfg.CostTracker.MaxRecords)
	assert.Equal(t, 5, cfg.Batch.Concurrency)

	// provider keys are normalized to lowercase
	pc, ok := cfg.GetProviderConfig("openai")
	require.True(t, ok)
	assert.Equal(t, "sk-test", pc.APIKey)
	assert.Equal(t, 30000, pc.TimeoutMs)
}

func TestNew(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"7070\"\n")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoadFromFile_EnvSubstitution(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")
	t.Setenv("TEST_UNSET_PORT", "")

	path := writeConfig(t, `
server:
  port: "${TEST_UNSET_PORT:-9090}"
providers:
  openai:
    api_key: ${TEST_OPENAI_KEY}
  anthropic:
    api_key: ${TEST_MISSING_KEY}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port, "unset variable uses the default")
	assert.Equal(t, "sk-from-env", cfg.Providers["openai"].APIKey)
	assert.Equal(t, "", cfg.Providers["anthropic"].APIKey, "missing variable without default is empty")
}

func TestLoadFromFile_Rejections(t *testing.T) {
	_, err := LoadFromFile("../outside/config.yaml")
	assert.ErrorContains(t, err, "path traversal")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "config.json"))
	assert.ErrorContains(t, err, "only .yaml and .yml")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read")

	bad := writeConfig(t, "server: [not a mapping")
	_, err = LoadFromFile(bad)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10000, cfg.CostTracker.MaxRecords)
	assert.Equal(t, 3, cfg.Batch.Concurrency)
	assert.Equal(t, 60000, cfg.RateLimits.SweepIntervalMs)
}

func TestValidate_ProviderTimeoutDefault(t *testing.T) {
	cfg := &Config{
		Providers: map[string]models.ProviderConfig{
			"openai": {APIKey: "sk-test"},
		},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60000, cfg.Providers["openai"].TimeoutMs)
}

func TestValidate_Errors(t *testing.T) {
	bad := &Config{Server: models.ServerConfig{Port: "80a0"}}
	assert.ErrorContains(t, bad.Validate(), "invalid server port")

	unknown := &Config{Providers: map[string]models.ProviderConfig{"gemini": {APIKey: "x"}}}
	assert.ErrorContains(t, unknown.Validate(), "unknown provider")

	negDelay := &Config{Batch: models.BatchConfig{DelayMs: -1}}
	assert.ErrorContains(t, negDelay.Validate(), "delay_ms")
}

func TestValidate_ZeroProvidersIsValid(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.ConfiguredProviders())
}

func TestConfiguredProviders_PriorityOrder(t *testing.T) {
	cfg := &Config{
		Providers: map[string]models.ProviderConfig{
			"anthropic": {APIKey: "sk-ant"},
			"openai":    {APIKey: "sk"},
		},
	}
	assert.Equal(t, []string{"openai", "anthropic"}, cfg.ConfiguredProviders())

	// credentials gate membership
	cfg.Providers["openai"] = models.ProviderConfig{}
	assert.Equal(t, []string{"anthropic"}, cfg.ConfiguredProviders())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Server: models.ServerConfig{Environment: "Production"}}).IsProduction())
	assert.False(t, (&Config{Server: models.ServerConfig{Environment: "development"}}).IsProduction())
	assert.False(t, (&Config{}).IsProduction())
}

func TestGetNormalizedLogLevel(t *testing.T) {
	assert.Equal(t, "info", (&Config{}).GetNormalizedLogLevel())
	assert.Equal(t, "debug", (&Config{Server: models.ServerConfig{LogLevel: "  DEBUG "}}).GetNormalizedLogLevel())
}
