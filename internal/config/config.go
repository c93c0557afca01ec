package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alankar423/CreatorIQ/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Validate when the YAML leaves a knob unset.
const (
	defaultMaxUsageRecords  = 10000
	defaultBatchConcurrency = 3
	defaultTimeoutMs        = 60000
	defaultSweepIntervalMs  = 60000
)

// Config represents the complete application configuration
type Config struct {
	Server      models.ServerConfig              `yaml:"server"`
	Auth        models.AuthConfig                `yaml:"auth"`
	Providers   map[string]models.ProviderConfig `yaml:"providers"`
	RateLimits  models.RateLimitsConfig          `yaml:"rate_limits"`
	CostTracker models.CostTrackerConfig         `yaml:"cost_tracker"`
	Batch       models.BatchConfig               `yaml:"batch"`
}

// LoadFromFile loads configuration from a YAML file with environment variable substitution
func LoadFromFile(configPath string) (*Config, error) {
	cleanPath := filepath.Clean(configPath)

	// Reject directory traversal attempts
	if strings.Contains(cleanPath, "..") {
		return nil, fmt.Errorf("invalid config path: path traversal not allowed")
	}

	ext := filepath.Ext(cleanPath)
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("invalid config file: only .yaml and .yml files are allowed")
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	content := substituteEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Normalize provider map keys to lowercase for case-insensitive lookups
	if config.Providers != nil {
		normalized := make(map[string]models.ProviderConfig, len(config.Providers))
		for key, value := range config.Providers {
			normalized[strings.ToLower(key)] = value
		}
		config.Providers = normalized
	}

	return &config, nil
}

// LoadEnvFiles loads environment variables from .env files in order of precedence
// Loads files in the order provided (first has highest priority)
func LoadEnvFiles(envFiles []string) {
	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err == nil {
				fiberlog.Infof("Loaded environment variables from %s", envFile)
			}
		}
	}
}

// New creates a new Config instance by loading from the specified config file path
func New(configPath string) (*Config, error) {
	return LoadFromFile(configPath)
}

// substituteEnvVars replaces ${VAR_NAME} and ${VAR_NAME:-default} patterns with environment variables
func substituteEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::(-[^}]*))?\}`)

	return re.ReplaceAllStringFunc(content, func(match string) string {
		submatches := re.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""

		if len(submatches) > 2 && submatches[2] != "" {
			defaultValue = strings.TrimPrefix(submatches[2], "-")
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

// Validate checks the configuration and fills defaults. A service with no
// configured provider is still valid: usage endpoints must keep serving, and
// analyze calls fail per-request with NO_PROVIDER_AVAILABLE.
func (c *Config) Validate() error {
	if c.Server.Port != "" {
		for _, r := range c.Server.Port {
			if r < '0' || r > '9' {
				return fmt.Errorf("invalid server port: %q", c.Server.Port)
			}
		}
	}

	for name := range c.Providers {
		if name != models.ProviderOpenAI && name != models.ProviderAnthropic {
			return fmt.Errorf("unknown provider in config: %q", name)
		}
	}

	if c.CostTracker.MaxRecords <= 0 {
		c.CostTracker.MaxRecords = defaultMaxUsageRecords
	}
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = defaultBatchConcurrency
	}
	if c.Batch.DelayMs < 0 {
		return fmt.Errorf("batch delay_ms cannot be negative")
	}
	if c.RateLimits.SweepIntervalMs <= 0 {
		c.RateLimits.SweepIntervalMs = defaultSweepIntervalMs
	}

	for name, pc := range c.Providers {
		if pc.TimeoutMs <= 0 {
			pc.TimeoutMs = defaultTimeoutMs
			c.Providers[name] = pc
		}
	}

	return nil
}

// GetProviderConfig returns the configuration for a provider, with a flag
// indicating whether the provider is present and has credentials.
func (c *Config) GetProviderConfig(provider string) (models.ProviderConfig, bool) {
	pc, ok := c.Providers[strings.ToLower(provider)]
	if !ok || !pc.Configured() {
		return models.ProviderConfig{}, false
	}
	return pc, true
}

// ConfiguredProviders returns the providers with valid credentials, in the
// fixed selection priority order.
func (c *Config) ConfiguredProviders() []string {
	var out []string
	for _, name := range []string{models.ProviderOpenAI, models.ProviderAnthropic} {
		if _, ok := c.GetProviderConfig(name); ok {
			out = append(out, name)
		}
	}
	return out
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// GetNormalizedLogLevel returns the configured log level in lowercase,
// defaulting to "info".
func (c *Config) GetNormalizedLogLevel() string {
	level := strings.ToLower(strings.TrimSpace(c.Server.LogLevel))
	if level == "" {
		return "info"
	}
	return level
}
