package models

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string `json:"port,omitzero" yaml:"port"`
	AllowedOrigins string `json:"allowed_origins,omitzero" yaml:"allowed_origins"`
	Environment    string `json:"environment,omitzero" yaml:"environment"`
	LogLevel       string `json:"log_level,omitzero" yaml:"log_level"`
}

// AuthConfig controls bearer-token identity extraction. Full account
// management lives outside this service; tokens are only verified to derive
// a stable rate-limit identity and usage attribution.
type AuthConfig struct {
	JWTSecret      string `yaml:"jwt_secret" json:"-"`
	AllowAnonymous bool   `yaml:"allow_anonymous" json:"allow_anonymous"`
}

// RateLimitConfig is the fixed-window policy for one route group.
type RateLimitConfig struct {
	WindowMs    int `yaml:"window_ms" json:"window_ms"`
	MaxRequests int `yaml:"max_requests" json:"max_requests"`
}

// RateLimitsConfig holds the per-route-group rate limit policies plus the
// store sweep interval.
type RateLimitsConfig struct {
	SweepIntervalMs int             `yaml:"sweep_interval_ms" json:"sweep_interval_ms"`
	Analyze         RateLimitConfig `yaml:"analyze" json:"analyze"`
	Usage           RateLimitConfig `yaml:"usage" json:"usage"`
}

// CostTrackerConfig bounds the in-memory usage history and sets budget caps.
type CostTrackerConfig struct {
	MaxRecords      int   `yaml:"max_records" json:"max_records"`
	DailyCapCents   int64 `yaml:"daily_cap_cents" json:"daily_cap_cents"`
	MonthlyCapCents int64 `yaml:"monthly_cap_cents" json:"monthly_cap_cents"`
}

// BatchConfig sets the defaults for grouped batch analysis.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" json:"concurrency"`
	DelayMs     int `yaml:"delay_ms" json:"delay_ms"`
}
