package models

// Provider name constants. Selection priority and preference tables key off
// these exact strings.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ProviderConfig holds configuration for one LLM provider.
type ProviderConfig struct {
	APIKey    string            `yaml:"api_key" json:"api_key,omitzero"`
	BaseURL   string            `yaml:"base_url" json:"base_url,omitzero"`     // Optional custom base URL
	TimeoutMs int               `yaml:"timeout_ms" json:"timeout_ms,omitzero"` // Outbound call timeout in milliseconds
	Headers   map[string]string `yaml:"headers" json:"headers,omitzero"`       // Optional custom headers
}

// Configured reports whether the provider has usable credentials.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// ModelConfig is the static pricing and generation profile of one
// provider/model pair.
//
// Token costs are expressed in fractional cents per TokenUnit tokens. The two
// providers publish pricing at different granularity (per-1K vs per-1M), so
// each table carries its own unit rather than normalising to a shared scale.
type ModelConfig struct {
	Provider          string  `json:"provider"`
	Model             string  `json:"model"`
	MaxTokens         int64   `json:"max_tokens"`
	Temperature       float64 `json:"temperature"`
	CostPerInputUnit  float64 `json:"cost_per_input_unit"`
	CostPerOutputUnit float64 `json:"cost_per_output_unit"`
	TokenUnit         int64   `json:"token_unit"` // tokens per pricing unit: 1_000 or 1_000_000
}

// CostCents computes the integer-cent cost of one invocation under this
// model's pricing table.
func (m ModelConfig) CostCents(inputTokens, outputTokens int64) int64 {
	unit := float64(m.TokenUnit)
	cost := (float64(inputTokens)/unit)*m.CostPerInputUnit + (float64(outputTokens)/unit)*m.CostPerOutputUnit
	if cost < 0 {
		return 0
	}
	// round half up to whole cents
	return int64(cost + 0.5)
}
