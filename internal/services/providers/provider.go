// Package providers defines the contract shared by the LLM provider clients
// and the response handling common to both: prompt variable construction,
// JSON extraction, and defensive decoding into a typed AnalysisResult.
package providers

import (
	"context"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/utils"
)

// Client is one LLM provider capable of producing a channel analysis. A
// client performs exactly one outbound call per AnalyzeChannel invocation;
// retries and fallback live in the analyzer, not here.
type Client interface {
	// Name returns the provider identifier ("openai", "anthropic").
	Name() string

	// AnalyzeChannel renders the prompt for the request's analysis type,
	// performs one provider call and decodes the answer. An empty modelID
	// selects the provider's default model for the analysis type.
	AnalyzeChannel(ctx context.Context, req *models.AnalysisRequest, modelID string) (*models.AnalysisResult, error)

	// ModelConfig resolves a model identifier to its pricing profile. The
	// second return is false for models the provider does not support.
	ModelConfig(modelID string) (models.ModelConfig, bool)

	// DefaultModel returns the model used for an analysis type when the
	// caller does not pin one.
	DefaultModel(analysisType models.AnalysisType) string
}

// ConfidenceTable is a provider-specific scoring table for the confidence
// heuristic. Each provider carries its own base value and increments; the
// shape is shared, the numbers are not.
type ConfidenceTable struct {
	Base            float64
	DetailBonus     float64 // awarded when detail items total at least DetailThreshold
	DetailThreshold int
	RecommendBonus  float64 // awarded at one or more strategy recommendations
	ScoreBonus      float64 // awarded for a positive overall score
	StrategyBonus   float64 // awarded when a content strategy section is present
}

// Confidence scores a decoded result against the table, clamped to [0, 1].
func (t ConfidenceTable) Confidence(result *models.AnalysisResult) float64 {
	c := t.Base

	details := len(result.Strengths.Details) + len(result.Weaknesses.Details) + len(result.Opportunities.Details)
	if details >= t.DetailThreshold {
		c += t.DetailBonus
	}
	if result.ContentStrategy != nil && len(result.ContentStrategy.Recommendations) > 0 {
		c += t.RecommendBonus
	}
	if result.Scores.Overall > 0 {
		c += t.ScoreBonus
	}
	if result.ContentStrategy != nil {
		c += t.StrategyBonus
	}

	return utils.ClampFloat(c, 0, 1)
}

// SystemInstruction is the fixed system prompt demanding machine-readable
// output from every provider call.
const SystemInstruction = "You are a YouTube channel analytics engine. " +
	"Respond with a single valid JSON object and nothing else: no prose, no markdown fences, no commentary."
