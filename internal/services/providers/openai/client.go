// Package openai implements the OpenAI-backed analysis client using the
// official openai-go SDK.
package openai

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/services/prompts"
	"github.com/alankar423/CreatorIQ/internal/services/providers"
	"github.com/alankar423/CreatorIQ/internal/utils/clientcache"

	fiberlog "github.com/gofiber/fiber/v2/log"
	sdk "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultTimeout = 60 * time.Second

// modelTable prices OpenAI models per 1K tokens in fractional cents,
// matching OpenAI's published per-1K granularity.
var modelTable = map[string]models.ModelConfig{
	"gpt-4o": {
		Provider:          models.ProviderOpenAI,
		Model:             "gpt-4o",
		MaxTokens:         4096,
		Temperature:       0.7,
		CostPerInputUnit:  0.25,
		CostPerOutputUnit: 1.0,
		TokenUnit:         1_000,
	},
	"gpt-4o-mini": {
		Provider:          models.ProviderOpenAI,
		Model:             "gpt-4o-mini",
		MaxTokens:         4096,
		Temperature:       0.7,
		CostPerInputUnit:  0.015,
		CostPerOutputUnit: 0.06,
		TokenUnit:         1_000,
	},
}

// confidenceTable is OpenAI's scoring table for the confidence heuristic.
var confidenceTable = providers.ConfidenceTable{
	Base:            0.65,
	DetailBonus:     0.10,
	DetailThreshold: 9,
	RecommendBonus:  0.08,
	ScoreBonus:      0.07,
	StrategyBonus:   0.05,
}

// Client performs channel analyses against the OpenAI chat completions API.
type Client struct {
	cfg         models.ProviderConfig
	store       *prompts.Store
	clientCache *clientcache.Cache[*sdk.Client]
}

// NewClient creates an OpenAI analysis client.
func NewClient(cfg models.ProviderConfig, store *prompts.Store) *Client {
	return &Client{
		cfg:         cfg,
		store:       store,
		clientCache: clientcache.NewCache[*sdk.Client](),
	}
}

// Name implements providers.Client.
func (c *Client) Name() string {
	return models.ProviderOpenAI
}

// ModelConfig implements providers.Client.
func (c *Client) ModelConfig(modelID string) (models.ModelConfig, bool) {
	mc, ok := modelTable[modelID]
	return mc, ok
}

// DefaultModel implements providers.Client.
func (c *Client) DefaultModel(analysisType models.AnalysisType) string {
	if analysisType == models.AnalysisTypeQuickScan {
		return "gpt-4o-mini"
	}
	return "gpt-4o"
}

// AnalyzeChannel implements providers.Client.
func (c *Client) AnalyzeChannel(ctx context.Context, req *models.AnalysisRequest, modelID string) (*models.AnalysisResult, error) {
	tmpl, err := c.store.Get(req.AnalysisType)
	if err != nil {
		return nil, err
	}

	if modelID == "" {
		modelID = c.DefaultModel(req.AnalysisType)
	}
	modelCfg, ok := c.ModelConfig(modelID)
	if !ok {
		return nil, models.NewUnsupportedModelError(c.Name(), modelID)
	}

	prompt := prompts.Render(tmpl, providers.BuildVariables(req))

	client, err := c.createClient()
	if err != nil {
		return nil, err
	}

	timeout := defaultTimeout
	if c.cfg.TimeoutMs > 0 {
		timeout = time.Duration(c.cfg.TimeoutMs) * time.Millisecond
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, err := client.Chat.Completions.New(callCtx, sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(modelCfg.Model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.SystemMessage(providers.SystemInstruction),
			sdk.UserMessage(prompt),
		},
		MaxTokens:   sdk.Int(modelCfg.MaxTokens),
		Temperature: sdk.Float(modelCfg.Temperature),
	})
	if err != nil {
		return nil, models.NewProviderHTTPError(c.Name(), err)
	}
	elapsed := time.Since(start)

	if len(resp.Choices) == 0 {
		return nil, models.NewMalformedResponseError(c.Name(), "completion contains no choices")
	}

	result, err := providers.DecodeAnalysis(c.Name(), resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	inputTokens := resp.Usage.PromptTokens
	outputTokens := resp.Usage.CompletionTokens

	result.Metadata = models.AnalysisMetadata{
		Provider:       c.Name(),
		Model:          modelCfg.Model,
		PromptVersion:  tmpl.Version,
		AnalysisType:   req.AnalysisType,
		ProcessingTime: elapsed.Milliseconds(),
		Confidence:     confidenceTable.Confidence(result),
		CostCents:      modelCfg.CostCents(inputTokens, outputTokens),
		TokensUsed:     inputTokens + outputTokens,
	}

	fiberlog.Debugf("openai analysis complete - model: %s, tokens: %d, cost: %d cents",
		modelCfg.Model, result.Metadata.TokensUsed, result.Metadata.CostCents)

	return result, nil
}

// createClient creates or retrieves a cached OpenAI SDK client for the
// current provider config.
func (c *Client) createClient() (*sdk.Client, error) {
	keyHash := sha256.Sum256([]byte(c.cfg.APIKey + "\x00" + c.cfg.BaseURL))
	cacheKey := fmt.Sprintf("%x", keyHash[:16])

	return c.clientCache.GetOrCreate(cacheKey, func() (*sdk.Client, error) {
		opts := []option.RequestOption{
			option.WithAPIKey(c.cfg.APIKey),
		}
		if c.cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(c.cfg.BaseURL))
		}
		for key, value := range c.cfg.Headers {
			opts = append(opts, option.WithHeader(key, value))
		}
		client := sdk.NewClient(opts...)
		return &client, nil
	})
}
