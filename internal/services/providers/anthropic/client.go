// Package anthropic implements the Claude-backed analysis client using the
// official anthropic-sdk-go Messages API.
package anthropic

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/services/prompts"
	"github.com/alankar423/CreatorIQ/internal/services/providers"
	"github.com/alankar423/CreatorIQ/internal/utils/clientcache"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

const defaultTimeout = 60 * time.Second

// modelTable prices Anthropic models per 1M tokens in fractional cents,
// matching Anthropic's published per-1M granularity. The unit differs from
// OpenAI's table on purpose; each provider keeps its own scale factor.
var modelTable = map[string]models.ModelConfig{
	"claude-sonnet-4-5-20250929": {
		Provider:          models.ProviderAnthropic,
		Model:             "claude-sonnet-4-5-20250929",
		MaxTokens:         8192,
		Temperature:       0.7,
		CostPerInputUnit:  300,
		CostPerOutputUnit: 1500,
		TokenUnit:         1_000_000,
	},
	"claude-3-5-haiku-20241022": {
		Provider:          models.ProviderAnthropic,
		Model:             "claude-3-5-haiku-20241022",
		MaxTokens:         8192,
		Temperature:       0.7,
		CostPerInputUnit:  80,
		CostPerOutputUnit: 400,
		TokenUnit:         1_000_000,
	},
}

// confidenceTable is Anthropic's scoring table for the confidence heuristic.
// The base is higher and the increments smaller than OpenAI's: the baseline
// quality assumption differs per provider.
var confidenceTable = providers.ConfidenceTable{
	Base:            0.70,
	DetailBonus:     0.08,
	DetailThreshold: 12,
	RecommendBonus:  0.07,
	ScoreBonus:      0.05,
	StrategyBonus:   0.05,
}

// Client performs channel analyses against the Anthropic Messages API.
type Client struct {
	cfg         models.ProviderConfig
	store       *prompts.Store
	clientCache *clientcache.Cache[*sdk.Client]
}

// NewClient creates an Anthropic analysis client.
func NewClient(cfg models.ProviderConfig, store *prompts.Store) *Client {
	return &Client{
		cfg:         cfg,
		store:       store,
		clientCache: clientcache.NewCache[*sdk.Client](),
	}
}

// Name implements providers.Client.
func (c *Client) Name() string {
	return models.ProviderAnthropic
}

// ModelConfig implements providers.Client.
func (c *Client) ModelConfig(modelID string) (models.ModelConfig, bool) {
	mc, ok := modelTable[modelID]
	return mc, ok
}

// DefaultModel implements providers.Client.
func (c *Client) DefaultModel(analysisType models.AnalysisType) string {
	if analysisType == models.AnalysisTypeQuickScan {
		return "claude-3-5-haiku-20241022"
	}
	return "claude-sonnet-4-5-20250929"
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
	message, err := client.Messages.New(callCtx, sdk.MessageNewParams{
		Model:     sdk.Model(modelCfg.Model),
		MaxTokens: modelCfg.MaxTokens,
		System: []sdk.TextBlockParam{
			{Text: providers.SystemInstruction},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
		Temperature: sdk.Float(modelCfg.Temperature),
	})
	if err != nil {
		return nil, models.NewProviderHTTPError(c.Name(), err)
	}
	elapsed := time.Since(start)

	text := collectText(message)
	if text == "" {
		return nil, models.NewMalformedResponseError(c.Name(), "message contains no text blocks")
	}

	result, err := providers.DecodeAnalysis(c.Name(), text)
	if err != nil {
		return nil, err
	}

	inputTokens := message.Usage.InputTokens
	outputTokens := message.Usage.OutputTokens

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

	fiberlog.Debugf("anthropic analysis complete - model: %s, tokens: %d, cost: %d cents",
		modelCfg.Model, result.Metadata.TokensUsed, result.Metadata.CostCents)

	return result, nil
}

// collectText concatenates the text blocks of a message, skipping any other
// content block kinds.
func collectText(message *sdk.Message) string {
	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// createClient creates or retrieves a cached Anthropic SDK client for the
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
