// Package analyzer orchestrates channel analyses: it selects a provider per
// request, invokes the provider client, retries once with a caller-supplied
// fallback provider, and records every completed invocation with the cost
// tracker. Its public entry points never return an error; callers always
// receive a tagged success/failure envelope.
package analyzer

import (
	"context"
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/services/costs"
	"github.com/alankar423/CreatorIQ/internal/services/providers"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// providerPriority is the fixed order availability fallback is checked in.
var providerPriority = []string{models.ProviderOpenAI, models.ProviderAnthropic}

// Analyzer routes analysis requests across the configured provider clients.
type Analyzer struct {
	clients map[string]providers.Client
	tracker *costs.Tracker
	batch   models.BatchConfig
}

// New creates an analyzer over the given provider clients. The map may be
// empty; analyses then fail per-request with NO_PROVIDER_AVAILABLE.
func New(clients map[string]providers.Client, tracker *costs.Tracker, batch models.BatchConfig) *Analyzer {
	if clients == nil {
		clients = make(map[string]providers.Client)
	}
	if batch.Concurrency <= 0 {
		batch.Concurrency = 3
	}
	return &Analyzer{
		clients: clients,
		tracker: tracker,
		batch:   batch,
	}
}

// Providers returns the names of the configured provider clients in
// priority order.
func (a *Analyzer) Providers() []string {
	var out []string
	for _, name := range providerPriority {
		if _, ok := a.clients[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// selectProvider resolves the client for one request: an explicit caller
// choice wins, then the per-type preference table, then the first configured
// provider in priority order.
func (a *Analyzer) selectProvider(analysisType models.AnalysisType, explicit string) (providers.Client, error) {
	if explicit != "" {
		if client, ok := a.clients[explicit]; ok {
			return client, nil
		}
		fiberlog.Warnf("requested provider %q is not configured, falling back to defaults", explicit)
	}

	// Preference table: thorough types go to Anthropic, quick scans to the
	// faster and cheaper OpenAI models.
	switch analysisType {
	case models.AnalysisTypeDeepDive, models.AnalysisTypeGrowthStrategy:
		if client, ok := a.clients[models.ProviderAnthropic]; ok {
			return client, nil
		}
	case models.AnalysisTypeQuickScan:
		if client, ok := a.clients[models.ProviderOpenAI]; ok {
			return client, nil
		}
	}

	for _, name := range providerPriority {
		if client, ok := a.clients[name]; ok {
			return client, nil
		}
	}
	return nil, models.NewNoProviderAvailableError()
}

// AnalyzeChannel runs one channel analysis. On provider failure it retries
// exactly once with the caller's fallback provider, if one was given and
// differs from the provider that failed. Every completed provider
// invocation, success or failure, produces exactly one usage record.
func (a *Analyzer) AnalyzeChannel(ctx context.Context, req *models.AnalysisRequest, opts models.AnalyzeOptions) *models.AnalysisResponse {
	requestID := uuid.New().String()
	return a.analyze(ctx, req, opts, requestID, true)
}

func (a *Analyzer) analyze(ctx context.Context, req *models.AnalysisRequest, opts models.AnalyzeOptions, requestID string, allowFallback bool) *models.AnalysisResponse {
	start := time.Now()

	client, err := a.selectProvider(req.AnalysisType, opts.Provider)
	if err != nil {
		// No provider was invoked, so no usage record is written.
		return failureResponse(requestID, "", "", start, err)
	}

	fiberlog.Infof("[%s] analyzing channel %s - type: %s, provider: %s",
		requestID, req.Channel.ChannelID, req.AnalysisType, client.Name())

	result, err := client.AnalyzeChannel(ctx, req, opts.Model)
	elapsed := time.Since(start)

	if err == nil {
		a.tracker.RecordUsage(models.UsageRecord{
			Provider:       client.Name(),
			Model:          result.Metadata.Model,
			AnalysisType:   req.AnalysisType,
			TokensUsed:     result.Metadata.TokensUsed,
			CostCents:      result.Metadata.CostCents,
			ProcessingTime: elapsed.Milliseconds(),
			Success:        true,
		})

		return &models.AnalysisResponse{
			Success: true,
			Data:    result,
			Metadata: models.ResponseMetadata{
				RequestID:      requestID,
				Provider:       client.Name(),
				Model:          result.Metadata.Model,
				ProcessingTime: elapsed.Milliseconds(),
				TokensUsed:     result.Metadata.TokensUsed,
				CostCents:      result.Metadata.CostCents,
			},
		}
	}

	fiberlog.Warnf("[%s] provider %s failed: %v", requestID, client.Name(), err)
	a.tracker.RecordUsage(models.UsageRecord{
		Provider:       client.Name(),
		Model:          opts.Model,
		AnalysisType:   req.AnalysisType,
		ProcessingTime: elapsed.Milliseconds(),
		Success:        false,
		ErrorMessage:   err.Error(),
	})

	if allowFallback && opts.FallbackProvider != "" && opts.FallbackProvider != client.Name() {
		// The retry must run against the named fallback itself; an
		// unconfigured fallback must not fall through selection and land on
		// the provider that just failed.
		if _, ok := a.clients[opts.FallbackProvider]; ok {
			fiberlog.Infof("[%s] retrying with fallback provider %s", requestID, opts.FallbackProvider)
			fallbackOpts := models.AnalyzeOptions{
				Provider: opts.FallbackProvider,
				// The pinned model belongs to the failed provider; the fallback
				// uses its own default for the analysis type.
			}
			return a.analyze(ctx, req, fallbackOpts, requestID, false)
		}
		fiberlog.Warnf("[%s] fallback provider %q is not configured, skipping retry", requestID, opts.FallbackProvider)
	}

	return failureResponse(requestID, client.Name(), opts.Model, start, err)
}

func failureResponse(requestID, provider, model string, start time.Time, err error) *models.AnalysisResponse {
	return &models.AnalysisResponse{
		Success: false,
		Error:   models.SanitizeError(err),
		Metadata: models.ResponseMetadata{
			RequestID:      requestID,
			Provider:       provider,
			Model:          model,
			ProcessingTime: time.Since(start).Milliseconds(),
		},
	}
}
