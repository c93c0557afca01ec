package analyzer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/services/costs"
	"github.com/alankar423/CreatorIQ/internal/services/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is a scriptable providers.Client for orchestration tests.
type fakeClient struct {
	name string
	err  error

	mu    sync.Mutex
	calls []fakeCall
}

type fakeCall struct {
	channelID string
	modelID   string
	at        time.Time
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) AnalyzeChannel(ctx context.Context, req *models.AnalysisRequest, modelID string) (*models.AnalysisResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{channelID: req.Channel.ChannelID, modelID: modelID, at: time.Now()})
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &models.AnalysisResult{
		// echo the channel back so tests can match results to requests
		Strengths: models.AnalysisSection{Summary: req.Channel.ChannelID},
		Scores:    models.AnalysisScores{Overall: 75},
		Metadata: models.AnalysisMetadata{
			Provider:     f.name,
			Model:        "fake-model",
			AnalysisType: req.AnalysisType,
			TokensUsed:   1200,
			CostCents:    3,
		},
	}, nil
}

func (f *fakeClient) ModelConfig(modelID string) (models.ModelConfig, bool) {
	if modelID != "fake-model" {
		return models.ModelConfig{}, false
	}
	return models.ModelConfig{
		Provider:          f.name,
		Model:             "fake-model",
		CostPerInputUnit:  0.25,
		CostPerOutputUnit: 1.0,
		TokenUnit:         1000,
	}, true
}

func (f *fakeClient) DefaultModel(models.AnalysisType) string { return "fake-model" }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) callTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Time, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.at
	}
	return out
}

func newTestAnalyzer(clients ...*fakeClient) (*Analyzer, *costs.Tracker) {
	m := make(map[string]providers.Client, len(clients))
	for _, c := range clients {
		m[c.name] = c
	}
	tracker := costs.NewTracker(100)
	return New(m, tracker, models.BatchConfig{Concurrency: 3}), tracker
}

func quickScanRequest(channelID string) *models.AnalysisRequest {
	return &models.AnalysisRequest{
		Channel:      models.ChannelSnapshot{ChannelID: channelID, Title: "Test Channel"},
		AnalysisType: models.AnalysisTypeQuickScan,
	}
}

func TestSelectProvider(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI}
	anthropic := &fakeClient{name: models.ProviderAnthropic}

	tests := []struct {
		name         string
		clients      []*fakeClient
		analysisType models.AnalysisType
		explicit     string
		want         string
	}{
		{
			name:         "explicit choice wins",
			clients:      []*fakeClient{openai, anthropic},
			analysisType: models.AnalysisTypeQuickScan,
			explicit:     models.ProviderAnthropic,
			want:         models.ProviderAnthropic,
		},
		{
			name:         "deep dive prefers anthropic",
			clients:      []*fakeClient{openai, anthropic},
			analysisType: models.AnalysisTypeDeepDive,
			want:         models.ProviderAnthropic,
		},
		{
			name:         "growth strategy prefers anthropic",
			clients:      []*fakeClient{openai, anthropic},
			analysisType: models.AnalysisTypeGrowthStrategy,
			want:         models.ProviderAnthropic,
		},
		{
			name:         "quick scan prefers openai",
			clients:      []*fakeClient{openai, anthropic},
			analysisType: models.AnalysisTypeQuickScan,
			want:         models.ProviderOpenAI,
		},
		{
			name:         "competitor comparison falls to priority order",
			clients:      []*fakeClient{openai, anthropic},
			analysisType: models.AnalysisTypeCompetitorComparison,
			want:         models.ProviderOpenAI,
		},
		{
			name:         "preferred provider missing uses what is configured",
			clients:      []*fakeClient{openai},
			analysisType: models.AnalysisTypeDeepDive,
			want:         models.ProviderOpenAI,
		},
		{
			name:         "unconfigured explicit choice falls through",
			clients:      []*fakeClient{anthropic},
			analysisType: models.AnalysisTypeQuickScan,
			explicit:     models.ProviderOpenAI,
			want:         models.ProviderAnthropic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAnalyzer(tt.clients...)
			client, err := a.selectProvider(tt.analysisType, tt.explicit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, client.Name())
		})
	}
}

func TestSelectProvider_NoneConfigured(t *testing.T) {
	a, _ := newTestAnalyzer()

	_, err := a.selectProvider(models.AnalysisTypeQuickScan, "")
	require.Error(t, err)
	assert.Equal(t, models.CodeNoProviderAvailable, models.AsAppError(err).Code)
}

func TestAnalyzeChannel_Success(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI}
	a, tracker := newTestAnalyzer(openai)

	resp := a.AnalyzeChannel(context.Background(), quickScanRequest("UC1"), models.AnalyzeOptions{})

	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.NotEmpty(t, resp.Metadata.RequestID)
	assert.Equal(t, models.ProviderOpenAI, resp.Metadata.Provider)
	assert.Equal(t, "fake-model", resp.Metadata.Model)
	assert.Equal(t, int64(3), resp.Metadata.CostCents)

	stats := tracker.UsageStats(models.WindowToday)
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.SuccessRequests)
	assert.Equal(t, int64(3), stats.TotalCostCents)
}

func TestAnalyzeChannel_FailureWithoutFallback(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI, err: models.NewProviderHTTPError(models.ProviderOpenAI, nil)}
	a, tracker := newTestAnalyzer(openai)

	resp := a.AnalyzeChannel(context.Background(), quickScanRequest("UC1"), models.AnalyzeOptions{})

	require.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.CodeProviderHTTPError, resp.Error.Code)
	assert.Equal(t, models.ProviderOpenAI, resp.Metadata.Provider, "failure metadata names the provider that failed")
	assert.Equal(t, 1, openai.callCount())

	// exactly one failed usage record
	stats := tracker.UsageStats(models.WindowToday)
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.FailedRequests)
}

func TestAnalyzeChannel_FallbackRetriesExactlyOnce(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI, err: models.NewProviderHTTPError(models.ProviderOpenAI, nil)}
	anthropic := &fakeClient{name: models.ProviderAnthropic}
	a, tracker := newTestAnalyzer(openai, anthropic)

	resp := a.AnalyzeChannel(context.Background(), quickScanRequest("UC1"), models.AnalyzeOptions{
		Provider:         models.ProviderOpenAI,
		Model:            "pinned-model",
		FallbackProvider: models.ProviderAnthropic,
	})

	require.True(t, resp.Success)
	assert.Equal(t, models.ProviderAnthropic, resp.Metadata.Provider)
	assert.Equal(t, 1, openai.callCount())
	assert.Equal(t, 1, anthropic.callCount())

	// the pinned model belongs to the failed provider and must not carry over
	anthropic.mu.Lock()
	assert.Equal(t, "", anthropic.calls[0].modelID)
	anthropic.mu.Unlock()

	// one failed record for the primary, one success for the fallback
	stats := tracker.UsageStats(models.WindowToday)
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.FailedRequests)
	assert.Equal(t, int64(1), stats.SuccessRequests)
}

func TestAnalyzeChannel_FallbackFailureStops(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI, err: models.NewProviderHTTPError(models.ProviderOpenAI, nil)}
	anthropic := &fakeClient{name: models.ProviderAnthropic, err: models.NewMalformedResponseError(models.ProviderAnthropic, "no JSON object found in output")}
	a, tracker := newTestAnalyzer(openai, anthropic)

	resp := a.AnalyzeChannel(context.Background(), quickScanRequest("UC1"), models.AnalyzeOptions{
		FallbackProvider: models.ProviderAnthropic,
	})

	require.False(t, resp.Success)
	assert.Equal(t, models.CodeMalformedResponse, resp.Error.Code)
	// one attempt each, no second-level fallback
	assert.Equal(t, 1, openai.callCount())
	assert.Equal(t, 1, anthropic.callCount())
	assert.Equal(t, int64(2), tracker.UsageStats(models.WindowToday).FailedRequests)
}

func TestAnalyzeChannel_UnconfiguredFallbackSkipsRetry(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI, err: models.NewProviderHTTPError(models.ProviderOpenAI, nil)}
	a, tracker := newTestAnalyzer(openai)

	resp := a.AnalyzeChannel(context.Background(), quickScanRequest("UC1"), models.AnalyzeOptions{
		FallbackProvider: models.ProviderAnthropic,
	})

	require.False(t, resp.Success)
	assert.Equal(t, models.CodeProviderHTTPError, resp.Error.Code)
	assert.Equal(t, models.ProviderOpenAI, resp.Metadata.Provider)

	// the failed provider must not be invoked a second time in place of the
	// missing fallback
	assert.Equal(t, 1, openai.callCount())
	stats := tracker.UsageStats(models.WindowToday)
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.FailedRequests)
}

func TestAnalyzeChannel_FallbackSameProviderSkipped(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI, err: models.NewProviderHTTPError(models.ProviderOpenAI, nil)}
	a, _ := newTestAnalyzer(openai)

	resp := a.AnalyzeChannel(context.Background(), quickScanRequest("UC1"), models.AnalyzeOptions{
		FallbackProvider: models.ProviderOpenAI,
	})

	require.False(t, resp.Success)
	assert.Equal(t, 1, openai.callCount())
}

func TestAnalyzeChannel_NoProviderWritesNoRecord(t *testing.T) {
	a, tracker := newTestAnalyzer()

	resp := a.AnalyzeChannel(context.Background(), quickScanRequest("UC1"), models.AnalyzeOptions{})

	require.False(t, resp.Success)
	assert.Equal(t, models.CodeNoProviderAvailable, resp.Error.Code)
	assert.Zero(t, tracker.Len())
}

func TestAnalyzeMultipleChannels_OrderAndGrouping(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI}
	a, tracker := newTestAnalyzer(openai)

	reqs := make([]models.AnalysisRequest, 7)
	for i := range reqs {
		reqs[i] = *quickScanRequest("UC" + string(rune('A'+i)))
	}

	const delayMs = 120
	started := time.Now()
	results := a.AnalyzeMultipleChannels(context.Background(), reqs, models.BatchOptions{
		Concurrency: 3,
		DelayMs:     delayMs,
	})

	require.Len(t, results, 7)
	for i, resp := range results {
		require.True(t, resp.Success, "request %d", i)
		assert.Equal(t, "UC"+string(rune('A'+i)), resp.Data.Strengths.Summary, "result %d out of order", i)
	}

	// 7 requests at concurrency 3 means 3 groups; with a delay only between
	// groups the run takes at least 2 full delays
	assert.GreaterOrEqual(t, time.Since(started), 2*delayMs*time.Millisecond)
	assert.Equal(t, 7, openai.callCount())
	assert.Equal(t, int64(7), tracker.UsageStats(models.WindowToday).TotalRequests)

	// call timestamps cluster into 3 groups separated by the delay
	times := openai.callTimes()
	var gaps int
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) >= delayMs*time.Millisecond/2 {
			gaps++
		}
	}
	assert.Equal(t, 2, gaps)
}

func TestAnalyzeMultipleChannels_Empty(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI}
	a, _ := newTestAnalyzer(openai)

	results := a.AnalyzeMultipleChannels(context.Background(), nil, models.BatchOptions{})
	assert.Empty(t, results)
	assert.Zero(t, openai.callCount())
}

func TestAnalyzeMultipleChannels_CancelledContext(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI}
	a, _ := newTestAnalyzer(openai)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	reqs := make([]models.AnalysisRequest, 6)
	for i := range reqs {
		reqs[i] = *quickScanRequest("UC1")
	}

	results := a.AnalyzeMultipleChannels(ctx, reqs, models.BatchOptions{Concurrency: 3, DelayMs: 500})

	require.Len(t, results, 6)
	// first group completed before cancellation, the rest were marked failed
	for i := 0; i < 3; i++ {
		assert.True(t, results[i].Success, "request %d", i)
	}
	for i := 3; i < 6; i++ {
		require.False(t, results[i].Success, "request %d", i)
		assert.Equal(t, models.ErrorTypeTimeout, results[i].Error.Type)
		assert.NotEmpty(t, results[i].Metadata.RequestID, "request %d", i)
	}
}

func TestEstimateCost(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI}
	a, _ := newTestAnalyzer(openai)

	req := quickScanRequest("UC1")
	req.Channel.Description = "A channel about Go programming and tooling."

	est, err := a.EstimateCost(req, "", "")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderOpenAI, est.Provider)
	assert.Equal(t, "fake-model", est.Model)
	assert.Positive(t, est.EstimatedInputTokens)
	assert.Equal(t, int64(500), est.EstimatedOutputTokens)
	assert.Positive(t, est.EstimatedCostCents)
	assert.False(t, est.EstimatedAt.IsZero())
}

func TestEstimateCost_Errors(t *testing.T) {
	openai := &fakeClient{name: models.ProviderOpenAI}
	a, _ := newTestAnalyzer(openai)

	badType := quickScanRequest("UC1")
	badType.AnalysisType = "sentiment"
	_, err := a.EstimateCost(badType, "", "")
	require.Error(t, err)
	assert.Equal(t, models.CodeUnknownAnalysisType, models.AsAppError(err).Code)

	_, err = a.EstimateCost(quickScanRequest("UC1"), "", "no-such-model")
	require.Error(t, err)
	assert.Equal(t, models.CodeUnsupportedModel, models.AsAppError(err).Code)

	empty, _ := newTestAnalyzer()
	_, err = empty.EstimateCost(quickScanRequest("UC1"), "", "")
	require.Error(t, err)
	assert.Equal(t, models.CodeNoProviderAvailable, models.AsAppError(err).Code)
}
