package models

import "time"

// AnalysisType identifies one of the four supported channel analysis kinds.
type AnalysisType string

const (
	AnalysisTypeQuickScan            AnalysisType = "quick_scan"
	AnalysisTypeDeepDive             AnalysisType = "deep_dive"
	AnalysisTypeCompetitorComparison AnalysisType = "competitor_comparison"
	AnalysisTypeGrowthStrategy       AnalysisType = "growth_strategy"
)

// AllAnalysisTypes lists every supported analysis type in a fixed order.
var AllAnalysisTypes = []AnalysisType{
	AnalysisTypeQuickScan,
	AnalysisTypeDeepDive,
	AnalysisTypeCompetitorComparison,
	AnalysisTypeGrowthStrategy,
}

// Valid reports whether t is one of the four supported analysis types.
func (t AnalysisType) Valid() bool {
	switch t {
	case AnalysisTypeQuickScan, AnalysisTypeDeepDive, AnalysisTypeCompetitorComparison, AnalysisTypeGrowthStrategy:
		return true
	}
	return false
}

// RecentVideo is a single entry of a channel's recent-uploads sample.
type RecentVideo struct {
	Title        string `json:"title"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
	PublishedAt  string `json:"published_at,omitzero"`
	DurationSecs int    `json:"duration_secs,omitzero"`
}

// ChannelSnapshot is the immutable channel state an analysis is computed over.
type ChannelSnapshot struct {
	ChannelID       string        `json:"channel_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	SubscriberCount int64         `json:"subscriber_count"`
	VideoCount      int64         `json:"video_count"`
	ViewCount       int64         `json:"view_count"`
	ContentType     string        `json:"content_type,omitzero"`
	Topics          []string      `json:"topics,omitzero"`
	RecentVideos    []RecentVideo `json:"recent_videos,omitzero"`
}

// AnalysisOptions carries caller flags that shape the generated analysis.
type AnalysisOptions struct {
	IncludeCompetitors    bool     `json:"include_competitors,omitzero"`
	IncludeGrowthStrategy bool     `json:"include_growth_strategy,omitzero"`
	FocusAreas            []string `json:"focus_areas,omitzero"`
}

// AnalysisRequest is the immutable input value for one channel analysis.
type AnalysisRequest struct {
	Channel      ChannelSnapshot `json:"channel"`
	AnalysisType AnalysisType    `json:"analysis_type"`
	Options      AnalysisOptions `json:"options,omitzero"`
}

// AnalysisSection is one assessed dimension (summary, detail items, score).
type AnalysisSection struct {
	Summary string   `json:"summary"`
	Details []string `json:"details"`
	Score   int      `json:"score"`
}

// CompetitorInsight describes one comparable channel surfaced by the model.
type CompetitorInsight struct {
	Name          string   `json:"name"`
	Subscribers   string   `json:"subscribers"`
	KeyDifference string   `json:"key_difference"`
	Tactics       []string `json:"tactics"`
}

// ContentStrategy is the model's recommended content plan.
type ContentStrategy struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	PostingSchedule string   `json:"posting_schedule,omitzero"`
}

// AnalysisScores holds the four 0-100 aggregate scores of a result.
type AnalysisScores struct {
	Overall     int `json:"overall"`
	Content     int `json:"content"`
	Engagement  int `json:"engagement"`
	Consistency int `json:"consistency"`
}

// AnalysisMetadata describes how a result was produced.
type AnalysisMetadata struct {
	Provider       string       `json:"provider"`
	Model          string       `json:"model"`
	PromptVersion  string       `json:"prompt_version"`
	AnalysisType   AnalysisType `json:"analysis_type"`
	ProcessingTime int64        `json:"processing_time_ms"`
	Confidence     float64      `json:"confidence"`
	CostCents      int64        `json:"cost_cents"`
	TokensUsed     int64        `json:"tokens_used"`
}

// AnalysisResult is the typed outcome of one provider invocation.
// Produced once per request and never mutated afterwards.
type AnalysisResult struct {
	Strengths       AnalysisSection     `json:"strengths"`
	Weaknesses      AnalysisSection     `json:"weaknesses"`
	Opportunities   AnalysisSection     `json:"opportunities"`
	Competitors     []CompetitorInsight `json:"competitors,omitzero"`
	ContentStrategy *ContentStrategy    `json:"content_strategy,omitzero"`
	Scores          AnalysisScores      `json:"scores"`
	Metadata        AnalysisMetadata    `json:"metadata"`
}

// AnalyzeOptions are per-call orchestration knobs for a single analysis.
type AnalyzeOptions struct {
	Provider         string `json:"provider,omitzero"`
	Model            string `json:"model,omitzero"`
	FallbackProvider string `json:"fallback_provider,omitzero"`
}

// BatchOptions control grouped batch analysis.
type BatchOptions struct {
	Provider    string `json:"provider,omitzero"`
	Concurrency int    `json:"concurrency,omitzero"`
	DelayMs     int    `json:"delay_ms,omitzero"`
}

// ResponseMetadata is attached to every analysis response envelope.
type ResponseMetadata struct {
	RequestID      string `json:"request_id"`
	Provider       string `json:"provider,omitzero"`
	Model          string `json:"model,omitzero"`
	ProcessingTime int64  `json:"processing_time_ms"`
	TokensUsed     int64  `json:"tokens_used"`
	CostCents      int64  `json:"cost_cents"`
}

// AnalysisResponse is the tagged success/failure envelope returned by the
// analyzer. The analyzer never raises past its own boundary; callers always
// receive one of these.
type AnalysisResponse struct {
	Success  bool             `json:"success"`
	Data     *AnalysisResult  `json:"data,omitzero"`
	Error    *AppError        `json:"error,omitzero"`
	Metadata ResponseMetadata `json:"metadata"`
}

// CostEstimate is the advisory pre-call cost preview for one request.
type CostEstimate struct {
	Provider              string       `json:"provider"`
	Model                 string       `json:"model"`
	AnalysisType          AnalysisType `json:"analysis_type"`
	EstimatedInputTokens  int64        `json:"estimated_input_tokens"`
	EstimatedOutputTokens int64        `json:"estimated_output_tokens"`
	EstimatedCostCents    int64        `json:"estimated_cost_cents"`
	EstimatedAt           time.Time    `json:"estimated_at"`
}
