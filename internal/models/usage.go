package models

import "time"

// TimeWindow selects the aggregation window for usage stats.
type TimeWindow string

const (
	WindowToday TimeWindow = "today"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
)

// Valid reports whether w is a recognised stats window.
func (w TimeWindow) Valid() bool {
	switch w {
	case WindowToday, WindowWeek, WindowMonth:
		return true
	}
	return false
}

// UsageRecord is one logged outcome of a single provider invocation.
// Records are append-only and owned exclusively by the cost tracker.
type UsageRecord struct {
	Provider       string       `json:"provider"`
	Model          string       `json:"model"`
	AnalysisType   AnalysisType `json:"analysis_type"`
	TokensUsed     int64        `json:"tokens_used"`
	CostCents      int64        `json:"cost_cents"`
	ProcessingTime int64        `json:"processing_time_ms"`
	Success        bool         `json:"success"`
	ErrorMessage   string       `json:"error_message,omitzero"`
	Timestamp      time.Time    `json:"timestamp"`
}

// UsageStats aggregates the records of one time window.
type UsageStats struct {
	Window            TimeWindow             `json:"window"`
	TotalRequests     int64                  `json:"total_requests"`
	SuccessRequests   int64                  `json:"success_requests"`
	FailedRequests    int64                  `json:"failed_requests"`
	TotalCostCents    int64                  `json:"total_cost_cents"`
	TotalTokens       int64                  `json:"total_tokens"`
	AvgProcessingTime int64                  `json:"avg_processing_time_ms"`
	CostByProvider    map[string]int64       `json:"cost_by_provider"`
	CostByType        map[AnalysisType]int64 `json:"cost_by_analysis_type"`
}

// DailyCost is one calendar day of accumulated spend.
type DailyCost struct {
	Date      string `json:"date"` // ISO date, e.g. 2026-09-01
	CostCents int64  `json:"cost_cents"`
	Requests  int64  `json:"requests"`
}

// BudgetStatus reports today's and this month's spend against caps.
type BudgetStatus struct {
	DailyCostCents     int64 `json:"daily_cost_cents"`
	DailyCapCents      int64 `json:"daily_cap_cents"`
	DailyWithinLimit   bool  `json:"daily_within_limit"`
	MonthlyCostCents   int64 `json:"monthly_cost_cents"`
	MonthlyCapCents    int64 `json:"monthly_cap_cents"`
	MonthlyWithinLimit bool  `json:"monthly_within_limit"`
	ProjectedMonthly   int64 `json:"projected_monthly_cents"`
}

// ProviderStats compares one provider across the whole retained history.
type ProviderStats struct {
	Provider          string  `json:"provider"`
	TotalRequests     int64   `json:"total_requests"`
	AvgCostCents      float64 `json:"avg_cost_cents"`
	AvgProcessingTime float64 `json:"avg_processing_time_ms"`
	SuccessRatePct    float64 `json:"success_rate_pct"`
}
