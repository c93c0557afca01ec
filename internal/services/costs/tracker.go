// Package costs tracks provider usage and spend in memory. History is
// process-lifetime only: a restart loses all records, and the retained set
// is capped with FIFO eviction.
package costs

import (
	"sync"
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"
)

// DefaultMaxRecords caps the retained usage history.
const DefaultMaxRecords = 10000

// Tracker is an injectable, concurrency-safe usage ledger. Construct one per
// process at the composition root; there is no package-level singleton.
type Tracker struct {
	mu         sync.RWMutex
	records    []models.UsageRecord
	maxRecords int
	now        func() time.Time
}

// NewTracker creates a tracker retaining at most maxRecords entries.
// Non-positive values fall back to DefaultMaxRecords.
func NewTracker(maxRecords int) *Tracker {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Tracker{
		maxRecords: maxRecords,
		now:        time.Now,
	}
}

// RecordUsage appends a usage record, stamping it with the current time when
// the caller left Timestamp zero. Exactly one record is written per
// completed provider invocation, success or failure. Once the history
// exceeds the cap, the oldest entries are discarded.
func (t *Tracker) RecordUsage(rec models.UsageRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = t.now()
	}
	t.records = append(t.records, rec)
	if overflow := len(t.records) - t.maxRecords; overflow > 0 {
		t.records = append(t.records[:0:0], t.records[overflow:]...)
	}
}

// Len returns the number of retained records.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// windowCutoff maps a stats window to its inclusive lower bound.
func (t *Tracker) windowCutoff(window models.TimeWindow, now time.Time) time.Time {
	switch window {
	case models.WindowToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case models.WindowWeek:
		return now.AddDate(0, 0, -7)
	default: // month
		return now.AddDate(0, -1, 0)
	}
}

// UsageStats aggregates the records whose timestamp is at or after the
// window cutoff. An empty history yields all-zero aggregates, not an error.
func (t *Tracker) UsageStats(window models.TimeWindow) models.UsageStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	cutoff := t.windowCutoff(window, now)

	stats := models.UsageStats{
		Window:         window,
		CostByProvider: make(map[string]int64),
		CostByType:     make(map[models.AnalysisType]int64),
	}

	var totalTime int64
	for _, rec := range t.records {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		stats.TotalRequests++
		if rec.Success {
			stats.SuccessRequests++
		} else {
			stats.FailedRequests++
		}
		stats.TotalCostCents += rec.CostCents
		stats.TotalTokens += rec.TokensUsed
		totalTime += rec.ProcessingTime
		stats.CostByProvider[rec.Provider] += rec.CostCents
		stats.CostByType[rec.AnalysisType] += rec.CostCents
	}

	if stats.TotalRequests > 0 {
		// integer mean, rounded
		stats.AvgProcessingTime = (totalTime + stats.TotalRequests/2) / stats.TotalRequests
	}
	return stats
}

// CostBreakdown returns one entry per calendar day for the trailing days,
// including zero-activity days, sorted ascending by ISO date.
func (t *Tracker) CostBreakdown(days int) []models.DailyCost {
	if days <= 0 {
		return []models.DailyCost{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	byDate := make(map[string]*models.DailyCost, days)
	out := make([]models.DailyCost, 0, days)

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, models.DailyCost{Date: date})
		byDate[date] = &out[len(out)-1]
	}

	for _, rec := range t.records {
		day, ok := byDate[rec.Timestamp.Format("2006-01-02")]
		if !ok {
			continue
		}
		day.CostCents += rec.CostCents
		day.Requests++
	}
	return out
}

// EstimateMonthlyBudget projects a 30-day cost from the average daily cost
// over the trailing recentDays.
func (t *Tracker) EstimateMonthlyBudget(recentDays int) int64 {
	if recentDays <= 0 {
		return 0
	}

	var total int64
	for _, day := range t.CostBreakdown(recentDays) {
		total += day.CostCents
	}
	avgDaily := float64(total) / float64(recentDays)
	return int64(avgDaily*30 + 0.5)
}

// CheckBudgetLimits reports whether today's and this month's accumulated
// cost are within the given caps. A non-positive cap disables that check.
func (t *Tracker) CheckBudgetLimits(dailyCapCents, monthlyCapCents int64) models.BudgetStatus {
	daily := t.UsageStats(models.WindowToday).TotalCostCents
	monthly := t.UsageStats(models.WindowMonth).TotalCostCents

	return models.BudgetStatus{
		DailyCostCents:     daily,
		DailyCapCents:      dailyCapCents,
		DailyWithinLimit:   dailyCapCents <= 0 || daily <= dailyCapCents,
		MonthlyCostCents:   monthly,
		MonthlyCapCents:    monthlyCapCents,
		MonthlyWithinLimit: monthlyCapCents <= 0 || monthly <= monthlyCapCents,
		ProjectedMonthly:   t.EstimateMonthlyBudget(7),
	}
}

// ProviderComparison aggregates per-provider averages across the entire
// retained history, not a window.
func (t *Tracker) ProviderComparison() []models.ProviderStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	type acc struct {
		requests  int64
		successes int64
		cost      int64
		timeMs    int64
	}
	byProvider := make(map[string]*acc)
	var order []string

	for _, rec := range t.records {
		a, ok := byProvider[rec.Provider]
		if !ok {
			a = &acc{}
			byProvider[rec.Provider] = a
			order = append(order, rec.Provider)
		}
		a.requests++
		if rec.Success {
			a.successes++
		}
		a.cost += rec.CostCents
		a.timeMs += rec.ProcessingTime
	}

	out := make([]models.ProviderStats, 0, len(order))
	for _, provider := range order {
		a := byProvider[provider]
		out = append(out, models.ProviderStats{
			Provider:          provider,
			TotalRequests:     a.requests,
			AvgCostCents:      float64(a.cost) / float64(a.requests),
			AvgProcessingTime: float64(a.timeMs) / float64(a.requests),
			SuccessRatePct:    float64(a.successes) / float64(a.requests) * 100,
		})
	}
	return out
}
