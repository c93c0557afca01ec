package api

import (
	"strconv"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/services/costs"

	"github.com/gofiber/fiber/v2"
)

// UsageHandler serves the usage and budget query endpoints.
type UsageHandler struct {
	tracker         *costs.Tracker
	dailyCapCents   int64
	monthlyCapCents int64
}

// NewUsageHandler creates the usage handler with the configured budget caps.
func NewUsageHandler(tracker *costs.Tracker, cfg models.CostTrackerConfig) *UsageHandler {
	return &UsageHandler{
		tracker:         tracker,
		dailyCapCents:   cfg.DailyCapCents,
		monthlyCapCents: cfg.MonthlyCapCents,
	}
}

// GetUsageStats handles GET /api/v1/usage/stats.
func (h *UsageHandler) GetUsageStats(c *fiber.Ctx) error {
	window := models.TimeWindow(c.Query("window", string(models.WindowToday)))
	if !window.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "window must be one of: today, week, month",
		})
	}
	return c.JSON(h.tracker.UsageStats(window))
}

// GetCostBreakdown handles GET /api/v1/usage/breakdown.
func (h *UsageHandler) GetCostBreakdown(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days <= 0 || days > 365 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days must be between 1 and 365",
		})
	}
	return c.JSON(fiber.Map{"days": h.tracker.CostBreakdown(days)})
}

// GetBudgetStatus handles GET /api/v1/usage/budget.
func (h *UsageHandler) GetBudgetStatus(c *fiber.Ctx) error {
	return c.JSON(h.tracker.CheckBudgetLimits(h.dailyCapCents, h.monthlyCapCents))
}

// GetProviderComparison handles GET /api/v1/usage/providers.
func (h *UsageHandler) GetProviderComparison(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"providers": h.tracker.ProviderComparison()})
}
