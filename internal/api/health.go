package api

import (
	"time"

	"github.com/alankar423/CreatorIQ/internal/services/analyzer"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	analyzer *analyzer.Analyzer
	started  time.Time
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(a *analyzer.Analyzer) *HealthHandler {
	return &HealthHandler{
		analyzer: a,
		started:  time.Now(),
	}
}

// HealthCheck returns the health status of the service and the configured
// providers. The service is degraded, not down, with zero providers: usage
// endpoints keep serving.
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	providers := h.analyzer.Providers()

	status := "healthy"
	if len(providers) == 0 {
		status = "degraded"
	}

	return c.JSON(fiber.Map{
		"status":         status,
		"providers":      providers,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
