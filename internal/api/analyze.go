package api

import (
	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/services/analyzer"

	"github.com/gofiber/fiber/v2"
)

// maxBatchSize bounds one batch call; larger jobs should be split by the
// caller.
const maxBatchSize = 50

// AnalyzeHandler serves the analysis endpoints.
type AnalyzeHandler struct {
	analyzer *analyzer.Analyzer
}

// NewAnalyzeHandler creates the analysis handler.
func NewAnalyzeHandler(a *analyzer.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: a}
}

type analyzeRequest struct {
	Channel      models.ChannelSnapshot `json:"channel"`
	AnalysisType models.AnalysisType    `json:"analysis_type"`
	Options      models.AnalysisOptions `json:"options,omitzero"`
	Analyze      models.AnalyzeOptions  `json:"analyze_options,omitzero"`
}

// Analyze handles POST /api/v1/analyze.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !req.AnalysisType.Valid() {
		appErr := models.NewUnknownAnalysisTypeError(req.AnalysisType)
		return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
	}
	if req.Channel.ChannelID == "" {
		appErr := models.NewValidationError("channel.channel_id is required", nil)
		return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
	}

	analysisReq := models.AnalysisRequest{
		Channel:      req.Channel,
		AnalysisType: req.AnalysisType,
		Options:      req.Options,
	}
	resp := h.analyzer.AnalyzeChannel(c.UserContext(), &analysisReq, req.Analyze)

	status := fiber.StatusOK
	if !resp.Success {
		status = resp.Error.GetStatusCode()
	}
	return c.Status(status).JSON(resp)
}

type batchRequest struct {
	Requests []models.AnalysisRequest `json:"requests"`
	Options  models.BatchOptions      `json:"options,omitzero"`
}

// AnalyzeBatch handles POST /api/v1/analyze/batch.
func (h *AnalyzeHandler) AnalyzeBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Requests) == 0 {
		appErr := models.NewValidationError("requests cannot be empty", nil)
		return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
	}
	if len(req.Requests) > maxBatchSize {
		appErr := models.NewValidationError("too many requests in one batch", nil)
		return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
	}
	for _, r := range req.Requests {
		if !r.AnalysisType.Valid() {
			appErr := models.NewUnknownAnalysisTypeError(r.AnalysisType)
			return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
		}
	}

	results := h.analyzer.AnalyzeMultipleChannels(c.UserContext(), req.Requests, req.Options)
	return c.JSON(fiber.Map{"results": results})
}

type estimateRequest struct {
	Channel      models.ChannelSnapshot `json:"channel"`
	AnalysisType models.AnalysisType    `json:"analysis_type"`
	Provider     string                 `json:"provider,omitzero"`
	Model        string                 `json:"model,omitzero"`
}

// EstimateCost handles POST /api/v1/analyze/estimate.
func (h *AnalyzeHandler) EstimateCost(c *fiber.Ctx) error {
	var req estimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	analysisReq := models.AnalysisRequest{
		Channel:      req.Channel,
		AnalysisType: req.AnalysisType,
	}
	estimate, err := h.analyzer.EstimateCost(&analysisReq, req.Provider, req.Model)
	if err != nil {
		appErr := models.SanitizeError(err)
		return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
	}
	return c.JSON(estimate)
}
