package analyzer

import (
	"time"

	"github.com/alankar423/CreatorIQ/internal/models"
)

// Token estimation constants. Input tokens are approximated at one token per
// four characters of free text, plus flat allowances for the structured
// parts of the prompt.
const (
	baseInputAllowance = 200 // template scaffolding and instructions
	metadataAllowance  = 50  // numeric channel metrics
	perVideoAllowance  = 30  // one recent-video line
	charsPerToken      = 4
)

// typeAllowance holds the per-analysis-type additive input constant and the
// fixed output token estimate.
type typeAllowance struct {
	input  int64
	output int64
}

var typeAllowances = map[models.AnalysisType]typeAllowance{
	models.AnalysisTypeQuickScan:            {input: 100, output: 500},
	models.AnalysisTypeDeepDive:             {input: 400, output: 1500},
	models.AnalysisTypeCompetitorComparison: {input: 300, output: 1200},
	models.AnalysisTypeGrowthStrategy:       {input: 350, output: 1400},
}

// EstimateCost computes the advisory cost preview for one request. The
// estimate is not enforced as a budget gate before invocation; its only
// consumer is the cost-preview endpoint.
func (a *Analyzer) EstimateCost(req *models.AnalysisRequest, provider, model string) (*models.CostEstimate, error) {
	if !req.AnalysisType.Valid() {
		return nil, models.NewUnknownAnalysisTypeError(req.AnalysisType)
	}

	client, err := a.selectProvider(req.AnalysisType, provider)
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = client.DefaultModel(req.AnalysisType)
	}
	modelCfg, ok := client.ModelConfig(model)
	if !ok {
		return nil, models.NewUnsupportedModelError(client.Name(), model)
	}

	allowance := typeAllowances[req.AnalysisType]

	textChars := len(req.Channel.Title) + len(req.Channel.Description)
	inputTokens := int64(baseInputAllowance) +
		int64((textChars+charsPerToken-1)/charsPerToken) +
		int64(metadataAllowance) +
		int64(len(req.Channel.RecentVideos)*perVideoAllowance) +
		allowance.input
	outputTokens := allowance.output

	return &models.CostEstimate{
		Provider:              client.Name(),
		Model:                 modelCfg.Model,
		AnalysisType:          req.AnalysisType,
		EstimatedInputTokens:  inputTokens,
		EstimatedOutputTokens: outputTokens,
		EstimatedCostCents:    modelCfg.CostCents(inputTokens, outputTokens),
		EstimatedAt:           time.Now(),
	}, nil
}
