// Package prompts holds the versioned prompt templates for each analysis
// type and the renderer that expands them against a typed variable mapping.
package prompts

import (
	"github.com/alankar423/CreatorIQ/internal/models"
)

// Store resolves analysis types to their prompt templates. Templates are
// fixed at construction and read-only afterwards.
type Store struct {
	templates map[models.AnalysisType]*models.PromptTemplate
}

// NewStore creates a store preloaded with the built-in template set.
func NewStore() *Store {
	s := &Store{templates: make(map[models.AnalysisType]*models.PromptTemplate)}
	for _, t := range builtinTemplates() {
		s.templates[t.AnalysisType] = t
	}
	return s
}

// Get returns the template for the given analysis type, or an
// UNKNOWN_ANALYSIS_TYPE error for anything outside the four supported kinds.
func (s *Store) Get(analysisType models.AnalysisType) (*models.PromptTemplate, error) {
	t, ok := s.templates[analysisType]
	if !ok {
		return nil, models.NewUnknownAnalysisTypeError(analysisType)
	}
	return t, nil
}

const channelContext = `Channel: {{channel_title}}
Description: {{channel_description}}
Subscribers: {{subscriber_count}}
Videos: {{video_count}}
Total views: {{view_count}}
{{#if content_type}}Content type: {{content_type}}
{{/if}}{{#if topics}}Topics: {{topics}}
{{/if}}{{#if recent_videos}}Recent uploads:
{{#each recent_videos}}- "{{title}}" ({{views}} views, {{likes}} likes, {{comments}} comments)
{{/each}}{{/if}}`

func builtinTemplates() []*models.PromptTemplate {
	commonVars := []string{
		"channel_title", "channel_description", "subscriber_count",
		"video_count", "view_count", "content_type", "topics",
		"recent_videos", "focus_areas",
	}

	return []*models.PromptTemplate{
		{
			ID:           "quick-scan",
			Name:         "Quick Scan",
			Version:      "1.2.0",
			AnalysisType: models.AnalysisTypeQuickScan,
			Text: `You are a YouTube channel analyst. Give a fast first-pass assessment of the channel below.

` + channelContext + `

{{#if focus_areas}}Focus especially on: {{focus_areas}}
{{/if}}Return a JSON object with keys "strengths", "weaknesses", "opportunities" (each with "summary", "details" array, "score" 0-100) and "scores" with "overall", "content", "engagement", "consistency" (0-100). Keep details to 3 items per section.`,
			Variables:       commonVars,
			EstimatedTokens: 350,
		},
		{
			ID:           "deep-dive",
			Name:         "Deep Dive",
			Version:      "1.4.1",
			AnalysisType: models.AnalysisTypeDeepDive,
			Text: `You are a senior YouTube growth consultant. Produce an exhaustive analysis of the channel below.

` + channelContext + `

{{#if focus_areas}}Weight your analysis toward: {{focus_areas}}
{{/if}}Return a JSON object with keys "strengths", "weaknesses", "opportunities" (each with "summary", a "details" array of at least 5 items, "score" 0-100), "content_strategy" with "summary", "recommendations" array and "posting_schedule", and "scores" with "overall", "content", "engagement", "consistency" (0-100).`,
			Variables:       commonVars,
			EstimatedTokens: 520,
		},
		{
			ID:           "competitor-comparison",
			Name:         "Competitor Comparison",
			Version:      "1.1.0",
			AnalysisType: models.AnalysisTypeCompetitorComparison,
			Text: `You are a YouTube market analyst. Position the channel below against comparable channels in its niche.

` + channelContext + `

{{#if focus_areas}}Compare specifically on: {{focus_areas}}
{{/if}}Return a JSON object with keys "strengths", "weaknesses", "opportunities" (each with "summary", "details" array, "score" 0-100), a "competitors" array of objects with "name", "subscribers", "key_difference" and a "tactics" array, and "scores" with "overall", "content", "engagement", "consistency" (0-100).`,
			Variables:       commonVars,
			EstimatedTokens: 460,
		},
		{
			ID:           "growth-strategy",
			Name:         "Growth Strategy",
			Version:      "1.3.0",
			AnalysisType: models.AnalysisTypeGrowthStrategy,
			Text: `You are a YouTube growth strategist. Design a concrete growth plan for the channel below.

` + channelContext + `

{{#if focus_areas}}Prioritise growth in: {{focus_areas}}
{{/if}}Return a JSON object with keys "strengths", "weaknesses", "opportunities" (each with "summary", "details" array, "score" 0-100), "content_strategy" with "summary", a "recommendations" array of at least 5 actionable items and "posting_schedule", and "scores" with "overall", "content", "engagement", "consistency" (0-100).`,
			Variables:       commonVars,
			EstimatedTokens: 480,
		},
	}
}
