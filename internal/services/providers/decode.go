package providers

import (
	"encoding/json"
	"strings"

	"github.com/alankar423/CreatorIQ/internal/models"
	"github.com/alankar423/CreatorIQ/internal/utils"
)

// ExtractJSONObject returns the first balanced {...} block in text. Models
// sometimes wrap their JSON answer in prose or markdown fences; anything
// around the object is discarded. The second return is false when no
// balanced object exists.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// requiredSections are the top-level keys every provider answer must carry.
// Everything below them is coerced with defaults; only their presence is a
// hard requirement.
var requiredSections = []string{"strengths", "weaknesses", "opportunities", "scores"}

// DecodeAnalysis parses provider output text into an AnalysisResult.
//
// This is a parse-with-defaults decoder: every leaf field is coerced
// explicitly (missing string -> "", missing array -> empty, out-of-range or
// non-numeric score -> clamped/zero), so a partially garbled answer still
// yields a structurally valid result. It fails only when no JSON object can
// be found or a required section is missing.
func DecodeAnalysis(provider, text string) (*models.AnalysisResult, error) {
	raw, ok := ExtractJSONObject(text)
	if !ok {
		return nil, models.NewMalformedResponseError(provider, "no JSON object found in output")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, models.NewMalformedResponseError(provider, "output is not valid JSON")
	}

	for _, key := range requiredSections {
		if _, ok := payload[key]; !ok {
			return nil, models.NewMalformedResponseError(provider, "missing required section "+key)
		}
	}

	result := &models.AnalysisResult{
		Strengths:     decodeSection(payload["strengths"]),
		Weaknesses:    decodeSection(payload["weaknesses"]),
		Opportunities: decodeSection(payload["opportunities"]),
		Scores:        decodeScores(payload["scores"]),
	}

	if raw, ok := payload["competitors"].([]any); ok {
		result.Competitors = decodeCompetitors(raw)
	}
	if raw, ok := payload["content_strategy"].(map[string]any); ok {
		result.ContentStrategy = decodeStrategy(raw)
	}

	return result, nil
}

func decodeSection(v any) models.AnalysisSection {
	m, _ := v.(map[string]any)
	return models.AnalysisSection{
		Summary: coerceString(m["summary"]),
		Details: coerceStringSlice(m["details"]),
		Score:   coerceScore(m["score"]),
	}
}

func decodeScores(v any) models.AnalysisScores {
	m, _ := v.(map[string]any)
	return models.AnalysisScores{
		Overall:     coerceScore(m["overall"]),
		Content:     coerceScore(m["content"]),
		Engagement:  coerceScore(m["engagement"]),
		Consistency: coerceScore(m["consistency"]),
	}
}

func decodeCompetitors(raw []any) []models.CompetitorInsight {
	out := make([]models.CompetitorInsight, 0, len(raw))
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.CompetitorInsight{
			Name:          coerceString(m["name"]),
			Subscribers:   coerceString(m["subscribers"]),
			KeyDifference: coerceString(m["key_difference"]),
			Tactics:       coerceStringSlice(m["tactics"]),
		})
	}
	return out
}

func decodeStrategy(m map[string]any) *models.ContentStrategy {
	return &models.ContentStrategy{
		Summary:         coerceString(m["summary"]),
		Recommendations: coerceStringSlice(m["recommendations"]),
		PostingSchedule: coerceString(m["posting_schedule"]),
	}
}

// coerceString defaults anything but a string to "".
func coerceString(v any) string {
	s, _ := v.(string)
	return s
}

// coerceStringSlice keeps string elements and drops the rest, defaulting to
// an empty slice.
func coerceStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// coerceScore coerces a JSON value to an integer clamped to [0,100].
// Non-numeric values (including numeric-looking strings) become 0.
func coerceScore(v any) int {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return utils.ClampInt(int(f+0.5), 0, 100)
}
