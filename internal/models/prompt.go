package models

// PromptTemplate is a versioned prompt for one analysis type. Templates are
// static and read-only at runtime.
//
// Template text supports three placeholder forms, expanded in this order:
//
//	{{name}}             literal substitution
//	{{#if name}}...{{/if}}   kept only when name is present and truthy
//	{{#each name}}...{{/each}} repeated per element of a slice variable
type PromptTemplate struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	AnalysisType    AnalysisType `json:"analysis_type"`
	Text            string       `json:"text"`
	Variables       []string     `json:"variables"`
	EstimatedTokens int64        `json:"estimated_tokens"`
}
