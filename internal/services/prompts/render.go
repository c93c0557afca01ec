package prompts

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alankar423/CreatorIQ/internal/models"
)

var (
	varPattern  = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	ifPattern   = regexp.MustCompile(`(?s)\{\{#if ([a-zA-Z_][a-zA-Z0-9_]*)\}\}(.*?)\{\{/if\}\}`)
	eachPattern = regexp.MustCompile(`(?s)\{\{#each ([a-zA-Z_][a-zA-Z0-9_]*)\}\}(.*?)\{\{/each\}\}`)
)

// Render expands a template against the given variable mapping in three
// fixed passes: literal substitution, then conditional blocks, then loop
// blocks. Substitution skips {{#each}} bodies, which keeps loop-local field
// names scoped to their element even when a top-level variable shares the
// name.
//
// Unmatched {{name}} tokens are left in place as dead text. A missing or
// non-slice {{#each}} variable expands to nothing. Rendering is pure.
func Render(tmpl *models.PromptTemplate, vars map[string]any) string {
	out := substitute(tmpl.Text, vars)
	out = expandConditionals(out, vars)
	out = expandLoops(out, vars)
	return out
}

// substitute replaces {{name}} tokens outside {{#each}} blocks.
func substitute(text string, vars map[string]any) string {
	var b strings.Builder
	pos := 0
	for _, m := range eachPattern.FindAllStringIndex(text, -1) {
		b.WriteString(substituteTokens(text[pos:m[0]], vars))
		b.WriteString(text[m[0]:m[1]])
		pos = m[1]
	}
	b.WriteString(substituteTokens(text[pos:], vars))
	return b.String()
}

func substituteTokens(segment string, vars map[string]any) string {
	return varPattern.ReplaceAllStringFunc(segment, func(match string) string {
		name := varPattern.FindStringSubmatch(match)[1]
		v, ok := vars[name]
		if !ok {
			return match
		}
		if s, ok := stringify(v); ok {
			return s
		}
		return match
	})
}

func expandConditionals(text string, vars map[string]any) string {
	// Re-run until stable so blocks revealed by an outer expansion are
	// handled too.
	for {
		expanded := ifPattern.ReplaceAllStringFunc(text, func(match string) string {
			sub := ifPattern.FindStringSubmatch(match)
			if truthy(vars[sub[1]]) {
				return sub[2]
			}
			return ""
		})
		if expanded == text {
			return expanded
		}
		text = expanded
	}
}

func expandLoops(text string, vars map[string]any) string {
	return eachPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := eachPattern.FindStringSubmatch(match)
		name, body := sub[1], sub[2]

		elements, ok := asElementMaps(vars[name])
		if !ok {
			return ""
		}

		var b strings.Builder
		for _, fields := range elements {
			b.WriteString(substituteTokens(body, fields))
		}
		return b.String()
	})
}

// asElementMaps coerces a loop variable into per-element field maps. Only
// slices of field maps iterate; anything else disables the loop.
func asElementMaps(v any) ([]map[string]any, bool) {
	switch elems := v.(type) {
	case []map[string]any:
		return elems, true
	case []any:
		out := make([]map[string]any, 0, len(elems))
		for _, e := range elems {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, false
			}
			out = append(out, m)
		}
		return out, true
	default:
		return nil, false
	}
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return fmt.Sprintf("%t", val), true
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", val), true
	case float32, float64:
		return fmt.Sprintf("%v", val), true
	default:
		return "", false
	}
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	case []map[string]any:
		return len(val) > 0
	default:
		return true
	}
}

// ReferencedVariables returns the distinct top-level variable names a
// template's text refers to, excluding loop-local field tokens.
func ReferencedVariables(tmpl *models.PromptTemplate) []string {
	seen := make(map[string]bool)
	var names []string

	record := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	// Loop bodies reference element fields, not top-level variables; keep
	// the loop variable itself and drop its body before scanning.
	stripped := eachPattern.ReplaceAllStringFunc(tmpl.Text, func(match string) string {
		sub := eachPattern.FindStringSubmatch(match)
		return "{{" + sub[1] + "}}"
	})

	for _, m := range ifPattern.FindAllStringSubmatch(stripped, -1) {
		record(m[1])
	}
	plain := ifPattern.ReplaceAllString(stripped, "$2")
	for _, m := range varPattern.FindAllStringSubmatch(plain, -1) {
		record(m[1])
	}
	return names
}
