// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanFences removes a markdown code-fence wrapper from a response. LLMs often
// wrap whole articles in ```markdown ... ``` blocks even when instructed not to.
func CleanFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	rest := strings.TrimPrefix(text, "```")
	// Skip a language identifier on the fence line (e.g. "markdown")
	if idx := strings.Index(rest, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(rest[:idx])
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			rest = rest[idx+1:]
		}
	}
	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}
