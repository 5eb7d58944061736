package vision

import "strings"

// extractJSON pulls a JSON document out of the model's free-text answer.
// Models frequently wrap JSON in markdown code fences; a fence tagged "json"
// is preferred, then any bare fence, otherwise the trimmed text is returned
// as-is for the parser to judge.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)

	if strings.Contains(trimmed, "```json") {
		after := strings.SplitN(trimmed, "```json", 2)[1]
		return strings.TrimSpace(strings.SplitN(after, "```", 2)[0])
	}

	if strings.Contains(trimmed, "```") {
		parts := strings.Split(trimmed, "```")
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[1])
		}
	}

	return trimmed
}
