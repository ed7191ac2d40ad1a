package eval

import (
	"fmt"
	"sort"
	"strings"
)

func factualConsistencyPrompt(generated string, source map[string]any) string {
	var b strings.Builder
	b.WriteString("Evaluate if the following generated text is factually consistent with the source data.\n")
	b.WriteString("Rate on a scale of 1-10 and explain your reasoning.\n\n")
	b.WriteString("Source Data:\n")
	b.WriteString(renderSource(source))
	b.WriteString("\nGenerated Text:\n")
	b.WriteString(generated)
	b.WriteString("\n\nRespond in this format:\n")
	b.WriteString("Score: [1-10]\n")
	b.WriteString("Reasoning: [Your explanation]\n")
	b.WriteString("Issues: [List any factual inconsistencies, or \"None\" if consistent]\n")
	return b.String()
}

func creativityPrompt(generated string) string {
	var b strings.Builder
	b.WriteString("Evaluate the creativity and entertainment value of this Rick and Morty themed text.\n")
	b.WriteString("Consider humor, originality, and how well it captures the show's tone.\n")
	b.WriteString("Rate on a scale of 1-10.\n\n")
	b.WriteString("Generated Text:\n")
	b.WriteString(generated)
	b.WriteString("\n\nRespond in this format:\n")
	b.WriteString("Score: [1-10]\n")
	b.WriteString("Reasoning: [Your explanation]\n")
	b.WriteString("Strengths: [What works well]\n")
	b.WriteString("Improvements: [What could be better]\n")
	return b.String()
}

// renderSource renders the source facts as sorted "key: value" lines.
// Sorting keeps the prompt stable for a given input, which keeps judge
// scores comparable across runs.
func renderSource(source map[string]any) string {
	keys := make([]string, 0, len(source))
	for k := range source {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %v\n", k, source[k])
	}
	return b.String()
}
