package orchestrator

import (
	"strings"
)

// Known boilerplate prefixes models wrap edits in despite instructions.
var boilerplatePrefixes = []string{
	"here's the edited paragraph:",
	"here is the edited paragraph:",
	"here's the edited text:",
	"here is the edited text:",
	"here's the revised paragraph:",
	"here is the revised paragraph:",
	"here's the revised text:",
	"here is the revised text:",
	"here's the edit:",
	"edited paragraph:",
	"edited text:",
	"revised text:",
}

// Symmetric quote pairs stripped when they wrap the whole candidate.
var quotePairs = [][2]string{
	{`"`, `"`},
	{"'", "'"},
	{"“", "”"}, // curly double
	{"‘", "’"}, // curly single
	{"`", "`"},
}

// CleanCandidate strips boilerplate prefixes and symmetric surrounding
// quote characters from generated text.
func CleanCandidate(text string) string {
	out := strings.TrimSpace(text)

	lower := strings.ToLower(out)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			out = strings.TrimSpace(out[len(prefix):])
			break
		}
	}

	for _, pair := range quotePairs {
		if len(out) > len(pair[0])+len(pair[1]) &&
			strings.HasPrefix(out, pair[0]) && strings.HasSuffix(out, pair[1]) {
			out = strings.TrimSpace(out[len(pair[0]) : len(out)-len(pair[1])])
			break
		}
	}

	return out
}
