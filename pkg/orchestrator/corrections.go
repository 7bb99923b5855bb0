package orchestrator

import (
	"context"
	"fmt"
	"regexp"

	"github.com/XiaoConstantine/tailor-go/pkg/critique"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

var quotedTokenRe = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// extractQuotedTokens pulls quoted words out of an issue description,
// e.g. `kept the word "utilize"` yields ["utilize"].
func extractQuotedTokens(description string) []string {
	var tokens []string
	for _, m := range quotedTokenRe.FindAllStringSubmatch(description, -1) {
		if m[1] != "" {
			tokens = append(tokens, m[1])
		} else if m[2] != "" {
			tokens = append(tokens, m[2])
		}
	}
	return tokens
}

// applyCorrections applies the per-attempt correction policy to the
// adjustments and returns a description of what it changed.
//
// Invariant: the verbosity/formality/hedging sliders are never touched
// here; those move only through user action or terminal decision
// learning. Only word_choice issues produce state: their quoted tokens
// join the document's avoid list. Everything else is logged and
// produces no adjustment, keeping per-session drift bounded and
// attributable to explicit learning events.
func applyCorrections(ctx context.Context, adj *style.DocumentAdjustments, issues []critique.Issue, strength float64) []string {
	logger := logging.GetLogger()

	var made []string
	for _, issue := range issues {
		switch issue.Type {
		case critique.IssueWordChoice:
			tokens := extractQuotedTokens(issue.Description)
			if len(tokens) == 0 {
				continue
			}
			before := len(adj.AdditionalAvoidWords)
			adj.AddAvoidWords(tokens...)
			if added := len(adj.AdditionalAvoidWords) - before; added > 0 {
				made = append(made, fmt.Sprintf("added %d avoid word(s) (strength %.1f)", added, strength))
			}
		default:
			logger.Debug(ctx, "issue noted without adjustment: type=%s severity=%s %s",
				issue.Type, issue.Severity, issue.Description)
		}
	}
	return made
}
