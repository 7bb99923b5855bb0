package learning

import (
	"context"
	"strings"
	"time"

	"github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/store"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// feedbackRules maps each explicit feedback category to the rule it
// teaches. Categories map to rules only, never to slider deltas:
// sliders stay user-controlled under this path.
var feedbackRules = map[style.FeedbackCategory]string{
	style.FeedbackTooFormal:      "Use a more casual, conversational tone",
	style.FeedbackTooCasual:      "Use a more formal, professional tone",
	style.FeedbackTooVerbose:     "Be more concise; cut filler and redundancy",
	style.FeedbackTooTerse:       "Preserve detail; do not over-compress the text",
	style.FeedbackChangedMeaning: "Preserve the original meaning exactly; never alter claims or facts",
	style.FeedbackOverEdited:     "Make fewer, more targeted changes; leave acceptable text alone",
	style.FeedbackUnderEdited:    "Edit more thoroughly; do not leave weak phrasing in place",
	style.FeedbackBadWordChoice:  "Match the author's vocabulary; avoid substituting unfamiliar words",
	style.FeedbackWrongTone:      "Match the tone of the surrounding document",
}

// Confidence constants for the explicit-feedback path.
const (
	explicitRuleConfidence = 0.85
	duplicateBoost         = 0.15
	confidenceCap          = 0.95
)

// ruleDupePrefixRunes is how much of a rule's leading text the
// near-duplicate containment check compares.
const ruleDupePrefixRunes = 20

// FeedbackInput carries explicit feedback tags with the before/after
// pair they were given on.
type FeedbackInput struct {
	DocumentID string
	Tags       []style.FeedbackCategory
	Before     string
	After      string
}

// LearnFromExplicitFeedback converts feedback tags into learned rules.
// A near-duplicate of an existing rule boosts that rule's confidence
// instead of appending; otherwise a new explicit rule is added. The
// truncated before/after pair is kept as an edit example for later
// pattern aggregation.
func (e *Engine) LearnFromExplicitFeedback(ctx context.Context, in FeedbackInput) (*store.PreferenceRecord, error) {
	if in.DocumentID == "" {
		return nil, errors.New(errors.InvalidInput, "document id is required")
	}
	if len(in.Tags) == 0 {
		return nil, errors.New(errors.InvalidInput, "at least one feedback tag is required")
	}

	ctx = logging.WithDocumentID(ctx, in.DocumentID)

	unlock := e.locks.Lock(in.DocumentID)
	defer unlock()

	record, err := e.store.Load(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}

	e.applyFeedback(ctx, record, in.Tags, in.Before, in.After)

	if err := e.store.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (e *Engine) applyFeedback(ctx context.Context, record *store.PreferenceRecord, tags []style.FeedbackCategory, before, after string) {
	logger := logging.GetLogger()
	adj := &record.Adjustments

	for _, tag := range tags {
		rule, ok := feedbackRules[tag]
		if !ok {
			logger.Warn(ctx, "unknown feedback category %q ignored", tag)
			continue
		}
		if existing := findNearDuplicate(adj.LearnedRules, rule); existing != nil {
			existing.Confidence = style.Clamp(existing.Confidence+duplicateBoost, 0, confidenceCap)
			logger.Debug(ctx, "feedback %s boosted existing rule to %.2f", tag, existing.Confidence)
			continue
		}
		e.appendRule(ctx, adj, style.LearnedRule{
			Rule:       rule,
			Confidence: explicitRuleConfidence,
			Source:     style.SourceExplicit,
			Timestamp:  time.Now(),
		})
	}

	if before != "" || after != "" {
		adj.EditExamples = append(adj.EditExamples, style.EditExample{
			Before:    truncateRunes(before, exampleTruncateRunes),
			After:     truncateRunes(after, exampleTruncateRunes),
			Timestamp: time.Now(),
		})
		if len(adj.EditExamples) > style.MaxEditExamples {
			adj.EditExamples = adj.EditExamples[len(adj.EditExamples)-style.MaxEditExamples:]
		}
	}
}

// findNearDuplicate reports an existing rule when either rule's
// leading text appears inside the other. A crude heuristic, but cheap;
// it can over-merge rules sharing a long common prefix.
func findNearDuplicate(rules []style.LearnedRule, candidate string) *style.LearnedRule {
	candFull := strings.ToLower(candidate)
	candPrefix := truncateRunes(candFull, ruleDupePrefixRunes)
	for i := range rules {
		ruleFull := strings.ToLower(rules[i].Rule)
		rulePrefix := truncateRunes(ruleFull, ruleDupePrefixRunes)
		if strings.Contains(ruleFull, candPrefix) || strings.Contains(candFull, rulePrefix) {
			return &rules[i]
		}
	}
	return nil
}
