package learning

import (
	"context"
	"fmt"
	"strings"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// patternAnalysisMinHistory and patternAnalysisMinNegative gate the
// aggregate analysis: with fewer decisions there is nothing to
// generalize from.
const (
	patternAnalysisMinHistory  = 3
	patternAnalysisMinNegative = 2
	patternAnalysisMaxExamples = 10
)

// AnalyzeEditPatterns summarizes what the document's rejected and
// partially accepted edits have in common. The result is advisory
// prose for the UI; it changes no stored state.
func (e *Engine) AnalyzeEditPatterns(ctx context.Context, documentID string) (string, error) {
	if documentID == "" {
		return "", errors.New(errors.InvalidInput, "document id is required")
	}

	ctx = logging.WithDocumentID(ctx, documentID)

	record, err := e.store.Load(ctx, documentID)
	if err != nil {
		return "", err
	}

	var negative []style.EditDecision
	for _, d := range record.EditHistory {
		if d.Decision == style.DecisionRejected || d.Decision == style.DecisionPartial {
			negative = append(negative, d)
		}
	}
	if len(record.EditHistory) < patternAnalysisMinHistory || len(negative) < patternAnalysisMinNegative {
		return "", nil
	}
	if len(negative) > patternAnalysisMaxExamples {
		negative = negative[len(negative)-patternAnalysisMaxExamples:]
	}

	var b strings.Builder
	b.WriteString("These suggested edits were rejected or changed by the user:\n\n")
	for i, d := range negative {
		fmt.Fprintf(&b, "%d. [%s] suggested: %s\n", i+1, d.Decision,
			truncateRunes(d.SuggestedEdit, exampleTruncateRunes))
		if d.FinalText != d.SuggestedEdit && d.FinalText != "" {
			fmt.Fprintf(&b, "   user kept: %s\n", truncateRunes(d.FinalText, exampleTruncateRunes))
		}
	}
	b.WriteString("\nIn two or three sentences, describe what these rejections have in common and what the editor should do differently.")

	resp, err := e.svc.Complete(ctx, core.CompletionRequest{
		Messages:    []core.Message{core.NewUserMessage(b.String())},
		Temperature: inferenceTemperature,
		MaxTokens:   512,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CompletionFailed, "edit pattern analysis failed")
	}
	return strings.TrimSpace(resp.Content), nil
}

// Reset clears a document's adjustment state while preserving its
// decision history. Explicit user action only.
func (e *Engine) Reset(ctx context.Context, documentID string) error {
	if documentID == "" {
		return errors.New(errors.InvalidInput, "document id is required")
	}

	ctx = logging.WithDocumentID(ctx, documentID)

	unlock := e.locks.Lock(documentID)
	defer unlock()

	record, err := e.store.Load(ctx, documentID)
	if err != nil {
		return err
	}
	record.Adjustments.Reset()
	return e.store.Save(ctx, record)
}
