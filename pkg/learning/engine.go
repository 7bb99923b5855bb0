// Package learning updates per-document adjustments from terminal user
// decisions and explicit feedback tags. Updates are dampened, clamped,
// and confidence-weighted so a single example cannot destabilize the
// preference model.
package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/critique"
	"github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/store"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// Dampening factors applied to model-suggested slider deltas before
// they touch the persisted state. A rejection is a stronger signal
// than a partial acceptance, so it moves sliders further.
const (
	RejectedDampening = 0.5
	PartialDampening  = 0.35
)

// inferenceTemperature is used for the style-delta and consolidation
// calls. Learning wants determinism, not creativity.
const inferenceTemperature = 0.2

// exampleTruncateRunes bounds before/after examples kept for pattern
// aggregation, so the store never memorizes full paragraphs.
const exampleTruncateRunes = 200

// Engine consumes terminal edit decisions and mutates the document's
// preference record through the injected store.
type Engine struct {
	svc   core.CompletionService
	store store.Store
	locks *store.KeyedLocks
}

func New(svc core.CompletionService, st store.Store) *Engine {
	return &Engine{
		svc:   svc,
		store: st,
		locks: store.NewKeyedLocks(),
	}
}

// DecisionInput describes one terminal user decision on a suggested edit.
type DecisionInput struct {
	DocumentID    string
	OriginalText  string
	SuggestedEdit string
	FinalText     string
	Decision      style.Decision
	Instruction   string
	FeedbackTags  []style.FeedbackCategory
}

func (in *DecisionInput) validate() error {
	if in.DocumentID == "" {
		return errors.New(errors.InvalidInput, "document id is required")
	}
	switch in.Decision {
	case style.DecisionAccepted, style.DecisionRejected, style.DecisionPartial:
		return nil
	default:
		return errors.WithFields(
			errors.New(errors.InvalidInput, "unknown decision"),
			errors.Fields{"decision": string(in.Decision)})
	}
}

// LearnFromDecision records the decision in the document's history and,
// when the edit was changed or rejected, updates the style sliders with
// a dampened, clamped delta inferred from the suggested-vs-final diff.
// Any failure of the inference call degrades to a history-only append;
// the adjustment state is never left partially updated.
func (e *Engine) LearnFromDecision(ctx context.Context, in DecisionInput) (*store.PreferenceRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	logger := logging.GetLogger()
	ctx = logging.WithDocumentID(ctx, in.DocumentID)

	unlock := e.locks.Lock(in.DocumentID)
	defer unlock()

	record, err := e.store.Load(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}

	record.EditHistory = append(record.EditHistory, style.EditDecision{
		ID:            uuid.NewString(),
		OriginalText:  in.OriginalText,
		SuggestedEdit: in.SuggestedEdit,
		FinalText:     in.FinalText,
		Decision:      in.Decision,
		Instruction:   in.Instruction,
		FeedbackTags:  in.FeedbackTags,
		Timestamp:     time.Now(),
	})

	switch {
	case in.Decision == style.DecisionAccepted && in.SuggestedEdit == in.FinalText:
		// Verbatim acceptance carries no style signal.
		logger.Debug(ctx, "decision accepted verbatim, history-only append")

	case len(in.FeedbackTags) > 0:
		// Explicit tags are a stronger, cheaper signal than diff
		// inference; they own this update.
		e.applyFeedback(ctx, record, in.FeedbackTags, in.OriginalText, in.FinalText)

	default:
		e.applyInferredDeltas(ctx, record, in)
	}

	if err := e.store.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// styleDeltas is the model's suggested slider movement, pre-dampening.
type styleDeltas struct {
	Verbosity float64
	Formality float64
	Hedging   float64
	Rule      string
}

func (e *Engine) applyInferredDeltas(ctx context.Context, record *store.PreferenceRecord, in DecisionInput) {
	logger := logging.GetLogger()

	deltas, err := e.inferStyleDeltas(ctx, in)
	if err != nil {
		logger.Warn(ctx, "style inference unavailable, history-only append: %v", err)
		return
	}

	k := PartialDampening
	if in.Decision == style.DecisionRejected {
		k = RejectedDampening
	}

	adj := &record.Adjustments
	adj.VerbosityAdjust = style.ClampSlider(adj.VerbosityAdjust + deltas.Verbosity*k)
	adj.FormalityAdjust = style.ClampSlider(adj.FormalityAdjust + deltas.Formality*k)
	adj.HedgingAdjust = style.ClampSlider(adj.HedgingAdjust + deltas.Hedging*k)

	if rule := strings.TrimSpace(deltas.Rule); rule != "" {
		confidence := 0.6
		if in.Decision == style.DecisionRejected {
			confidence = 0.8
		}
		e.appendRule(ctx, adj, style.LearnedRule{
			Rule:       rule,
			Confidence: confidence,
			Source:     style.SourceInferred,
			Timestamp:  time.Now(),
		})
	}

	logger.Info(ctx, "applied %s decision: deltas v=%.2f f=%.2f h=%.2f (dampening %.2f)",
		in.Decision, deltas.Verbosity*k, deltas.Formality*k, deltas.Hedging*k, k)
}

// inferStyleDeltas asks the completion service for style-pattern
// movement only. Word substitutions are explicitly out of scope: word
// lists overfit to context-specific phrasing, style patterns generalize.
func (e *Engine) inferStyleDeltas(ctx context.Context, in DecisionInput) (*styleDeltas, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "The user %s a suggested edit.\n\n", in.Decision)
	b.WriteString("Original text:\n" + in.OriginalText + "\n\n")
	b.WriteString("Suggested edit:\n" + in.SuggestedEdit + "\n\n")
	if in.FinalText != in.SuggestedEdit {
		b.WriteString("Text the user kept instead:\n" + in.FinalText + "\n\n")
	}
	b.WriteString(`Infer the STYLE PATTERN this decision reveals. Respond only with JSON:
{"verbosityDelta": <float -2..2>, "formalityDelta": <float -2..2>, "hedgingDelta": <float -2..2>, "rule": "<one generalizable style rule, or empty>"}
Negative verbosity means the user wants less text; negative formality means more casual; negative hedging means more confident.
Do NOT memorize individual word substitutions. Only report generalizable patterns. Use 0 for any axis the decision says nothing about.`)

	resp, err := e.svc.Complete(ctx, core.CompletionRequest{
		Messages: []core.Message{
			core.NewSystemMessage("You analyze writing-style preferences. Respond only with JSON."),
			core.NewUserMessage(b.String()),
		},
		Temperature: inferenceTemperature,
		MaxTokens:   512,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CompletionFailed, "style inference call failed")
	}

	var raw struct {
		VerbosityDelta *float64 `json:"verbosityDelta"`
		FormalityDelta *float64 `json:"formalityDelta"`
		HedgingDelta   *float64 `json:"hedgingDelta"`
		Rule           string   `json:"rule"`
	}
	if !critique.DecodeJSONObject(resp.Content, &raw) {
		return nil, errors.New(errors.MalformedResponse, "style inference response had no parseable JSON")
	}

	deltas := &styleDeltas{Rule: raw.Rule}
	if raw.VerbosityDelta != nil {
		deltas.Verbosity = style.ClampSlider(*raw.VerbosityDelta)
	}
	if raw.FormalityDelta != nil {
		deltas.Formality = style.ClampSlider(*raw.FormalityDelta)
	}
	if raw.HedgingDelta != nil {
		deltas.Hedging = style.ClampSlider(*raw.HedgingDelta)
	}
	return deltas, nil
}

// appendRule adds a learned rule, consolidating first when the raw
// list has reached its cap.
func (e *Engine) appendRule(ctx context.Context, adj *style.DocumentAdjustments, rule style.LearnedRule) {
	if len(adj.LearnedRules) >= style.MaxRawRules {
		adj.LearnedRules = e.ConsolidateRules(ctx, adj.LearnedRules)
	}
	adj.LearnedRules = append(adj.LearnedRules, rule)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
