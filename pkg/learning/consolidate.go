package learning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/critique"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// ConsolidateRules merges similar learned rules into at most
// style.MaxRawRules imperative directives, raising confidence (capped)
// in proportion to how many originals a merged rule subsumes. Any
// failure falls back to keeping the most recent rules unmerged:
// consolidation must never silently drop all rules.
func (e *Engine) ConsolidateRules(ctx context.Context, rules []style.LearnedRule) []style.LearnedRule {
	logger := logging.GetLogger()

	if len(rules) == 0 {
		return rules
	}

	var b strings.Builder
	b.WriteString("Consolidate these writing-style rules. Merge similar rules into a single imperative directive. ")
	fmt.Fprintf(&b, "Return at most %d rules. ", style.MaxRawRules)
	fmt.Fprintf(&b, "Raise a merged rule's confidence in proportion to how many originals it subsumes, never above %.2f.\n\n", confidenceCap)
	for _, r := range rules {
		fmt.Fprintf(&b, "- %s (confidence %.2f)\n", r.Rule, r.Confidence)
	}
	b.WriteString(`
Respond only with JSON: {"rules": [{"rule": "<imperative directive>", "confidence": <float 0..1>}]}`)

	resp, err := e.svc.Complete(ctx, core.CompletionRequest{
		Messages: []core.Message{
			core.NewSystemMessage("You consolidate writing-style rules. Respond only with JSON."),
			core.NewUserMessage(b.String()),
		},
		Temperature: inferenceTemperature,
		MaxTokens:   1024,
	})
	if err != nil {
		logger.Warn(ctx, "rule consolidation call failed, keeping most recent rules: %v", err)
		return mostRecentRules(rules, style.MaxRawRules)
	}

	var raw struct {
		Rules []struct {
			Rule       string   `json:"rule"`
			Confidence *float64 `json:"confidence"`
		} `json:"rules"`
	}
	if !critique.DecodeJSONObject(resp.Content, &raw) || len(raw.Rules) == 0 {
		logger.Warn(ctx, "rule consolidation response unparseable, keeping most recent rules")
		return mostRecentRules(rules, style.MaxRawRules)
	}

	now := time.Now()
	merged := make([]style.LearnedRule, 0, style.MaxRawRules)
	for _, r := range raw.Rules {
		rule := strings.TrimSpace(r.Rule)
		if rule == "" {
			continue
		}
		confidence := explicitRuleConfidence
		if r.Confidence != nil {
			confidence = style.Clamp(*r.Confidence, 0, confidenceCap)
		}
		merged = append(merged, style.LearnedRule{
			Rule:       rule,
			Confidence: confidence,
			Source:     style.SourceInferred,
			Timestamp:  now,
		})
		if len(merged) == style.MaxRawRules {
			break
		}
	}
	if len(merged) == 0 {
		return mostRecentRules(rules, style.MaxRawRules)
	}

	logger.Info(ctx, "consolidated %d rules into %d", len(rules), len(merged))
	return merged
}

// mostRecentRules keeps the last n rules; append order is
// chronological, so the tail is the most recent.
func mostRecentRules(rules []style.LearnedRule, n int) []style.LearnedRule {
	if len(rules) <= n {
		return rules
	}
	kept := make([]style.LearnedRule, n)
	copy(kept, rules[len(rules)-n:])
	return kept
}
