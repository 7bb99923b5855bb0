// Package prompt compiles the layered style specification into
// natural-language instruction text and classifies edit requests.
// Everything here is a pure function of its inputs.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

const (
	// MinRuleConfidence gates which learned rules reach the prompt.
	MinRuleConfidence = 0.6

	// MaxPromptRules caps how many learned rules are injected.
	MaxPromptRules = 10
)

// Compile renders the merged effective style as instruction text.
// Composition order is fixed: identity, verbosity, formality, hedging,
// formats, learned rules, audience overlay. Word-level avoid/prefer
// lists from the global style are never injected here; only
// structural style rules are.
func Compile(eff style.Effective) string {
	var b strings.Builder

	b.WriteString("You are a writing assistant that adapts its edits to this author's personal style.\n")

	writeVerbosityBlock(&b, eff)
	writeFormalityBlock(&b, eff)
	writeHedgingBlock(&b, eff)
	writeFormatBlock(&b, eff)
	writeRulesBlock(&b, eff.Rules)
	writeOverlayBlock(&b, eff)

	return strings.TrimRight(b.String(), "\n")
}

func writeVerbosityBlock(b *strings.Builder, eff style.Effective) {
	switch eff.Verbosity {
	case style.VerbosityTerse:
		fmt.Fprintf(b,
			"Verbosity: be aggressively concise. Cut filler words, qualifiers, and redundant phrases; aim to reduce the text by %d-%d%%. Every sentence must earn its place.\n",
			style.TerseReductionMinPct, style.TerseReductionMaxPct)
	case style.VerbosityDetailed:
		b.WriteString("Verbosity: be thorough. Do not cut content; preserve detail, examples, and supporting context even where the text could be shorter.\n")
	default:
		b.WriteString("Verbosity: keep a balanced length. Trim obvious filler but do not compress aggressively.\n")
	}
}

func writeFormalityBlock(b *strings.Builder, eff style.Effective) {
	switch eff.Formality {
	case style.FormalityFormal:
		b.WriteString("Formality: maximum formal register. No contractions. Prefer third person and precise, professional phrasing.\n")
	case style.FormalityCasual:
		b.WriteString("Formality: casual register. Use contractions. Write the way a person talks.\n")
	default:
		b.WriteString("Formality: neutral register, neither stiff nor chatty.\n")
	}
}

func writeHedgingBlock(b *strings.Builder, eff style.Effective) {
	switch eff.Hedging {
	case style.HedgingConfident:
		b.WriteString("Hedging: state claims directly. Remove qualifiers like \"perhaps\", \"it seems\", \"in some sense\" unless genuine uncertainty exists.\n")
	case style.HedgingCautious:
		b.WriteString("Hedging: qualify claims carefully. Signal uncertainty and avoid absolute statements.\n")
	default:
		b.WriteString("Hedging: balance confidence with appropriate qualification.\n")
	}
}

func writeFormatBlock(b *strings.Builder, eff style.Effective) {
	if len(eff.FormatBans) > 0 {
		b.WriteString("Never use: " + joinFormats(eff.FormatBans) + ".\n")
	}
	if len(eff.RequiredFormats) > 0 {
		b.WriteString("Always use: " + joinFormats(eff.RequiredFormats) + ".\n")
	}
}

func joinFormats(formats []style.Format) string {
	phrases := make([]string, len(formats))
	for i, f := range formats {
		phrases[i] = f.Phrase()
	}
	return strings.Join(phrases, ", ")
}

// writeRulesBlock injects high-confidence learned rules, most recent
// first, truncated to MaxPromptRules.
func writeRulesBlock(b *strings.Builder, rules []style.LearnedRule) {
	var eligible []style.LearnedRule
	for _, r := range rules {
		if r.Confidence >= MinRuleConfidence {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		return
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Timestamp.After(eligible[j].Timestamp)
	})
	if len(eligible) > MaxPromptRules {
		eligible = eligible[:MaxPromptRules]
	}

	b.WriteString("Learned style rules for this author:\n")
	for _, r := range eligible {
		b.WriteString("- " + r.Rule + "\n")
	}
}

func writeOverlayBlock(b *strings.Builder, eff style.Effective) {
	o := eff.Overlay
	if o == nil && len(eff.FramingGuidance) == 0 {
		return
	}

	if o != nil {
		fmt.Fprintf(b, "Audience: %s.\n", o.Name)
		if o.JargonLevel != "" {
			fmt.Fprintf(b, "Jargon level: %s.\n", o.JargonLevel)
		}
		if len(o.EmphasisPoints) > 0 {
			b.WriteString("Emphasize: " + strings.Join(o.EmphasisPoints, "; ") + ".\n")
		}
		if o.LengthTarget != "" {
			fmt.Fprintf(b, "Target length: %s.\n", o.LengthTarget)
		}
	}
	if len(eff.FramingGuidance) > 0 {
		b.WriteString("Framing guidance:\n")
		for _, g := range eff.FramingGuidance {
			b.WriteString("- " + g + "\n")
		}
	}
}
