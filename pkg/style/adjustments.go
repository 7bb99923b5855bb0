package style

import (
	"golang.org/x/text/cases"
)

// MaxAvoidWords caps the per-document avoid-word list.
const MaxAvoidWords = 50

// MaxRawRules is the raw rule count at which consolidation triggers,
// and the cap on the consolidated list.
const MaxRawRules = 8

// MaxEditExamples caps the truncated before/after example list.
const MaxEditExamples = 5

// DocumentGoals carries user- or model-authored goals for a document.
type DocumentGoals struct {
	Summary         string   `json:"summary,omitempty"`
	Objectives      []string `json:"objectives,omitempty"`
	MainArgument    string   `json:"main_argument,omitempty"`
	AudienceNeeds   string   `json:"audience_needs,omitempty"`
	SuccessCriteria []string `json:"success_criteria,omitempty"`
	Locked          bool     `json:"locked,omitempty"`
	UserEdited      bool     `json:"user_edited,omitempty"`
}

// DocumentAdjustments holds per-document mutable preference deltas.
// Slider values change only through decision-triggered learning or
// explicit user action, never through the per-attempt correction step.
type DocumentAdjustments struct {
	VerbosityAdjust float64 `json:"verbosity_adjust"`
	FormalityAdjust float64 `json:"formality_adjust"`
	HedgingAdjust   float64 `json:"hedging_adjust"`

	AdditionalAvoidWords      []string          `json:"additional_avoid_words,omitempty"`
	AdditionalPreferWords     map[string]string `json:"additional_prefer_words,omitempty"`
	AdditionalFramingGuidance []string          `json:"additional_framing_guidance,omitempty"`
	LearnedRules              []LearnedRule     `json:"learned_rules,omitempty"`
	EditExamples              []EditExample     `json:"edit_examples,omitempty"`
	Goals                     *DocumentGoals    `json:"goals,omitempty"`
}

// NewDocumentAdjustments returns the all-zero/empty defaults created
// the first time a document is edited.
func NewDocumentAdjustments() DocumentAdjustments {
	return DocumentAdjustments{}
}

// Reset zeroes the adjustment state. History is owned by the caller
// and preserved.
func (d *DocumentAdjustments) Reset() {
	*d = DocumentAdjustments{}
}

var foldCaser = cases.Fold()

// AddAvoidWords appends words to the avoid list, deduplicating with
// case folding and enforcing MaxAvoidWords. Words already implied by
// a prefer-word substitution are skipped.
func (d *DocumentAdjustments) AddAvoidWords(words ...string) {
	seen := make(map[string]bool, len(d.AdditionalAvoidWords))
	for _, w := range d.AdditionalAvoidWords {
		seen[foldCaser.String(w)] = true
	}
	for from := range d.AdditionalPreferWords {
		seen[foldCaser.String(from)] = true
	}

	for _, w := range words {
		if w == "" {
			continue
		}
		key := foldCaser.String(w)
		if seen[key] {
			continue
		}
		if len(d.AdditionalAvoidWords) >= MaxAvoidWords {
			break
		}
		seen[key] = true
		d.AdditionalAvoidWords = append(d.AdditionalAvoidWords, w)
	}
}

// Effective is the merged style used for one orchestration attempt:
// profile plus document adjustments, with an optional audience overlay
// contributing only jargon, emphasis, framing, and length target.
type Effective struct {
	Verbosity       Verbosity
	VerbosityValue  float64 // banded input, kept for directive phrasing
	FormalityLevel  float64
	Formality       FormalityBand
	Hedging         HedgingStyle
	FormatBans      []Format
	RequiredFormats []Format
	Rules           []LearnedRule // global then document, in order
	FramingGuidance []string
	Overlay         *AudienceOverlay
}

// ApplyAdjustments computes the effective style from the profile and
// the document's sliders. The overlay merge rule: verbosity, formality
// and hedging come from the document-adjusted style, never the
// overlay, so switching overlays cannot discard document tuning.
func ApplyAdjustments(profile StyleProfile, adj DocumentAdjustments, overlay *AudienceOverlay) Effective {
	verbosityValue := ClampSlider(verbosityOffset(profile.Verbosity) + adj.VerbosityAdjust)
	hedgingValue := ClampSlider(hedgingOffset(profile.Hedging) + adj.HedgingAdjust)
	formalityLevel := Clamp(float64(profile.FormalityLevel)+adj.FormalityAdjust, FormalityMin, FormalityMax)

	rules := make([]LearnedRule, 0, len(profile.LearnedRules)+len(adj.LearnedRules))
	rules = append(rules, profile.LearnedRules...)
	rules = append(rules, adj.LearnedRules...)

	var framing []string
	framing = append(framing, adj.AdditionalFramingGuidance...)
	if overlay != nil {
		framing = append(framing, overlay.FramingGuidance...)
	}

	return Effective{
		Verbosity:       VerbosityBand(verbosityValue),
		VerbosityValue:  verbosityValue,
		FormalityLevel:  formalityLevel,
		Formality:       FormalityBandOf(formalityLevel),
		Hedging:         HedgingBand(hedgingValue),
		FormatBans:      profile.FormatBans,
		RequiredFormats: profile.RequiredFormats,
		Rules:           rules,
		FramingGuidance: framing,
		Overlay:         overlay,
	}
}
