// Package style defines the layered style data model: a global
// StyleProfile, named AudienceOverlays, and per-document
// DocumentAdjustments, plus the banding arithmetic that turns slider
// values into discrete style directives.
package style

import (
	"time"
)

// Verbosity levels for generated text.
type Verbosity string

const (
	VerbosityTerse    Verbosity = "terse"
	VerbosityModerate Verbosity = "moderate"
	VerbosityDetailed Verbosity = "detailed"
)

// HedgingStyle describes how assertive generated text should be.
type HedgingStyle string

const (
	HedgingConfident HedgingStyle = "confident"
	HedgingBalanced  HedgingStyle = "balanced"
	HedgingCautious  HedgingStyle = "cautious"
)

// Format identifies a structural text format that can be banned or required.
type Format string

const (
	FormatBulletPoints  Format = "bullet_points"
	FormatNumberedLists Format = "numbered_lists"
	FormatHeaders       Format = "headers"
	FormatTables        Format = "tables"
	FormatBoldEmphasis  Format = "bold_emphasis"
	FormatEmoji         Format = "emoji"
	FormatBlockQuotes   Format = "block_quotes"
)

// formatPhrases renders format enums as human-readable prompt phrases.
var formatPhrases = map[Format]string{
	FormatBulletPoints:  "bullet points",
	FormatNumberedLists: "numbered lists",
	FormatHeaders:       "section headers",
	FormatTables:        "tables",
	FormatBoldEmphasis:  "bold emphasis",
	FormatEmoji:         "emoji",
	FormatBlockQuotes:   "block quotes",
}

// Phrase returns the human-readable phrase for a format.
func (f Format) Phrase() string {
	if p, ok := formatPhrases[f]; ok {
		return p
	}
	return string(f)
}

// RuleSource records how a learned rule was obtained.
type RuleSource string

const (
	SourceExplicit RuleSource = "explicit"
	SourceInferred RuleSource = "inferred"
)

// LearnedRule is a single natural-language style rule with confidence.
type LearnedRule struct {
	Rule       string     `json:"rule"`
	Confidence float64    `json:"confidence"`
	Source     RuleSource `json:"source"`
	Timestamp  time.Time  `json:"timestamp"`
}

// StyleProfile holds the global writing preferences, one per
// installation. It is mutated only by explicit user settings changes,
// never by the orchestration loop.
type StyleProfile struct {
	Verbosity       Verbosity         `json:"verbosity"`
	FormalityLevel  int               `json:"formality_level"` // 1..5
	Hedging         HedgingStyle      `json:"hedging"`
	AvoidWords      []string          `json:"avoid_words,omitempty"`
	PreferredWords  map[string]string `json:"preferred_words,omitempty"`
	FormatBans      []Format          `json:"format_bans,omitempty"`
	RequiredFormats []Format          `json:"required_formats,omitempty"`
	LearnedRules    []LearnedRule     `json:"learned_rules,omitempty"`
}

// DefaultProfile returns a neutral profile.
func DefaultProfile() StyleProfile {
	return StyleProfile{
		Verbosity:      VerbosityModerate,
		FormalityLevel: 3,
		Hedging:        HedgingBalanced,
	}
}

// AudienceOverlay is a named partial overlay merged onto the profile
// for a session. It does not own verbosity/formality/hedging; those
// remain document-adjusted values (see Effective).
type AudienceOverlay struct {
	Name            string   `json:"name"`
	JargonLevel     string   `json:"jargon_level,omitempty"` // low, medium, high
	EmphasisPoints  []string `json:"emphasis_points,omitempty"`
	FramingGuidance []string `json:"framing_guidance,omitempty"`
	LengthTarget    string   `json:"length_target,omitempty"`
}

// Decision is the user's terminal verdict on a suggested edit.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
	DecisionPartial  Decision = "partial"
)

// FeedbackCategory identifies an explicit feedback tag on a decision.
type FeedbackCategory string

const (
	FeedbackTooFormal     FeedbackCategory = "too_formal"
	FeedbackTooCasual     FeedbackCategory = "too_casual"
	FeedbackTooVerbose    FeedbackCategory = "too_verbose"
	FeedbackTooTerse      FeedbackCategory = "too_terse"
	FeedbackChangedMeaning FeedbackCategory = "changed_meaning"
	FeedbackOverEdited    FeedbackCategory = "over_edited"
	FeedbackUnderEdited   FeedbackCategory = "under_edited"
	FeedbackBadWordChoice FeedbackCategory = "bad_word_choice"
	FeedbackWrongTone     FeedbackCategory = "wrong_tone"
)

// EditDecision is an immutable record of one accept/reject outcome,
// appended to a document's history.
type EditDecision struct {
	ID            string             `json:"id"`
	OriginalText  string             `json:"original_text"`
	SuggestedEdit string             `json:"suggested_edit"`
	FinalText     string             `json:"final_text"`
	Decision      Decision           `json:"decision"`
	Instruction   string             `json:"instruction,omitempty"`
	FeedbackTags  []FeedbackCategory `json:"feedback_tags,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
}

// EditExample is a truncated before/after pair kept for pattern
// aggregation without enabling verbatim memorization.
type EditExample struct {
	Before    string    `json:"before"`
	After     string    `json:"after"`
	Timestamp time.Time `json:"timestamp"`
}
