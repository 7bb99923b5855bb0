package orchestrator

import (
	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/critique"
	"github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// Loop contract constants. These are relied on by tests and callers;
// changing them changes observable convergence behavior.
const (
	// MaxRetries bounds generation attempts per edit request.
	MaxRetries = 3

	// AlignmentThreshold is the critique score at which an attempt is
	// accepted.
	AlignmentThreshold = 0.8

	// StrongMisalignmentThreshold is the score below which the strong
	// correction strength applies.
	StrongMisalignmentThreshold = 0.5

	// Correction strengths. Strength scales nothing persistent today
	// (sliders never move mid-loop); it is carried in the convergence
	// trail so the UI can show how hard each retry pushed.
	NormalCorrectionStrength = 0.3
	StrongCorrectionStrength = 0.6
)

// DocumentMetadata is optional structural context for a request.
type DocumentMetadata struct {
	Title        string
	DocType      string
	Sections     []string
	KeyTerms     []string
	MainArgument string
}

// EditRequest describes one orchestrated edit. Everything the loop
// needs is passed explicitly; there is no ambient session state.
type EditRequest struct {
	DocumentID  string
	Paragraphs  []string
	TargetIndex int
	Instruction string
	SectionType string
	Metadata    *DocumentMetadata

	Profile style.StyleProfile
	Overlay *style.AudienceOverlay

	// OnChunk, when set, receives streaming chunks for each generation
	// attempt. Chunks from attempts that fail critique are superseded
	// by later attempts.
	OnChunk core.StreamHandler
}

// Validate checks the request shape before any network call.
func (r *EditRequest) Validate() error {
	if r.DocumentID == "" {
		return errors.New(errors.InvalidInput, "document id is required")
	}
	if len(r.Paragraphs) == 0 {
		return errors.New(errors.InvalidInput, "at least one paragraph is required")
	}
	if r.TargetIndex < 0 || r.TargetIndex >= len(r.Paragraphs) {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "target index out of range"),
			errors.Fields{"target_index": r.TargetIndex, "paragraphs": len(r.Paragraphs)})
	}
	return nil
}

// Target returns the paragraph being edited.
func (r *EditRequest) Target() string {
	return r.Paragraphs[r.TargetIndex]
}

// ConvergenceEntry is the immutable record of one attempt.
type ConvergenceEntry struct {
	Attempt         int      `json:"attempt"`
	AlignmentScore  float64  `json:"alignment_score"`
	AdjustmentsMade []string `json:"adjustments_made"`
}

// Result is returned to the caller after the loop terminates. The
// loop always returns its best candidate, even when every attempt
// scored below threshold.
type Result struct {
	EditedText   string
	OriginalText string
	Critique     critique.Analysis
	Iterations   int
	Convergence  []ConvergenceEntry
}

// Converged reports whether the final attempt met the threshold.
func (r *Result) Converged() bool {
	for _, entry := range r.Convergence {
		for _, a := range entry.AdjustmentsMade {
			if a == adjustmentThresholdMet {
				return true
			}
		}
	}
	return false
}

const adjustmentThresholdMet = "threshold met"
