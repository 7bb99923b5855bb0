// Package critique scores a candidate edit against the compiled style
// context with a single low-temperature completion call.
package critique

import (
	"context"
	"fmt"
	"strings"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// IssueType classifies a critique finding.
type IssueType string

const (
	IssueVerbosity  IssueType = "verbosity"
	IssueFormality  IssueType = "formality"
	IssueHedging    IssueType = "hedging"
	IssueTone       IssueType = "tone"
	IssueStructure  IssueType = "structure"
	IssueWordChoice IssueType = "word_choice"
)

// IssueSeverity grades a critique finding.
type IssueSeverity string

const (
	SeverityMinor    IssueSeverity = "minor"
	SeverityModerate IssueSeverity = "moderate"
	SeverityMajor    IssueSeverity = "major"
)

// Issue is a single critique finding.
type Issue struct {
	Type        IssueType     `json:"type"`
	Severity    IssueSeverity `json:"severity"`
	Description string        `json:"description"`
}

// Analysis is the result of one critique evaluation. It is produced
// fresh per call and never persisted directly.
type Analysis struct {
	AlignmentScore      float64  `json:"alignmentScore"`
	PredictedAcceptance float64  `json:"predictedAcceptance"`
	Issues              []Issue  `json:"issues"`
	Suggestions         []string `json:"suggestions"`
}

// DefaultAnalysis is the deliberately optimistic fallback returned
// when the response carries no parseable JSON, so evaluator failures
// do not block the edit pipeline.
func DefaultAnalysis() Analysis {
	return Analysis{
		AlignmentScore:      0.7,
		PredictedAcceptance: 0.7,
		Issues:              []Issue{},
		Suggestions:         []string{},
	}
}

// critiqueTemperature keeps the evaluator deterministic-ish.
const critiqueTemperature = 0.2

// Evaluator scores candidates through a completion service. It is
// stateless and never mutates document adjustments.
type Evaluator struct {
	svc core.CompletionService
}

// NewEvaluator creates an evaluator backed by the given service.
func NewEvaluator(svc core.CompletionService) *Evaluator {
	return &Evaluator{svc: svc}
}

// Evaluate performs exactly one completion call and parses the result.
// A service error propagates; a malformed response degrades to
// DefaultAnalysis.
func (e *Evaluator) Evaluate(ctx context.Context, original, candidate, styleContext, sectionType string) (Analysis, error) {
	logger := logging.GetLogger()

	resp, err := e.svc.Complete(ctx, core.CompletionRequest{
		Messages: []core.Message{
			core.NewSystemMessage(critiqueSystemPrompt),
			core.NewUserMessage(buildCritiquePrompt(original, candidate, styleContext, sectionType)),
		},
		Temperature: critiqueTemperature,
	})
	if err != nil {
		return Analysis{}, err
	}

	analysis, ok := parseAnalysis(resp.Content)
	if !ok {
		logger.Warn(ctx, "critique response carried no parseable JSON, using optimistic default")
		return DefaultAnalysis(), nil
	}
	return analysis, nil
}

const critiqueSystemPrompt = `You evaluate how well an edited text matches an author's style requirements. Respond only with JSON, no other text:
{"alignmentScore": 0.0-1.0, "predictedAcceptance": 0.0-1.0, "issues": [{"type": "verbosity|formality|hedging|tone|structure|word_choice", "severity": "minor|moderate|major", "description": "..."}], "suggestions": ["..."]}`

func buildCritiquePrompt(original, candidate, styleContext, sectionType string) string {
	var b strings.Builder
	b.WriteString("Style requirements:\n")
	b.WriteString(styleContext)
	if sectionType != "" {
		fmt.Fprintf(&b, "\nSection type: %s", sectionType)
	}
	b.WriteString("\n\nOriginal text:\n")
	b.WriteString(original)
	b.WriteString("\n\nEdited text:\n")
	b.WriteString(candidate)
	b.WriteString("\n\nScore the edit against the style requirements.")
	return b.String()
}

// rawAnalysis uses pointers so missing numeric fields are
// distinguishable from zeros.
type rawAnalysis struct {
	AlignmentScore      *float64   `json:"alignmentScore"`
	PredictedAcceptance *float64   `json:"predictedAcceptance"`
	Issues              []rawIssue `json:"issues"`
	Suggestions         []string   `json:"suggestions"`
}

type rawIssue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// parseAnalysis validates and clamps every field individually.
// Missing scores default to 0.5; missing issue type/severity default
// to structure/minor; missing suggestions become an empty list.
func parseAnalysis(response string) (Analysis, bool) {
	var raw rawAnalysis
	if !DecodeJSONObject(response, &raw) {
		return Analysis{}, false
	}

	analysis := Analysis{
		AlignmentScore:      clampScore(raw.AlignmentScore),
		PredictedAcceptance: clampScore(raw.PredictedAcceptance),
		Issues:              make([]Issue, 0, len(raw.Issues)),
		Suggestions:         raw.Suggestions,
	}
	if analysis.Suggestions == nil {
		analysis.Suggestions = []string{}
	}

	for _, ri := range raw.Issues {
		issue := Issue{
			Type:        IssueType(ri.Type),
			Severity:    IssueSeverity(ri.Severity),
			Description: ri.Description,
		}
		if issue.Type == "" {
			issue.Type = IssueStructure
		}
		if issue.Severity == "" {
			issue.Severity = SeverityMinor
		}
		analysis.Issues = append(analysis.Issues, issue)
	}

	return analysis, true
}

func clampScore(v *float64) float64 {
	if v == nil {
		return 0.5
	}
	return style.Clamp(*v, 0, 1)
}
