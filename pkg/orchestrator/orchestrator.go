// Package orchestrator drives the adaptive edit loop: generate a
// candidate, critique it against the effective style, correct, and
// retry until the alignment threshold is met or the retry budget runs
// out. The loop is an explicit state machine per attempt; every
// attempt leaves an immutable convergence entry.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/critique"
	"github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
	"github.com/XiaoConstantine/tailor-go/pkg/prompt"
	"github.com/XiaoConstantine/tailor-go/pkg/store"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// Orchestrator runs edit requests against a completion service and
// keeps per-document preference state in a Store. Independent
// documents may be edited concurrently; work on the same document is
// serialized through the lock registry.
type Orchestrator struct {
	svc       core.CompletionService
	evaluator *critique.Evaluator
	store     store.Store
	locks     *store.KeyedLocks
}

// New creates an orchestrator.
func New(svc core.CompletionService, st store.Store) *Orchestrator {
	return &Orchestrator{
		svc:       svc,
		evaluator: critique.NewEvaluator(svc),
		store:     st,
		locks:     store.NewKeyedLocks(),
	}
}

// Edit runs the full generate-critique-correct loop for one request.
// It always returns the best candidate seen, even below threshold; a
// completion-service failure propagates as an edit-failed error.
func (o *Orchestrator) Edit(ctx context.Context, req *EditRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	logger := logging.GetLogger()
	ctx = logging.WithDocumentID(ctx, req.DocumentID)
	ctx = logging.WithModelID(ctx, o.svc.ModelID())

	unlock := o.locks.Lock(req.DocumentID)
	defer unlock()

	record, err := o.store.Load(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	intent := prompt.DetectIntent(req.Instruction)
	original := req.Target()

	// Best-effort context enrichment; failures are swallowed.
	paragraphIntent := o.analyzeParagraphIntent(ctx, req)

	var bestEdit string
	var bestCritique critique.Analysis
	bestScore := -1.0
	var convergence []ConvergenceEntry
	var priorIssues []string
	iterations := 0

	for attempt := 1; attempt <= MaxRetries; attempt++ {
		iterations = attempt
		attemptCtx := logging.WithAttempt(ctx, attempt)

		if err := errors.CheckContext(attemptCtx, "edit"); err != nil {
			return nil, err
		}

		// Apply current adjustments each attempt: corrections from the
		// previous attempt feed the next prompt.
		eff := style.ApplyAdjustments(req.Profile, record.Adjustments, req.Overlay)
		compiled := prompt.Compile(eff)

		candidate, err := o.generate(attemptCtx, req, eff, compiled, paragraphIntent, priorIssues, intent, &record.Adjustments)
		if err != nil {
			return nil, errors.Wrap(err, errors.EditFailed, "generation failed")
		}
		if err := errors.CheckContext(attemptCtx, "edit"); err != nil {
			// An in-flight call may complete after cancellation; its
			// result is discarded, never applied.
			return nil, err
		}

		analysis, err := o.evaluator.Evaluate(attemptCtx, original, candidate, compiled, req.SectionType)
		if err != nil {
			return nil, errors.Wrap(err, errors.EditFailed, "critique failed")
		}
		if err := errors.CheckContext(attemptCtx, "edit"); err != nil {
			return nil, err
		}

		logger.Debug(attemptCtx, "attempt %d scored %.2f", attempt, analysis.AlignmentScore)

		// Ties keep the earlier attempt.
		if analysis.AlignmentScore > bestScore {
			bestScore = analysis.AlignmentScore
			bestEdit = candidate
			bestCritique = analysis
		}

		if analysis.AlignmentScore >= AlignmentThreshold {
			convergence = append(convergence, ConvergenceEntry{
				Attempt:         attempt,
				AlignmentScore:  analysis.AlignmentScore,
				AdjustmentsMade: []string{adjustmentThresholdMet},
			})
			break
		}

		strength := NormalCorrectionStrength
		if analysis.AlignmentScore < StrongMisalignmentThreshold {
			strength = StrongCorrectionStrength
		}
		made := applyCorrections(attemptCtx, &record.Adjustments, analysis.Issues, strength)
		convergence = append(convergence, ConvergenceEntry{
			Attempt:         attempt,
			AlignmentScore:  analysis.AlignmentScore,
			AdjustmentsMade: made,
		})

		priorIssues = priorIssues[:0]
		for _, issue := range analysis.Issues {
			priorIssues = append(priorIssues, issue.Description)
		}

		if attempt == MaxRetries {
			logger.Info(attemptCtx, "giving up after %d attempts, best score %.2f", attempt, bestScore)
		}
	}

	if err := o.store.Save(ctx, record); err != nil {
		return nil, err
	}

	return &Result{
		EditedText:   bestEdit,
		OriginalText: original,
		Critique:     bestCritique,
		Iterations:   iterations,
		Convergence:  convergence,
	}, nil
}

// generate compiles the full prompt for one attempt and calls the
// completion service, streaming when the request asks for it.
func (o *Orchestrator) generate(ctx context.Context, req *EditRequest, eff style.Effective, compiled, paragraphIntent string, priorIssues []string, intent prompt.Intent, adj *style.DocumentAdjustments) (string, error) {
	original := req.Target()

	docContext := prompt.BuildDocumentContext(prompt.DocumentContext{
		Goals:           adj.Goals,
		ParagraphIntent: paragraphIntent,
		Preceding:       paragraphBefore(req),
		Following:       paragraphAfter(req),
		PriorIssues:     priorIssues,
		AvoidWords:      adj.AdditionalAvoidWords,
		PreferWords:     adj.AdditionalPreferWords,
	})

	system := operatingInstructions(intent) + "\n\n" + compiled

	var user strings.Builder
	if docContext != "" {
		user.WriteString(docContext)
		user.WriteString("\n\n")
	}
	if md := req.Metadata; md != nil {
		writeMetadata(&user, md)
	}
	user.WriteString("Paragraph to edit:\n")
	user.WriteString(original)
	if req.Instruction != "" {
		user.WriteString("\n\nInstruction: ")
		user.WriteString(req.Instruction)
	}
	if eff.Verbosity == style.VerbosityTerse {
		if hint := prompt.ReductionHint(original); hint != "" {
			user.WriteString("\n")
			user.WriteString(hint)
		}
	}
	user.WriteString("\n\nRespond with only the edited paragraph, no commentary.")

	creq := core.CompletionRequest{
		Messages: []core.Message{
			core.NewSystemMessage(system),
			core.NewUserMessage(user.String()),
		},
		Temperature: intent.Temperature(),
		MaxTokens:   maxTokensFor(intent, original),
	}

	var resp *core.CompletionResponse
	var err error
	if req.OnChunk != nil {
		resp, err = o.svc.StreamComplete(ctx, creq, req.OnChunk)
	} else {
		resp, err = o.svc.Complete(ctx, creq)
	}
	if err != nil {
		return "", err
	}
	return CleanCandidate(resp.Content), nil
}

func operatingInstructions(intent prompt.Intent) string {
	if intent == prompt.IntentGeneration {
		return "Write new content in the author's voice. Match the surrounding document's tone and structure."
	}
	return "Make targeted, minimal changes to the text. Preserve the author's meaning and structure; change only what the instruction and style require."
}

// maxTokensFor caps edit output relative to the input so a minimal
// edit cannot balloon; generation requests keep the provider default.
func maxTokensFor(intent prompt.Intent, original string) int {
	if intent == prompt.IntentGeneration {
		return 0
	}
	approx := len(original)/4 + 256
	if approx < 512 {
		approx = 512
	}
	return approx * 2
}

func writeMetadata(b *strings.Builder, md *DocumentMetadata) {
	if md.Title != "" {
		fmt.Fprintf(b, "Document: %s", md.Title)
		if md.DocType != "" {
			fmt.Fprintf(b, " (%s)", md.DocType)
		}
		b.WriteString("\n")
	}
	if md.MainArgument != "" {
		fmt.Fprintf(b, "Main argument: %s\n", md.MainArgument)
	}
	if len(md.KeyTerms) > 0 {
		fmt.Fprintf(b, "Key terms: %s\n", strings.Join(md.KeyTerms, ", "))
	}
	b.WriteString("\n")
}

func paragraphBefore(req *EditRequest) string {
	if req.TargetIndex > 0 {
		return req.Paragraphs[req.TargetIndex-1]
	}
	return ""
}

func paragraphAfter(req *EditRequest) string {
	if req.TargetIndex < len(req.Paragraphs)-1 {
		return req.Paragraphs[req.TargetIndex+1]
	}
	return ""
}

// analyzeParagraphIntent asks for a one-sentence statement of the
// target paragraph's role. Failures here never abort the loop.
func (o *Orchestrator) analyzeParagraphIntent(ctx context.Context, req *EditRequest) string {
	logger := logging.GetLogger()

	if len(req.Paragraphs) < 2 {
		return ""
	}
	if err := ctx.Err(); err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Document paragraphs:\n")
	for i, p := range req.Paragraphs {
		marker := " "
		if i == req.TargetIndex {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s [%d] %s\n", marker, i+1, p)
	}
	fmt.Fprintf(&b, "\nIn one sentence, state the role of paragraph %d (marked with >) in this document.", req.TargetIndex+1)

	resp, err := o.svc.Complete(ctx, core.CompletionRequest{
		Messages:    []core.Message{core.NewUserMessage(b.String())},
		Temperature: 0.2,
		MaxTokens:   128,
	})
	if err != nil {
		logger.Warn(ctx, "paragraph intent analysis failed, continuing without it: %v", err)
		return ""
	}
	return strings.TrimSpace(resp.Content)
}

// CritiqueEdit scores a candidate against the document's current
// effective style without running the loop. Used by callers that show
// standalone alignment scores.
func (o *Orchestrator) CritiqueEdit(ctx context.Context, documentID, original, candidate, sectionType string, profile style.StyleProfile, overlay *style.AudienceOverlay) (critique.Analysis, error) {
	record, err := o.store.Load(ctx, documentID)
	if err != nil {
		return critique.Analysis{}, err
	}
	compiled := prompt.Compile(style.ApplyAdjustments(profile, record.Adjustments, overlay))
	return o.evaluator.Evaluate(ctx, original, candidate, compiled, sectionType)
}

// EditEach runs independent edit requests concurrently. Requests
// against the same document still serialize through the per-document
// locks. Results and errors align with the input slice.
func (o *Orchestrator) EditEach(ctx context.Context, reqs []*EditRequest, maxConcurrent int) ([]*Result, []error) {
	if maxConcurrent <= 0 {
		maxConcurrent = len(reqs)
	}

	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))

	p := pool.New().WithMaxGoroutines(maxConcurrent)
	for i := range reqs {
		i := i
		p.Go(func() {
			results[i], errs[i] = o.Edit(ctx, reqs[i])
		})
	}
	p.Wait()

	return results, errs
}
