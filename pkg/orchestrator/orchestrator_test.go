package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/tailor-go/internal/testutil"
	"github.com/XiaoConstantine/tailor-go/pkg/core"
	"github.com/XiaoConstantine/tailor-go/pkg/store"
	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

func critiqueJSON(score float64, issues string) string {
	return fmt.Sprintf(`{"alignmentScore": %.2f, "predictedAcceptance": %.2f, "issues": [%s], "suggestions": []}`, score, score, issues)
}

func singleParagraphRequest() *EditRequest {
	return &EditRequest{
		DocumentID:  "doc-1",
		Paragraphs:  []string{"It is important to note that the results were, in some sense, fairly significant."},
		TargetIndex: 0,
		Profile:     style.DefaultProfile(),
	}
}

func TestEditAcceptsOnFirstAttempt(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Content: "The results were significant."},
		testutil.ScriptedResponse{Content: critiqueJSON(0.9, "")},
	)
	o := New(svc, store.NewMemoryStore())

	result, err := o.Edit(context.Background(), singleParagraphRequest())
	require.NoError(t, err)

	assert.Equal(t, "The results were significant.", result.EditedText)
	assert.Equal(t, 1, result.Iterations)
	require.Len(t, result.Convergence, 1)
	assert.Equal(t, []string{"threshold met"}, result.Convergence[0].AdjustmentsMade)
	assert.True(t, result.Converged())
	assert.Equal(t, 2, svc.CallCount())
}

// The documented end-to-end scenario: terse band compiled into the
// prompt, a word_choice-only correction after a 0.6 critique, and
// convergence on the second attempt at 0.85.
func TestEditConvergesOnSecondAttempt(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	// Seed the document with a terse-band verbosity adjustment.
	record, err := st.Load(ctx, "doc-1")
	require.NoError(t, err)
	record.Adjustments.VerbosityAdjust = -1.2
	require.NoError(t, st.Save(ctx, record))

	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Content: "It is worth noting the results were, in some sense, significant."},
		testutil.ScriptedResponse{Content: critiqueJSON(0.6,
			`{"type": "word_choice", "severity": "moderate", "description": "kept the filler phrase 'in some sense'"}`)},
		testutil.ScriptedResponse{Content: "The results were significant."},
		testutil.ScriptedResponse{Content: critiqueJSON(0.85, "")},
	)
	o := New(svc, st)

	result, err := o.Edit(ctx, singleParagraphRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Iterations)
	require.Len(t, result.Convergence, 2)
	assert.Equal(t, 0.6, result.Convergence[0].AlignmentScore)
	assert.Equal(t, 0.85, result.Convergence[1].AlignmentScore)
	assert.Equal(t, "The results were significant.", result.EditedText)

	// First generation prompt carried the extreme-compression directive.
	require.GreaterOrEqual(t, svc.CallCount(), 1)
	assert.Contains(t, svc.Requests[0].Messages[0].Content, "aggressively concise")

	// Correction added the quoted token without touching sliders.
	reloaded, err := st.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, -1.2, reloaded.Adjustments.VerbosityAdjust)
	assert.Contains(t, reloaded.Adjustments.AdditionalAvoidWords, "in some sense")
}

func TestEditGivesUpAfterMaxRetries(t *testing.T) {
	var responses []testutil.ScriptedResponse
	for i := 0; i < MaxRetries; i++ {
		responses = append(responses,
			testutil.ScriptedResponse{Content: fmt.Sprintf("candidate %d", i+1)},
			testutil.ScriptedResponse{Content: critiqueJSON(0.4+float64(i)*0.1, "")},
		)
	}
	svc := testutil.NewScriptedCompletion(responses...)
	o := New(svc, store.NewMemoryStore())

	result, err := o.Edit(context.Background(), singleParagraphRequest())
	require.NoError(t, err)

	assert.Equal(t, MaxRetries, result.Iterations)
	assert.Len(t, result.Convergence, MaxRetries)
	assert.False(t, result.Converged())
	// Best candidate returned even though every attempt failed
	assert.Equal(t, "candidate 3", result.EditedText)
	assert.Equal(t, 0.6, result.Critique.AlignmentScore)
	// Exactly MaxRetries generate+critique pairs
	assert.Equal(t, MaxRetries*2, svc.CallCount())
}

func TestEditTiesKeepEarlierAttempt(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Content: "first candidate"},
		testutil.ScriptedResponse{Content: critiqueJSON(0.6, "")},
		testutil.ScriptedResponse{Content: "second candidate"},
		testutil.ScriptedResponse{Content: critiqueJSON(0.6, "")},
		testutil.ScriptedResponse{Content: "third candidate"},
		testutil.ScriptedResponse{Content: critiqueJSON(0.6, "")},
	)
	o := New(svc, store.NewMemoryStore())

	result, err := o.Edit(context.Background(), singleParagraphRequest())
	require.NoError(t, err)
	assert.Equal(t, "first candidate", result.EditedText)
}

func TestEditPropagatesGenerationFailure(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Err: errors.New("connection refused")},
	)
	o := New(svc, store.NewMemoryStore())

	_, err := o.Edit(context.Background(), singleParagraphRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}

func TestEditPropagatesCritiqueFailure(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Content: "candidate"},
		testutil.ScriptedResponse{Err: errors.New("rate limited")},
	)
	o := New(svc, store.NewMemoryStore())

	_, err := o.Edit(context.Background(), singleParagraphRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "critique failed")
}

// Unparseable critique JSON is not a failure: the optimistic default
// of 0.7 keeps the loop moving (and below threshold, retrying).
func TestEditUnparseableCritiqueUsesDefault(t *testing.T) {
	var responses []testutil.ScriptedResponse
	for i := 0; i < MaxRetries; i++ {
		responses = append(responses,
			testutil.ScriptedResponse{Content: "candidate"},
			testutil.ScriptedResponse{Content: "not json at all"},
		)
	}
	svc := testutil.NewScriptedCompletion(responses...)
	o := New(svc, store.NewMemoryStore())

	result, err := o.Edit(context.Background(), singleParagraphRequest())
	require.NoError(t, err)
	assert.Equal(t, 0.7, result.Critique.AlignmentScore)
	assert.Equal(t, MaxRetries, result.Iterations)
}

// Paragraph intent analysis is best-effort: its failure must not
// abort the loop.
func TestEditSurvivesIntentAnalysisFailure(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Err: errors.New("intent analysis exploded")},
		testutil.ScriptedResponse{Content: "candidate"},
		testutil.ScriptedResponse{Content: critiqueJSON(0.9, "")},
	)
	o := New(svc, store.NewMemoryStore())

	req := &EditRequest{
		DocumentID:  "doc-1",
		Paragraphs:  []string{"Intro paragraph.", "Body paragraph to edit."},
		TargetIndex: 1,
		Profile:     style.DefaultProfile(),
	}

	result, err := o.Edit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "candidate", result.EditedText)
}

func TestEditSurroundingParagraphsInPrompt(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Content: "this paragraph develops the argument"}, // intent analysis
		testutil.ScriptedResponse{Content: "candidate"},
		testutil.ScriptedResponse{Content: critiqueJSON(0.9, "")},
	)
	o := New(svc, store.NewMemoryStore())

	req := &EditRequest{
		DocumentID:  "doc-1",
		Paragraphs:  []string{"First.", "Second to edit.", "Third."},
		TargetIndex: 1,
		Profile:     style.DefaultProfile(),
	}

	_, err := o.Edit(context.Background(), req)
	require.NoError(t, err)

	// Request 1 is the generation call (0 was intent analysis)
	userMsg := svc.Requests[1].Messages[1].Content
	assert.Contains(t, userMsg, "First.")
	assert.Contains(t, userMsg, "Third.")
	assert.Contains(t, userMsg, "this paragraph develops the argument")
}

func TestEditCanceledContext(t *testing.T) {
	svc := testutil.NewScriptedCompletion()
	o := New(svc, store.NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Edit(ctx, singleParagraphRequest())
	assert.Error(t, err)
	assert.Zero(t, svc.CallCount())
}

func TestEditValidation(t *testing.T) {
	o := New(testutil.NewScriptedCompletion(), store.NewMemoryStore())

	_, err := o.Edit(context.Background(), &EditRequest{Paragraphs: []string{"x"}})
	assert.Error(t, err, "missing document id")

	_, err = o.Edit(context.Background(), &EditRequest{DocumentID: "d", Paragraphs: []string{"x"}, TargetIndex: 3})
	assert.Error(t, err, "target index out of range")
}

func TestEditStreaming(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Content: "streamed candidate"},
		testutil.ScriptedResponse{Content: critiqueJSON(0.9, "")},
	)
	o := New(svc, store.NewMemoryStore())

	var mu sync.Mutex
	var chunks []string
	req := singleParagraphRequest()
	req.OnChunk = func(chunk core.StreamChunk) {
		mu.Lock()
		defer mu.Unlock()
		if chunk.Content != "" {
			chunks = append(chunks, chunk.Content)
		}
	}

	result, err := o.Edit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "streamed candidate", result.EditedText)
	assert.Equal(t, []string{"streamed candidate"}, chunks)
}

func TestCritiqueEditStandalone(t *testing.T) {
	svc := testutil.NewScriptedCompletion(
		testutil.ScriptedResponse{Content: critiqueJSON(0.75, "")},
	)
	o := New(svc, store.NewMemoryStore())

	analysis, err := o.CritiqueEdit(context.Background(), "doc-1", "orig", "cand", "", style.DefaultProfile(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.75, analysis.AlignmentScore)
	assert.Equal(t, 1, svc.CallCount())
}

func TestEditEachIndependentDocuments(t *testing.T) {
	var responses []testutil.ScriptedResponse
	for i := 0; i < 4; i++ {
		responses = append(responses,
			testutil.ScriptedResponse{Content: "candidate"},
			testutil.ScriptedResponse{Content: critiqueJSON(0.9, "")},
		)
	}
	svc := testutil.NewScriptedCompletion(responses...)
	o := New(svc, store.NewMemoryStore())

	reqs := []*EditRequest{
		{DocumentID: "doc-a", Paragraphs: []string{"a"}, TargetIndex: 0, Profile: style.DefaultProfile()},
		{DocumentID: "doc-b", Paragraphs: []string{"b"}, TargetIndex: 0, Profile: style.DefaultProfile()},
	}

	results, errs := o.EditEach(context.Background(), reqs, 2)
	require.Len(t, results, 2)
	for i := range reqs {
		require.NoError(t, errs[i])
		assert.NotNil(t, results[i])
		assert.NotEmpty(t, results[i].EditedText)
	}
}
