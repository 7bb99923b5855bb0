package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

func effectiveFor(adj style.DocumentAdjustments, overlay *style.AudienceOverlay) style.Effective {
	return style.ApplyAdjustments(style.DefaultProfile(), adj, overlay)
}

func TestCompileTerseBand(t *testing.T) {
	out := Compile(effectiveFor(style.DocumentAdjustments{VerbosityAdjust: -1.2}, nil))
	assert.Contains(t, out, "aggressively concise")
	assert.Contains(t, out, fmt.Sprintf("%d-%d%%", style.TerseReductionMinPct, style.TerseReductionMaxPct))
}

func TestCompileDetailedBand(t *testing.T) {
	out := Compile(effectiveFor(style.DocumentAdjustments{VerbosityAdjust: 0.5}, nil))
	assert.Contains(t, out, "Do not cut content")
}

func TestCompileModerateBand(t *testing.T) {
	out := Compile(effectiveFor(style.DocumentAdjustments{VerbosityAdjust: 0.49}, nil))
	assert.Contains(t, out, "balanced length")
	assert.NotContains(t, out, "aggressively concise")
}

func TestCompileFormalityBands(t *testing.T) {
	out := Compile(effectiveFor(style.DocumentAdjustments{FormalityAdjust: 1}, nil))
	assert.Contains(t, out, "No contractions")

	out = Compile(effectiveFor(style.DocumentAdjustments{FormalityAdjust: -1}, nil))
	assert.Contains(t, out, "Use contractions")
}

func TestCompileHedgingBands(t *testing.T) {
	out := Compile(effectiveFor(style.DocumentAdjustments{HedgingAdjust: -0.5}, nil))
	assert.Contains(t, out, "state claims directly")

	out = Compile(effectiveFor(style.DocumentAdjustments{HedgingAdjust: 0.5}, nil))
	assert.Contains(t, out, "qualify claims carefully")
}

func TestCompileFormats(t *testing.T) {
	profile := style.DefaultProfile()
	profile.FormatBans = []style.Format{style.FormatEmoji, style.FormatTables}
	profile.RequiredFormats = []style.Format{style.FormatBulletPoints}

	out := Compile(style.ApplyAdjustments(profile, style.NewDocumentAdjustments(), nil))
	assert.Contains(t, out, "Never use: emoji, tables.")
	assert.Contains(t, out, "Always use: bullet points.")
}

func TestCompileRulesConfidenceGate(t *testing.T) {
	profile := style.DefaultProfile()
	profile.LearnedRules = []style.LearnedRule{
		{Rule: "high confidence rule", Confidence: 0.8},
		{Rule: "low confidence rule", Confidence: 0.59},
	}

	out := Compile(style.ApplyAdjustments(profile, style.NewDocumentAdjustments(), nil))
	assert.Contains(t, out, "high confidence rule")
	assert.NotContains(t, out, "low confidence rule")
}

func TestCompileRulesTruncatedToMostRecent(t *testing.T) {
	profile := style.DefaultProfile()
	base := time.Now()
	for i := 0; i < MaxPromptRules+5; i++ {
		profile.LearnedRules = append(profile.LearnedRules, style.LearnedRule{
			Rule:       fmt.Sprintf("rule-%d", i),
			Confidence: 0.9,
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
	}

	out := Compile(style.ApplyAdjustments(profile, style.NewDocumentAdjustments(), nil))
	assert.Equal(t, MaxPromptRules, strings.Count(out, "- rule-"))
	assert.Contains(t, out, fmt.Sprintf("rule-%d", MaxPromptRules+4))
	assert.NotContains(t, out, "rule-0\n")
}

// Global word lists are structural-pattern free: never injected.
func TestCompileNeverInjectsGlobalWordLists(t *testing.T) {
	profile := style.DefaultProfile()
	profile.AvoidWords = []string{"xyzglobalavoid"}
	profile.PreferredWords = map[string]string{"xyzgfrom": "xyzgto"}

	out := Compile(style.ApplyAdjustments(profile, style.NewDocumentAdjustments(), nil))
	assert.NotContains(t, out, "xyzglobalavoid")
	assert.NotContains(t, out, "xyzgfrom")
}

func TestCompileOverlayAppendedLast(t *testing.T) {
	overlay := &style.AudienceOverlay{
		Name:           "reviewers",
		JargonLevel:    "high",
		EmphasisPoints: []string{"methodology"},
		LengthTarget:   "two paragraphs",
	}
	out := Compile(effectiveFor(style.NewDocumentAdjustments(), overlay))

	require.Contains(t, out, "Audience: reviewers.")
	assert.Contains(t, out, "Jargon level: high.")
	assert.Contains(t, out, "Emphasize: methodology.")
	assert.Contains(t, out, "Target length: two paragraphs.")
	assert.Greater(t, strings.Index(out, "Audience:"), strings.Index(out, "Hedging:"))
}
