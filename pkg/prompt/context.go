package prompt

import (
	"fmt"
	"strings"

	"github.com/XiaoConstantine/tailor-go/pkg/style"
)

// DocumentContext carries the per-paragraph material the orchestration
// loop concatenates around the compiled style block. The compiler
// itself stays agnostic to it.
type DocumentContext struct {
	Goals           *style.DocumentGoals
	ParagraphIntent string
	Preceding       string
	Following       string
	PriorIssues     []string // previous attempt's critique issues, as "fix these" feedback
	AvoidWords      []string
	PreferWords     map[string]string
}

// BuildDocumentContext renders the document-level sections. The
// avoid-word block is rarely emitted: it is capped at
// style.MaxAvoidWords and skips words already implied by a
// prefer-word substitution.
func BuildDocumentContext(dc DocumentContext) string {
	var b strings.Builder

	if g := dc.Goals; g != nil {
		b.WriteString("Document goals:\n")
		if g.Summary != "" {
			b.WriteString("- Summary: " + g.Summary + "\n")
		}
		for _, obj := range g.Objectives {
			b.WriteString("- Objective: " + obj + "\n")
		}
		if g.MainArgument != "" {
			b.WriteString("- Main argument: " + g.MainArgument + "\n")
		}
		if g.AudienceNeeds != "" {
			b.WriteString("- Audience needs: " + g.AudienceNeeds + "\n")
		}
		for _, c := range g.SuccessCriteria {
			b.WriteString("- Success criterion: " + c + "\n")
		}
	}

	if dc.ParagraphIntent != "" {
		b.WriteString("This paragraph's role: " + dc.ParagraphIntent + "\n")
	}

	if dc.Preceding != "" {
		b.WriteString("Preceding paragraph (context only, do not edit):\n" + dc.Preceding + "\n")
	}
	if dc.Following != "" {
		b.WriteString("Following paragraph (context only, do not edit):\n" + dc.Following + "\n")
	}

	if len(dc.PriorIssues) > 0 {
		b.WriteString("The previous attempt had these problems. Fix them:\n")
		for _, issue := range dc.PriorIssues {
			b.WriteString("- " + issue + "\n")
		}
	}

	writeWordPreferences(&b, dc)

	return strings.TrimRight(b.String(), "\n")
}

func writeWordPreferences(b *strings.Builder, dc DocumentContext) {
	if len(dc.PreferWords) > 0 {
		b.WriteString("Word substitutions for this document:\n")
		for from, to := range dc.PreferWords {
			fmt.Fprintf(b, "- prefer %q over %q\n", to, from)
		}
	}

	if len(dc.AvoidWords) == 0 {
		return
	}

	// Skip words the substitution list already covers.
	implied := make(map[string]bool, len(dc.PreferWords))
	for from := range dc.PreferWords {
		implied[strings.ToLower(from)] = true
	}

	var words []string
	for _, w := range dc.AvoidWords {
		if implied[strings.ToLower(w)] {
			continue
		}
		words = append(words, w)
		if len(words) >= style.MaxAvoidWords {
			break
		}
	}
	if len(words) > 0 {
		b.WriteString("Avoid these words in this document: " + strings.Join(words, ", ") + "\n")
	}
}

// ReductionHint phrases the terse band's word-cut target for a
// specific text. The whitespace split is an approximation (it counts
// punctuation-only tokens and ignores multi-byte segmentation); it is
// only a soft prompt hint, never validated against.
func ReductionHint(text string) string {
	n := len(strings.Fields(text))
	if n == 0 {
		return ""
	}
	lo := n * (100 - style.TerseReductionMaxPct) / 100
	hi := n * (100 - style.TerseReductionMinPct) / 100
	return fmt.Sprintf("The original is about %d words; target %d-%d words.", n, lo, hi)
}
