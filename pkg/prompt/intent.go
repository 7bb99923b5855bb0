package prompt

import (
	"regexp"
	"strings"
)

// Intent classifies an instruction as a targeted edit or a request to
// generate substantially new content.
type Intent string

const (
	IntentEdit       Intent = "edit"
	IntentGeneration Intent = "generation"
)

// Temperatures per intent. Edits stay conservative; generation gets
// room to produce new text.
const (
	EditTemperature       = 0.25
	GenerationTemperature = 0.6
)

var generationVerbs = []string{"generate", "write", "create", "draft", "compose", "produce"}

var contentNouns = []string{
	"paragraph", "section", "introduction", "conclusion", "summary",
	"outline", "abstract", "draft", "version", "transition", "sentence",
	"example", "list", "heading", "title",
}

var expansionVerbs = []string{"expand", "elaborate", "develop", "continue"}

var generationPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^add (a|an|some|more)\b`),
	regexp.MustCompile(`(?i)\bfrom scratch\b`),
	regexp.MustCompile(`(?i)\bmake (it|this) longer\b`),
	regexp.MustCompile(`(?i)\bturn (this|these) into\b`),
}

// DetectIntent classifies the instruction. Classification is advisory
// and defaults to edit, the more conservative behavior, when ambiguous.
func DetectIntent(instruction string) Intent {
	text := strings.ToLower(strings.TrimSpace(instruction))
	if text == "" {
		return IntentEdit
	}

	for _, re := range generationPhrases {
		if re.MatchString(text) {
			return IntentGeneration
		}
	}

	for _, verb := range expansionVerbs {
		if containsWord(text, verb) {
			return IntentGeneration
		}
	}

	// A generation verb alone is not enough ("write it more plainly"
	// is an edit); it must pair with a content-type noun.
	hasVerb := false
	for _, verb := range generationVerbs {
		if containsWord(text, verb) {
			hasVerb = true
			break
		}
	}
	if hasVerb {
		for _, noun := range contentNouns {
			if containsWord(text, noun) {
				return IntentGeneration
			}
		}
	}

	return IntentEdit
}

// Temperature returns the sampling temperature for an intent.
func (i Intent) Temperature() float64 {
	if i == IntentGeneration {
		return GenerationTemperature
	}
	return EditTemperature
}

var wordBoundary = regexp.MustCompile(`[a-z]+`)

func containsWord(text, word string) bool {
	for _, w := range wordBoundary.FindAllString(text, -1) {
		if w == word {
			return true
		}
	}
	return false
}
