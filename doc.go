// Package tailor adapts AI-generated text edits to an individual
// author's writing style and improves that alignment over time from
// the author's accept/reject decisions.
//
// Tailor-Go compiles a layered style specification into natural-language
// editing instructions, drives an iterative generate-critique-correct
// loop against a text-completion service, and updates a per-document
// preference model with dampened, clamped, confidence-weighted learning
// so that a single example cannot destabilize the model.
//
// Key Components:
//
//   - Style: The layered style data model. A global StyleProfile, named
//     AudienceOverlays, and per-document DocumentAdjustments with three
//     bounded sliders (verbosity, formality, hedging), word preferences,
//     and learned rules.
//
//   - Prompt: Compiles the merged effective style into a deterministic
//     system prompt, with discrete verbosity and formality bands, and
//     builds per-attempt document context (goals, surrounding
//     paragraphs, prior critique issues).
//
//   - Critique: Scores a candidate edit against the effective style
//     with a single low-temperature completion call, recovering from
//     malformed responses with documented optimistic defaults.
//
//   - Orchestrator: The retry loop. Generates a candidate, critiques
//     it, accepts at the alignment threshold or applies bounded
//     word-level corrections and retries, and always returns its best
//     candidate with a convergence trail.
//
//   - Learning: Terminal updates from user decisions. Decision-based
//     learning infers dampened slider deltas from the suggested-vs-final
//     diff; explicit feedback tags map to learned rules; rule lists are
//     consolidated once they reach their cap.
//
//   - Store: Per-document preference persistence with SQLite and
//     in-memory backends, serialized per document and guarded by a
//     version compare-and-swap.
//
// The cmd/tailor CLI wires these together for one-shot edits, decision
// reporting, and preference inspection.
package tailor
