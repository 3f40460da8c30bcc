package futurewindow

import (
	"context"
	"strings"
)

// Vocabulary holds the word lists the lexical strategy matches against.
// The zero value is filled with the defaults below.
type Vocabulary struct {
	// Affirmations match a user message that agrees to start.
	Affirmations []string
	// EnvCausality matches assistant text that ties a routine to
	// climate/environmental change.
	EnvCausality []string
	// LifeImpact matches assistant text that frames concrete losses.
	LifeImpact []string
	// CallToAction matches the headings and bullet topics of the mandatory
	// action list.
	CallToAction []string
	// ClosingGratitude and ClosingContext together match the closing
	// acknowledgment: a message must contain one word from each list.
	ClosingGratitude []string
	ClosingContext   []string
}

func (v *Vocabulary) applyDefaults() {
	if v.Affirmations == nil {
		v.Affirmations = []string{
			"ready", "sure", "yes", "yep", "yeah", "yup", "ya", "of course",
			"ok", "okay", "okey", "okie", "okey dokey", "alright", "all right",
			"start", "begin", "go ahead", "let's", "lets", "sounds good",
			"why not", "great",
		}
	}
	if v.EnvCausality == nil {
		v.EnvCausality = []string{
			"climate", "heat", "weather", "energy", "air", "water", "carbon",
		}
	}
	if v.LifeImpact == nil {
		v.LifeImpact = []string{
			"daily life", "harder", "difficult", "loss", "no longer", "miss",
			"used to", "my generation",
		}
	}
	if v.CallToAction == nil {
		v.CallToAction = []string{
			"big-picture actions", "micro habits", "green spaces",
			"public transport", "carbon tax", "green infrastructure",
			"single-use plastic",
		}
	}
	if v.ClosingGratitude == nil {
		v.ClosingGratitude = []string{"thank"}
	}
	if v.ClosingContext == nil {
		v.ClosingContext = []string{"conversation"}
	}
}

// LexicalDetector answers predicates by case-insensitive substring matching
// against a fixed vocabulary. Deterministic and zero-cost; used for the
// high-confidence checks. Implements SignalDetector.
type LexicalDetector struct {
	vocab Vocabulary
}

// NewLexicalDetector creates a detector over the given vocabulary. Empty
// lists are replaced with the defaults.
func NewLexicalDetector(vocab Vocabulary) *LexicalDetector {
	vocab.applyDefaults()
	return &LexicalDetector{vocab: vocab}
}

// Detect reports whether text satisfies the predicate.
func (d *LexicalDetector) Detect(_ context.Context, text string, p Predicate) bool {
	lower := strings.ToLower(text)

	switch p {
	case PredicateAffirmation:
		return containsAny(lower, d.vocab.Affirmations)
	case PredicateEnvCausality:
		return containsAny(lower, d.vocab.EnvCausality)
	case PredicateLifeImpact:
		return containsAny(lower, d.vocab.LifeImpact)
	case PredicateCallToAction:
		return containsAny(lower, d.vocab.CallToAction)
	case PredicateClosing:
		// Gratitude alone is not closure; the acknowledgment must name the
		// conversation too.
		return containsAny(lower, d.vocab.ClosingGratitude) &&
			containsAny(lower, d.vocab.ClosingContext)
	default:
		return false
	}
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
