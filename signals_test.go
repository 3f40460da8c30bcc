package futurewindow

import (
	"context"
	"testing"
)

func TestLexicalAffirmation(t *testing.T) {
	d := NewLexicalDetector(Vocabulary{})
	ctx := context.Background()

	cases := []struct {
		text string
		want bool
	}{
		{"yes, ready", true},
		{"Sure!", true},
		{"okey dokey", true},
		{"sounds good to me", true},
		{"Why not", true},
		{"no thanks", false},
		{"what is this about?", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := d.Detect(ctx, tc.text, PredicateAffirmation); got != tc.want {
			t.Errorf("Detect(%q, affirmation) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestLexicalTopicSignals(t *testing.T) {
	d := NewLexicalDetector(Vocabulary{})
	ctx := context.Background()

	if !d.Detect(ctx, "Carbon levels will reshape your commute.", PredicateEnvCausality) {
		t.Error("env-causality missed 'carbon'")
	}
	if d.Detect(ctx, "Tell me about your morning.", PredicateEnvCausality) {
		t.Error("env-causality false positive")
	}

	if !d.Detect(ctx, "Quiet mornings are no longer possible.", PredicateLifeImpact) {
		t.Error("life-impact missed 'no longer'")
	}
	if d.Detect(ctx, "A pleasant morning overall.", PredicateLifeImpact) {
		t.Error("life-impact false positive")
	}

	if !d.Detect(ctx, "**Everyday Micro Habits**: fewer single-use plastics.", PredicateCallToAction) {
		t.Error("call-to-action missed the habits heading")
	}
}

func TestLexicalClosingRequiresConjunction(t *testing.T) {
	d := NewLexicalDetector(Vocabulary{})
	ctx := context.Background()

	if !d.Detect(ctx, "Thank you for this great conversation!", PredicateClosing) {
		t.Error("closing missed the full acknowledgment")
	}
	if d.Detect(ctx, "Thank you so much!", PredicateClosing) {
		t.Error("closing matched gratitude without the conversation phrase")
	}
	if d.Detect(ctx, "This conversation continues below.", PredicateClosing) {
		t.Error("closing matched the conversation phrase without gratitude")
	}
}

func TestCustomVocabulary(t *testing.T) {
	d := NewLexicalDetector(Vocabulary{Affirmations: []string{"jawohl"}})
	ctx := context.Background()

	if !d.Detect(ctx, "Jawohl, weiter", PredicateAffirmation) {
		t.Error("custom affirmation not matched")
	}
	if d.Detect(ctx, "yes", PredicateAffirmation) {
		t.Error("default affirmations leaked into a custom vocabulary")
	}
	// Unset lists still get defaults.
	if !d.Detect(ctx, "climate shifts", PredicateEnvCausality) {
		t.Error("default env vocabulary missing")
	}
}

func TestUnknownPredicate(t *testing.T) {
	d := NewLexicalDetector(Vocabulary{})
	if d.Detect(context.Background(), "anything", Predicate("nonsense")) {
		t.Error("unknown predicate should not match")
	}
}
