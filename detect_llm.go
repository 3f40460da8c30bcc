package futurewindow

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// predicateQuestions phrases each predicate as a question the model can
// answer with a single YES or NO token.
var predicateQuestions = map[Predicate]string{
	PredicateAffirmation:  "Did the speaker agree to start or continue?",
	PredicateEnvCausality: "Does the text explain how an everyday routine changes because of climate or environmental conditions?",
	PredicateLifeImpact:   "Does the text describe concrete losses or hardships in daily life?",
	PredicateCallToAction: "Does the text present a list of concrete actions the reader can take?",
	PredicateClosing:      "Does the text thank the reader for the conversation and move to close it?",
}

// ModelDetector answers predicates with a single constrained YES/NO request
// to the chat model. Predicates not in its model set fall through to the
// lexical strategy, which stays zero-cost for the unambiguous checks.
//
// Failure policy: if the model call errors or returns garbage, Detect fails
// open (returns true) so a flaky classifier can only make the conversation
// progress too eagerly, never deadlock it. Implements SignalDetector.
type ModelDetector struct {
	model   ChatModel
	lexical *LexicalDetector
	useLLM  map[Predicate]bool
}

// NewModelDetector creates a detector that asks the chat model about the
// given predicates and answers everything else lexically. With no predicates
// listed, the semantic checks (env-causality, life-impact) go to the model.
func NewModelDetector(model ChatModel, vocab Vocabulary, predicates ...Predicate) *ModelDetector {
	if len(predicates) == 0 {
		predicates = []Predicate{PredicateEnvCausality, PredicateLifeImpact}
	}
	useLLM := make(map[Predicate]bool, len(predicates))
	for _, p := range predicates {
		useLLM[p] = true
	}
	return &ModelDetector{
		model:   model,
		lexical: NewLexicalDetector(vocab),
		useLLM:  useLLM,
	}
}

// Detect reports whether text satisfies the predicate.
func (d *ModelDetector) Detect(ctx context.Context, text string, p Predicate) bool {
	if !d.useLLM[p] || d.model == nil {
		return d.lexical.Detect(ctx, text, p)
	}

	question, ok := predicateQuestions[p]
	if !ok {
		return d.lexical.Detect(ctx, text, p)
	}

	prompt := fmt.Sprintf(
		"%s Reply with ONLY the word YES or NO, nothing else.\n\nText: %q", question, text)

	reply, err := d.model.Complete(ctx, []Message{
		{Role: RoleSystem, Content: "You answer yes/no questions about a piece of text. Reply with a single word: YES or NO."},
		{Role: RoleUser, Content: prompt},
	})
	if err != nil {
		log.Printf("[futurewindow] detect %s failed, failing open: %v", p, err)
		return true
	}

	token := firstToken(reply)
	switch token {
	case "yes":
		return true
	case "no":
		return false
	default:
		log.Printf("[futurewindow] detect %s: unparseable reply %q, failing open", p, reply)
		return true
	}
}

// firstToken returns the first whitespace-delimited token, trimmed of
// punctuation and lowercased.
func firstToken(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(fields[0], ".,!:\"'"))
}
