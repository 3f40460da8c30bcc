package futurewindow

import "context"

// ChatModel is the language-model boundary: one synchronous text completion
// for an ordered list of role-tagged messages.
// Built-in: OpenAIChatModel. Implement this to swap providers or to fake the
// model in tests.
type ChatModel interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Predicate names a narrow yes/no question a detector can answer about a
// piece of text.
type Predicate string

const (
	// PredicateAffirmation: did the user just agree to start?
	PredicateAffirmation Predicate = "affirmation"
	// PredicateEnvCausality: does the assistant text reference
	// environmental/climate causality?
	PredicateEnvCausality Predicate = "env-causality"
	// PredicateLifeImpact: does the assistant text reference life-impact or
	// loss framing?
	PredicateLifeImpact Predicate = "life-impact"
	// PredicateCallToAction: does the assistant text contain the
	// call-to-action content markers?
	PredicateCallToAction Predicate = "call-to-action"
	// PredicateClosing: does the assistant text contain a closing
	// acknowledgment (thanks for the conversation)?
	PredicateClosing Predicate = "closing"
)

// SignalDetector answers boolean questions about free-form text, used to gate
// stage and step transitions.
// Built-in: LexicalDetector (vocabulary matching) and ModelDetector (one-shot
// YES/NO classification via the chat model, failing open on error).
type SignalDetector interface {
	Detect(ctx context.Context, text string, p Predicate) bool
}

// TranscriptStore persists conversation rows and issued codes. The per-turn
// and terminal writes are best-effort from the engine's point of view: errors
// are logged and never reach the respondent.
type TranscriptStore interface {
	AppendTurnLog(ctx context.Context, entry TurnLog) error
	SaveTranscript(ctx context.Context, rec TranscriptRecord) error
	HasIssuedCode(ctx context.Context, code string) (bool, error)
	RecordIssuedCode(ctx context.Context, code string) error
}
