package futurewindow

import (
	"context"
	"log"
	"time"
)

// Controller is the finite-state machine that owns stage, step and turn
// progression for a session. It consumes detector signals and raw message
// text; it decides transitions, mints the finish code exactly once, and
// triggers the single terminal transcript save.
//
// All transitions are signal-driven. Elapsed time and turn counts never gate
// a step: a step advances only when the required content for it has actually
// occurred, regardless of how many filler turns came before.
type Controller struct {
	detector SignalDetector
	store    TranscriptStore
}

// NewController builds a controller. The store may be nil, in which case the
// code uniqueness check and the terminal save degrade gracefully.
func NewController(detector SignalDetector, store TranscriptStore) *Controller {
	return &Controller{detector: detector, store: store}
}

// OnUserMessage appends the user's message and runs the pre-completion state
// update: the one-time WELCOME→NARRATIVE transition on an affirmative reply,
// or a turn increment once in the narrative. Delivery is assumed at-most-once
// per user action; the controller performs no deduplication.
func (c *Controller) OnUserMessage(ctx context.Context, s *Session, text string) {
	s.Messages = append(s.Messages, Message{Role: RoleUser, Content: text})
	s.LastActiveAt = time.Now()

	switch s.Stage {
	case StageWelcome:
		if c.detector.Detect(ctx, text, PredicateAffirmation) {
			s.Stage = StageNarrative
			s.Turn = 1
			s.Step = StepIntroduction
		}
	case StageNarrative:
		s.Turn++
	}
}

// OnAssistantMessage evaluates the completion signal for the current step
// against the assistant's reply, advances at most one step, and appends the
// reply. When the terminal step is reached the finish code is appended to
// this same message before it is stored, so the stored, displayed and logged
// text never diverge. Returns the text as stored.
func (c *Controller) OnAssistantMessage(ctx context.Context, s *Session, text string) string {
	if s.Stage == StageNarrative && s.Step < StepComplete {
		text = c.advance(ctx, s, text)
	}

	s.Messages = append(s.Messages, Message{Role: RoleAssistant, Content: text})
	s.LastActiveAt = time.Now()
	return text
}

// advance checks only the immediately-next step's signal — one level per
// call, even if the text would satisfy several steps at once.
func (c *Controller) advance(ctx context.Context, s *Session, text string) string {
	switch s.Step {
	case StepIntroduction:
		// The check-in only requires the presence of a reply: any user turn
		// after the affirmation satisfies it.
		if s.Turn >= 2 {
			s.Step = StepConsequences
		}
	case StepConsequences:
		if c.detector.Detect(ctx, text, PredicateEnvCausality) {
			s.Step = StepLosses
		}
	case StepLosses:
		if c.detector.Detect(ctx, text, PredicateLifeImpact) {
			s.Step = StepCallToAction
		}
	case StepCallToAction:
		// Both signals are required. Gratitude without the action list must
		// not issue a code; the action list without closure must not stall
		// the conversation open forever once the closing lands.
		if c.detector.Detect(ctx, text, PredicateCallToAction) &&
			c.detector.Detect(ctx, text, PredicateClosing) {
			s.Step = StepComplete
			text = c.finish(ctx, s, text)
		}
	}
	return text
}

// finish mints the code (once per session — a pre-assigned or cached code is
// never regenerated), appends it to the terminal message, and attempts the
// single transcript save.
func (c *Controller) finish(ctx context.Context, s *Session, text string) string {
	if s.FinishCode == "" {
		s.FinishCode = GenerateCode(ctx, c.store)
	}
	if c.store != nil {
		// Pre-assigned codes join the issued set here too, so later local
		// generation can never draw a colliding code.
		if err := c.store.RecordIssuedCode(ctx, s.FinishCode); err != nil {
			log.Printf("[futurewindow] record issued code: %v", err)
		}
	}

	text += "\n\nYour finish code is **" + s.FinishCode + "**."
	s.CodeIssued = true

	if !s.TranscriptSaved {
		s.TranscriptSaved = true
		if c.store != nil {
			// The terminal message is not in s.Messages yet; the saved
			// transcript must include it, code and all.
			msgs := make([]Message, len(s.Messages), len(s.Messages)+1)
			copy(msgs, s.Messages)
			msgs = append(msgs, Message{Role: RoleAssistant, Content: text})

			rec := TranscriptRecord{
				SessionID:  s.ID,
				FinishCode: s.FinishCode,
				Messages:   msgs,
				FinishedAt: time.Now().UTC(),
			}
			if err := c.store.SaveTranscript(ctx, rec); err != nil {
				// Data-loss risk for operators to follow up on; the code
				// already shown to the respondent stays valid.
				log.Printf("[futurewindow] ERROR: terminal transcript save failed for session %s: %v", s.ID, err)
			}
		}
	}

	return text
}
