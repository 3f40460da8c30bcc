// Package futurewindow implements the stage/turn progression engine behind a
// survey chat that walks a respondent through a fixed sequence of
// conversational steps and issues a one-time finish code on completion.
package futurewindow

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("futurewindow: session not found")
	// ErrSessionComplete is returned when input arrives after the finish
	// code was issued; the session no longer accepts free text.
	ErrSessionComplete = errors.New("futurewindow: session already complete")
)

// Engine wires the stage controller, chat model, detector and store into the
// per-turn cycle, and owns the in-memory session registry.
type Engine struct {
	store      *Store
	model      ChatModel
	controller *Controller
	registry   *registry
	config     Config
}

// Init creates an Engine, runs DB migrations, and starts the idle-session
// sweep worker.
func Init(cfg Config) (*Engine, error) {
	cfg.ApplyDefaults()

	store, err := NewStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	model := cfg.ChatModel
	if model == nil && cfg.OpenAIAPIKey != "" {
		model = NewOpenAIChatModel(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model, cfg.Temperature)
	}

	detector := cfg.Detector
	if detector == nil {
		detector = NewLexicalDetector(cfg.Vocab)
	}

	e := &Engine{
		store:      store,
		model:      model,
		controller: NewController(detector, store),
		registry:   newRegistry(),
		config:     cfg,
	}
	e.startSweepWorker()

	log.Printf("[futurewindow] Initialized (db=%s, ttl=%v)", cfg.DBPath, cfg.SessionTTL)
	return e, nil
}

// SessionOptions controls session creation.
type SessionOptions struct {
	// FinishCode pre-assigns the code from an upstream system (e.g. a survey
	// query parameter). When set it takes precedence over local generation.
	FinishCode string
}

// StartSession creates and registers a new session seeded with the welcome
// message, and returns a snapshot of its initial state.
func (e *Engine) StartSession(opts SessionOptions) Session {
	s := &Session{
		ID:         uuid.NewString(),
		Stage:      StageWelcome,
		Step:       StepNone,
		FinishCode: opts.FinishCode,
		Messages:   []Message{{Role: RoleAssistant, Content: e.config.WelcomeMessage}},
	}
	e.registry.put(s)
	return s.snapshot()
}

// Session returns a point-in-time snapshot of a live session. The live
// session never leaves the registry; the copy is taken under the per-session
// lock, so reading it never races with an in-flight turn.
func (e *Engine) Session(id string) (Session, bool) {
	entry, ok := e.registry.get(id)
	if !ok {
		return Session{}, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session.snapshot(), true
}

// EndSession drops a session from the registry. There is no rehydration; the
// audit trail lives in the store.
func (e *Engine) EndSession(id string) {
	e.registry.remove(id)
}

// HandleMessage runs one full turn cycle for a registered session: controller
// pre-update, prompt composition, model call, controller post-update, and the
// best-effort turn log. Each session is single-writer; concurrent calls for
// the same session serialize. The returned snapshot is the session state as
// of the end of this turn, taken under the same lock; callers should use it
// instead of a follow-up lookup, which could observe a later turn or an
// already-expired session.
//
// A model failure is not an error to the caller: the fallback reply is
// returned, the session state stays retryable, and the respondent can simply
// try again next turn.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, text string) (string, Session, error) {
	entry, ok := e.registry.get(sessionID)
	if !ok {
		return "", Session{}, ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	reply, err := e.handleTurn(ctx, entry.session, text)
	return reply, entry.session.snapshot(), err
}

func (e *Engine) handleTurn(ctx context.Context, s *Session, text string) (string, error) {
	if s.Finished() {
		return "", ErrSessionComplete
	}

	e.controller.OnUserMessage(ctx, s, text)

	if e.model == nil {
		log.Printf("[futurewindow] no chat model configured")
		return e.config.Fallback, nil
	}

	req := ComposePrompt(e.config.SystemPrompt, s.Step, s.Messages)
	reply, err := e.model.Complete(ctx, req)
	if err != nil {
		log.Printf("[futurewindow] model call failed for session %s: %v", s.ID, err)
		return e.config.Fallback, nil
	}

	stored := e.controller.OnAssistantMessage(ctx, s, reply)

	if err := e.store.AppendTurnLog(ctx, TurnLog{
		SessionID:     s.ID,
		FinishCode:    s.FinishCode,
		Stage:         s.Stage,
		Turn:          s.Turn,
		UserText:      text,
		AssistantText: stored,
	}); err != nil {
		log.Printf("[futurewindow] turn log failed for session %s: %v", s.ID, err)
	}

	return stored, nil
}

// Store exposes the underlying store for inspection tooling.
func (e *Engine) Store() *Store {
	return e.store
}

// Close stops the sweep worker and closes the database.
func (e *Engine) Close() error {
	e.registry.stopSweep()
	return e.store.Close()
}
