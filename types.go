package futurewindow

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Stage is the coarse phase of a conversation.
type Stage string

const (
	StageWelcome   Stage = "welcome"   // consent check before the narrative begins
	StageNarrative Stage = "narrative" // the main guided dialogue
)

// Narrative steps. Step 0 means the narrative has not started; StepComplete
// is absorbing — once reached, the session takes no further input.
const (
	StepNone         = 0
	StepIntroduction = 1 // greeting + check-in question
	StepConsequences = 2 // environmental consequences of the user's routine
	StepLosses       = 3 // specific losses and daily-life impact
	StepCallToAction = 4 // action list + closing acknowledgment
	StepComplete     = 5 // finish code issued
)

// Session is one respondent's conversation run. It is an explicit value owned
// by a single caller; the controller mutates it only through OnUserMessage
// and OnAssistantMessage.
type Session struct {
	ID              string
	Messages        []Message
	Stage           Stage
	Step            int
	Turn            int // user turns since entering the narrative; diagnostic only
	FinishCode      string
	CodeIssued      bool
	TranscriptSaved bool
	CreatedAt       time.Time
	LastActiveAt    time.Time
}

// Finished reports whether the session has issued its finish code and stopped
// accepting input.
func (s Session) Finished() bool {
	return s.CodeIssued
}

// snapshot deep-copies the session so the copy can be read outside the
// per-session lock while turns keep mutating the original.
func (s *Session) snapshot() Session {
	out := *s
	out.Messages = append([]Message(nil), s.Messages...)
	return out
}

// TurnLog is one per-turn audit row: the user message and the assistant reply
// that answered it, with the stage/turn position at the time.
type TurnLog struct {
	SessionID     string
	FinishCode    string // empty until the code is issued
	Stage         Stage
	Turn          int
	UserText      string
	AssistantText string
}

// TranscriptRecord is the single terminal write of a full conversation.
type TranscriptRecord struct {
	SessionID  string
	FinishCode string
	Messages   []Message
	FinishedAt time.Time
}

// Config holds Engine initialization parameters.
type Config struct {
	DBPath         string  // path to the SQLite file (default: ./data/futurewindow.db)
	OpenAIAPIKey   string  // for the chat model and the model-classification detector
	OpenAIBaseURL  string  // override for tests; default is the public API
	Model          string  // chat model name (default gpt-4.1)
	Temperature    float64 // sampling temperature (default 0.8)
	SystemPrompt   string  // role instructions; defaults to DefaultSystemPrompt
	WelcomeMessage string  // first assistant message; defaults to DefaultWelcomeMessage
	Fallback       string  // reply substituted when the model call fails

	SessionTTL    time.Duration // idle sessions older than this are dropped (default 1h)
	SweepInterval time.Duration // how often the registry is swept (default 10m)

	Vocab Vocabulary // lexical signal vocabularies; zero value means defaults

	// Provider overrides. When nil, Init constructs defaults from the
	// fields above.
	ChatModel ChatModel
	Detector  SignalDetector
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.DBPath == "" {
		c.DBPath = "./data/futurewindow.db"
	}
	if c.Model == "" {
		c.Model = "gpt-4.1"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.8
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.WelcomeMessage == "" {
		c.WelcomeMessage = DefaultWelcomeMessage
	}
	if c.Fallback == "" {
		c.Fallback = DefaultFallbackMessage
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = time.Hour
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 10 * time.Minute
	}
	c.Vocab.applyDefaults()
}
