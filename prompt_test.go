package futurewindow

import (
	"strings"
	"testing"
)

func TestComposePromptOrder(t *testing.T) {
	history := []Message{
		{Role: RoleAssistant, Content: "welcome"},
		{Role: RoleUser, Content: "yes"},
		{Role: RoleAssistant, Content: "hello"},
	}

	out := ComposePrompt("ROLE INSTRUCTIONS", 3, history)

	if len(out) != len(history)+2 {
		t.Fatalf("composed %d messages, want %d", len(out), len(history)+2)
	}
	if out[0].Role != RoleSystem || out[0].Content != "ROLE INSTRUCTIONS" {
		t.Errorf("first message = %+v, want the system prompt", out[0])
	}
	if out[1].Role != RoleSystem || !strings.Contains(out[1].Content, "STEP 3") {
		t.Errorf("second message = %+v, want the step directive", out[1])
	}
	for i, m := range history {
		if out[i+2] != m {
			t.Errorf("history message %d reordered: %+v", i, out[i+2])
		}
	}
}

func TestComposePromptDoesNotMutateHistory(t *testing.T) {
	history := []Message{{Role: RoleUser, Content: "hi"}}
	snapshot := history[0]

	out := ComposePrompt("sys", 1, history)
	out[2].Content = "mutated"

	if history[0] != snapshot {
		t.Error("composition mutated the caller's history")
	}
}

func TestComposePromptEmptyHistory(t *testing.T) {
	out := ComposePrompt("sys", 0, nil)
	if len(out) != 2 {
		t.Fatalf("composed %d messages, want 2", len(out))
	}
	if !strings.Contains(out[1].Content, "STEP 0") {
		t.Errorf("directive = %q, want STEP 0", out[1].Content)
	}
}
