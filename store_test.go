package futurewindow

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndReadTurnLogs(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entries := []TurnLog{
		{SessionID: "sess-1", Stage: StageWelcome, Turn: 0, UserText: "yes", AssistantText: "hello"},
		{SessionID: "sess-1", Stage: StageNarrative, Turn: 1, UserText: "fine", AssistantText: "good"},
		{SessionID: "sess-2", Stage: StageWelcome, Turn: 0, UserText: "hm", AssistantText: "ready?"},
	}
	for _, e := range entries {
		if err := s.AppendTurnLog(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	logs, err := s.TurnLogs(ctx, "sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("got %d rows for sess-1, want 2", len(logs))
	}
	if logs[0].UserText != "yes" || logs[1].Turn != 1 {
		t.Errorf("rows out of order: %+v", logs)
	}
	if logs[1].Stage != StageNarrative {
		t.Errorf("stage = %s, want narrative", logs[1].Stage)
	}
}

func TestSaveAndReadTranscript(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	finished := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	rec := TranscriptRecord{
		SessionID:  "sess-1",
		FinishCode: "00417",
		Messages: []Message{
			{Role: RoleAssistant, Content: "welcome"},
			{Role: RoleUser, Content: "yes"},
			{Role: RoleAssistant, Content: "done. Your finish code is **00417**."},
		},
		FinishedAt: finished,
	}
	if err := s.SaveTranscript(ctx, rec); err != nil {
		t.Fatal(err)
	}

	got, err := s.Transcript(ctx, "00417")
	if err != nil {
		t.Fatal(err)
	}
	if got.SessionID != "sess-1" {
		t.Errorf("session_id = %s", got.SessionID)
	}
	if len(got.Messages) != 3 || got.Messages[2].Content != rec.Messages[2].Content {
		t.Errorf("messages round-trip mismatch: %+v", got.Messages)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("finished_at = %v, want %v", got.FinishedAt, finished)
	}
}

func TestTranscriptNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.Transcript(context.Background(), "99999"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestIssuedCodes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	used, err := s.HasIssuedCode(ctx, "12345")
	if err != nil {
		t.Fatal(err)
	}
	if used {
		t.Error("fresh code reported as issued")
	}

	if err := s.RecordIssuedCode(ctx, "12345"); err != nil {
		t.Fatal(err)
	}
	// Re-recording is a no-op, not an error.
	if err := s.RecordIssuedCode(ctx, "12345"); err != nil {
		t.Fatal(err)
	}

	used, err = s.HasIssuedCode(ctx, "12345")
	if err != nil {
		t.Fatal(err)
	}
	if !used {
		t.Error("recorded code not reported as issued")
	}
}

func TestGenerateCodeAgainstRealStore(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	code := GenerateCode(ctx, s)
	if !fiveDigits.MatchString(code) {
		t.Fatalf("code %q is not 5 digits", code)
	}
	if err := s.RecordIssuedCode(ctx, code); err != nil {
		t.Fatal(err)
	}

	// The next draw never returns a recorded code (up to the retry bound,
	// which a single prior code cannot exhaust).
	next := GenerateCode(ctx, s)
	if next == code {
		t.Errorf("collision not redrawn: %s", next)
	}
}
