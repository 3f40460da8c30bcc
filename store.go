package futurewindow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection for conversation persistence. All writes
// are insert-only: rows are never updated in place, which makes concurrent
// sessions safe without coordination. Implements TranscriptStore.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database and runs migrations.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("futurewindow: mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("futurewindow: open db: %w", err)
	}

	// Single connection avoids write contention for our scale
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("futurewindow: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)

	var version int
	s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)

	if version < 1 {
		if _, err := s.db.Exec(`
			CREATE TABLE IF NOT EXISTS chat_logs (
				id                INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id        TEXT    NOT NULL,
				finish_code       TEXT    NOT NULL DEFAULT '',
				stage             TEXT    NOT NULL,
				turn              INTEGER NOT NULL,
				user_message      TEXT    NOT NULL,
				assistant_message TEXT    NOT NULL,
				created_at        TEXT    NOT NULL DEFAULT (datetime('now'))
			);
			CREATE INDEX IF NOT EXISTS idx_chat_logs_session ON chat_logs(session_id);

			CREATE TABLE IF NOT EXISTS full_conversations (
				id                INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id        TEXT NOT NULL,
				finish_code       TEXT NOT NULL,
				full_conversation TEXT NOT NULL,
				finished_at       TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_full_conversations_code ON full_conversations(finish_code);

			CREATE TABLE IF NOT EXISTS issued_codes (
				code      TEXT PRIMARY KEY,
				issued_at TEXT NOT NULL DEFAULT (datetime('now'))
			);
		`); err != nil {
			return err
		}
		s.db.Exec(`INSERT INTO schema_version (version) VALUES (1)`)
	}

	return nil
}

// AppendTurnLog writes one (turn, user message, assistant message) row.
func (s *Store) AppendTurnLog(ctx context.Context, entry TurnLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_logs (session_id, finish_code, stage, turn, user_message, assistant_message)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.SessionID, entry.FinishCode, string(entry.Stage), entry.Turn,
		entry.UserText, entry.AssistantText,
	)
	return err
}

// SaveTranscript writes the single terminal record of a full conversation.
// Messages are stored as a JSON array of {role, content} pairs.
func (s *Store) SaveTranscript(ctx context.Context, rec TranscriptRecord) error {
	payload, err := json.Marshal(rec.Messages)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO full_conversations (session_id, finish_code, full_conversation, finished_at)
		VALUES (?, ?, ?, ?)`,
		rec.SessionID, rec.FinishCode, string(payload),
		rec.FinishedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// HasIssuedCode reports whether a finish code was already handed out.
func (s *Store) HasIssuedCode(ctx context.Context, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issued_codes WHERE code = ?`, code).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordIssuedCode marks a code as issued. Re-recording the same code is a
// no-op, so re-entry of the terminal branch stays idempotent.
func (s *Store) RecordIssuedCode(ctx context.Context, code string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issued_codes (code) VALUES (?)
		ON CONFLICT(code) DO NOTHING`, code)
	return err
}

// TurnLogs returns the per-turn rows for a session in insertion order.
// Intended for inspection tooling, not the respondent path.
func (s *Store) TurnLogs(ctx context.Context, sessionID string) ([]TurnLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, finish_code, stage, turn, user_message, assistant_message
		FROM chat_logs WHERE session_id = ? ORDER BY id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []TurnLog
	for rows.Next() {
		var l TurnLog
		var stage string
		if err := rows.Scan(&l.SessionID, &l.FinishCode, &stage, &l.Turn,
			&l.UserText, &l.AssistantText); err != nil {
			return nil, err
		}
		l.Stage = Stage(stage)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Transcript returns the terminal record saved for a finish code, or
// sql.ErrNoRows if none was saved.
func (s *Store) Transcript(ctx context.Context, code string) (TranscriptRecord, error) {
	var rec TranscriptRecord
	var payload, finished string

	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, finish_code, full_conversation, finished_at
		FROM full_conversations WHERE finish_code = ?
		ORDER BY id DESC LIMIT 1`, code).
		Scan(&rec.SessionID, &rec.FinishCode, &payload, &finished)
	if err != nil {
		return rec, err
	}

	if err := json.Unmarshal([]byte(payload), &rec.Messages); err != nil {
		return rec, fmt.Errorf("unmarshal transcript: %w", err)
	}
	rec.FinishedAt, _ = time.Parse(time.RFC3339, finished)
	return rec, nil
}

// Close shuts down the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
