// futurewindow-mcp exposes the survey chat engine as an MCP stdio server,
// for headless driving of sessions and operator inspection of stored
// transcripts.
//
// Environment variables:
//
//	FUTUREWINDOW_DB_PATH — SQLite database path (default: ./data/futurewindow.db)
//	OPENAI_API_KEY       — OpenAI API key for the chat model
//	OPENAI_MODEL         — chat model (default gpt-4.1)
//
// Usage:
//
//	go install github.com/ecofutures/futurewindow/cmd/futurewindow-mcp
//	futurewindow-mcp
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ecofutures/futurewindow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	dbPath := os.Getenv("FUTUREWINDOW_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/futurewindow.db"
	}

	engine, err := futurewindow.Init(futurewindow.Config{
		DBPath:       dbPath,
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		Model:        os.Getenv("OPENAI_MODEL"),
	})
	if err != nil {
		log.Fatalf("futurewindow init: %v", err)
	}
	defer engine.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "futurewindow-mcp",
		Version: "1.0.0",
	}, nil)

	// --- Tool: start_session ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_session",
		Description: "Start a new survey chat session. Returns the session ID and the welcome message.",
	}, startSessionHandler(engine))

	// --- Tool: send_message ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_message",
		Description: "Send one user message to a session and get the assistant reply plus the updated stage/step state.",
	}, sendMessageHandler(engine))

	// --- Tool: get_session ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_session",
		Description: "Return the full in-memory state of a live session, including its transcript.",
	}, getSessionHandler(engine))

	// --- Tool: inspect ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Read the stored audit rows for a session, or the saved terminal transcript for a finish code.",
	}, inspectHandler(engine))

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("futurewindow-mcp: %v", err)
	}
}

// --- Input types ---

type startSessionInput struct {
	FinishCode string `json:"finish_code,omitempty" jsonschema:"Optional pre-assigned finish code from an upstream system"`
}

type sendMessageInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID returned by start_session"`
	Message   string `json:"message"    jsonschema:"The user's message text"`
}

type getSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID"`
}

type inspectInput struct {
	SessionID  string `json:"session_id,omitempty"  jsonschema:"Session ID to list per-turn audit rows for"`
	FinishCode string `json:"finish_code,omitempty" jsonschema:"Finish code to fetch the saved terminal transcript for"`
}

// --- Handlers ---

func startSessionHandler(engine *futurewindow.Engine) func(context.Context, *mcp.CallToolRequest, startSessionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input startSessionInput) (*mcp.CallToolResult, any, error) {
		s := engine.StartSession(futurewindow.SessionOptions{FinishCode: input.FinishCode})
		return textResult(jsonString(map[string]any{
			"session_id": s.ID,
			"welcome":    s.Messages[0].Content,
		})), nil, nil
	}
}

func sendMessageHandler(engine *futurewindow.Engine) func(context.Context, *mcp.CallToolRequest, sendMessageInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input sendMessageInput) (*mcp.CallToolResult, any, error) {
		reply, s, err := engine.HandleMessage(ctx, input.SessionID, input.Message)
		if errors.Is(err, futurewindow.ErrSessionComplete) {
			return textResult(jsonString(map[string]any{
				"finished":    true,
				"finish_code": s.FinishCode,
				"note":        "session complete; no further input accepted",
			})), nil, nil
		}
		if err != nil {
			return textResult(fmt.Sprintf("error: %v", err)), nil, nil
		}

		out := map[string]any{
			"reply":    reply,
			"stage":    s.Stage,
			"step":     s.Step,
			"turn":     s.Turn,
			"finished": s.Finished(),
		}
		if s.CodeIssued {
			out["finish_code"] = s.FinishCode
		}
		return textResult(jsonString(out)), nil, nil
	}
}

func getSessionHandler(engine *futurewindow.Engine) func(context.Context, *mcp.CallToolRequest, getSessionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input getSessionInput) (*mcp.CallToolResult, any, error) {
		s, ok := engine.Session(input.SessionID)
		if !ok {
			return textResult("error: session not found"), nil, nil
		}
		return textResult(jsonString(sessionToMap(s))), nil, nil
	}
}

func inspectHandler(engine *futurewindow.Engine) func(context.Context, *mcp.CallToolRequest, inspectInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, any, error) {
		switch {
		case input.FinishCode != "":
			rec, err := engine.Store().Transcript(ctx, input.FinishCode)
			if err != nil {
				return textResult(fmt.Sprintf("error: %v", err)), nil, nil
			}
			return textResult(jsonString(map[string]any{
				"session_id":  rec.SessionID,
				"finish_code": rec.FinishCode,
				"finished_at": rec.FinishedAt,
				"messages":    rec.Messages,
			})), nil, nil

		case input.SessionID != "":
			logs, err := engine.Store().TurnLogs(ctx, input.SessionID)
			if err != nil {
				return textResult(fmt.Sprintf("error: %v", err)), nil, nil
			}
			return textResult(jsonString(logs)), nil, nil

		default:
			return textResult("error: session_id or finish_code is required"), nil, nil
		}
	}
}

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func sessionToMap(s futurewindow.Session) map[string]any {
	m := map[string]any{
		"session_id": s.ID,
		"stage":      s.Stage,
		"step":       s.Step,
		"turn":       s.Turn,
		"finished":   s.Finished(),
		"messages":   s.Messages,
	}
	if s.CodeIssued {
		m["finish_code"] = s.FinishCode
	}
	return m
}

func jsonString(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal: %v"}`, err)
	}
	return string(data)
}
