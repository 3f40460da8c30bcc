package main

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ecofutures/futurewindow"
	"github.com/go-chi/chi/v5"
)

type handler struct {
	engine *futurewindow.Engine
}

func newHandler(engine *futurewindow.Engine) *handler {
	return &handler{engine: engine}
}

type createSessionRequest struct {
	// FinishCode optionally pre-assigns the code, e.g. forwarded from a
	// survey platform's query parameter.
	FinishCode string `json:"finish_code,omitempty"`
}

type sessionResponse struct {
	SessionID  string                 `json:"session_id"`
	Stage      futurewindow.Stage     `json:"stage"`
	Step       int                    `json:"step"`
	Turn       int                    `json:"turn"`
	Finished   bool                   `json:"finished"`
	FinishCode string                 `json:"finish_code,omitempty"`
	Messages   []futurewindow.Message `json:"messages,omitempty"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Reply      string             `json:"reply"`
	Stage      futurewindow.Stage `json:"stage"`
	Step       int                `json:"step"`
	Finished   bool               `json:"finished"`
	FinishCode string             `json:"finish_code,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil {
		// An empty body is fine; the request struct is fully optional.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if code := r.URL.Query().Get("code"); code != "" {
		req.FinishCode = code
	}

	s := h.engine.StartSession(futurewindow.SessionOptions{FinishCode: req.FinishCode})
	slog.Info("Session started", "session_id", s.ID)

	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: s.ID,
		Stage:     s.Stage,
		Step:      s.Step,
		Turn:      s.Turn,
		Messages:  s.Messages,
	})
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.engine.Session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	resp := sessionResponse{
		SessionID: s.ID,
		Stage:     s.Stage,
		Step:      s.Step,
		Turn:      s.Turn,
		Finished:  s.Finished(),
		Messages:  s.Messages,
	}
	if s.CodeIssued {
		resp.FinishCode = s.FinishCode
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) postMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, s, err := h.engine.HandleMessage(r.Context(), id, req.Message)
	switch {
	case errors.Is(err, futurewindow.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
		return
	case errors.Is(err, futurewindow.ErrSessionComplete):
		writeError(w, http.StatusConflict, "session complete; please return to the survey with your finish code")
		return
	case err != nil:
		slog.Error("Handle message failed", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := messageResponse{
		Reply:    reply,
		Stage:    s.Stage,
		Step:     s.Step,
		Finished: s.Finished(),
	}
	if s.CodeIssued {
		resp.FinishCode = s.FinishCode
	}
	writeJSON(w, http.StatusOK, resp)
}

// transcriptCSV streams the session transcript as role,content rows, the
// download format respondents and operators already know.
func (h *handler) transcriptCSV(w http.ResponseWriter, r *http.Request) {
	s, ok := h.engine.Session(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transcript.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"role", "content"})
	for _, m := range s.Messages {
		_ = cw.Write([]string{string(m.Role), m.Content})
	}
	cw.Flush()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
