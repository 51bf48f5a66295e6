// Package httpadapter exposes the conversation and journal services over a
// small JSON API for the web front-end.
package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/confideai/confide-agent/internal/app/conversation"
	"github.com/confideai/confide-agent/internal/app/gateway"
	"github.com/confideai/confide-agent/internal/app/journal"
	"github.com/confideai/confide-agent/internal/domain"
)

// summaryConversationID marks a /chat request as a journal-summary call
// instead of a chat turn.
const summaryConversationID = "journal-summary"

type Server struct {
	conv *conversation.Service
	jrnl *journal.Manager
	gw   *gateway.Gateway
}

func NewServer(conv *conversation.Service, jrnl *journal.Manager, gw *gateway.Gateway) http.Handler {
	s := &Server{conv: conv, jrnl: jrnl, gw: gw}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/chat", s.handleChat)

	// /sessions → GET: threaded view, POST: mint id, DELETE: clear history
	mux.HandleFunc("/sessions", s.handleSessions)

	// /journal          → GET: list, POST: save entry
	// /journal/stats    → GET: entries per mood
	// /journal/undo     → POST: restore last soft-deleted entry
	// /journal/{id}     → DELETE: soft delete
	mux.HandleFunc("/journal", s.handleJournal)
	mux.HandleFunc("/journal/", s.handleJournalWithPath)

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages       []chatMessage `json:"messages"`
	SystemPrompt   string        `json:"systemPrompt,omitempty"`
	SessionID      string        `json:"sessionId,omitempty"`
	Message        string        `json:"message,omitempty"`
	ConversationID string        `json:"conversationId,omitempty"`
}

type chatResponse struct {
	Content  string `json:"content"`
	IsCrisis bool   `json:"is_crisis,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}

type summaryResponse struct {
	Message string `json:"message"`
}

type newSessionResponse struct {
	ID string `json:"id"`
}

type sessionResponse struct {
	ID           string            `json:"id,omitempty"`
	Title        string            `json:"title"`
	StartedAt    time.Time         `json:"started_at"`
	DominantMood string            `json:"dominant_mood,omitempty"`
	Messages     []messageResponse `json:"messages"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Mood      string    `json:"mood,omitempty"`
	IsCrisis  bool      `json:"is_crisis,omitempty"`
	Fallback  bool      `json:"fallback,omitempty"`
}

type saveEntryRequest struct {
	ID        string                     `json:"id,omitempty"`
	Date      time.Time                  `json:"date"`
	Responses map[string]json.RawMessage `json:"responses"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleChat serves both request shapes on the one endpoint the front-end
// uses: a chat turn carries a messages array, a journal-summary call carries a
// single message plus the reserved conversation id.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if req.ConversationID == summaryConversationID {
		if strings.TrimSpace(req.Message) == "" {
			badRequest(w, "message is required")
			return
		}
		summary := s.gw.SummarizeText(r.Context(), req.Message)
		writeJSON(w, http.StatusOK, summaryResponse{Message: summary})
		return
	}

	// Validation happens before any classification or provider work.
	if len(req.Messages) == 0 {
		badRequest(w, "messages array is required")
		return
	}
	last := req.Messages[len(req.Messages)-1]
	if strings.TrimSpace(last.Content) == "" {
		badRequest(w, "last message content is required")
		return
	}

	out, err := s.conv.SendMessage(r.Context(), conversation.SendMessageInput{
		SessionID: domain.SessionID(req.SessionID),
		Text:      last.Content,
	})
	if errors.Is(err, conversation.ErrEmptyMessage) {
		badRequest(w, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Content:  out.AssistantMessage.Text,
		IsCrisis: out.AssistantMessage.IsCrisis,
		Fallback: out.AssistantMessage.Fallback,
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sessions, err := s.conv.ListSessions(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionsResponse(sessions))
	case http.MethodPost:
		writeJSON(w, http.StatusCreated, newSessionResponse{ID: string(s.conv.NewSession())})
	case http.MethodDelete:
		if err := s.conv.ClearHistory(r.Context()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := s.jrnl.Entries(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	case http.MethodPost:
		s.handleSaveEntry(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleJournalWithPath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/journal/")
	switch {
	case path == "stats" && r.Method == http.MethodGet:
		stats, err := s.jrnl.MoodStats(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	case path == "undo" && r.Method == http.MethodPost:
		if err := s.jrnl.Undo(r.Context()); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case path != "" && !strings.Contains(path, "/") && r.Method == http.MethodDelete:
		err := s.jrnl.Delete(r.Context(), domain.JournalEntryID(path))
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// handleSaveEntry drives a full form pass in one request: the front-end
// collects all answers locally, then submits them together.
func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	var req saveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	ctx := r.Context()
	var err error
	if req.ID != "" {
		err = s.jrnl.StartEdit(ctx, domain.JournalEntryID(req.ID))
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
	} else {
		err = s.jrnl.StartEntry(ctx, req.Date)
	}
	if err != nil {
		internalError(w, err)
		return
	}

	for key, raw := range req.Responses {
		var ans domain.Answer
		if err := ans.UnmarshalJSON(raw); err != nil {
			badRequest(w, "response "+key+": "+err.Error())
			return
		}
		promptID, kind := splitResponseKey(key)
		if err := s.jrnl.SetResponse(ctx, promptID, kind, ans); err != nil {
			internalError(w, err)
			return
		}
	}

	// Walk to the final step; the sequence length depends on the mood the
	// submitted answers selected.
	for s.jrnl.Step() < len(s.jrnl.Prompts())-1 {
		if err := s.jrnl.Next(ctx); err != nil {
			internalError(w, err)
			return
		}
	}

	entry, err := s.jrnl.Save(ctx)
	if errors.Is(err, journal.ErrMoodRequired) {
		badRequest(w, err.Error())
		return
	}
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func splitResponseKey(key string) (string, journal.ResponseKind) {
	if id, ok := strings.CutSuffix(key, "_sub"); ok {
		return id, journal.ResponseSub
	}
	if id, ok := strings.CutSuffix(key, "_followup"); ok {
		return id, journal.ResponseFollowUp
	}
	return key, journal.ResponseMain
}

func toSessionsResponse(sessions []*domain.Session) []sessionResponse {
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		msgs := make([]messageResponse, 0, len(sess.Messages))
		for _, m := range sess.Messages {
			msgs = append(msgs, messageResponse{
				ID:        string(m.ID),
				SessionID: string(m.SessionID),
				Author:    string(m.Author),
				Text:      m.Text,
				CreatedAt: m.CreatedAt,
				Mood:      string(m.Mood),
				IsCrisis:  m.IsCrisis,
				Fallback:  m.Fallback,
			})
		}
		out = append(out, sessionResponse{
			ID:           string(sess.ID),
			Title:        sess.Title,
			StartedAt:    sess.StartedAt,
			DominantMood: string(sess.DominantMood),
			Messages:     msgs,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
