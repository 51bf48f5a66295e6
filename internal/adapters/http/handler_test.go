package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/confideai/confide-agent/internal/adapters/http"
	"github.com/confideai/confide-agent/internal/adapters/llm"
	"github.com/confideai/confide-agent/internal/adapters/storage/memory"
	"github.com/confideai/confide-agent/internal/app/conversation"
	"github.com/confideai/confide-agent/internal/app/gateway"
	"github.com/confideai/confide-agent/internal/app/journal"
	"github.com/confideai/confide-agent/internal/domain"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	gw := gateway.New(llm.NewMockLLM())
	convSvc := conversation.NewService(gw, memory.NewMessageStore())
	journalMgr := journal.NewManager(gw, memory.NewJournalStore(), memory.NewDraftStore())

	return httpadapter.NewServer(convSvc, journalMgr, gw)
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	srv.ServeHTTP(r, req)
	return r
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestChatTurn(t *testing.T) {
	srv := newTestServer(t)

	body := `{"sessionId":"s1","messages":[{"role":"user","content":"rough day at work"}]}`
	w := do(t, srv, http.MethodPost, "/chat", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Content == "" {
		t.Fatal("expected non-empty assistant content")
	}
}

func TestChatRejectsMissingMessages(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{`{}`, `{"messages":[]}`} {
		w := do(t, srv, http.MethodPost, "/chat", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestChatSummaryVariant(t *testing.T) {
	srv := newTestServer(t)

	body := `{"conversationId":"journal-summary","message":"Summarize: today was calm."}`
	w := do(t, srv, http.MethodPost, "/chat", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected non-empty summary message")
	}
}

func TestSessionsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	if w := do(t, srv, http.MethodPost, "/sessions", ""); w.Code != http.StatusCreated {
		t.Fatalf("mint session: expected 201, got %d", w.Code)
	}

	do(t, srv, http.MethodPost, "/chat", `{"messages":[{"role":"user","content":"hello"}]}`)

	w := do(t, srv, http.MethodGet, "/sessions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list sessions: expected 200, got %d", w.Code)
	}
	var sessions []struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Title != "hello..." {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}

	if w := do(t, srv, http.MethodDelete, "/sessions", ""); w.Code != http.StatusNoContent {
		t.Fatalf("clear history: expected 204, got %d", w.Code)
	}
	w = do(t, srv, http.MethodGet, "/sessions", "")
	if err := json.Unmarshal(w.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("decode sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty log after clear, got %d sessions", len(sessions))
	}
}

func TestJournalSaveDeleteUndo(t *testing.T) {
	srv := newTestServer(t)

	body := `{"responses":{"emotionalState":"Happy","emotionalState_sub":"sunshine","dayReflection":"a good walk"}}`
	w := do(t, srv, http.MethodPost, "/journal", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("save entry: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var entry domain.JournalEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.ID == "" || entry.Mood != "Happy" || entry.Summary == "" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	if w := do(t, srv, http.MethodDelete, "/journal/"+string(entry.ID), ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w := do(t, srv, http.MethodPost, "/journal/undo", ""); w.Code != http.StatusNoContent {
		t.Fatalf("undo: expected 204, got %d", w.Code)
	}

	w = do(t, srv, http.MethodGet, "/journal", "")
	var entries []domain.JournalEntry
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected restored entry, got %d", len(entries))
	}
}

func TestJournalSaveRejectedWithoutMood(t *testing.T) {
	srv := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/journal", `{"responses":{"dayReflection":"no mood given"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body=%s", w.Code, w.Body.String())
	}
}

func TestJournalStats(t *testing.T) {
	srv := newTestServer(t)

	for _, mood := range []string{"Happy", "Happy", "Sad"} {
		body := `{"responses":{"emotionalState":"` + mood + `"}}`
		if w := do(t, srv, http.MethodPost, "/journal", body); w.Code != http.StatusCreated {
			t.Fatalf("save: expected 201, got %d", w.Code)
		}
	}

	w := do(t, srv, http.MethodGet, "/journal/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats["Happy"] != 2 || stats["Sad"] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestDeleteUnknownEntryIs404(t *testing.T) {
	srv := newTestServer(t)
	if w := do(t, srv, http.MethodDelete, "/journal/nope", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
