package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/openai/openai-go/v3"

	"solace/pkg/conversation"
	"solace/pkg/emotion"
	"solace/pkg/journal"
)

// scriptedInferencer routes by prompt kind: analysis requests get a
// marker-formatted report, persona creation gets a definition, and
// conversation turns get a short reply.
type scriptedInferencer struct {
	analysisErr error
}

func (s *scriptedInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	switch {
	case strings.Contains(system, "emotionally attentive companion"):
		if s.analysisErr != nil {
			return "", s.analysisErr
		}
		return `basic_emotions:
- joy: intensity = 4, reason = "you sound thrilled"

companion_response:
That's wonderful news!`, nil
	case strings.Contains(system, "creating empathetic conversational personas"):
		return "**Core Essence:** A warm listener.\n**Communication Style:** Gentle.\n**Support Method:** Validates first.", nil
	default:
		return "I'm here with you.", nil
	}
}

func newTestServer(t *testing.T) (*Server, *scriptedInferencer) {
	t.Helper()
	stub := &scriptedInferencer{}
	analyzer := emotion.NewAnalyzer(stub)
	manager := conversation.NewManager(stub)
	store := journal.Open(filepath.Join(t.TempDir(), "mood_log.json"))
	return NewServer(context.Background(), analyzer, manager, store), stub
}

func doJSON(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestChatAnalysisOnly(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/chat", `{"text":"I got the job!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	resp := decode[map[string]any](t, rec)
	if resp["input_mood"] != "I got the job!" {
		t.Fatalf("input_mood = %v", resp["input_mood"])
	}
	scores, ok := resp["emotion_scores"].(map[string]any)
	if !ok || scores["joy"] != 4.0 {
		t.Fatalf("emotion_scores = %v", resp["emotion_scores"])
	}
	if resp["conversation_enabled"] != false {
		t.Fatal("conversation should not start unrequested")
	}
	if _, ok := resp["ai_response"]; ok {
		t.Fatal("ai_response present without a conversation")
	}
}

func TestChatRequiresText(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	for _, body := range []string{`{}`, `{"text":"   "}`} {
		rec := doJSON(t, s, http.MethodPost, "/chat", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestChatAnalysisFailureDegrades(t *testing.T) {
	t.Parallel()

	s, stub := newTestServer(t)
	stub.analysisErr = context.DeadlineExceeded

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("degraded analysis must still answer 200, got %d", rec.Code)
	}
	resp := decode[map[string]any](t, rec)
	if _, ok := resp["emotion_scores"]; ok {
		t.Fatalf("failed analysis should omit scores, got %v", resp["emotion_scores"])
	}
}

func TestChatConversationFlow(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/chat", `{"text":"I got the job!","enable_conversation":true}`)
	resp := decode[map[string]any](t, rec)
	if resp["conversation_enabled"] != true {
		t.Fatalf("conversation not started: %v", resp)
	}
	id, _ := resp["conversation_id"].(string)
	if id == "" {
		t.Fatal("missing conversation_id")
	}
	if reply, _ := resp["ai_response"].(string); reply == "" {
		t.Fatal("missing opening reply")
	}

	rec = doJSON(t, s, http.MethodPost, "/chat", `{"text":"Tell me more","conversation_id":"`+id+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("continuation status = %d", rec.Code)
	}
	resp = decode[map[string]any](t, rec)
	if resp["conversation_id"] != id {
		t.Fatalf("continuation echoed id %v", resp["conversation_id"])
	}

	rec = doJSON(t, s, http.MethodGet, "/api/conversations/"+id, "")
	info := decode[map[string]any](t, rec)
	if info["turn_count"] != 2.0 {
		t.Fatalf("turn_count = %v, want 2", info["turn_count"])
	}
}

func TestChatUnknownConversation(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/chat", `{"text":"hi","conversation_id":"conv_missing"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestChatSaveAppendsJournal(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/chat", `{"text":"I got the job!","save":true}`)

	if s.Journal.Len() != 1 {
		t.Fatalf("journal has %d entries, want 1", s.Journal.Len())
	}

	rec := doJSON(t, s, http.MethodGet, "/history", "")
	resp := decode[map[string]any](t, rec)
	records, ok := resp["records"].([]any)
	if !ok || len(records) != 1 {
		t.Fatalf("records = %v", resp["records"])
	}
}

func TestStatsAndExportEndpoints(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/chat", `{"text":"I got the job!","save":true}`)

	rec := doJSON(t, s, http.MethodGet, "/stats", "")
	stats := decode[map[string]any](t, rec)
	if stats["entries"] != 1.0 {
		t.Fatalf("stats entries = %v", stats["entries"])
	}

	rec = doJSON(t, s, http.MethodGet, "/export", "")
	export := decode[map[string]any](t, rec)
	if export["format"] != "csv" {
		t.Fatalf("default export format = %v", export["format"])
	}
	file, _ := export["file"].(string)
	if !strings.HasPrefix(file, "timestamp,") {
		t.Fatalf("csv export missing header: %q", file)
	}

	rec = doJSON(t, s, http.MethodGet, "/export?format=wav", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported format status = %d", rec.Code)
	}
}

func TestEndConversationEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/chat", `{"text":"hello there","enable_conversation":true}`)
	resp := decode[map[string]any](t, rec)
	id, _ := resp["conversation_id"].(string)
	if id == "" {
		t.Fatal("missing conversation_id")
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/conversations/"+id, "")
	if got := decode[map[string]any](t, rec); got["ended"] != true {
		t.Fatalf("first delete = %v", got)
	}
	rec = doJSON(t, s, http.MethodDelete, "/api/conversations/"+id, "")
	if got := decode[map[string]any](t, rec); got["ended"] != false {
		t.Fatalf("second delete = %v", got)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/conversations/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("ended conversation status = %d", rec.Code)
	}
}
