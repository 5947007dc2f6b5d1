// SPDX-License-Identifier: AGPL-3.0-only
package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/seshasairaw/smarthub-operations/internal/agent"
	"github.com/seshasairaw/smarthub-operations/internal/config"
	"github.com/seshasairaw/smarthub-operations/internal/logging"
)

func newTestServer(t *testing.T, provider agent.ChatProvider) *Server {
	t.Helper()
	logger := logging.New(logging.Options{Level: "error"})
	exec, err := NewExecutor(&fakeData{}, 5*time.Second, logger)
	if err != nil {
		t.Fatalf("NewExecutor failed: %v", err)
	}
	cfg := config.DefaultConfig()
	orch := NewOrchestrator(provider, exec, &cfg.AI, logger)
	return NewServer(cfg, orch, logger)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["status"] != "botbrain is running" {
		t.Errorf("status = %q, want 'botbrain is running'", body["status"])
	}
}

func TestChatEndpointReturnsReply(t *testing.T) {
	provider := &fakeProvider{
		responses: []*agent.Message{{Role: "assistant", Content: "There are 4 delayed shipments."}},
	}
	srv := newTestServer(t, provider)

	payload := `{"message": "how many delayed?", "history": [{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Reply != "There are 4 delayed shipments." {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestChatEndpointRejectsMissingMessage(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"history": []}`))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestChatEndpointRejectsInvalidJSON(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": `))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", rec.Code)
	}
}

func TestChatEndpointDegradedUpstreamStillHTTP200(t *testing.T) {
	// Completion provider is down entirely; the endpoint still answers 200
	// with the fallback reply.
	provider := &fakeProvider{errs: []error{context.DeadlineExceeded}}
	srv := newTestServer(t, provider)

	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi"}`))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Reply != fallbackReply {
		t.Errorf("reply = %q, want fallback", resp.Reply)
	}
}

func TestChatCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Error("Expected CORS origin header on preflight response")
	}
}
