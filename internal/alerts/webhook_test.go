package alerts

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/passmint/passmint/internal/config"
)

// captureServer records the last request body and content type.
func captureServer(t *testing.T, status int) (*httptest.Server, *atomic.Int64, func() (string, string)) {
	t.Helper()
	var hits atomic.Int64
	var body, contentType atomic.Value
	body.Store("")
	contentType.Store("")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		data, _ := io.ReadAll(r.Body)
		body.Store(string(data))
		contentType.Store(r.Header.Get("Content-Type"))
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	last := func() (string, string) { return body.Load().(string), contentType.Load().(string) }
	return srv, &hits, last
}

func testAlert() *Alert {
	return &Alert{
		ID:       "weak-flood:1",
		RuleName: "weak-flood",
		Severity: "critical",
		Message:  "[critical] weak-flood fired: weak_pct > 50 = 80.00",
		Value:    80,
		FiredAt:  time.Now(),
		State:    "firing",
	}
}

func TestDeliver_Slack(t *testing.T) {
	srv, hits, last := captureServer(t, http.StatusOK)
	t.Setenv("TEST_SLACK_URL", srv.URL)

	e := New(config.AlertsConfig{Webhooks: []config.WebhookConfig{
		{Type: "slack", URLEnv: "TEST_SLACK_URL"},
	}})
	e.deliver(testAlert())

	if got := hits.Load(); got != 1 {
		t.Fatalf("deliveries: got %d, want 1", got)
	}
	body, contentType := last()
	if contentType != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", contentType)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode slack payload: %v", err)
	}
	if !strings.Contains(payload["text"], "[CRITICAL]") {
		t.Errorf("slack text %q: missing severity label", payload["text"])
	}
	if !strings.Contains(payload["text"], "weak-flood") {
		t.Errorf("slack text %q: missing rule name", payload["text"])
	}
}

func TestDeliver_Teams(t *testing.T) {
	srv, _, last := captureServer(t, http.StatusOK)
	t.Setenv("TEST_TEAMS_URL", srv.URL)

	e := New(config.AlertsConfig{Webhooks: []config.WebhookConfig{
		{Type: "teams", URLEnv: "TEST_TEAMS_URL"},
	}})
	e.deliver(testAlert())

	body, _ := last()
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode teams payload: %v", err)
	}
	if payload["@type"] != "MessageCard" {
		t.Errorf("@type: got %v, want MessageCard", payload["@type"])
	}
	if payload["summary"] != "weak-flood" {
		t.Errorf("summary: got %v, want weak-flood", payload["summary"])
	}
}

func TestDeliver_HTTP(t *testing.T) {
	srv, _, last := captureServer(t, http.StatusOK)
	t.Setenv("TEST_HTTP_URL", srv.URL)

	e := New(config.AlertsConfig{Webhooks: []config.WebhookConfig{
		{Type: "http", URLEnv: "TEST_HTTP_URL"},
	}})
	e.deliver(testAlert())

	body, _ := last()
	var payload struct {
		Alert Alert `json:"alert"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode http payload: %v", err)
	}
	if payload.Alert.RuleName != "weak-flood" || payload.Alert.State != "firing" {
		t.Errorf("alert: got rule=%q state=%q, want weak-flood/firing",
			payload.Alert.RuleName, payload.Alert.State)
	}
}

func TestDeliver_SkipsUnknownTypeAndUnsetURL(t *testing.T) {
	srv, hits, _ := captureServer(t, http.StatusOK)
	t.Setenv("TEST_KNOWN_URL", srv.URL)

	e := New(config.AlertsConfig{Webhooks: []config.WebhookConfig{
		{Type: "pager", URLEnv: "TEST_KNOWN_URL"},   // unknown type
		{Type: "slack", URLEnv: "TEST_UNSET_URL_X"}, // env var not set
	}})
	e.deliver(testAlert())

	if got := hits.Load(); got != 0 {
		t.Errorf("deliveries: got %d, want 0 (both targets skipped)", got)
	}
}

func TestPost_RejectsErrorStatus(t *testing.T) {
	srv, _, _ := captureServer(t, http.StatusServiceUnavailable)

	e := New(config.AlertsConfig{})
	err := e.post(srv.URL, []byte(`{}`))
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("post to 503 endpoint: got %v, want HTTP 503 error", err)
	}
}
