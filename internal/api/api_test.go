package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/passmint/passmint/internal/api"
	"github.com/passmint/passmint/internal/config"
	"github.com/passmint/passmint/internal/engine"
	"github.com/passmint/passmint/internal/store"
)

func newServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	st := store.New()
	eng := engine.New(st, nil, config.Defaults().Server)
	srv := httptest.NewServer(api.New(eng, nil, nil))
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestGenerate_Defaults(t *testing.T) {
	srv, _ := newServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/generate", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var out api.PasswordResponse
	decode(t, resp, &out)
	if len(out.Password) != config.DefaultLength {
		t.Errorf("password length: got %d, want %d", len(out.Password), config.DefaultLength)
	}
	if out.Strength == "" {
		t.Error("strength: got empty")
	}
	if out.Timestamp <= 0 {
		t.Errorf("timestamp: got %v, want a positive epoch", out.Timestamp)
	}
}

func TestGenerate_ExplicitOptions(t *testing.T) {
	srv, _ := newServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/generate",
		`{"length": 20, "symbols": false, "numbers": false, "uppercase": false}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var out api.PasswordResponse
	decode(t, resp, &out)
	if out.Length != 20 {
		t.Errorf("length: got %d, want 20", out.Length)
	}
	for _, r := range out.Password {
		if r < 'a' || r > 'z' {
			t.Errorf("all categories off: got non-lowercase %q", r)
		}
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"zero", `{"length": 0}`},
		{"negative", `{"length": -5}`},
		{"below policy minimum", `{"length": 2}`},
		{"above policy maximum", `{"length": 100000}`},
		{"not JSON", `{length`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/v1/generate", tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGenerate_RejectedRequestNotCounted(t *testing.T) {
	srv, st := newServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/generate", `{"length": 0}`)
	resp.Body.Close()

	if got := st.Snapshot().TotalGenerated; got != 0 {
		t.Errorf("TotalGenerated after 400: got %d, want 0", got)
	}
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/generate")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", resp.StatusCode)
	}
}

func TestStrengthOf(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/strength/abcdefg")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var out api.StrengthResponse
	decode(t, resp, &out)
	if out.Strength != "weak" {
		t.Errorf("strength: got %q, want weak", out.Strength)
	}
	if out.Length != 7 {
		t.Errorf("length: got %d, want 7", out.Length)
	}
}

func TestStrengthOf_TooLong(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/strength/" + strings.Repeat("a", 101))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := out["error"]; !ok {
		t.Error("expected an error body, got none")
	}
	if _, ok := out["strength"]; ok {
		t.Error("oversized password must not be scored")
	}
}

func TestStrengthOf_Empty(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/strength/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestAnalytics(t *testing.T) {
	srv, _ := newServer(t)

	for i := 0; i < 3; i++ {
		resp := postJSON(t, srv.URL+"/api/v1/generate", `{"length": 16}`)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/v1/analytics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var snap store.Snapshot
	decode(t, resp, &snap)
	if snap.TotalGenerated != 3 {
		t.Errorf("total_generated: got %d, want 3", snap.TotalGenerated)
	}
	var sum int64
	for _, n := range snap.StrengthDistribution {
		sum += n
	}
	if sum != snap.TotalGenerated {
		t.Errorf("distribution sum %d != total %d", sum, snap.TotalGenerated)
	}
	if snap.CapturedAt.IsZero() {
		t.Error("captured_at: got zero time")
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var out api.HealthResponse
	decode(t, resp, &out)
	if out.Status != "operational" {
		t.Errorf("status: got %q, want operational", out.Status)
	}
}

func TestAlerts_EmptyWithoutEngine(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/alerts")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q, want application/json", ct)
	}
}
