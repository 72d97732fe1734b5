package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/passmint/passmint/internal/alerts"
	"github.com/passmint/passmint/internal/engine"
)

// SessionCounter reports how many realtime sessions are currently open.
// Implemented by the ws hub; nil disables the count in health responses.
type SessionCounter interface {
	Count() int
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	engine   *engine.Engine
	alerts   *alerts.Engine
	sessions SessionCounter
	mux      *http.ServeMux
}

// New creates a Handler wired to the given engine and registers all
// routes. alertEngine and sessions may be nil.
func New(eng *engine.Engine, alertEngine *alerts.Engine, sessions SessionCounter) http.Handler {
	h := &Handler{engine: eng, alerts: alertEngine, sessions: sessions, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/generate", h.generate)
	h.mux.HandleFunc("/api/v1/strength/", h.strengthOf) // subtree — extracts {password}
	h.mux.HandleFunc("/api/v1/analytics", h.analytics)
	h.mux.HandleFunc("/api/v1/alerts", h.activeAlerts)
	h.mux.HandleFunc("/api/v1/health", h.health)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// generate handles POST /api/v1/generate.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Length != nil && *req.Length <= 0 {
		jsonErr(w, http.StatusBadRequest, "length must be a positive integer")
		return
	}

	rec, err := h.engine.Generate(engine.Request{
		Length:    intOrZero(req.Length),
		Uppercase: boolOrTrue(req.Uppercase),
		Digits:    boolOrTrue(req.Numbers),
		Symbols:   boolOrTrue(req.Symbols),
	})
	if err != nil {
		h.writeEngineErr(w, err)
		return
	}

	jsonResp(w, http.StatusOK, PasswordResponse{
		Password:  rec.Value,
		Strength:  rec.Strength,
		Length:    rec.Length,
		Timestamp: EpochSeconds(rec.CreatedAt),
	})
}

// strengthOf handles GET /api/v1/strength/{password}.
func (h *Handler) strengthOf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	password := strings.TrimPrefix(r.URL.Path, "/api/v1/strength/")
	if password == "" {
		jsonErr(w, http.StatusBadRequest, "password is required")
		return
	}

	res, err := h.engine.Analyze(password)
	if err != nil {
		h.writeEngineErr(w, err)
		return
	}

	jsonResp(w, http.StatusOK, StrengthResponse{
		Length:   res.Length,
		Strength: res.Strength,
		Entropy:  res.Entropy,
	})
}

// analytics handles GET /api/v1/analytics. Responses come from the
// snapshot cache and may lag live counters by up to the cache TTL.
func (h *Handler) analytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.engine.Analytics())
}

// activeAlerts handles GET /api/v1/alerts.
func (h *Handler) activeAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// health handles GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := HealthResponse{
		Status:         "operational",
		TotalGenerated: h.engine.Analytics().TotalGenerated,
	}
	if h.sessions != nil {
		resp.ActiveSessions = h.sessions.Count()
	}
	jsonResp(w, http.StatusOK, resp)
}

// --- helpers ----------------------------------------------------------------

// writeEngineErr maps engine errors to HTTP responses: validation
// failures become 400s with the error text, anything else is a 500 with
// the detail kept out of the response.
func (h *Handler) writeEngineErr(w http.ResponseWriter, err error) {
	if engine.IsValidation(err) {
		jsonErr(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("api: internal error", "err", err)
	jsonErr(w, http.StatusInternalServerError, "internal error")
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolOrTrue(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}
