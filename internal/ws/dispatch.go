package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/passmint/passmint/internal/api"
	"github.com/passmint/passmint/internal/engine"
	"github.com/passmint/passmint/internal/strength"
)

// Outbound message types.
const (
	typePasswordGenerated = "password_generated"
	typeStrengthAnalyzed  = "strength_analyzed"
	typeAnalyticsUpdate   = "analytics_update"
	typeError             = "error"
)

// inbound is the envelope for all client requests. Pointer fields keep
// "absent" distinguishable from explicit zero values, with the same
// defaults as the REST API: missing length means the policy default,
// missing category flags mean true.
type inbound struct {
	Action    string `json:"action"`
	Length    *int   `json:"length"`
	Symbols   *bool  `json:"symbols"`
	Numbers   *bool  `json:"numbers"`
	Uppercase *bool  `json:"uppercase"`
	Password  string `json:"password"`
}

// outbound is the envelope for all server replies.
type outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// analyzeData is the data payload of a strength_analyzed reply.
type analyzeData struct {
	Strength strength.Level `json:"strength"`
}

// dispatch handles one inbound frame and returns the serialized reply.
// Every failure path yields an error envelope rather than a dropped
// session, so one bad message never costs the client its connection.
func (h *Hub) dispatch(s *session, data []byte) []byte {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return marshalOut(outbound{Type: typeError, Error: "malformed message: expected a JSON object"})
	}

	switch msg.Action {
	case "generate":
		return h.handleGenerate(s, msg)
	case "analyze":
		return h.handleAnalyze(s, msg)
	case "":
		return marshalOut(outbound{Type: typeError, Error: "missing action"})
	default:
		return marshalOut(outbound{Type: typeError, Error: fmt.Sprintf("unknown action %q", msg.Action)})
	}
}

func (h *Hub) handleGenerate(s *session, msg inbound) []byte {
	if msg.Length != nil && *msg.Length <= 0 {
		return marshalOut(outbound{Type: typeError, Error: "length must be a positive integer"})
	}

	req := engine.Request{Uppercase: true, Digits: true, Symbols: true}
	if msg.Length != nil {
		req.Length = *msg.Length
	}
	if msg.Uppercase != nil {
		req.Uppercase = *msg.Uppercase
	}
	if msg.Numbers != nil {
		req.Digits = *msg.Numbers
	}
	if msg.Symbols != nil {
		req.Symbols = *msg.Symbols
	}

	rec, err := h.engine.Generate(req)
	if err != nil {
		return h.errorReply(s, "generate", err)
	}

	return marshalOut(outbound{
		Type: typePasswordGenerated,
		Data: api.PasswordResponse{
			Password:  rec.Value,
			Strength:  rec.Strength,
			Length:    rec.Length,
			Timestamp: api.EpochSeconds(rec.CreatedAt),
		},
	})
}

func (h *Hub) handleAnalyze(s *session, msg inbound) []byte {
	res, err := h.engine.Analyze(msg.Password)
	if err != nil {
		return h.errorReply(s, "analyze", err)
	}
	return marshalOut(outbound{
		Type: typeStrengthAnalyzed,
		Data: analyzeData{Strength: res.Strength},
	})
}

// errorReply maps an engine error to an error envelope. Validation
// errors carry their own text; internal faults are logged and masked.
func (h *Hub) errorReply(s *session, action string, err error) []byte {
	if engine.IsValidation(err) {
		return marshalOut(outbound{Type: typeError, Error: err.Error()})
	}
	slog.Error("ws: internal error", "session", s.id, "action", action, "err", err)
	return marshalOut(outbound{Type: typeError, Error: "internal error"})
}

func marshalOut(o outbound) []byte {
	data, err := json.Marshal(o)
	if err != nil {
		// outbound only carries marshalable values; this is unreachable
		// short of a programming error.
		return []byte(`{"type":"error","error":"internal error"}`)
	}
	return data
}
