package api

import (
	"time"

	"github.com/passmint/passmint/internal/strength"
)

// GenerateRequest is the body of POST /api/v1/generate. Pointer fields
// distinguish "absent" from explicit zero values: a missing length falls
// back to the policy default and missing category flags default to true,
// matching the realtime message schema.
type GenerateRequest struct {
	Length    *int  `json:"length"`
	Symbols   *bool `json:"symbols"`
	Numbers   *bool `json:"numbers"`
	Uppercase *bool `json:"uppercase"`
}

// PasswordResponse is the payload for a successful generation. The
// timestamp is fractional Unix seconds.
type PasswordResponse struct {
	Password  string         `json:"password"`
	Strength  strength.Level `json:"strength"`
	Length    int            `json:"length"`
	Timestamp float64        `json:"timestamp"`
}

// EpochSeconds renders t as fractional Unix seconds for the wire.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// StrengthResponse is the payload for GET /api/v1/strength/{password}.
type StrengthResponse struct {
	Length   int            `json:"length"`
	Strength strength.Level `json:"strength"`
	Entropy  float64        `json:"entropy_bits"`
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status         string `json:"status"`
	TotalGenerated int64  `json:"total_generated"`
	ActiveSessions int    `json:"active_sessions"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
