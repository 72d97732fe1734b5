// Package api implements the HTTP REST API for the passmint server.
//
// New(engine, alerts, sessions) returns an http.Handler that serves:
//
//	POST /api/v1/generate       — generate a password; body selects length and categories
//	GET  /api/v1/strength/{pw}  — score an existing password; 400 if over 100 chars
//	GET  /api/v1/analytics      — aggregate counters, served from the snapshot cache
//	GET  /api/v1/alerts         — active alerts from the rule engine
//	GET  /api/v1/health         — liveness plus coarse totals
//
// All endpoints respond with Content-Type: application/json and return
// 405 for unsupported methods. Validation failures map to 400 with an
// {"error": …} body; anything else is a 500. JSON types are defined in
// types.go. No external HTTP framework is used.
package api
