// Package ws implements the realtime duplex channel for the passmint
// server.
//
// Each WebSocket connection is an independent session: inbound JSON
// messages are dispatched to the engine in arrival order and every
// message produces exactly one reply on the same connection.
//
// Request messages:
//
//	{"action": "generate", "length": 12, "symbols": true, "numbers": true, "uppercase": true}
//	{"action": "analyze", "password": "hunter2"}
//
// Replies:
//
//	{"type": "password_generated", "data": { password, strength, length, timestamp }}
//	{"type": "strength_analyzed", "data": { "strength": … }}
//	{"type": "error", "error": "…"}
//
// A malformed message or unknown action yields an error reply and the
// session stays open; only transport faults (or server shutdown) close
// it. When the hub's broadcast interval is positive, every session also
// receives periodic {"type": "analytics_update"} pushes with the current
// snapshot.
//
// The upgrader accepts all origins. Apply CORS restrictions at the
// reverse proxy level. The endpoint is mounted at /ws by the server.
package ws
