// Package engine wires the generator, the strength scorer and the
// analytics store behind one validated surface used by both the HTTP API
// and the realtime channel.
//
// The engine owns the generation length policy (hot-reloadable), serves
// analytics through the TTL cache, feeds every outcome to the metrics
// collectors and the alert engine, and turns bad input into sentinel
// validation errors the transport layers map to client errors.
package engine
