// Package trace records what the expansion pipeline is doing.
//
// A Tracer travels in the context.Context handed to the driver:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: kept for crash dumps only
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per-file events
//   - LevelDebug: everything, one point per expanded call
//
// # Tracers
//
//   - Nop: default, zero overhead
//   - StreamTracer: writes every event as text or NDJSON
//   - RingTracer: keeps the last N events for a post-mortem dump
//   - MultiTracer: fans out to several tracers
package trace
