// Package trace provides the tracing subsystem used as facet's log.
//
// Tracing follows compilation units through the macro pipeline: loading the
// declaration model, running annotation processors, freezing, and writing
// tracking snapshots. Individual mutations are visible at LevelDebug.
//
// # Usage
//
//	facet run --trace=- --trace-level=detail models/
//
// # Architecture
//
//   - Nop: discards everything when tracing is off
//   - Stream: buffered write to a file or stderr, text or NDJSON
//   - Ring: last N events in memory, written out on Close
//   - Tee: fans events out to several tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: driver boundaries
//   - LevelDetail: per-unit and per-processor events
//   - LevelDebug: everything including single declaration mutations
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeUnit, "unit")
//	defer span.End("")
package trace
