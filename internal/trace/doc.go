// Package trace provides structured, levelled event logging for the rym
// front-end pipeline.
//
// Core packages (lexer, tt, parser) never log; the driver opens spans
// around their passes instead.
//
// # Usage
//
//	rym diag --trace-level=phase --trace-output=- src/
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write (text or NDJSON)
//   - RingTracer: circular buffer, dumped when a command panics
//   - MultiTracer: stream + ring
//
// # Levels and scopes
//
// LevelPhase emits driver and pass spans (lex, tree, parse), LevelDetail
// adds per-file spans, LevelDebug adds node-level events such as
// normalisation rewrites. LevelError only fills the ring buffer.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// Start parents the new span to the one already active in ctx.
package trace
