// Package diag defines the diagnostic model shared by the lexer, the
// token-tree builder and the parser.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Level – Help, Note, Warning or Error (level.go).
//   - Code – compact numeric identifier with a stable string form (codes.go);
//     zero means the diagnostic has no code.
//   - Title – short human oriented text.
//   - Primary – spans pointing at the issue. A dummy span is never stored,
//     so a diagnostic without location has an empty Primary list.
//   - Labels – (span, text) annotations, always kept sorted.
//   - Children – sub-diagnostics such as "Missing trailing `*/`...". They
//     are not independently queryable; they travel with their parent.
//
// # Emitting diagnostics
//
// Phases report through a Reporter. A *Sink is the usual Reporter: it keeps
// diagnostics in emission order and is drained once with Collect. The
// builder (ReportError / NewReportBuilder) chains WithNote / WithLabel
// before Emit.
//
// A Sink is owned by one compilation unit. Parsing several files in
// parallel uses one Sink per file; the driver merges them afterwards.
//
// User faults never become Go errors: the pipeline always produces output
// and reports problems here.
package diag
