// Package token defines the two token layers of the rym front end.
//
// Prim is what the primitive lexer produces: a kind and a byte length, no
// payload and no absolute position. Token is what the enricher produces: a
// rich Kind, an absolute source.Span and, for identifiers and literals, the
// decoded payload.
//
// Invariants:
//   - Token.Span always addresses the original (normalized) source buffer.
//   - Token.Text holds the decoded payload, never quotes or escapes.
//   - Whitespace and comments never reach the rich stream; a whitespace run
//     that contains '\n' becomes a single Newline token.
package token
