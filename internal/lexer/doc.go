// Package lexer turns source text into rich tokens in two layers.
//
// Primitive splits the buffer into (kind, length) pairs. It never fails and
// never allocates; the lengths of its tokens add up to the input length.
//
// Lexer drives a Primitive and produces token.Token values: operators are
// glued by peeking one primitive token ahead, identifiers are checked
// against the keyword table, numbers and literals are decoded. Trivia is
// dropped, except that whitespace containing a newline becomes
// token.Newline. Faults are reported to Options.Reporter and the offending
// token is skipped.
package lexer
