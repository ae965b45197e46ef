// Package tt groups rich tokens into token trees: every matching pair of
// (), {} or [] becomes one Delimited node holding its inner stream.
//
// Delimiter balance is checked here and only here. The parser consumes a
// TokenStream and never reports unclosed or stray delimiters itself.
package tt
