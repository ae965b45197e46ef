package tt

import (
	"fmt"

	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
)

// Build groups a flat token slice (as produced by lexer.Lexer.All) into
// token trees. It never fails: unbalanced delimiters are reported to r
// and the tree is completed as well as possible.
func Build(tokens []token.Token, r diag.Reporter) TokenStream {
	if r == nil {
		r = diag.NopReporter{}
	}
	b := &builder{toks: tokens, r: r}
	var root TokenStream
	for !b.eof() {
		tok := b.bump()
		if _, ok := tok.Kind.CloseDelim(); ok {
			b.unexpectedClose(tok)
			continue
		}
		root.Trees = append(root.Trees, b.tree(tok))
	}
	root.End = b.endSpan()
	return root
}

type builder struct {
	toks []token.Token
	pos  int
	r    diag.Reporter
}

func (b *builder) eof() bool {
	return b.pos >= len(b.toks) || b.toks[b.pos].Kind == token.EOF
}

func (b *builder) bump() token.Token {
	tok := b.toks[b.pos]
	b.pos++
	return tok
}

// endSpan is the empty span at EOF.
func (b *builder) endSpan() source.Span {
	if b.pos < len(b.toks) {
		return b.toks[b.pos].Span.StartPoint()
	}
	if len(b.toks) > 0 {
		return b.toks[len(b.toks)-1].Span.EndPoint()
	}
	return source.DummySpan
}

// tree turns tok into a tree, descending into a group for an open delimiter.
func (b *builder) tree(tok token.Token) TokenTree {
	if d, ok := tok.Kind.OpenDelim(); ok {
		return TokenTree{Group: b.group(tok, d)}
	}
	if _, ok := tok.Kind.CloseDelim(); ok {
		panic(fmt.Sprintf("tt: closing delimiter %v converted to a plain tree", tok.Kind))
	}
	return TokenTree{Token: tok}
}

func (b *builder) group(open token.Token, d token.Delimiter) *Delimited {
	g := &Delimited{Delim: d}
	for !b.eof() {
		tok := b.bump()
		if cd, ok := tok.Kind.CloseDelim(); ok {
			if cd == d {
				g.Span = DelimSpan{
					Open:   open.Span,
					Close:  tok.Span,
					Entire: open.Span.To(tok.Span),
				}
				g.Stream.End = tok.Span.StartPoint()
				return g
			}
			b.unexpectedClose(tok)
			continue
		}
		g.Stream.Trees = append(g.Stream.Trees, b.tree(tok))
	}

	// Вход закончился: группа не закрыта.
	last := open.Span
	for i := len(g.Stream.Trees) - 1; i >= 0; i-- {
		child := g.Stream.Trees[i]
		if child.Group == nil && child.Token.Kind == token.Newline {
			continue
		}
		if child.Group != nil {
			last = child.Group.Span.Close
		} else {
			last = child.Token.Span
		}
		break
	}
	g.Unclosed = true
	g.Span = DelimSpan{Open: open.Span, Close: last, Entire: open.Span.To(last)}
	g.Stream.End = b.endSpan()

	diag.ReportError(b.r, diag.SynUnclosedDelimiter, g.Span.Entire, "Unclosed delimiter").
		WithLabel(open.Span, "unclosed delimiter opened here").
		WithNote(fmt.Sprintf("Missing trailing `%s`", d.Close().Lexeme())).
		Emit()
	return g
}

func (b *builder) unexpectedClose(tok token.Token) {
	diag.ReportError(b.r, diag.SynUnexpectedCloseDelimiter, tok.Span, "Unexpected closing delimiter").
		WithLabel(tok.Span, "no matching `"+matchingOpen(tok.Kind)+"` in scope").
		Emit()
}

func matchingOpen(k token.Kind) string {
	if d, ok := k.CloseDelim(); ok {
		return d.Open().Lexeme()
	}
	return "?"
}
