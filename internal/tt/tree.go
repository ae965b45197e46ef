package tt

import (
	"iter"

	"rym/internal/source"
	"rym/internal/token"
)

// DelimSpan - спаны открывающей и закрывающей скобок и всей группы.
// Для незакрытой группы Close указывает на конец последнего дочернего
// элемента (или на саму открывающую скобку), поэтому Entire никогда не
// выходит за реальный конец входа.
type DelimSpan struct {
	Open   source.Span
	Close  source.Span
	Entire source.Span
}

// Delimited is a bracketed group of token trees.
type Delimited struct {
	Delim    token.Delimiter
	Span     DelimSpan
	Stream   TokenStream
	Unclosed bool
}

// TokenTree is either a single token or a delimited group. Exactly one
// of the two is meaningful: Group != nil selects the group.
type TokenTree struct {
	Token token.Token
	Group *Delimited
}

// IsGroup reports whether the tree is a delimited group.
func (t TokenTree) IsGroup() bool { return t.Group != nil }

// Span covers the whole tree.
func (t TokenTree) Span() source.Span {
	if t.Group != nil {
		return t.Group.Span.Entire
	}
	return t.Token.Span
}

// Kind returns the token kind, or the opening delimiter kind for groups.
func (t TokenTree) Kind() token.Kind {
	if t.Group != nil {
		return t.Group.Delim.Open()
	}
	return t.Token.Kind
}

// Head returns the token that represents the tree in a flat view: the
// token itself, or the opening delimiter of a group.
func (t TokenTree) Head() token.Token {
	if t.Group != nil {
		return token.Token{Kind: t.Group.Delim.Open(), Span: t.Group.Span.Open}
	}
	return t.Token
}

// TokenStream is an ordered sequence of token trees. Newline tokens are
// kept; consumers decide whether they matter.
type TokenStream struct {
	Trees []TokenTree
	// End is the empty span where the stream stops: EOF for the root
	// stream, the closing delimiter start for a group.
	End source.Span
}

// Len returns the number of top-level trees.
func (s TokenStream) Len() int { return len(s.Trees) }

// Iter yields top-level trees, optionally without Newline tokens.
func (s TokenStream) Iter(skipNewlines bool) iter.Seq[TokenTree] {
	return func(yield func(TokenTree) bool) {
		for _, t := range s.Trees {
			if skipNewlines && t.Group == nil && t.Token.Kind == token.Newline {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Flatten returns the tokens in source order with delimiters restored.
// Unclosed groups contribute no closing token.
func (s TokenStream) Flatten() []token.Token {
	var out []token.Token
	s.flatten(&out)
	return out
}

func (s TokenStream) flatten(out *[]token.Token) {
	for _, t := range s.Trees {
		if t.Group == nil {
			*out = append(*out, t.Token)
			continue
		}
		g := t.Group
		*out = append(*out, t.Head())
		g.Stream.flatten(out)
		if !g.Unclosed {
			*out = append(*out, token.Token{Kind: g.Delim.Close(), Span: g.Span.Close})
		}
	}
}

// Groups counts delimited groups at every depth.
func (s TokenStream) Groups() (total, unclosed int) {
	for _, t := range s.Trees {
		if t.Group == nil {
			continue
		}
		total++
		if t.Group.Unclosed {
			unclosed++
		}
		n, u := t.Group.Stream.Groups()
		total += n
		unclosed += u
	}
	return total, unclosed
}
