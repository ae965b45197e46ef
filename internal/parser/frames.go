package parser

import (
	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
	"rym/internal/tt"
)

// frame - позиция внутри одной группы дерева токенов. Группа видна
// снаружи как один токен (её открывающая скобка); содержимое читается
// только после enter.
type frame struct {
	trees   []tt.TokenTree
	pos     int
	end     source.Span
	endKind token.Kind // закрывающая скобка или EOF для корня/незакрытой группы
	entire  source.Span // span всей группы; после leave становится lastSpan
	// skipNewlines: внутри () и [] переводы строк не разделяют выражения.
	skipNewlines bool
}

func (f *frame) skip() {
	if !f.skipNewlines {
		return
	}
	for f.pos < len(f.trees) && isNewline(f.trees[f.pos]) {
		f.pos++
	}
}

func isNewline(t tt.TokenTree) bool {
	return t.Group == nil && t.Token.Kind == token.Newline
}

func (p *Parser) top() *frame {
	return &p.frames[len(p.frames)-1]
}

// peekTree возвращает текущее дерево; false - кадр исчерпан, тогда
// возвращается псевдотокен конца кадра.
func (p *Parser) peekTree() (tt.TokenTree, bool) {
	f := p.top()
	f.skip()
	if f.pos >= len(f.trees) {
		return tt.TokenTree{Token: token.Token{Kind: f.endKind, Span: f.end}}, false
	}
	return f.trees[f.pos], true
}

func (p *Parser) peek() token.Token {
	t, _ := p.peekTree()
	return t.Head()
}

// peekNext смотрит на дерево после текущего без учёта skipNewlines
// текущего кадра: `P\n{` не должно склеиваться в запись.
func (p *Parser) peekNext() (tt.TokenTree, bool) {
	f := p.top()
	f.skip()
	if f.pos+1 >= len(f.trees) {
		return tt.TokenTree{}, false
	}
	return f.trees[f.pos+1], true
}

// bump съедает текущее дерево. На конце кадра ничего не двигает.
func (p *Parser) bump() tt.TokenTree {
	t, ok := p.peekTree()
	if !ok {
		return t
	}
	p.top().pos++
	p.lastSpan = t.Span()
	return t
}

// skipNewlines пропускает переводы строк в текущем кадре: после
// бинарного оператора, `=` или перед `else`.
func (p *Parser) skipNewlines() {
	f := p.top()
	for f.pos < len(f.trees) && isNewline(f.trees[f.pos]) {
		f.pos++
	}
}

// enter открывает кадр для группы, которую только что съел bump.
func (p *Parser) enter(g *tt.Delimited, skipNewlines bool) {
	endKind := g.Delim.Close()
	if g.Unclosed {
		endKind = token.EOF
	}
	p.frames = append(p.frames, frame{
		trees:        g.Stream.Trees,
		end:          g.Stream.End,
		endKind:      endKind,
		entire:       g.Span.Entire,
		skipNewlines: skipNewlines,
	})
}

// leave закрывает кадр. Остаток содержимого репортится, только если
// внутри группы ещё не было ошибок: одна поломка - одна диагностика.
func (p *Parser) leave(errsBefore int) {
	p.skipNewlines()
	f := p.top()
	if f.pos < len(f.trees) && p.errors == errsBefore {
		p.expected(diag.SynUnexpectedToken, f.endKind.Describe())
	}
	p.lastSpan = f.entire
	p.frames = p.frames[:len(p.frames)-1]
}

// enterGroup съедает группу с нужной скобкой и входит в неё.
func (p *Parser) enterGroup(d token.Delimiter, skipNewlines bool) (*tt.Delimited, bool) {
	t, ok := p.peekTree()
	if !ok || t.Group == nil || t.Group.Delim != d {
		return nil, false
	}
	p.bump()
	p.enter(t.Group, skipNewlines)
	return t.Group, true
}
