package parser

import (
	"slices"

	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
	"rym/internal/tt"
)

type Options struct {
	Reporter diag.Reporter // nil - диагностики выбрасываются
}

type Result struct {
	File ast.FileID
	// Errors - число синтаксических диагностик, выпущенных парсером
	// (незакрытые скобки считает tt.Build, не парсер).
	Errors int
}

// Parser - состояние парсера на один файл
type Parser struct {
	b        *ast.Builder
	file     *source.File
	frames   []frame
	opts     Options
	errors   int
	lastSpan source.Span // span последнего съеденного дерева для диагностики
	lastErr  source.Span // span последней диагностики парсера
}

// ParseFile - входная точка для разбора одного файла. Поток уже
// сгруппирован tt.Build; парсер всегда возвращает дерево, даже при ошибках.
func ParseFile(file *source.File, stream tt.TokenStream, b *ast.Builder, opts Options) Result {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	p := Parser{
		b:        b,
		file:     file,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
	p.frames = append(p.frames, frame{
		trees:   stream.Trees,
		end:     stream.End,
		endKind: token.EOF,
	})

	fileID := b.NewFile(file.Span())
	for _, stmt := range p.parseStmtList() {
		b.PushStmt(fileID, stmt)
	}
	return Result{File: fileID, Errors: p.errors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atEnd - текущий кадр исчерпан.
func (p *Parser) atEnd() bool {
	_, ok := p.peekTree()
	return !ok
}

func (p *Parser) span(id ast.ExprID) source.Span {
	if e := p.b.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

func (p *Parser) intern(tok token.Token) source.StringID {
	return p.b.Strings.Intern(tok.Text)
}

// report увеличивает счётчик ошибок и возвращает builder для доп. меток.
func (p *Parser) report(code diag.Code, sp source.Span, title string) *diag.ReportBuilder {
	p.errors++
	p.lastErr = sp
	return diag.ReportError(p.opts.Reporter, code, sp, title)
}

// expected - "Expected X" на текущем токене с меткой "found ...".
// Возвращает span диагностики, чтобы вызывающий мог поставить Error-узел.
func (p *Parser) expected(code diag.Code, what string) source.Span {
	tok := p.peek()
	p.report(code, tok.Span, "Expected "+what).
		WithLabel(tok.Span, "found "+tok.Describe()).
		Emit()
	return tok.Span
}

// expect съедает токен вида k или репортит "Expected `k`".
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.bump().Token, true
	}
	p.expected(code, k.Describe())
	return token.Token{}, false
}

// expectIdent съедает идентификатор и интернирует его.
func (p *Parser) expectIdent() (source.StringID, source.Span, bool) {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
	if !ok {
		return source.NoStringID, tok.Span, false
	}
	return p.intern(tok), tok.Span, true
}

// skipExpected репортит "Expected what" на текущем токене и пропускает
// деревья, пока не сработает stop или не кончится кадр. Span диагностики
// покрывает весь пропущенный участок; Error-узел вызывающего получает
// тот же span.
func (p *Parser) skipExpected(code diag.Code, what string, stop func() bool) source.Span {
	return p.skipExpectedFrom(p.peek().Span, code, what, stop)
}

// skipExpectedFrom - то же, но span диагностики начинается с from.
func (p *Parser) skipExpectedFrom(from source.Span, code diag.Code, what string, stop func() bool) source.Span {
	found := p.peek()
	sp := from.Cover(found.Span)
	for !p.atEnd() && !stop() {
		p.bump()
		sp = sp.Cover(p.lastSpan)
	}
	p.report(code, sp, "Expected "+what).
		WithLabel(found.Span, "found "+found.Describe()).
		Emit()
	return sp
}

func (p *Parser) atComma() bool     { return p.at(token.Comma) }
func (p *Parser) atSeparator() bool { return p.atOr(token.Newline, token.Semi) }

func never() bool { return false }

// recover пропускает деревья до ближайшего разделителя или конца кадра.
// Группы пропускаются целиком, поэтому парность скобок не страдает.
func (p *Parser) recover() {
	for !p.atEnd() && !p.atOr(token.Newline, token.Semi) {
		p.bump()
	}
}
