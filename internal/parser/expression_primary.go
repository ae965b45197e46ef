package parser

import (
	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
)

// parsePrimaryExpr разбирает атом: литерал, идентификатор, запись,
// группу/кортеж, массив, блок или управляющую конструкцию.
func (p *Parser) parsePrimaryExpr(ctx exprCtx) ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.StringLit, token.CharLit, token.KwTrue, token.KwFalse:
		p.bump()
		return p.b.Exprs.NewLiteral(tok.Span, literalOf(tok))
	case token.Ident:
		if ctx&ctxNoRecord == 0 {
			if next, ok := p.peekNext(); ok && next.Group != nil && next.Group.Delim == token.DelimBrace {
				return p.parseRecordExpr()
			}
		}
		p.bump()
		return p.b.Exprs.NewIdent(tok.Span, p.intern(tok))
	case token.LParen:
		return p.parseParenExpr()
	case token.LBracket:
		return p.parseArrayExpr()
	case token.LBrace:
		return p.parseBlockExpr()
	case token.KwIf:
		return p.parseIfExpr()
	case token.KwWhile:
		return p.parseWhileExpr()
	case token.KwLoop:
		return p.parseLoopExpr()
	case token.KwFor:
		return p.parseForExpr()
	case token.KwBreak:
		p.bump()
		value := p.parseJumpValue()
		return p.b.Exprs.NewBreak(p.exprEnd(tok.Span), value)
	case token.KwContinue:
		p.bump()
		return p.b.Exprs.NewContinue(tok.Span)
	case token.KwReturn:
		p.bump()
		value := p.parseJumpValue()
		return p.b.Exprs.NewReturn(p.exprEnd(tok.Span), value)
	}
	return p.b.Exprs.NewError(p.expected(diag.SynExpectExpression, "expression"))
}

func literalOf(tok token.Token) ast.ExprLiteralData {
	switch tok.Kind {
	case token.IntLit:
		return ast.ExprLiteralData{Kind: ast.LitInt, Int: tok.Int}
	case token.FloatLit:
		return ast.ExprLiteralData{Kind: ast.LitFloat, Float: tok.Float}
	case token.StringLit:
		return ast.ExprLiteralData{Kind: ast.LitString, Str: tok.Text}
	case token.CharLit:
		return ast.ExprLiteralData{Kind: ast.LitChar, Char: tok.Char}
	default:
		return ast.ExprLiteralData{Kind: ast.LitBool, Bool: tok.Kind == token.KwTrue}
	}
}

// parseJumpValue - необязательное значение break/return.
func (p *Parser) parseJumpValue() ast.ExprID {
	if p.atEnd() || !canStartExpr(p.peek().Kind) {
		return ast.NoExprID
	}
	return p.parseExpr()
}

// parseParenExpr: `()` - unit, `(a)` - группа, `(a,)` и `(a, b)` - кортеж.
func (p *Parser) parseParenExpr() ast.ExprID {
	errs := p.errors
	g, _ := p.enterGroup(token.DelimParen, true)
	elems, trailing := p.parseExprList()
	p.leave(errs)

	sp := g.Span.Entire
	if len(elems) == 1 && !trailing {
		return p.b.Exprs.NewGroup(sp, elems[0])
	}
	return p.b.Exprs.NewTuple(sp, elems)
}

func (p *Parser) parseArrayExpr() ast.ExprID {
	errs := p.errors
	g, _ := p.enterGroup(token.DelimBracket, true)
	elems, _ := p.parseExprList()
	p.leave(errs)
	return p.b.Exprs.NewArray(g.Span.Entire, elems)
}

// parseBlockExpr разбирает `{ stmts }`. Значение блока - последнее
// выражение без `;` (см. ast.Builder.BlockValue).
func (p *Parser) parseBlockExpr() ast.ExprID {
	errs := p.errors
	g, _ := p.enterGroup(token.DelimBrace, false)
	stmts := p.parseStmtList()
	p.leave(errs)
	return p.b.Exprs.NewBlock(g.Span.Entire, stmts)
}

// expectBlock - тело if/while/loop обязано быть блоком.
func (p *Parser) expectBlock() ast.ExprID {
	if p.at(token.LBrace) {
		return p.parseBlockExpr()
	}
	return p.b.Exprs.NewError(p.expected(diag.SynExpectBlock, "block"))
}

// parseRecordExpr: `Name { field: expr, ... }`, завершающая запятая допустима.
func (p *Parser) parseRecordExpr() ast.ExprID {
	nameTok := p.bump().Token
	data := ast.ExprRecordData{
		Name:     p.intern(nameTok),
		NameSpan: nameTok.Span,
	}

	errs := p.errors
	g, _ := p.enterGroup(token.DelimBrace, true)
	var trailing bool
	p.parseCommaList(func() {
		data.Fields = append(data.Fields, p.parseRecordField())
	}, &trailing)
	p.leave(errs)

	return p.b.Exprs.NewRecord(nameTok.Span.Cover(g.Span.Entire), data)
}

// parseRecordField: `name: expr`. Сломанное поле остаётся в записи с
// Error-значением, покрывающим пропущенный до запятой участок.
func (p *Parser) parseRecordField() ast.RecordField {
	if !p.at(token.Ident) {
		sp := p.skipExpected(diag.SynExpectIdentifier, "identifier", p.atComma)
		return ast.RecordField{Name: source.NoStringID, NameSpan: sp, Value: p.b.Exprs.NewError(sp)}
	}
	nameTok := p.bump().Token
	field := ast.RecordField{Name: p.intern(nameTok), NameSpan: nameTok.Span}
	if !p.at(token.Colon) {
		field.Value = p.b.Exprs.NewError(p.skipExpected(diag.SynExpectColon, "`:`", p.atComma))
		return field
	}
	p.bump()
	field.Value = p.parseExpr()
	return field
}

// parseIfExpr: `if cond block (else (if ... | block))?`.
// `else if` уходит рекурсивно в parseIfExpr без обёртки в блок.
func (p *Parser) parseIfExpr() ast.ExprID {
	start := p.bump().Span()
	cond := p.parseExprCtx(ctxNoRecord)
	if !p.skipBrokenCond(cond) {
		return cond
	}
	then := p.expectBlock()

	els := ast.NoExprID
	if p.atElse() {
		p.skipNewlines()
		p.bump() // else
		if p.at(token.KwIf) {
			els = p.parseIfExpr()
		} else {
			els = p.expectBlock()
		}
	}
	return p.b.Exprs.NewIf(p.exprEnd(start), cond, then, els)
}

// atElse смотрит через переводы строк: `}\nelse {` - продолжение if.
func (p *Parser) atElse() bool {
	f := p.top()
	for i := f.pos; i < len(f.trees); i++ {
		if isNewline(f.trees[i]) {
			continue
		}
		return f.trees[i].Group == nil && f.trees[i].Token.Kind == token.KwElse
	}
	return false
}

// skipBrokenCond: условие уже отрепортчено, поэтому хвост до тела
// пропускается молча. false - тела в операторе нет, и вся конструкция
// сводится к Error-узлу условия.
func (p *Parser) skipBrokenCond(cond ast.ExprID) bool {
	if !p.isErrorExpr(cond) {
		return true
	}
	for !p.atEnd() && !p.atOr(token.Newline, token.Semi, token.LBrace) {
		p.bump()
	}
	return p.at(token.LBrace)
}

func (p *Parser) parseWhileExpr() ast.ExprID {
	start := p.bump().Span()
	cond := p.parseExprCtx(ctxNoRecord)
	if !p.skipBrokenCond(cond) {
		return cond
	}
	body := p.expectBlock()
	return p.b.Exprs.NewWhile(p.exprEnd(start), cond, body)
}

func (p *Parser) parseLoopExpr() ast.ExprID {
	start := p.bump().Span()
	body := p.expectBlock()
	return p.b.Exprs.NewLoop(p.exprEnd(start), body)
}

// parseForExpr: `for` зарезервирован. Конструкция пропускается вместе с
// телом, чтобы не порождать каскад ошибок.
func (p *Parser) parseForExpr() ast.ExprID {
	start := p.bump().Span()
	for !p.atEnd() && !p.atOr(token.Newline, token.Semi) {
		t := p.bump()
		if t.Group != nil && t.Group.Delim == token.DelimBrace {
			break
		}
	}
	sp := p.exprEnd(start)
	p.report(diag.SynUnsupported, sp, "`for` loops are not supported").
		WithLabel(start, "unsupported loop").
		WithHelp("use `while` or `loop` instead").
		Emit()
	return p.b.Exprs.NewError(sp)
}
