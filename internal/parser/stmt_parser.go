package parser

import (
	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/token"
)

// parseStmtList разбирает операторы текущего кадра до его конца.
// Разделители: перевод строки и `;`. Используется для файла, блока и mod.
func (p *Parser) parseStmtList() []ast.StmtID {
	var stmts []ast.StmtID
	for {
		p.skipSeparators()
		if p.atEnd() {
			return stmts
		}

		errs := p.errors
		id := p.parseStmt()
		stmts = append(stmts, id)

		switch {
		case p.atEnd(), p.at(token.Newline):
		case p.at(token.Semi):
			semi := p.bump().Span()
			if s := p.b.Stmts.Get(id); s.Kind == ast.StmtExpr {
				s.Semi = true
				s.Span = s.Span.Cover(semi)
			}
		case p.errors == errs:
			// лишние деревья после целого оператора становятся Error-оператором
			sp := p.skipExpected(diag.SynUnexpectedToken, "`;` or newline", p.atSeparator)
			stmts = append(stmts, p.b.Stmts.NewError(sp))
		default:
			// после сломанного оператора хвост пропускаем без второй диагностики
			p.recover()
		}
	}
}

// skipSeparators пропускает пустые строки и одиночные `;`.
func (p *Parser) skipSeparators() {
	for p.atOr(token.Newline, token.Semi) && !p.atEnd() {
		p.bump()
	}
}

// parseStmt выбирает по первому токену объявление или выражение.
func (p *Parser) parseStmt() ast.StmtID {
	var (
		item ast.ItemID
		ok   bool
	)
	switch p.peek().Kind {
	case token.KwConst, token.KwMut:
		item, ok = p.parseBindingItem()
	case token.KwFn:
		item, ok = p.parseFnItem()
	case token.KwMod:
		item, ok = p.parseModItem()
	default:
		if !canStartExpr(p.peek().Kind) {
			return p.b.Stmts.NewError(p.expected(diag.SynExpectExpression, "expression"))
		}
		expr := p.parseExpr()
		return p.b.Stmts.NewExpr(p.span(expr), expr, false)
	}
	if !ok {
		return p.b.Stmts.NewError(p.lastErr)
	}
	return p.b.Stmts.NewItem(p.b.Items.Get(item).Span, item)
}

// parseBindingItem: `(const|mut) ident = expr`. `;` съедает parseStmtList.
func (p *Parser) parseBindingItem() (ast.ItemID, bool) {
	kw := p.bump().Token
	name, nameSpan, ok := p.expectIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Eq, diag.SynExpectEquals); !ok {
		return ast.NoItemID, false
	}
	p.skipNewlines()
	value := p.parseExpr()
	sp := kw.Span.Cover(p.span(value))
	return p.b.Items.NewBinding(sp, name, nameSpan, kw.Kind == token.KwMut, value), true
}

// parseFnItem: `fn ident(params) expr`. Тело - любое выражение, обычно блок.
func (p *Parser) parseFnItem() (ast.ItemID, bool) {
	kw := p.bump().Token
	name, nameSpan, ok := p.expectIdent()
	if !ok {
		return ast.NoItemID, false
	}
	params, ok := p.parseFnParams()
	if !ok {
		return ast.NoItemID, false
	}
	body := p.parseFnBody()
	sp := kw.Span.Cover(p.span(body))
	return p.b.Items.NewFunc(sp, name, nameSpan, params, body), true
}

func (p *Parser) parseFnParams() ([]ast.Param, bool) {
	if !p.at(token.LParen) {
		p.expected(diag.SynUnexpectedToken, "`(`")
		return nil, false
	}
	errs := p.errors
	p.enterGroup(token.DelimParen, true)
	var (
		params   []ast.Param
		trailing bool
	)
	p.parseCommaList(func() {
		if name, sp, ok := p.expectIdent(); ok {
			params = append(params, ast.Param{Name: name, Span: sp})
		}
	}, &trailing)
	p.leave(errs)
	return params, true
}

func (p *Parser) parseFnBody() ast.ExprID {
	if p.atEnd() || !canStartExpr(p.peek().Kind) {
		return p.b.Exprs.NewError(p.expected(diag.SynExpectExpression, "expression"))
	}
	return p.parseExpr()
}

// parseModItem: `mod ident { stmts }`.
func (p *Parser) parseModItem() (ast.ItemID, bool) {
	kw := p.bump().Token
	name, nameSpan, ok := p.expectIdent()
	if !ok {
		return ast.NoItemID, false
	}
	if !p.at(token.LBrace) {
		p.expected(diag.SynExpectBlock, "block")
		return ast.NoItemID, false
	}
	errs := p.errors
	g, _ := p.enterGroup(token.DelimBrace, false)
	stmts := p.parseStmtList()
	p.leave(errs)
	return p.b.Items.NewModule(kw.Span.Cover(g.Span.Entire), name, nameSpan, stmts), true
}
