package ast

import (
	"rym/internal/source"
)

type StmtKind uint8

const (
	// StmtError - уже диагностированный мусор, пропущенный при восстановлении.
	StmtError StmtKind = iota
	StmtItem
	StmtExpr
)

func (k StmtKind) String() string {
	switch k {
	case StmtError:
		return "Error"
	case StmtItem:
		return "Item"
	case StmtExpr:
		return "Expr"
	}
	return "Stmt(?)"
}

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Item ItemID // StmtItem
	Expr ExprID // StmtExpr
	// Semi is set when the expression statement ends with `;`; such a
	// statement never provides the value of its block.
	Semi bool
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
	}
}

func (s *Stmts) NewError(span source.Span) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtError, Span: span}))
}

func (s *Stmts) NewItem(span source.Span, item ItemID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtItem, Span: span, Item: item}))
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID, semi bool) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: StmtExpr, Span: span, Expr: expr, Semi: semi}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// BlockValue returns the expression that gives a block its value: the last
// statement when it is an expression statement without `;`. Otherwise the
// block evaluates to unit.
func (b *Builder) BlockValue(block ExprID) (ExprID, bool) {
	data, ok := b.Exprs.Block(block)
	if !ok || len(data.Stmts) == 0 {
		return NoExprID, false
	}
	last := b.Stmts.Get(data.Stmts[len(data.Stmts)-1])
	if last == nil || last.Kind != StmtExpr || last.Semi {
		return NoExprID, false
	}
	return last.Expr, true
}
