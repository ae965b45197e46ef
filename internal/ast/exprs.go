package ast

import (
	"rym/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLiteralData]
	Records  *Arena[ExprRecordData]
	Groups   *Arena[ExprGroupData]
	Blocks   *Arena[ExprBlockData]
	Lists    *Arena[ExprListData]
	Ifs      *Arena[ExprIfData]
	Whiles   *Arena[ExprWhileData]
	Loops    *Arena[ExprLoopData]
	Jumps    *Arena[ExprJumpData]
	Assigns  *Arena[ExprAssignData]
	Logicals *Arena[ExprLogicalData]
	Binaries *Arena[ExprBinaryData]
	Unaries  *Arena[ExprUnaryData]
	Calls    *Arena[ExprCallData]
	Fields   *Arena[ExprFieldData]
	Indices  *Arena[ExprIndexData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
// If capHint is 0, a default capacity of 1<<8 is used. Rarely used payloads get a smaller hint.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := max(capHint/8, 1)
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Records:  NewArena[ExprRecordData](small),
		Groups:   NewArena[ExprGroupData](small),
		Blocks:   NewArena[ExprBlockData](small),
		Lists:    NewArena[ExprListData](small),
		Ifs:      NewArena[ExprIfData](small),
		Whiles:   NewArena[ExprWhileData](small),
		Loops:    NewArena[ExprLoopData](small),
		Jumps:    NewArena[ExprJumpData](small),
		Assigns:  NewArena[ExprAssignData](small),
		Logicals: NewArena[ExprLogicalData](small),
		Binaries: NewArena[ExprBinaryData](capHint),
		Unaries:  NewArena[ExprUnaryData](small),
		Calls:    NewArena[ExprCallData](small),
		Fields:   NewArena[ExprFieldData](small),
		Indices:  NewArena[ExprIndexData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// payload returns the payload index when the expression has the given kind.
func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

// NewError creates an error placeholder.
func (e *Exprs) NewError(span source.Span) ExprID {
	return e.new(ExprError, span, 0)
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID) ExprID {
	return e.new(ExprIdent, span, e.Idents.Allocate(ExprIdentData{Name: name}))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, lit ExprLiteralData) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(lit))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewRecord(span source.Span, data ExprRecordData) ExprID {
	return e.new(ExprRecord, span, e.Records.Allocate(data))
}

func (e *Exprs) Record(id ExprID) (*ExprRecordData, bool) {
	p, ok := e.payload(id, ExprRecord)
	if !ok {
		return nil, false
	}
	return e.Records.Get(p), true
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(ExprGroupData{Inner: inner}))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	p, ok := e.payload(id, ExprGroup)
	if !ok {
		return nil, false
	}
	return e.Groups.Get(p), true
}

func (e *Exprs) NewBlock(span source.Span, stmts []StmtID) ExprID {
	return e.new(ExprBlock, span, e.Blocks.Allocate(ExprBlockData{Stmts: stmts}))
}

func (e *Exprs) Block(id ExprID) (*ExprBlockData, bool) {
	p, ok := e.payload(id, ExprBlock)
	if !ok {
		return nil, false
	}
	return e.Blocks.Get(p), true
}

func (e *Exprs) NewArray(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprArray, span, e.Lists.Allocate(ExprListData{Elements: elems}))
}

func (e *Exprs) NewTuple(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprTuple, span, e.Lists.Allocate(ExprListData{Elements: elems}))
}

// List returns elements of an array or tuple.
func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	expr := e.Get(id)
	if expr == nil || (expr.Kind != ExprArray && expr.Kind != ExprTuple) {
		return nil, false
	}
	return e.Lists.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	return e.new(ExprIf, span, e.Ifs.Allocate(ExprIfData{Cond: cond, Then: then, Else: els}))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	p, ok := e.payload(id, ExprIf)
	if !ok {
		return nil, false
	}
	return e.Ifs.Get(p), true
}

func (e *Exprs) NewWhile(span source.Span, cond, body ExprID) ExprID {
	return e.new(ExprWhile, span, e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: body}))
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	p, ok := e.payload(id, ExprWhile)
	if !ok {
		return nil, false
	}
	return e.Whiles.Get(p), true
}

func (e *Exprs) NewLoop(span source.Span, body ExprID) ExprID {
	return e.new(ExprLoop, span, e.Loops.Allocate(ExprLoopData{Body: body}))
}

func (e *Exprs) Loop(id ExprID) (*ExprLoopData, bool) {
	p, ok := e.payload(id, ExprLoop)
	if !ok {
		return nil, false
	}
	return e.Loops.Get(p), true
}

func (e *Exprs) NewBreak(span source.Span, value ExprID) ExprID {
	return e.new(ExprBreak, span, e.Jumps.Allocate(ExprJumpData{Value: value}))
}

func (e *Exprs) NewContinue(span source.Span) ExprID {
	return e.new(ExprContinue, span, 0)
}

func (e *Exprs) NewReturn(span source.Span, value ExprID) ExprID {
	return e.new(ExprReturn, span, e.Jumps.Allocate(ExprJumpData{Value: value}))
}

// Jump returns the optional value of break and return.
func (e *Exprs) Jump(id ExprID) (*ExprJumpData, bool) {
	expr := e.Get(id)
	if expr == nil || (expr.Kind != ExprBreak && expr.Kind != ExprReturn) {
		return nil, false
	}
	return e.Jumps.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewAssign(span source.Span, op AssignOp, target, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Op: op, Target: target, Value: value}))
}

func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	p, ok := e.payload(id, ExprAssign)
	if !ok {
		return nil, false
	}
	return e.Assigns.Get(p), true
}

func (e *Exprs) NewLogical(span source.Span, op LogicalOp, left, right ExprID) ExprID {
	return e.new(ExprLogical, span, e.Logicals.Allocate(ExprLogicalData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Logical(id ExprID) (*ExprLogicalData, bool) {
	p, ok := e.payload(id, ExprLogical)
	if !ok {
		return nil, false
	}
	return e.Logicals.Get(p), true
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnary, span, e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand}))
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	p, ok := e.payload(id, ExprUnary)
	if !ok {
		return nil, false
	}
	return e.Unaries.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, callee ExprID, args []ExprID) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(ExprCallData{Callee: callee, Args: args}))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewField(span source.Span, target ExprID, name source.StringID, nameSpan source.Span) ExprID {
	return e.new(ExprField, span, e.Fields.Allocate(ExprFieldData{Target: target, Name: name, NameSpan: nameSpan}))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	p, ok := e.payload(id, ExprField)
	if !ok {
		return nil, false
	}
	return e.Fields.Get(p), true
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	return e.new(ExprIndex, span, e.Indices.Allocate(ExprIndexData{Target: target, Index: index}))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	p, ok := e.payload(id, ExprIndex)
	if !ok {
		return nil, false
	}
	return e.Indices.Get(p), true
}

// IsPlace reports whether the expression can be assigned to.
func (e *Exprs) IsPlace(id ExprID) bool {
	expr := e.Get(id)
	if expr == nil {
		return false
	}
	switch expr.Kind {
	case ExprIdent, ExprField, ExprIndex:
		return true
	}
	return false
}
