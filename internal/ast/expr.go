package ast

import (
	"rym/internal/source"
)

type ExprKind uint8

const (
	// ExprError replaces a construct that failed to parse; a diagnostic
	// for its span has already been emitted.
	ExprError ExprKind = iota
	ExprIdent
	ExprLit
	ExprRecord
	ExprGroup
	ExprBlock
	ExprArray
	ExprTuple
	ExprIf
	ExprWhile
	ExprLoop
	ExprBreak
	ExprContinue
	ExprReturn
	ExprAssign
	ExprLogical
	ExprBinary
	ExprUnary
	ExprCall
	ExprField
	ExprIndex
)

var exprKindNames = [...]string{
	ExprError:    "Error",
	ExprIdent:    "Ident",
	ExprLit:      "Lit",
	ExprRecord:   "Record",
	ExprGroup:    "Group",
	ExprBlock:    "Block",
	ExprArray:    "Array",
	ExprTuple:    "Tuple",
	ExprIf:       "If",
	ExprWhile:    "While",
	ExprLoop:     "Loop",
	ExprBreak:    "Break",
	ExprContinue: "Continue",
	ExprReturn:   "Return",
	ExprAssign:   "Assign",
	ExprLogical:  "Logical",
	ExprBinary:   "Binary",
	ExprUnary:    "Unary",
	ExprCall:     "Call",
	ExprField:    "Field",
	ExprIndex:    "Index",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr(?)"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
)

type ExprLiteralData struct {
	Kind  LitKind
	Int   int64
	Float float64
	Str   string // LitString: уже без кавычек и escape-последовательностей
	Char  rune
	Bool  bool
}

type ExprIdentData struct {
	Name source.StringID
}

type RecordField struct {
	Name     source.StringID
	NameSpan source.Span
	Value    ExprID
}

type ExprRecordData struct {
	Name     source.StringID
	NameSpan source.Span
	Fields   []RecordField
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprBlockData struct {
	Stmts []StmtID
}

// ExprListData is shared by arrays and tuples.
type ExprListData struct {
	Elements []ExprID
}

type ExprIfData struct {
	Cond ExprID
	Then ExprID
	Else ExprID // NoExprID без else; для `else if` - ExprIf
}

type ExprWhileData struct {
	Cond ExprID
	Body ExprID
}

type ExprLoopData struct {
	Body ExprID
}

// ExprJumpData is used by break and return; Value may be NoExprID.
type ExprJumpData struct {
	Value ExprID
}

type ExprAssignData struct {
	Op     AssignOp
	Target ExprID
	Value  ExprID
}

type ExprLogicalData struct {
	Op    LogicalOp
	Left  ExprID
	Right ExprID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprFieldData struct {
	Target   ExprID
	Name     source.StringID
	NameSpan source.Span
}

type ExprIndexData struct {
	Target ExprID
	Index  ExprID
}
