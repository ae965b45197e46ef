package ast

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota // +
	BinSub                 // -
	BinMul                 // *
	BinDiv                 // /
	BinRem                 // %
	BinEq                  // ==
	BinNe                  // !=
	BinLt                  // <
	BinLe                  // <=
	BinGt                  // >
	BinGe                  // >=
)

var binaryNames = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinDiv: "/", BinRem: "%",
	BinEq: "==", BinNe: "!=", BinLt: "<", BinLe: "<=", BinGt: ">", BinGe: ">=",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "?"
}

// LogicalOp - короткозамкнутые операторы; отдельный узел, т.к. правый
// операнд вычисляется не всегда.
type LogicalOp uint8

const (
	LogicalAnd LogicalOp = iota // &&
	LogicalOr                   // ||
)

func (op LogicalOp) String() string {
	if op == LogicalAnd {
		return "&&"
	}
	return "||"
}

type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota // !
	UnaryNeg                // -
)

func (op UnaryOp) String() string {
	if op == UnaryNot {
		return "!"
	}
	return "-"
}

// AssignOp is the operator of an assignment; compound forms carry the
// arithmetic they desugar to.
type AssignOp uint8

const (
	AssignSet AssignOp = iota // =
	AssignAdd                 // +=
	AssignSub                 // -=
	AssignMul                 // *=
	AssignDiv                 // /=
	AssignRem                 // %=
)

var assignNames = [...]string{
	AssignSet: "=", AssignAdd: "+=", AssignSub: "-=", AssignMul: "*=", AssignDiv: "/=", AssignRem: "%=",
}

func (op AssignOp) String() string {
	if int(op) < len(assignNames) {
		return assignNames[op]
	}
	return "?"
}

// Binary returns the arithmetic operator of a compound assignment.
func (op AssignOp) Binary() (BinaryOp, bool) {
	switch op {
	case AssignAdd:
		return BinAdd, true
	case AssignSub:
		return BinSub, true
	case AssignMul:
		return BinMul, true
	case AssignDiv:
		return BinDiv, true
	case AssignRem:
		return BinRem, true
	}
	return 0, false
}
