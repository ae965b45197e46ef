package ast

// CountNodes returns the number of items, statements and expressions
// reachable from the file, Error nodes excluded.
func CountNodes(b *Builder, file FileID) int {
	n := 0
	Inspect(b, FileNode(file), func(b *Builder, node Node) bool {
		if node.Kind != NodeFile && !b.IsError(node) {
			n++
		}
		return true
	})
	return n
}

// Normalize collapses chains of identical unary operators: an even chain
// (`--x`, `!!x`) becomes its operand, an odd chain becomes a single
// operator. It returns the number of rewritten chains.
func Normalize(b *Builder, file FileID) int {
	rewrites := 0
	Inspect(b, FileNode(file), func(b *Builder, node Node) bool {
		if node.Kind != NodeExpr {
			return true
		}
		// `--!!x`: после первой свёртки на месте узла может оказаться новая цепочка.
		for b.collapseUnary(node.Expr) {
			rewrites++
		}
		return true
	})
	return rewrites
}

// collapseUnary rewrites the chain rooted at id in place.
func (b *Builder) collapseUnary(id ExprID) bool {
	head, ok := b.Exprs.Unary(id)
	if !ok {
		return false
	}
	depth := 1
	operand := head.Operand
	for {
		next, ok := b.Exprs.Unary(operand)
		if !ok || next.Op != head.Op {
			break
		}
		depth++
		operand = next.Operand
	}
	if depth == 1 {
		return false
	}
	if depth%2 == 0 {
		// Узел занимает место операнда; родительские ссылки не меняются.
		*b.Exprs.Get(id) = *b.Exprs.Get(operand)
	} else {
		head.Operand = operand
	}
	return true
}
