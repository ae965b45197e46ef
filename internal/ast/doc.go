// Package ast хранит синтаксическое дерево rym в аренах.
//
// Узлы адресуются 1-based ID (ExprID, StmtID, ItemID); нулевой ID означает
// отсутствие узла. Builder владеет всеми аренами и интернером имён.
// Payload каждого вида выражения лежит в отдельной арене Exprs и
// достаётся типизированным аксессором, который проверяет Kind.
package ast
