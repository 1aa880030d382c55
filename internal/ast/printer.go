package ast

import (
	"strconv"
	"strings"
)

// Print renders a node as a parenthesized prefix expression, e.g.
// "(+ 1 (group (* 2 3)))" or "(var x 10)". Used by `lox parse` and by
// debug tracing.
func Print(node Node) string {
	var sb strings.Builder
	write(&sb, node)
	return sb.String()
}

func write(sb *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		sb.WriteString("<nil>")
	case *Program:
		for i, s := range n.Stmts {
			if i > 0 {
				sb.WriteByte('\n')
			}
			write(sb, s)
		}

	case *NumberLiteral:
		sb.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	case *StringLiteral:
		sb.WriteString(strconv.Quote(n.Value))
	case *BoolLiteral:
		sb.WriteString(strconv.FormatBool(n.Value))
	case *NilLiteral:
		sb.WriteString("nil")
	case *Grouping:
		parenthesize(sb, "group", n.Inner)
	case *Unary:
		parenthesize(sb, n.Op.Lexeme, n.Operand)
	case *Binary:
		parenthesize(sb, n.Op.Lexeme, n.Left, n.Right)
	case *Variable:
		sb.WriteString(n.Name.Lexeme)
	case *Assign:
		parenthesize(sb, "= "+n.Name.Lexeme, n.Value)

	case *ExprStmt:
		parenthesize(sb, "expr", n.Expr)
	case *PrintStmt:
		parenthesize(sb, "print", n.Expr)
	case *VarStmt:
		if n.Init == nil {
			sb.WriteString("(var " + n.Name.Lexeme + ")")
			return
		}
		parenthesize(sb, "var "+n.Name.Lexeme, n.Init)

	default:
		sb.WriteString("<unknown>")
	}
}

func parenthesize(sb *strings.Builder, name string, nodes ...Node) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, n := range nodes {
		sb.WriteByte(' ')
		write(sb, n)
	}
	sb.WriteByte(')')
}
