package ast

import (
	"lox-lang/internal/token"
	"testing"
)

func tok(kind token.Kind, lexeme string) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme}
}

func TestPrintExpressions(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"number", &NumberLiteral{Value: 5.105}, "5.105"},
		{"integral number", &NumberLiteral{Value: 20}, "20"},
		{"string", &StringLiteral{Value: "a b"}, `"a b"`},
		{"bool", &BoolLiteral{Value: false}, "false"},
		{"nil", &NilLiteral{}, "nil"},
		{"variable", &Variable{Name: tok(token.IDENT, "x")}, "x"},
		{
			"binary in group",
			&Binary{
				Left:  &Unary{Op: tok(token.MINUS, "-"), Operand: &NumberLiteral{Value: 123}},
				Op:    tok(token.STAR, "*"),
				Right: &Grouping{Inner: &NumberLiteral{Value: 45.67}},
			},
			"(* (- 123) (group 45.67))",
		},
		{
			"assign",
			&Assign{Name: tok(token.IDENT, "y"), Value: &BoolLiteral{Value: true}},
			"(= y true)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.node); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPrintStatements(t *testing.T) {
	prog := &Program{Stmts: []Stmt{
		&VarStmt{Name: tok(token.IDENT, "a")},
		&VarStmt{Name: tok(token.IDENT, "b"), Init: &NumberLiteral{Value: 1}},
		&PrintStmt{Expr: &Variable{Name: tok(token.IDENT, "b")}},
		&ExprStmt{Expr: &NilLiteral{}},
	}}

	want := "(var a)\n(var b 1)\n(print b)\n(expr nil)"
	if got := Print(prog); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}
