// Package ast defines the abstract syntax tree for lox-lang.
//
// Expressions and statements are two closed families: only types in this
// package implement Expr and Stmt, so consumers can switch over them
// exhaustively.
package ast

import (
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program (top-level AST root)
// ============================================================

// Program represents an entire parsed source: its declarations in order.
type Program struct {
	NodeBase
	Stmts []Stmt
}

// ============================================================
// Expressions
// ============================================================

// NumberLiteral represents a number literal. All numbers are float64.
type NumberLiteral struct {
	ExprBase
	Value float64
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

// BoolLiteral represents true or false.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// NilLiteral represents nil.
type NilLiteral struct {
	ExprBase
}

// Grouping represents a parenthesized expression: (expr).
type Grouping struct {
	ExprBase
	Inner Expr
}

// Unary represents a prefix operation: !x, -x.
type Unary struct {
	ExprBase
	Op      token.Token
	Operand Expr
}

// Binary represents a binary operation: a + b, x == y.
type Binary struct {
	ExprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

// Variable represents a reference to a named variable.
type Variable struct {
	ExprBase
	Name token.Token
}

// Assign represents an assignment expression: name = value.
type Assign struct {
	ExprBase
	Name  token.Token
	Value Expr
}

// ============================================================
// Statements
// ============================================================

// ExprStmt wraps an expression evaluated for its effect.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// PrintStmt writes the value of Expr to the output.
type PrintStmt struct {
	StmtBase
	Expr Expr
}

// VarStmt declares a variable: var name [= init];
type VarStmt struct {
	StmtBase
	Name token.Token
	Init Expr // may be nil if no initializer
}
