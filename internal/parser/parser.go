// Package parser implements the syntax analysis for lox-lang.
// It is a recursive-descent parser with one function per precedence level.
package parser

import (
	"fmt"
	"lox-lang/internal/ast"
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
//
// Parse functions return nil after reporting an error; callers propagate
// the nil up to the enclosing declaration, which then resynchronizes.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseProgram parses declarations until EOF and returns the AST root and
// diagnostics. A malformed declaration is dropped from the result; parsing
// resumes at the next statement boundary.
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	prog := &ast.Program{}
	startPos := p.peek().Span.Start

	for !p.isAtEnd() {
		stmt := p.parseDeclaration()
		if stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
	}

	prog.Span = span.Span{Start: startPos, End: p.peek().Span.End}
	return prog, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return p.tokens[len(p.tokens)-1]
		}
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return p.peek()
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.isAtEnd() && p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind, context string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error(diag.CodeExpectedToken, tok.Span, fmt.Sprintf("expected '%s' %s, got %s", kind, context, describe(tok)))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// describe names a token for error messages.
func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips tokens until a likely statement boundary: just past
// the next ';', or at a statement keyword that lies after from. The token
// an error was reported at is never a restart point.
func (p *Parser) synchronize(from int) {
	if p.pos > from && p.peekKind().StartsStatement() {
		p.advance()
	}
	for !p.isAtEnd() {
		if p.check(token.SEMICOLON) {
			p.advance()
			return
		}
		if p.pos > from && p.peekKind().StartsStatement() {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

// parseDeclaration parses: varDecl | statement
func (p *Parser) parseDeclaration() ast.Stmt {
	from := p.pos

	var stmt ast.Stmt
	if p.check(token.KW_VAR) {
		stmt = p.parseVarDecl()
	} else {
		stmt = p.parseStmt()
	}

	if stmt == nil {
		p.synchronize(from)
		return nil
	}
	return stmt
}

// parseVarDecl parses: var IDENT [ = expr ] ;
func (p *Parser) parseVarDecl() ast.Stmt {
	start := p.advance() // consume 'var'

	nameTok, ok := p.expect(token.IDENT, "variable name")
	if !ok {
		return nil
	}
	stmt := &ast.VarStmt{Name: nameTok}

	// optional initializer
	if p.check(token.ASSIGN) {
		p.advance()
		stmt.Init = p.parseExpr()
		if stmt.Init == nil {
			return nil
		}
	}

	if _, ok := p.expect(token.SEMICOLON, "after variable declaration"); !ok {
		return nil
	}
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseStmt parses: printStmt | exprStmt
func (p *Parser) parseStmt() ast.Stmt {
	if p.check(token.KW_PRINT) {
		return p.parsePrintStmt()
	}
	return p.parseExprStmt()
}

// parsePrintStmt parses: print expr ;
func (p *Parser) parsePrintStmt() ast.Stmt {
	start := p.advance() // consume 'print'

	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON, "after value"); !ok {
		return nil
	}
	return &ast.PrintStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Expr:     expr,
	}
}

// parseExprStmt parses: expr ;
func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON, "after expression"); !ok {
		return nil
	}
	return &ast.ExprStmt{
		StmtBase: makeStmtBase(expr.GetSpan().Start, p.prevEnd()),
		Expr:     expr,
	}
}

// ============================================================
// Expression parsing (precedence ladder, lowest first)
// ============================================================

// parseExpr parses: assignment
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment parses: IDENT = assignment | equality
// It is right-associative: a = b = 1 assigns b first.
func (p *Parser) parseAssignment() ast.Expr {
	expr := p.parseEquality()
	if expr == nil {
		return nil
	}

	if !p.check(token.ASSIGN) {
		return expr
	}
	equals := p.advance()
	value := p.parseAssignment()
	if value == nil {
		return nil
	}

	target, ok := expr.(*ast.Variable)
	if !ok {
		p.error(diag.CodeInvalidAssignment, equals.Span, "invalid assignment target")
		return nil
	}
	return &ast.Assign{
		ExprBase: makeExprBase(target.Span.Start, value.GetSpan().End),
		Name:     target.Name,
		Value:    value,
	}
}

// parseEquality parses: comparison ( ( != | == ) comparison )*
func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinary(p.parseComparison, token.NEQ, token.EQ)
}

// parseComparison parses: addition ( ( > | >= | < | <= ) addition )*
func (p *Parser) parseComparison() ast.Expr {
	return p.parseBinary(p.parseAddition, token.GT, token.GTE, token.LT, token.LTE)
}

// parseAddition parses: multiplication ( ( - | + ) multiplication )*
func (p *Parser) parseAddition() ast.Expr {
	return p.parseBinary(p.parseMultiplication, token.MINUS, token.PLUS)
}

// parseMultiplication parses: unary ( ( / | * ) unary )*
func (p *Parser) parseMultiplication() ast.Expr {
	return p.parseBinary(p.parseUnary, token.SLASH, token.STAR)
}

// parseBinary folds a left-associative chain of operands produced by next
// and joined by any of ops.
func (p *Parser) parseBinary(next func() ast.Expr, ops ...token.Kind) ast.Expr {
	left := next()
	if left == nil {
		return nil
	}

	for p.match(ops...) {
		op := p.advance()
		right := next()
		if right == nil {
			return nil
		}
		left = &ast.Binary{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Left:     left,
			Op:       op,
			Right:    right,
		}
	}

	return left
}

// parseUnary parses: ( ! | - ) unary | primary
func (p *Parser) parseUnary() ast.Expr {
	if !p.match(token.BANG, token.MINUS) {
		return p.parsePrimary()
	}

	op := p.advance()
	operand := p.parseUnary()
	if operand == nil {
		return nil
	}
	return &ast.Unary{
		ExprBase: makeExprBase(op.Span.Start, operand.GetSpan().End),
		Op:       op,
		Operand:  operand,
	}
}

// parsePrimary parses literals, parenthesized expressions and identifiers.
func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		val, _ := tok.Literal.(float64)
		return &ast.NumberLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    val,
		}

	case token.STRING:
		p.advance()
		val, _ := tok.Literal.(string)
		return &ast.StringLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    val,
		}

	case token.KW_TRUE, token.KW_FALSE:
		p.advance()
		return &ast.BoolLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Kind == token.KW_TRUE,
		}

	case token.KW_NIL:
		p.advance()
		return &ast.NilLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
		}

	case token.IDENT:
		p.advance()
		return &ast.Variable{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok,
		}

	case token.LPAREN:
		p.advance() // consume '('
		inner := p.parseExpr()
		if inner == nil {
			return nil
		}
		if _, ok := p.expect(token.RPAREN, "after expression"); !ok {
			return nil
		}
		return &ast.Grouping{
			ExprBase: makeExprBase(tok.Span.Start, p.prevEnd()),
			Inner:    inner,
		}

	default:
		p.error(diag.CodeExpectedExpression, tok.Span, fmt.Sprintf("expected expression, got %s", describe(tok)))
		return nil
	}
}

// ============================================================
// Span helpers
// ============================================================

// prevEnd returns the end position of the previously consumed token.
func (p *Parser) prevEnd() span.Position {
	return p.previous().Span.End
}

// makeSpan returns a span from start to the end of the previous token.
func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
