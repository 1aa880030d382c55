package runtime

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox-lang/internal/ast"
	"lox-lang/internal/diag"
	"lox-lang/internal/span"
	"lox-lang/internal/token"
)

// ============================================================
// Runtime error
// ============================================================

// ErrOperandType is wrapped by errors from operators applied to operands
// of the wrong kind.
var ErrOperandType = errors.New("invalid operand type")

// RuntimeError represents an error during interpretation.
type RuntimeError struct {
	Code    string
	Message string
	Token   token.Token // operator or name the error is reported at
	Err     error       // sentinel: ErrUndefinedVariable or ErrOperandType
}

func (e *RuntimeError) Error() string {
	return e.Diagnostic().String()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Span returns the source location of the offending token.
func (e *RuntimeError) Span() span.Span {
	return e.Token.Span
}

// Diagnostic converts the error into a diagnostic for uniform reporting.
func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	return diag.Errorf(e.Code, e.Token.Span, "%s", e.Message)
}

func runtimeErr(code string, tok token.Token, sentinel error, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
		Err:     sentinel,
	}
}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it. It owns one Environment for
// its whole lifetime, so state persists across Interpret calls.
type Interpreter struct {
	env    *Environment
	output io.Writer
	logger *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger traces variable definitions and assignments at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// NewInterpreter creates a new interpreter that prints to output.
func NewInterpreter(output io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{output: output}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = slog.New(slog.DiscardHandler)
	}
	i.env = NewEnvironment(i.logger)
	return i
}

// Run executes a parsed program.
func (i *Interpreter) Run(prog *ast.Program) error {
	return i.Interpret(prog.Stmts)
}

// Interpret executes statements in order. The first runtime error stops
// execution; statements after it are not run.
func (i *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := i.execStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Env returns the interpreter's environment (useful for REPL).
func (i *Interpreter) Env() *Environment {
	return i.env
}

// ============================================================
// Statement execution
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := i.Evaluate(s.Expr)
		return err

	case *ast.PrintStmt:
		val, err := i.Evaluate(s.Expr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(i.output, val.String())
		return err

	case *ast.VarStmt:
		return i.execVarStmt(s)

	default:
		return fmt.Errorf("unhandled statement type: %T", stmt)
	}
}

func (i *Interpreter) execVarStmt(s *ast.VarStmt) error {
	val := Nil
	if s.Init != nil {
		v, err := i.Evaluate(s.Init)
		if err != nil {
			return err
		}
		val = v
	}
	i.env.Define(s.Name.Lexeme, val)
	return nil
}

// ============================================================
// Expression evaluation
// ============================================================

// Evaluate computes the value of a single expression.
func (i *Interpreter) Evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return NumberVal(e.Value), nil
	case *ast.StringLiteral:
		return StringVal(e.Value), nil
	case *ast.BoolLiteral:
		return BoolVal(e.Value), nil
	case *ast.NilLiteral:
		return Nil, nil
	case *ast.Grouping:
		return i.Evaluate(e.Inner)
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Variable:
		return i.evalVariable(e)
	case *ast.Assign:
		return i.evalAssign(e)
	default:
		return nil, fmt.Errorf("unhandled expression type: %T", expr)
	}
}

func (i *Interpreter) evalVariable(e *ast.Variable) (Value, error) {
	val, err := i.env.Get(e.Name.Lexeme)
	if err != nil {
		return nil, runtimeErr(diag.CodeUndefinedVariable, e.Name, ErrUndefinedVariable,
			"undefined variable '%s'", e.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evalAssign(e *ast.Assign) (Value, error) {
	val, err := i.Evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if err := i.env.Assign(e.Name.Lexeme, val); err != nil {
		return nil, runtimeErr(diag.CodeUndefinedVariable, e.Name, ErrUndefinedVariable,
			"undefined variable '%s'", e.Name.Lexeme)
	}
	return val, nil
}

func (i *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	operand, err := i.Evaluate(e.Operand)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.MINUS:
		n, ok := operand.(NumberVal)
		if !ok {
			return nil, runtimeErr(diag.CodeOperandNotNumber, e.Op, ErrOperandType,
				"operand must be a number, got %s", operand.TypeName())
		}
		return -n, nil
	case token.BANG:
		return BoolVal(!IsTruthy(operand)), nil
	default:
		return nil, fmt.Errorf("unknown unary operator: %s", e.Op.Kind)
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.Evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.Evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EQ:
		return BoolVal(ValuesEqual(left, right)), nil
	case token.NEQ:
		return BoolVal(!ValuesEqual(left, right)), nil
	}

	l, lok := left.(NumberVal)
	r, rok := right.(NumberVal)
	if !lok || !rok {
		return nil, runtimeErr(diag.CodeOperandsNotNumber, e.Op, ErrOperandType,
			"operands must be numbers, got %s and %s", left.TypeName(), right.TypeName())
	}

	switch e.Op.Kind {
	case token.PLUS:
		return l + r, nil
	case token.MINUS:
		return l - r, nil
	case token.STAR:
		return l * r, nil
	case token.SLASH:
		return l / r, nil
	case token.GT:
		return BoolVal(l > r), nil
	case token.GTE:
		return BoolVal(l >= r), nil
	case token.LT:
		return BoolVal(l < r), nil
	case token.LTE:
		return BoolVal(l <= r), nil
	default:
		return nil, fmt.Errorf("unknown binary operator: %s", e.Op.Kind)
	}
}
