// Package driver wires the lexer, parser and interpreter into one pipeline.
//
// Any lexical or syntax diagnostic stops a source from executing and is
// returned as a diag.List. Runtime failures are returned as
// *runtime.RuntimeError.
package driver

import (
	"bytes"
	"io"
	"log/slog"
	"lox-lang/internal/ast"
	"lox-lang/internal/diag"
	"lox-lang/internal/lexer"
	"lox-lang/internal/parser"
	"lox-lang/internal/runtime"
	"lox-lang/internal/token"
	"strings"
)

// Tokens scans source and returns the token stream with any lexical
// diagnostics.
func Tokens(source string) ([]token.Token, diag.List) {
	tokens, diags := lexer.New(source).Tokenize()
	return tokens, diag.List(diags)
}

// Parse scans and parses source. Diagnostics from both phases are
// returned together, lexical ones first.
func Parse(source string) (*ast.Program, diag.List) {
	return parse(source, slog.New(slog.DiscardHandler))
}

func parse(source string, logger *slog.Logger) (*ast.Program, diag.List) {
	tokens, lexDiags := lexer.New(source).Tokenize()
	for _, tok := range tokens {
		logger.Debug("token", "kind", tok.Kind.String(), "lexeme", tok.Lexeme, "line", tok.Line())
	}

	prog, parseDiags := parser.New(tokens).ParseProgram()
	for _, stmt := range prog.Stmts {
		logger.Debug("statement", "sexpr", ast.Print(stmt))
	}

	all := make(diag.List, 0, len(lexDiags)+len(parseDiags))
	all = append(all, lexDiags...)
	all = append(all, parseDiags...)
	return prog, all
}

// Run executes source in a fresh session and returns the printed lines.
// On a runtime error the lines printed before the failure are returned
// along with the error.
func Run(source string) ([]string, error) {
	var buf bytes.Buffer
	err := NewSession(&buf, nil).Run(source, "<input>")
	return splitLines(buf.String()), err
}

func splitLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// Session is a long-lived pipeline over one interpreter. Variables defined
// by one Run are visible to the next.
type Session struct {
	interp *runtime.Interpreter
	logger *slog.Logger
}

// NewSession creates a session whose print statements write to out.
// A nil logger disables tracing.
func NewSession(out io.Writer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		interp: runtime.NewInterpreter(out, runtime.WithLogger(logger)),
		logger: logger,
	}
}

// Run scans, parses and executes source. Nothing is executed if scanning
// or parsing reported an error.
func (s *Session) Run(source, filename string) error {
	prog, diags := parse(source, s.logger)
	if err := diags.Err(); err != nil {
		s.logger.Debug("source rejected", "file", filename, "diagnostics", len(diags))
		return err
	}

	return s.interp.Run(prog)
}

// Env exposes the session's variable bindings.
func (s *Session) Env() *runtime.Environment {
	return s.interp.Env()
}
