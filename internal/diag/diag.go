// Package diag provides diagnostic (error/warning) types for the lexer and parser.
package diag

import (
	"fmt"
	"lox-lang/internal/span"
)

// Stable diagnostic codes. E1xxx are lexical, E2xxx syntactic, E3xxx runtime.
const (
	CodeUnterminatedString = "E1001"
	CodeUnexpectedChar     = "E1002"

	CodeExpectedToken      = "E2001"
	CodeExpectedExpression = "E2002"
	CodeInvalidAssignment  = "E2003"

	CodeUndefinedVariable = "E3001"
	CodeOperandNotNumber  = "E3002"
	CodeOperandsNotNumber = "E3003"
)

// Diagnostic represents an error found while scanning, parsing or running
// source code.
type Diagnostic struct {
	Code    string    `json:"code"`           // stable error code, e.g. "E1001"
	Message string    `json:"message"`        // human-readable description
	Span    span.Span `json:"span"`           // source location
	Hint    string    `json:"hint,omitempty"` // optional hint
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	msg := fmt.Sprintf("[%s] error at %s: %s", d.Code, loc, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    s,
	}
}

// WithHint returns a copy of d carrying hint.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}

// List is a batch of diagnostics reported as a single error.
type List []Diagnostic

// Error reports the first diagnostic and how many others follow it.
func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].String()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns the list as an error, or nil if it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
