package diag

import (
	"errors"
	"lox-lang/internal/span"
	"testing"
)

func at(line, col int) span.Span {
	pos := span.Position{Line: line, Column: col}
	return span.Span{Start: pos, End: pos}
}

func TestDiagnosticString(t *testing.T) {
	d := Errorf(CodeUnexpectedChar, at(2, 5), "unexpected character: '%c'", '#')
	if got, want := d.String(), "[E1002] error at 2:5: unexpected character: '#'"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	hinted := d.WithHint("comments start with '//'")
	if got, want := hinted.String(), "[E1002] error at 2:5: unexpected character: '#' (hint: comments start with '//')"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if d.Hint != "" {
		t.Error("WithHint must not modify the original diagnostic")
	}
}

func TestListError(t *testing.T) {
	var empty List
	if empty.Err() != nil {
		t.Error("an empty list is not an error")
	}

	one := List{Errorf(CodeExpectedExpression, at(1, 1), "expected expression")}
	if got := one.Err().Error(); got != "[E2002] error at 1:1: expected expression" {
		t.Errorf("unexpected single error %q", got)
	}

	two := append(one, Errorf(CodeExpectedToken, at(3, 4), "expected ';'"))
	err := two.Err()
	if got := err.Error(); got != "[E2002] error at 1:1: expected expression (and 1 more errors)" {
		t.Errorf("unexpected summary %q", got)
	}

	var list List
	if !errors.As(err, &list) || len(list) != 2 {
		t.Errorf("expected to recover the full list, got %v", list)
	}
}
