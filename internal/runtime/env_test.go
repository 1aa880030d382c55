package runtime

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvironmentDefineGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberVal(10))

	got, err := env.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != NumberVal(10) {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestEnvironmentRedefine(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberVal(1))
	env.Define("x", StringVal("one"))

	got, _ := env.Get("x")
	if got != StringVal("one") {
		t.Errorf("redefinition should overwrite, got %v", got)
	}
}

func TestEnvironmentGetUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get("missing")
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
	if !strings.Contains(err.Error(), "'missing'") {
		t.Errorf("error should name the variable, got %q", err)
	}
}

func TestEnvironmentAssign(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("x", NumberVal(10))

	if err := env.Assign("x", NumberVal(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := env.Get("x")
	if got != NumberVal(20) {
		t.Errorf("expected 20, got %v", got)
	}
}

func TestEnvironmentAssignNeverInserts(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Assign("y", NumberVal(1)); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
	if _, err := env.Get("y"); err == nil {
		t.Error("failed assignment must not create a binding")
	}
}

func TestEnvironmentDefineNil(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("n", Nil)
	got, err := env.Get("n")
	if err != nil {
		t.Fatalf("a variable bound to nil is still defined: %v", err)
	}
	if _, ok := got.(NilVal); !ok {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestEnvironmentNames(t *testing.T) {
	env := NewEnvironment(nil)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		env.Define(name, Nil)
	}
	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, env.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvironmentTracing(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := NewEnvironment(logger)

	env.Define("x", NumberVal(1))
	_ = env.Assign("x", StringVal("s"))

	out := buf.String()
	for _, want := range []string{"define variable", "assign variable", "name=x", "type=number", "type=string"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output missing %q:\n%s", want, out)
		}
	}
}
