package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"lox-lang/internal/driver"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"LOX_PROMPT", "LOX_HISTORY_FILE", "LOX_VERBOSE", "LOX_LOG_FORMAT", "NO_COLOR"} {
		t.Setenv(key, "")
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunFile(t *testing.T) {
	path := writeScript(t, "var x = 10;\nx = x * 2;\nprint x;\nprint x == 20;\n")
	for _, args := range [][]string{{"run", path}, {path}} {
		stdout, stderr, err := execute(t, args...)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v (stderr %q)", args, err, stderr)
		}
		if stdout != "20\ntrue\n" {
			t.Errorf("%v: unexpected stdout %q", args, stdout)
		}
	}
}

func TestRunFileRuntimeError(t *testing.T) {
	path := writeScript(t, "print 1;\nprint -\"abc\";\nprint 3;\n")
	stdout, stderr, err := execute(t, "run", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if stdout != "1\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	want := "[E3002] error at 2:7: operand must be a number, got string\n"
	if stderr != want {
		t.Errorf("expected stderr %q, got %q", want, stderr)
	}
}

func TestRunFileParseErrors(t *testing.T) {
	path := writeScript(t, "print 1;\nvar = 2;\nprint (1 + 2;\n")
	stdout, stderr, err := execute(t, "run", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error, got %v", err)
	}
	if stdout != "" {
		t.Errorf("nothing should run, got %q", stdout)
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per diagnostic, got %q", stderr)
	}
	if !strings.HasPrefix(lines[0], "[E2001] error at 2:5") {
		t.Errorf("unexpected first diagnostic %q", lines[0])
	}
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.lox"))
	if err == nil || !strings.Contains(err.Error(), "cannot read file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestTokensText(t *testing.T) {
	path := writeScript(t, "var x = 1.5;")
	stdout, _, err := execute(t, "tokens", path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 token lines, got %d:\n%s", len(lines), stdout)
	}
	if fields := strings.Fields(lines[3]); fields[0] != "NUMBER" || fields[1] != "1.5" || fields[3] != "1:9" {
		t.Errorf("unexpected number line %q", lines[3])
	}
	if !strings.HasPrefix(lines[5], "EOF") {
		t.Errorf("expected EOF last, got %q", lines[5])
	}
}

func TestTokensJSON(t *testing.T) {
	path := writeScript(t, "print \"hi\"; @")
	stdout, _, err := execute(t, "tokens", "--json", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error for lexical diagnostics, got %v", err)
	}

	var out struct {
		Tokens []struct {
			Kind    string      `json:"kind"`
			Lexeme  string      `json:"lexeme"`
			Literal interface{} `json:"literal"`
		} `json:"tokens"`
		Diagnostics []map[string]interface{} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}

	var kinds []string
	for _, tok := range out.Tokens {
		kinds = append(kinds, tok.Kind)
	}
	if diff := cmp.Diff([]string{"print", "STRING", ";", "EOF"}, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if out.Tokens[1].Literal != "hi" {
		t.Errorf("expected string literal hi, got %v", out.Tokens[1].Literal)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0]["code"] != "E1002" {
		t.Errorf("expected one E1002 diagnostic, got %v", out.Diagnostics)
	}
}

func TestTokensJSONHint(t *testing.T) {
	path := writeScript(t, "# note")
	stdout, _, err := execute(t, "tokens", "--json", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("expected reported error for lexical diagnostics, got %v", err)
	}

	var out struct {
		Diagnostics []map[string]interface{} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got %v", out.Diagnostics)
	}
	if out.Diagnostics[0]["hint"] != "comments start with '//'" {
		t.Errorf("expected comment hint, got %v", out.Diagnostics[0]["hint"])
	}
	if _, ok := out.Diagnostics[0]["severity"]; ok {
		t.Error("diagnostics carry no severity field")
	}
}

func TestParseSExpr(t *testing.T) {
	path := writeScript(t, "var x = 1 + 2 * 3;\nprint x;\nx = -x;")
	stdout, _, err := execute(t, "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "(var x (+ 1 (* 2 3)))\n(print x)\n(expr (= x (- x)))\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestParseJSON(t *testing.T) {
	path := writeScript(t, "print 1 + 2;")
	stdout, _, err := execute(t, "parse", "--json", path)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	prog, ok := out["ast"].(map[string]interface{})
	if !ok || prog["kind"] != "Program" {
		t.Fatalf("expected Program root, got %v", out["ast"])
	}
	if diags, _ := out["diagnostics"].([]interface{}); len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}

func TestVerboseTracing(t *testing.T) {
	path := writeScript(t, "var x = 1;")
	_, stderr, err := execute(t, "--verbose", "run", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"level=DEBUG", "msg=token", `sexpr="(var x 1)"`, `msg="define variable"`} {
		if !strings.Contains(stderr, want) {
			t.Errorf("verbose output missing %q:\n%s", want, stderr)
		}
	}
}

func TestJSONLogFormat(t *testing.T) {
	path := writeScript(t, "var x = 1;")
	_, stderr, err := execute(t, "-v", "--log-format", "json", "run", path)
	if err != nil {
		t.Fatal(err)
	}
	first := strings.SplitN(stderr, "\n", 2)[0]
	var record map[string]interface{}
	if err := json.Unmarshal([]byte(first), &record); err != nil {
		t.Fatalf("expected JSON log records, got %q", first)
	}
	if record["level"] != "DEBUG" {
		t.Errorf("expected DEBUG record, got %v", record)
	}
}

func TestQuietByDefault(t *testing.T) {
	path := writeScript(t, "var x = 1;")
	_, stderr, err := execute(t, "run", path)
	if err != nil {
		t.Fatal(err)
	}
	if stderr != "" {
		t.Errorf("expected no log output without --verbose, got %q", stderr)
	}
}

func TestBadLogFormatFlag(t *testing.T) {
	path := writeScript(t, "print 1;")
	_, _, err := execute(t, "--log-format", "xml", "run", path)
	if err == nil || !strings.Contains(err.Error(), "unknown log format") {
		t.Fatalf("expected log format error, got %v", err)
	}
}

func TestExplicitConfigMissing(t *testing.T) {
	path := writeScript(t, "print 1;")
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "run", path)
	if err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func newTestREPL() (*repl, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &repl{
		session: driver.NewSession(&out, nil),
		out:     &out,
		errOut:  &errOut,
		styles:  newStyles(false),
	}, &out, &errOut
}

func TestREPLSessionPersists(t *testing.T) {
	r, out, errOut := newTestREPL()

	for _, line := range []string{"var x = 10;", "x = 20;", "print x;", "print y;", "print x + 1;"} {
		if r.handle(line) {
			t.Fatalf("%q should not quit", line)
		}
	}
	if out.String() != "20\n21\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if errOut.String() != "[E3001] error at 1:7: undefined variable 'y'\n" {
		t.Errorf("unexpected error output %q", errOut.String())
	}
}

func TestREPLCommands(t *testing.T) {
	r, out, _ := newTestREPL()

	r.handle(":vars")
	if out.String() != "no variables defined\n" {
		t.Errorf("unexpected empty listing %q", out.String())
	}
	out.Reset()

	r.handle(`var b = "two";`)
	r.handle("var a = 1;")
	r.handle(":vars")
	if out.String() != "a = 1 (number)\nb = two (string)\n" {
		t.Errorf("unexpected listing %q", out.String())
	}

	if r.handle("   ") {
		t.Error("blank line should not quit")
	}
	if !r.handle("exit") {
		t.Error("exit should quit")
	}
}

func TestREPLReportsEveryDiagnostic(t *testing.T) {
	r, _, errOut := newTestREPL()
	r.handle("var = 1; print (2;")
	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("expected two diagnostics, got %q", errOut.String())
	}
}
