package main

import (
	"errors"
	"fmt"
	"io"
	"lox-lang/internal/diag"
	"lox-lang/internal/driver"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// ---- styles ----

var (
	accentColor    = lipgloss.Color("#3B82F6")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")
)

type styles struct {
	prompt lipgloss.Style
	header lipgloss.Style
	err    lipgloss.Style
	muted  lipgloss.Style
	name   lipgloss.Style
}

// newStyles returns the REPL palette, or unstyled renderers when color is off.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{prompt: plain, header: plain, err: plain, muted: plain, name: plain}
	}
	return styles{
		prompt: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
		header: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
		err:    lipgloss.NewStyle().Foreground(errorColor),
		muted:  lipgloss.NewStyle().Foreground(mutedColor),
		name:   lipgloss.NewStyle().Foreground(highlightColor),
	}
}

// ---- repl command ----

// repl evaluates lines against one session, so bindings persist.
type repl struct {
	session *driver.Session
	out     io.Writer
	errOut  io.Writer
	styles  styles
}

func (a *app) cmdRepl(cmd *cobra.Command) error {
	st := newStyles(a.cfg.Color)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            st.prompt.Render(a.cfg.Prompt),
		HistoryFile:       a.cfg.HistoryFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	r := &repl{
		session: driver.NewSession(rl.Stdout(), a.logger),
		out:     rl.Stdout(),
		errOut:  rl.Stderr(),
		styles:  st,
	}
	r.banner()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					fmt.Fprintln(r.out, st.muted.Render("(use 'exit' or Ctrl+D to quit)"))
				}
				continue
			}
			// EOF (Ctrl+D) or other error
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
			}
			return nil
		}
		if r.handle(line) {
			return nil
		}
	}
}

func (r *repl) banner() {
	fmt.Fprintf(r.out, "%s %s\n\n",
		r.styles.header.Render("lox-lang REPL"),
		r.styles.muted.Render("(type 'exit' or Ctrl+D to quit, ':vars' to list variables)"))
}

// handle evaluates one input line and reports whether the REPL should quit.
// Errors are printed and never end the loop.
func (r *repl) handle(line string) bool {
	switch strings.TrimSpace(line) {
	case "":
		return false
	case "exit":
		return true
	case ":vars":
		r.printVars()
		return false
	}

	if err := r.session.Run(line, "<repl>"); err != nil {
		r.printError(err)
	}
	return false
}

func (r *repl) printVars() {
	env := r.session.Env()
	names := env.Names()
	if len(names) == 0 {
		fmt.Fprintln(r.out, r.styles.muted.Render("no variables defined"))
		return
	}
	for _, name := range names {
		val, _ := env.Get(name)
		fmt.Fprintf(r.out, "%s = %s %s\n", r.styles.name.Render(name), val.String(), r.styles.muted.Render("("+val.TypeName()+")"))
	}
}

// printError prints diagnostics in the error color, one per line.
func (r *repl) printError(err error) {
	var list diag.List
	if errors.As(err, &list) {
		for _, d := range list {
			fmt.Fprintln(r.errOut, r.styles.err.Render(d.String()))
		}
		return
	}
	fmt.Fprintln(r.errOut, r.styles.err.Render(err.Error()))
}
