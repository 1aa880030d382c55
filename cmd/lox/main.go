// Command lox is the CLI entry point for the lox-lang toolchain.
//
// Usage:
//
//	lox                            Start interactive REPL
//	lox <file>                     Run a source file
//	lox run    <file>              Run a source file
//	lox repl                       Start interactive REPL
//	lox tokens <file> [--json]     Print tokens
//	lox parse  <file> [--json]     Print the AST as S-expressions or JSON
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox-lang/internal/ast"
	"lox-lang/internal/config"
	"lox-lang/internal/diag"
	"lox-lang/internal/driver"
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var version = "dev"

// errReported means the failure was already written to stderr.
var errReported = errors.New("errors reported")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app carries the resolved configuration shared by every subcommand.
type app struct {
	configPath string
	verbose    bool
	logFormat  string
	noColor    bool

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "lox [file]",
		Short:         "Lox interpreter",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.cmdRepl(cmd)
			}
			return a.cmdRun(cmd, args[0])
		},
	}
	root.SetVersionTemplate("lox version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $HOME/"+config.DefaultFile+")")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "trace tokens, statements and variables to stderr")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		&cobra.Command{
			Use:   "run <file>",
			Short: "Run a source file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.cmdRun(cmd, args[0])
			},
		},
		&cobra.Command{
			Use:   "repl",
			Short: "Start interactive REPL",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.cmdRepl(cmd)
			},
		},
		newTokensCmd(a),
		newParseCmd(a),
	)
	return root
}

// setup resolves configuration: defaults, file, environment, then flags.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("no-color") && a.noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg)
	a.logger.Debug("configuration loaded", "verbose", cfg.Verbose, "log_format", cfg.LogFormat, "color", cfg.Color)
	return nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func readFile(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	return string(source), nil
}

// ---- run command ----

func (a *app) cmdRun(cmd *cobra.Command, filename string) error {
	source, err := readFile(filename)
	if err != nil {
		return err
	}

	session := driver.NewSession(cmd.OutOrStdout(), a.logger)
	if err := session.Run(source, filename); err != nil {
		printError(cmd.ErrOrStderr(), err)
		return errReported
	}
	return nil
}

// ---- tokens command ----

func newTokensCmd(a *app) *cobra.Command {
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Tokenize and print tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			tokens, diags := driver.Tokens(source)
			a.logger.Debug("tokenized", "file", args[0], "tokens", len(tokens), "diagnostics", len(diags))

			if jsonMode {
				err = printTokensJSON(cmd.OutOrStdout(), tokens, diags)
			} else {
				printTokensText(cmd.OutOrStdout(), tokens)
				printDiagsText(cmd.ErrOrStderr(), diags)
			}
			if err != nil {
				return err
			}
			if len(diags) > 0 {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "print tokens as JSON")
	return cmd
}

// ---- parse command ----

func newParseCmd(a *app) *cobra.Command {
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse and print the AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			prog, diags := driver.Parse(source)
			a.logger.Debug("parsed", "file", args[0], "statements", len(prog.Stmts), "diagnostics", len(diags))

			if jsonMode {
				err = printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"ast":         ast.NodeToMap(prog),
					"diagnostics": diagsToSlice(diags),
				})
				if err != nil {
					return err
				}
			} else {
				if len(prog.Stmts) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ast.Print(prog))
				}
				printDiagsText(cmd.ErrOrStderr(), diags)
			}
			if len(diags) > 0 {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "print the AST as JSON")
	return cmd
}

// printError writes a pipeline error, one line per diagnostic.
func printError(w io.Writer, err error) {
	var list diag.List
	if errors.As(err, &list) {
		printDiagsText(w, list)
		return
	}
	fmt.Fprintln(w, err)
}
