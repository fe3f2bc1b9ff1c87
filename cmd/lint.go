// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lint"
	"github.com/spf13/cobra"
)

type lintOptions struct {
	json      bool
	checks    string
	disable   string
	list      bool
	workspace string
	excludes  []string
}

// LintCommand returns a standalone lint command.  Functions and variables
// defined in an environment given with WithEnv are treated as defined in
// every linted file.
func LintCommand(opts ...Option) *cobra.Command {
	return newCmdConfig(opts...).lintCommand()
}

func (c *cmdConfig) lintCommand() *cobra.Command {
	var opts lintOptions
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on rlisp source files",
		Long: `Run static analysis checks on rlisp source files.

The linter reports likely mistakes, similar to "go vet" for Go.  Each check
is an independent analyzer that examines the parsed program and reports
diagnostics.  Lines which fail to parse are reported as syntax errors and
the rest of the file is still checked.  Style is left to "rlisp fmt".

With no files, reads from stdin.  Directories are searched for .lisp files.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `Examples:
  rlisp lint file.lisp                       Lint a single file
  rlisp lint --json src/                     Output diagnostics as JSON
  rlisp lint --checks=builtin-arity f.lisp   Run only specific checks
  rlisp lint --disable=unused-parameter .    Skip a check
  rlisp lint --workspace lib/ main.lisp      Resolve functions defined in lib/
  cat file.lisp | rlisp lint                 Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.lint(cmd, args, &opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.json, "json", false, "Output diagnostics as JSON.")
	flags.StringVar(&opts.checks, "checks", "", "Comma-separated list of checks to run.")
	flags.StringVar(&opts.disable, "disable", "", "Comma-separated list of checks to skip.")
	flags.BoolVar(&opts.list, "list", false, "List available checks and exit.")
	flags.StringVar(&opts.workspace, "workspace", "",
		"Directory whose .lisp files define functions visible to every linted file.")
	flags.StringArrayVar(&opts.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

func splitList(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func (c *cmdConfig) lint(cmd *cobra.Command, args []string, opts *lintOptions) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if opts.list {
		for _, name := range lint.AnalyzerNames() {
			fmt.Fprintln(stdout, name) //nolint:errcheck // best-effort output
		}
		return nil
	}

	analyzers, err := lint.SelectAnalyzers(splitList(opts.checks), splitList(opts.disable))
	if err != nil {
		return badInvocation(stderr, err)
	}
	l := &lint.Linter{Analyzers: analyzers, Globals: c.globals()}
	if opts.workspace != "" {
		syms, err := analysis.ScanWorkspace(opts.workspace)
		if err != nil {
			return badInvocation(stderr, err)
		}
		c.logger.WithField("symbols", len(syms)).Debug("scanned workspace")
		l.Globals = append(l.Globals, syms...)
	}

	var all []lint.Diagnostic
	if len(args) == 0 {
		src, err := io.ReadAll(c.input(cmd))
		if err != nil {
			return badInvocation(stderr, fmt.Errorf("reading stdin: %w", err))
		}
		all, err = l.LintFile(src, "<stdin>")
		if err != nil {
			return badInvocation(stderr, err)
		}
	} else {
		paths, err := expandArgs(args, opts.excludes)
		if err != nil {
			return badInvocation(stderr, err)
		}
		for _, path := range paths {
			src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				return badInvocation(stderr, err)
			}
			diags, err := l.LintFile(src, path)
			if err != nil {
				return badInvocation(stderr, err)
			}
			all = append(all, diags...)
		}
	}

	if opts.json {
		if err := lint.FormatJSON(stdout, all); err != nil {
			return badInvocation(stderr, err)
		}
	} else if len(all) > 0 {
		if err := c.renderLintDiagnostics(stderr, all); err != nil {
			return err
		}
	}
	if len(all) > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func badInvocation(w io.Writer, err error) error {
	fmt.Fprintln(w, "rlisp lint:", err) //nolint:errcheck // best-effort output
	return &exitError{code: 2}
}
