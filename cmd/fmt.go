// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/rlisp/formatter"
	"github.com/luthersystems/rlisp/parser"
	"github.com/spf13/cobra"
)

type fmtOptions struct {
	write     bool
	diff      bool
	list      bool
	operators string
	excludes  []string
}

func (c *cmdConfig) fmtCommand() *cobra.Command {
	var opts fmtOptions
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Format rlisp source files",
		Long: `Format rlisp source files, similar to gofmt for Go.

Each line is rewritten with single spaces between elements, canonical
numbers, and no trailing whitespace.  Runs of blank lines are collapsed.
The formatter is idempotent.  A file with a syntax error is left unchanged.

With no files, reads from stdin and writes to stdout.
With files, prints formatted output to stdout unless -w is given.
Directories are searched for .lisp files.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -d          Display a diff of changes
  -l          List files that would be changed

Examples:
  rlisp fmt file.lisp                  Print formatted output
  rlisp fmt -w file.lisp               Format in place
  rlisp fmt -l .                       List files needing formatting
  rlisp fmt --operators word f.lisp    Spell operators as add, sub, ...
  cat file.lisp | rlisp fmt            Format from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.format(cmd, args, &opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	flags.BoolVarP(&opts.diff, "diff", "d", false,
		"Display diffs instead of rewriting files.")
	flags.BoolVarP(&opts.list, "list", "l", false,
		"List files whose formatting differs from rlisp fmt's.")
	flags.StringVar(&opts.operators, "operators", "preserve",
		`Operator spelling: "preserve", "symbol" (+ - * /) or "word" (add sub mul div).`)
	flags.StringArrayVar(&opts.excludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	cmd.MarkFlagsMutuallyExclusive("write", "diff", "list")
	return cmd
}

func (c *cmdConfig) format(cmd *cobra.Command, args []string, opts *fmtOptions) error {
	cfg := formatter.DefaultConfig()
	style, err := formatter.ParseOperatorStyle(opts.operators)
	if err != nil {
		return err
	}
	cfg.Operators = style

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		return fmtStdin(c.input(cmd), out, cfg)
	}

	expanded, err := expandArgs(args, opts.excludes)
	if err != nil {
		return err
	}

	failed := false
	for _, path := range expanded {
		changed, err := fmtFile(out, path, cfg, opts)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err) //nolint:errcheck // best-effort output
			failed = true
		} else if opts.list && changed {
			failed = true
		}
		c.logger.WithField("file", path).WithField("changed", changed).Debug("formatted")
	}
	if failed {
		return &exitError{code: 1}
	}
	return nil
}

func fmtStdin(in io.Reader, out io.Writer, cfg *formatter.Config) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	formatted, err := formatter.Format(src, cfg)
	if err != nil {
		return locate(err)
	}
	_, err = out.Write(formatted)
	return err
}

func fmtFile(out io.Writer, path string, cfg *formatter.Config, opts *fmtOptions) (bool, error) {
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return false, err
	}
	formatted, err := formatter.FormatFile(src, path, cfg)
	if err != nil {
		return false, locate(err)
	}

	changed := string(src) != string(formatted)

	switch {
	case opts.list:
		if changed {
			fmt.Fprintln(out, path) //nolint:errcheck // best-effort output
		}
		return changed, nil
	case opts.diff:
		if changed {
			printUnifiedDiff(out, path, src, formatted)
		}
		return changed, nil
	case opts.write:
		if !changed {
			return false, nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return false, err
		}
		return true, os.WriteFile(path, formatted, info.Mode().Perm())
	}

	_, err = out.Write(formatted)
	return changed, err
}

// locate prefixes a syntax error with its position.
func locate(err error) error {
	var serr *parser.SyntaxError
	if errors.As(err, &serr) && serr.Source != nil {
		return fmt.Errorf("%s: %w", serr.Source, err)
	}
	return err
}

// printUnifiedDiff writes a line diff of original and formatted based on
// their longest common subsequence of lines.
func printUnifiedDiff(w io.Writer, path string, original, formatted []byte) {
	fmt.Fprintf(w, "--- %s\n", path) //nolint:errcheck
	fmt.Fprintf(w, "+++ %s\n", path) //nolint:errcheck

	a := splitLines(original)
	b := splitLines(formatted)

	// lcs[i][j] is the length of the common subsequence of a[i:] and b[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			fmt.Fprintf(w, " %s\n", a[i]) //nolint:errcheck
			i++
			j++
		case j == len(b) || (i < len(a) && lcs[i+1][j] >= lcs[i][j+1]):
			fmt.Fprintf(w, "-%s\n", a[i]) //nolint:errcheck
			i++
		default:
			fmt.Fprintf(w, "+%s\n", b[j]) //nolint:errcheck
			j++
		}
	}
}

func splitLines(data []byte) []string {
	var lines []string
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, string(data[start:i]))
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, string(data[start:]))
	}
	return lines
}
