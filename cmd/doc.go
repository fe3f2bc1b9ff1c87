// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/rlisp/docs"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/libhelp"
	"github.com/luthersystems/rlisp/parser"
	"github.com/spf13/cobra"
)

type docOptions struct {
	all        bool
	guide      bool
	sourceFile string
}

// DocCommand returns a standalone doc command.  Functions and variables
// defined in an environment given with WithEnv are documented alongside
// the builtin operators.
func DocCommand(opts ...Option) *cobra.Command {
	return newCmdConfig(opts...).docCommand()
}

func (c *cmdConfig) docCommand() *cobra.Command {
	var opts docOptions
	cmd := &cobra.Command{
		Use:   "doc [flags] [QUERY]",
		Short: "Show documentation for operators and functions",
		Long: `Show documentation for rlisp builtin operators, user functions, and
variables.

QUERY may be any operator keyword (e.g. add, +, defun, map) or the name of
a function or variable.  Use -f to load a source file first so that the
functions it defines can be documented.  With no query, or with -a, every
builtin is listed with a summary.

Examples:
  rlisp doc map                  Show docs for the map operator
  rlisp doc /                    Show docs for division
  rlisp doc -f lib.lisp square   Load a file, then show docs for square
  rlisp doc -a                   List all builtins
  rlisp doc --guide              Print the language reference`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.doc(cmd, args, &opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false,
		"List every builtin and every defined function and variable.")
	cmd.Flags().BoolVar(&opts.guide, "guide", false,
		"Print the language reference.")
	cmd.MarkFlagsMutuallyExclusive("guide", "all")
	cmd.Flags().StringVarP(&opts.sourceFile, "source-file", "f", "",
		"Evaluate a source file before querying documentation.")
	return cmd
}

func (c *cmdConfig) doc(cmd *cobra.Command, args []string, opts *docOptions) error {
	if opts.guide {
		if len(args) > 0 {
			return errors.New("a query may not be given with --guide")
		}
		_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
		return err
	}
	env := c.env
	if env == nil {
		env = lisp.NewEnv(nil)
		env.Runtime.Reader = parser.NewReader()
	}
	if opts.sourceFile != "" {
		f, err := os.Open(opts.sourceFile)
		if err != nil {
			return err
		}
		_, err = env.Load(opts.sourceFile, f)
		f.Close() //nolint:errcheck,gosec // read-only
		if err != nil {
			return err
		}
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush() //nolint:errcheck // best-effort flush on exit
	if opts.all || len(args) == 0 {
		return libhelp.RenderIndex(out, env)
	}
	err := libhelp.RenderVar(out, env, args[0])
	if errors.Is(err, libhelp.ErrNotFound) {
		fmt.Fprintln(cmd.ErrOrStderr(), err) //nolint:errcheck // best-effort output
		return &exitError{code: 1}
	}
	return err
}
