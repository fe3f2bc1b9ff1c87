// Copyright © 2018 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/rlisp/repl"
	"github.com/spf13/cobra"
)

func (c *cmdConfig) replCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive RLisp REPL",
		Long: `Start an interactive read-eval-print loop.

Each line is parsed and evaluated and its value or error is printed.
Functions defined on one line can be called on the next.  Line editing,
tab completion of operators and defined functions, and persistent
history are supported via readline.  Use Ctrl-D to exit and Ctrl-C to
discard the current line.

Example REPL session:
  rlisp> (defun square (x) (mul x x))
  square
  rlisp> (square 5)
  25
  rlisp> (map square '(1 2 3))
  (1 4 9)
  rlisp> (div 1 0)
  error: division by 0
   --> <stdin>:4:1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.newEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts := []repl.Option{
				repl.WithStderr(cmd.ErrOrStderr()),
				repl.WithRenderer(c.newRenderer()),
			}
			if r, ok := cmd.InOrStdin().(io.ReadCloser); ok {
				opts = append(opts, repl.WithStdin(r))
			}
			if c.v.IsSet("history-file") {
				opts = append(opts, repl.WithHistoryFile(c.v.GetString("history-file")))
			}
			repl.RunEnv(env, c.v.GetString("prompt"), opts...)
			return nil
		},
	}
	cmd.Flags().String("prompt", repl.DefaultPrompt, "Prompt shown before each line.")
	cmd.Flags().String("history-file", "", `File line history is saved to (default "$HOME/.rlisp_history", "" disables).`)
	c.bindFlags(cmd.Flags(), "prompt", "history-file")
	return cmd
}
