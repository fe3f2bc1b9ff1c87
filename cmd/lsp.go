// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/rlisp/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand returns a standalone lsp command.  Functions and variables
// defined in an environment given with WithEnv are known to the server.
func LSPCommand(opts ...Option) *cobra.Command {
	return newCmdConfig(opts...).lspCommand()
}

func (c *cmdConfig) lspCommand() *cobra.Command {
	var (
		stdio bool
		port  int
	)
	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the rlisp Language Server Protocol server",
		Long: `Start an LSP server for rlisp source files.

The language server provides diagnostics from the linter, hover
documentation, completion, go-to-definition, find references, document
symbols, and formatting.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  rlisp lsp                   Start with stdio transport
  rlisp lsp --port 7998       Start with TCP on port 7998

Logs are written to stderr so they never mix with the protocol stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverOpts := []lsp.Option{lsp.WithLogger(c.logger)}
			if c.env != nil {
				serverOpts = append(serverOpts, lsp.WithEnv(c.env))
			}
			srv := lsp.New(serverOpts...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				c.logger.WithField("addr", addr).Info("rlisp lsp server listening")
				return srv.RunTCP(addr)
			}
			return srv.RunStdio()
		},
	}
	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.MarkFlagsMutuallyExclusive("stdio", "port")
	return cmd
}
