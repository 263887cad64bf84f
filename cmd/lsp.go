// Copyright © 2024 The XCTLint authors

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luthersystems/xctlint/lsp"
)

// LSPCommand creates the "lsp" cobra command. Rules are configured from
// the same configuration file as the lint command.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the xctlint Language Server Protocol server",
		Long: `Start an LSP server for Swift test sources.

The language server publishes xctlint diagnostics as documents are opened
and edited, and provides document symbols, folding ranges, and quick fixes
that add a nolint comment to the offending line.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  xctlint lsp                        Start with stdio transport
  xctlint lsp --port 7998            Start with TCP on port 7998`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			v, err := cfg.config()
			if err != nil {
				return &ExitError{Code: 2, Err: fmt.Errorf("configuration error: %w", err)}
			}
			rules, err := configuredRules(v, cfg.allRules(), "")
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			srv := lsp.New(lsp.WithRules(rules...), lsp.WithLogger(cfg.log()))
			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				cfg.log().WithField("addr", addr).Info("xctlint LSP server listening")
				err = srv.RunTCP(addr)
			} else {
				err = srv.RunStdio()
			}
			if err != nil {
				return &ExitError{Code: 1, Err: fmt.Errorf("lsp server error: %w", err)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
