// Copyright © 2024 The XCTLint authors

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/luthersystems/xctlint/lint"
)

const stdinName = "<stdin>"

// LintCommand creates the "lint" cobra command. Embedders can pass
// WithRules to run their own rules next to the built-in ones.
func LintCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)

	var (
		jsonOut  bool
		checks   string
		listAll  bool
		excludes []string
		jobs     int
	)

	cmd := &cobra.Command{
		Use:   "lint [flags] [paths...]",
		Short: "Check Swift test cases for lifecycle hygiene problems",
		Long: `Check Swift XCTest test cases for lifecycle hygiene problems.

Each rule examines the classes that directly inherit from a configured test
base class (XCTestCase by default) and reports problems with setUp() and
tearDown(). Paths may be files, directories, or patterns ending in "/...";
directories are searched recursively for .swift files. With no paths, reads
from stdin.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files, configuration error)

To suppress a specific diagnostic, add a comment on the same line:
  var api: API! // nolint:xct_nullify_stored_properties

To suppress all rules on a line:
  var api: API! // nolint

Available rules (use --checks to select specific ones):
` + lint.RuleDoc() + `Examples:
  xctlint lint FooTests.swift                    # Lint a single file
  xctlint lint Tests/                            # Lint a directory
  xctlint lint --json ./...                      # Output diagnostics as JSON
  xctlint lint --checks=xct_reset_shared_state Tests/
  xctlint lint --exclude='Pods' --exclude='*Generated*' ./...
  cat FooTests.swift | xctlint lint              # Lint from stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listAll {
				for _, r := range cfg.allRules() {
					fmt.Fprintln(out, r.Description().Identifier)
				}
				return nil
			}

			v, err := cfg.config()
			if err != nil {
				return &ExitError{Code: 2, Err: fmt.Errorf("configuration error: %w", err)}
			}
			rules, err := configuredRules(v, cfg.allRules(), checks)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			l := &lint.Linter{Rules: rules, Logger: cfg.log(), Jobs: jobs}
			renderer := newRenderer()

			var diags []lint.Diagnostic
			if len(args) == 0 {
				src, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return &ExitError{Code: 2, Err: fmt.Errorf("reading stdin: %w", err)}
				}
				renderer.SourceReader = stdinSource(src)
				diags, err = l.LintFile(cmd.Context(), src, stdinName)
				if err != nil {
					return &ExitError{Code: 2, Err: err}
				}
			} else {
				paths, err := expandArgs(args, append(excludes, v.GetStringSlice("excluded")...))
				if err != nil {
					return &ExitError{Code: 2, Err: err}
				}
				cfg.log().WithField("files", len(paths)).Debug("linting")
				diags, err = l.LintFiles(cmd.Context(), paths)
				if err != nil {
					return &ExitError{Code: 2, Err: err}
				}
			}

			if len(diags) == 0 {
				return nil
			}
			if jsonOut {
				if err := lint.FormatJSON(out, diags); err != nil {
					return &ExitError{Code: 2, Err: err}
				}
			} else {
				renderLintDiagnostics(renderer, cmd.ErrOrStderr(), diags)
			}
			return &ExitError{Code: 1}
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&checks, "checks", "",
		"Comma-separated list of rules to run (default: all, or only_rules from the config).")
	cmd.Flags().BoolVar(&listAll, "list", false,
		"List available rules and exit.")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"Glob pattern for files or directories to exclude (may be repeated).")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0,
		"Number of files linted in parallel (default: GOMAXPROCS).")

	return cmd
}

func init() {
	rootCmd.AddCommand(LintCommand())
}
