// Copyright © 2024 The XCTLint authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/luthersystems/xctlint/docs"
	"github.com/luthersystems/xctlint/lint"
)

// RulesCommand creates the "rules" cobra command, which documents the
// available rules.
func RulesCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts)
	var guide bool

	cmd := &cobra.Command{
		Use:   "rules [rule]",
		Short: "Describe the available rules",
		Long: `Describe the available rules.

With no argument, lists every rule with a short description. Given a rule
identifier, prints the rule's kind, its active configuration after the
configuration file is applied, and examples that do and do not trigger it.
Lines marked with ↓ show where a violation is reported.

Use --guide to print the configuration guide.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules := cfg.allRules()
			out := cmd.OutOrStdout()
			if guide {
				fmt.Fprint(out, docs.ConfigurationGuide)
				return nil
			}
			if len(args) == 0 {
				for _, r := range rules {
					printRuleSummary(out, r.Description())
				}
				return nil
			}

			rule, ok := lint.LookupRule(rules, args[0])
			if !ok {
				return &ExitError{Code: 2, Err: fmt.Errorf("unknown rule: %s", args[0])}
			}
			v, err := cfg.config()
			if err != nil {
				return &ExitError{Code: 2, Err: fmt.Errorf("configuration error: %w", err)}
			}
			if err := configureRules(v, []lint.Rule{rule}); err != nil {
				return &ExitError{Code: 2, Err: err}
			}
			printRule(out, rule)
			return nil
		},
	}
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the configuration guide.")
	return cmd
}

func printRuleSummary(w io.Writer, desc lint.Description) {
	fmt.Fprintf(w, "  %s\n", desc.Identifier)
	fmt.Fprintf(w, "%s\n\n", indent.String(wordwrap.String(desc.Description, 68), 4))
}

func printRule(w io.Writer, rule lint.Rule) {
	desc := rule.Description()
	fmt.Fprintf(w, "%s (%s)\n", desc.Name, desc.Identifier)
	fmt.Fprintf(w, "kind: %s\n", desc.Kind)
	fmt.Fprintf(w, "configuration: %s\n\n", rule.ConfigurationDescription())
	fmt.Fprintf(w, "%s\n", wordwrap.String(desc.Description, 72))
	printExamples(w, "Non-triggering examples", desc.NonTriggeringExamples)
	printExamples(w, "Triggering examples", desc.TriggeringExamples)
}

func printExamples(w io.Writer, title string, examples []string) {
	if len(examples) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, ex := range examples {
		fmt.Fprintf(w, "\n%s\n", indent.String(strings.TrimRight(ex, "\n"), 4))
	}
}

func init() {
	rootCmd.AddCommand(RulesCommand())
}
