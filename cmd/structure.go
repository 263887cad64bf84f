// Copyright © 2024 The XCTLint authors

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luthersystems/xctlint/swift"
)

// StructureCommand creates the "structure" cobra command, which prints the
// syntax tree the rules see for a Swift file.
func StructureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "structure FILE",
		Short: "Print the parsed structure of a Swift file as JSON",
		Long: `Print the parsed structure of a Swift file as JSON.

The output lists the declarations, properties, functions, and calls that
rules query, with byte offsets and lengths. It is useful when writing a
rule or investigating an unexpected diagnostic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}
			file, err := swift.Parser{}.Parse(cmd.Context(), args[0], src)
			if err != nil {
				return &ExitError{Code: 2, Err: fmt.Errorf("%s: %w", args[0], err)}
			}
			if file.HasErrors() {
				logger.WithField("file", args[0]).Warn("file has syntax errors; structure may be incomplete")
			}
			b, err := json.MarshalIndent(file.Root(), "", "  ")
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(StructureCommand())
}
