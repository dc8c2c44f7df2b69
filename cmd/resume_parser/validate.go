package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check ParseResult JSON files against the output schema",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, path := range args {
		if err := schemas.ValidateParseResultFile(path); err != nil {
			invalid++
			_, _ = fmt.Fprintf(out, "✗ %s: %v\n", path, err)
			continue
		}
		_, _ = fmt.Fprintf(out, "✓ %s\n", path)
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d files failed validation", invalid, len(args))
	}
	return nil
}
