package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/rules"
)

var (
	rulesPath       string
	rulesNameWindow int
	rulesSource     bool
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule table as YAML",
	Long: `Print the rule table the parser would use, after applying --rules,
RESUME_PARSER_RULES and the name window override. Use --source to print the
embedded default file verbatim as a starting point for a custom table.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a rule table YAML file")
	rulesCmd.Flags().IntVar(&rulesNameWindow, "name-window", 0, "Paragraphs scanned for the candidate name")
	rulesCmd.Flags().BoolVar(&rulesSource, "source", false, "Print the embedded default rules file")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if rulesSource {
		_, err := out.Write(rules.DefaultYAML())
		return err
	}

	cfg := appConfig
	if cmd.Flags().Changed("rules") {
		cfg.Rules = rulesPath
	}
	if cmd.Flags().Changed("name-window") {
		cfg.NameWindow = rulesNameWindow
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	parser, err := newParser(cfg.Rules, cfg.NameWindow)
	if err != nil {
		return err
	}
	data, err := parser.Rules().Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	_, err = out.Write(data)
	return err
}
