package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/export"
	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse one or more résumés into structured JSON",
	Long: `Parse .docx (or plain text) résumés into ParseResult JSON.

With a single file and no --out, the result is printed to stdout. With
several files, stdout receives a JSON array of {"file", "result"} objects.
A file that cannot be read is reported and the rest of the batch continues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

var (
	parseOutDir      string
	parseXLSX        string
	parseSave        bool
	parseDBURL       string
	parseConcurrency int
	parseVerbose     bool
	parseValidate    bool
	parseRules       string
	parseNameWindow  int
)

func init() {
	parseCmd.Flags().StringVarP(&parseOutDir, "out", "o", "", "Directory to write one <name>.json per input")
	parseCmd.Flags().StringVar(&parseXLSX, "xlsx", "", "Also export all results to this spreadsheet")
	parseCmd.Flags().BoolVar(&parseSave, "save", false, "Persist results to the result store")
	parseCmd.Flags().StringVar(&parseDBURL, "db-url", "", "Store URL: postgres:// or a sqlite path (default DATABASE_URL or "+defaultStorePath+")")
	parseCmd.Flags().IntVarP(&parseConcurrency, "concurrency", "c", 0, "Documents parsed in parallel")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "Print formatted summaries to stderr")
	parseCmd.Flags().BoolVar(&parseValidate, "validate", false, "Check every result against the output schema")
	parseCmd.Flags().StringVar(&parseRules, "rules", "", "Path to a rule table YAML file (overrides RESUME_PARSER_RULES)")
	parseCmd.Flags().IntVar(&parseNameWindow, "name-window", 0, "Paragraphs scanned for the candidate name")

	rootCmd.AddCommand(parseCmd)
}

// fileOutput is one element of the multi-file stdout array
type fileOutput struct {
	File   string             `json:"file"`
	Result *types.ParseResult `json:"result"`
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Out = parseOutDir
	}
	if flags.Changed("xlsx") {
		cfg.XLSX = parseXLSX
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = parseDBURL
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = parseConcurrency
	}
	if flags.Changed("rules") {
		cfg.Rules = parseRules
	}
	if flags.Changed("name-window") {
		cfg.NameWindow = parseNameWindow
	}
	cfg.Verbose = cfg.Verbose || parseVerbose
	if err := cfg.Validate(); err != nil {
		return err
	}

	parser, err := newParser(cfg.Rules, cfg.NameWindow)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := pipeline.Options{
		Parser:      parser,
		Concurrency: cfg.Concurrency,
		OnProgress: func(e pipeline.ProgressEvent) {
			logger.Debug().
				Str("file", e.Path).
				Str("stage", e.Stage).
				Int("completed", e.Completed).
				Int("total", e.Total).
				Msg(e.Message)
		},
	}
	if parseSave {
		st, err := openStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		opts.Store = st
	}

	start := time.Now()
	results, err := pipeline.ParseFiles(ctx, args, opts)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	if parseValidate {
		for i := range results {
			if results[i].Failed() {
				continue
			}
			if verr := schemas.ValidateParseResult(results[i].Result); verr != nil {
				results[i].Err = fmt.Errorf("schema validation failed: %w", verr)
				logger.Error().Err(verr).Str("file", results[i].Path).Msg("result failed schema validation")
			}
		}
	}

	if err := writeResults(cmd.OutOrStdout(), cfg.Out, results); err != nil {
		return err
	}

	if cfg.XLSX != "" {
		path, err := export.ExportToExcel(exportEntries(results), cfg.XLSX)
		if err != nil {
			return fmt.Errorf("failed to export spreadsheet: %w", err)
		}
		logger.Info().Str("path", path).Msg("spreadsheet written")
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		items := make([]observability.BatchItem, 0, len(results))
		for _, r := range results {
			item := observability.BatchItem{Name: r.Path, Duration: r.Duration, Err: r.Err}
			if r.Result != nil {
				item.Sections = len(r.Result.Metadata.SectionsFound)
				if r.Err == nil {
					printer.PrintParseResult(filepath.Base(r.Path), r.Result)
				}
			}
			items = append(items, item)
		}
		printer.PrintBatchSummary(items, time.Since(start))
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			continue
		}
		if r.SaveErr != nil {
			logger.Warn().Err(r.SaveErr).Str("file", r.Path).Msg("result not saved")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

// writeResults prints results to w, or writes one JSON file per input into
// outDir when it is set.
func writeResults(w io.Writer, outDir string, results []pipeline.FileResult) error {
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		seen := make(map[string]int)
		for _, r := range results {
			if r.Failed() {
				continue
			}
			data, err := json.MarshalIndent(r.Result, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result for %s: %w", r.Path, err)
			}
			path := filepath.Join(outDir, outputName(r.Path, seen))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			logger.Info().Str("file", r.Path).Str("output", path).Msg("result written")
		}
		return nil
	}

	var payload any
	if len(results) == 1 {
		if results[0].Failed() {
			return nil
		}
		payload = results[0].Result
	} else {
		outputs := []fileOutput{}
		for _, r := range results {
			if !r.Failed() {
				outputs = append(outputs, fileOutput{File: r.Path, Result: r.Result})
			}
		}
		payload = outputs
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// outputName maps an input path to <stem>.json, suffixing repeats of the
// same stem with -2, -3 and so on.
func outputName(path string, seen map[string]int) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	seen[stem]++
	if n := seen[stem]; n > 1 {
		stem = fmt.Sprintf("%s-%d", stem, n)
	}
	return stem + ".json"
}

func exportEntries(results []pipeline.FileResult) []export.Entry {
	entries := make([]export.Entry, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			continue
		}
		entries = append(entries, export.Entry{Filename: filepath.Base(r.Path), Result: r.Result})
	}
	return entries
}
