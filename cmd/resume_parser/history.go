package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	historyDBURL string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [ID]",
	Short: "List stored parse results, or print one by id",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDBURL, "db-url", "", "Store URL: postgres:// or a sqlite path (default DATABASE_URL or "+defaultStorePath+")")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum records to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	url := appConfig.DatabaseURL
	if cmd.Flags().Changed("db-url") {
		url = historyDBURL
	}
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be positive")
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		rec, err := st.GetParse(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load parse: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("parse not found: %s", id)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec.Result)
	}

	records, err := st.ListParses(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list parses: %w", err)
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No stored parses")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCREATED\tFILE\tNAME\tSECTIONS")
	for _, rec := range records {
		sections := make([]string, 0, len(rec.Result.Metadata.SectionsFound))
		for _, s := range rec.Result.Metadata.SectionsFound {
			sections = append(sections, string(s))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Filename,
			rec.Result.Contact.Name,
			strings.Join(sections, ","),
		)
	}
	return tw.Flush()
}
