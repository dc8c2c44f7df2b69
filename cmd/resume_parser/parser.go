package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/rules"
	"github.com/jonathan/resume-parser/internal/store"
)

// defaultStorePath is the sqlite file used by --save and history when no
// database URL is configured.
const defaultStorePath = "resume_parser.db"

// newParser builds a parser from a rule file (empty for the embedded table)
// and an optional name window override.
func newParser(rulesPath string, nameWindow int) (*parsing.Parser, error) {
	table, err := rules.LoadFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return parsing.New(parsing.WithRules(table.WithNameWindow(nameWindow)))
}

// openStore opens the configured store, falling back to the local sqlite file.
func openStore(ctx context.Context, url string) (store.Store, error) {
	if url == "" {
		url = defaultStorePath
	}
	st, err := store.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}
