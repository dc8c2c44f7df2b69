package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/logger"
	"github.com/jonathan/resume-parser/internal/server"
)

var (
	servePort      int
	serveDBURL     string
	serveMaxUpload int64
	serveRules     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing POST /parse, GET /status and GET /health.
When a database URL is configured, parses are stored and GET /parses and
GET /parses/{id} serve the history.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "Store URL: postgres:// or a sqlite path (default DATABASE_URL)")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", 0, "Maximum upload size in bytes (default 5MB)")
	serveCmd.Flags().StringVar(&serveRules, "rules", "", "Path to a rule table YAML file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = serveDBURL
	}
	if flags.Changed("max-upload") {
		cfg.MaxUploadBytes = serveMaxUpload
	}
	if flags.Changed("rules") {
		cfg.Rules = serveRules
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	parser, err := newParser(cfg.Rules, cfg.NameWindow)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := server.Config{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Parser:         parser,
	}
	if cfg.DatabaseURL != "" {
		st, err := openStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		srvCfg.Store = st
	} else {
		logger.Warn().Msg("no database configured; parse history is disabled")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
