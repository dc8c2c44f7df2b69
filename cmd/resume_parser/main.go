// Package main provides the resume_parser command line tool and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/logger"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	// appConfig is resolved before every command runs: defaults, then the
	// config file, then the environment. Command flags are applied last.
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "resume_parser",
	Short: "Rule-based résumé parser",
	Long: "resume_parser reads .docx résumés, splits them into contact, education, experience and skills sections " +
		"with a data-driven rule table, and emits structured JSON.",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or pretty")
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var fileCfg *config.Config
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return err
		}
		fileCfg = loaded
	}

	cfg := config.Resolve(fileCfg)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    cmd.ErrOrStderr(),
	})
	appConfig = cfg
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
