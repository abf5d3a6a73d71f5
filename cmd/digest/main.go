// Package main provides the digest CLI: a one-shot "today's news" fetch, the
// prompt preview and the HTTP API server for the UI layer.
//
// Usage:
//
//	digest fetch [--output text|json] [--timeout 5m]
//	digest prompt [--date YYYY-MM-DD]
//	digest serve
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"news-digest/internal/observability/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	logLevel  string
	logFormat string

	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "digest",
	Short: "Fetch today's news through a chat completion API",
	Long: `digest asks an OpenAI-compatible chat completion API (OpenRouter by default)
for today's news from a fixed set of sources, validates the JSON embedded in
the model's answer and prints or serves the result.

The API key is read from OPENROUTER_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := logging.OptionsFromEnv()
		if logLevel != "" {
			opts.Level = logLevel
		}
		if logFormat != "" {
			opts.Format = logFormat
		}
		// stdout carries command output; logs go to stderr.
		logger = logging.New(os.Stderr, opts)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: json or text (default: LOG_FORMAT or json)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cmdLogger returns the logger built by the root command, or the slog default
// when a command runs without it.
func cmdLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// getVersion returns the build version, overridden by the VERSION env var.
func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return version
}
