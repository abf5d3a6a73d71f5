package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"news-digest/internal/config"
	"news-digest/internal/observability/logging"
	"news-digest/internal/usecase/news"
)

var (
	fetchOutput  string
	fetchTimeout time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch today's news once and print it",
	Long: `Run the fetch-validate pipeline once: build today's prompt, call the
completion API (retrying on rate limits) and print the validated news items.

Examples:
  digest fetch
  digest fetch --output json
  NEWS_TOPICS="Climate news" digest fetch`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", string(outputText), "Output format: text or json")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 5*time.Minute, "Upper bound for the whole run, including retries")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	format, err := parseOutputFormat(fetchOutput)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log := cmdLogger()
	ctx = logging.WithLogger(ctx, log)
	log.Info("fetching news",
		slog.String("model", cfg.Completion.Model),
		slog.Duration("timeout", fetchTimeout))

	resp, err := a.svc.FetchNews(ctx)
	if err != nil {
		var pErr *news.PipelineError
		if errors.As(err, &pErr) {
			return fmt.Errorf("%s: %w", pErr.Kind.UserMessage(), err)
		}
		return err
	}

	return writeNews(cmd.OutOrStdout(), resp, format)
}
