package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"news-digest/internal/config"
)

// dateFlagLayout is the --date format.
const dateFlagLayout = "2006-01-02"

var promptDate string

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the prompt that would be sent for a date",
	Long: `Print the prompt the pipeline builds for a date, with sources and topics
taken from the defaults, NEWS_PROMPT_FILE and NEWS_SOURCES / NEWS_TOPICS.
No API key is needed and no request is made.

Examples:
  digest prompt
  digest prompt --date 2025-04-19`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().StringVar(&promptDate, "date", "", "Date to build the prompt for, YYYY-MM-DD (default: today)")
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	date, err := parseDateFlag(promptDate, time.Now)
	if err != nil {
		return err
	}

	builder, err := config.LoadPromptOnly()
	if err != nil {
		return fmt.Errorf("failed to load prompt configuration: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), builder.Build(date))
	return err
}

func parseDateFlag(raw string, now func() time.Time) (time.Time, error) {
	if raw == "" {
		return now(), nil
	}
	date, err := time.Parse(dateFlagLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: must be YYYY-MM-DD", raw)
	}
	return date, nil
}
