package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"news-digest/internal/domain/entity"
	"news-digest/internal/usecase/news"
)

type outputFormat string

const (
	outputText outputFormat = "text"
	outputJSON outputFormat = "json"
)

// textWidth wraps summaries for an 80 column terminal.
const textWidth = 80

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case outputText, outputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q (must be 'text' or 'json')", s)
	}
}

// newsJSON is the JSON output of the fetch command.
type newsJSON struct {
	Date string            `json:"date"`
	News []entity.NewsItem `json:"news"`
}

func writeNews(w io.Writer, resp *entity.NewsResponse, format outputFormat) error {
	if format == outputJSON {
		return writeJSON(w, resp)
	}
	return writeText(w, resp)
}

func writeJSON(w io.Writer, resp *entity.NewsResponse) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(newsJSON{Date: resp.Date.Format("2006-01-02"), News: resp.News}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeText renders the items for a terminal. Styling is dropped when w is
// not a color-capable terminal.
func writeText(w io.Writer, resp *entity.NewsResponse) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	title := r.NewStyle().Bold(true)
	summary := r.NewStyle().PaddingLeft(3).Width(textWidth)
	meta := r.NewStyle().Faint(true).PaddingLeft(3)

	var sb strings.Builder
	sb.WriteString(header.Render(fmt.Sprintf("News for %s (%d items)", news.FormatDate(resp.Date), len(resp.News))))
	sb.WriteString("\n\n")
	for i, item := range resp.News {
		sb.WriteString(title.Render(fmt.Sprintf("%d. %s", i+1, item.Title)))
		sb.WriteString("\n")
		sb.WriteString(summary.Render(item.Summary))
		sb.WriteString("\n")
		sb.WriteString(meta.Render("Link:  " + item.Link))
		sb.WriteString("\n")
		sb.WriteString(meta.Render("Image: " + item.Image))
		sb.WriteString("\n\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
