// Package entity defines the core domain entities and validation logic for the application.
// It contains the news item produced by the fetch pipeline and its validation rules.
package entity

import (
	"fmt"
	"time"
)

// NewsItem is a validated news entry returned by the completion API.
// Items are immutable once produced; selection state and substituted images
// belong to the presentation layer.
type NewsItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
	Image   string `json:"image"`
}

// Validate checks that every content field is non-empty.
func (n NewsItem) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", n.Title},
		{"summary", n.Summary},
		{"link", n.Link},
		{"image", n.Image},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Field: f.name, Message: "must be a non-empty string"}
		}
	}
	return nil
}

// NewsItemID returns the client-side sequence label for the item at index.
func NewsItemID(index int) string {
	return fmt.Sprintf("news-%d", index)
}

// NewsResponse is the validated result of one pipeline run.
type NewsResponse struct {
	// Date is the day the prompt asked for.
	Date time.Time  `json:"date"`
	News []NewsItem `json:"news"`
}
