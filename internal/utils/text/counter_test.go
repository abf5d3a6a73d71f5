package text_test

import (
	"testing"
	"unicode/utf8"

	"news-digest/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "ASCII", input: "today's news", expected: 12},
		{name: "Bangla", input: "আজকের খবর", expected: 9},
		{name: "mixed", input: "news খবর", expected: 8},
		{name: "emoji", input: "news📰", expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "shorter than limit", input: "abc", max: 5, want: "abc"},
		{name: "exactly at limit", input: "abcde", max: 5, want: "abcde"},
		{name: "ASCII cut", input: "abcdef", max: 3, want: "abc..."},
		{name: "Bangla cut on rune boundary", input: "আজকের খবর", max: 2, want: "আজ..."},
		{name: "emoji kept whole", input: "📰📰📰", max: 1, want: "📰..."},
		{name: "zero limit", input: "abc", max: 0, want: ""},
		{name: "empty input", input: "", max: 3, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := text.Truncate(tt.input, tt.max)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Truncate(%q, %d) produced invalid UTF-8", tt.input, tt.max)
			}
		})
	}
}
