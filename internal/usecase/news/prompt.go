package news

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout formats the date embedded in the prompt, e.g. "April 19, 2025".
const DateLayout = "January 2, 2006"

// DefaultSources are the sites the model is asked to crawl.
var DefaultSources = []string{
	"https://www.dhakatribune.com/",
	"https://thedailystar.net/",
	"https://www.aljazeera.com/",
}

// DefaultTopics are the focus topics listed after the date constraints.
var DefaultTopics = []string{
	"Trending topics in Bangladesh",
	"Palestine news",
	"Trump news",
}

// PromptBuilder renders the instruction sent to the completion API.
// Build is a pure function of the date and the builder's lists.
type PromptBuilder struct {
	Sources []string
	Topics  []string
}

// DefaultPromptBuilder returns a builder with the default sources and topics.
func DefaultPromptBuilder() PromptBuilder {
	return PromptBuilder{
		Sources: append([]string(nil), DefaultSources...),
		Topics:  append([]string(nil), DefaultTopics...),
	}
}

// FormatDate renders date with DateLayout.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// Build returns the prompt for the given day. The formatted date appears
// three times to pin the model to same-day articles.
func (b PromptBuilder) Build(date time.Time) string {
	day := FormatDate(date)

	var sb strings.Builder
	sb.WriteString(`You are a JSON-generating API. Your task is to crawl and extract news articles, then return them in a specific JSON format.

CRITICAL: You must ONLY return a valid JSON object matching this exact structure:
{
  "news": [
    {
      "title": "News headline here",
      "summary": "A short summary of the article.",
      "image": "Direct image link related to the article",
      "link": "Original article URL"
    }
  ]
}

DO NOT include any extra words, explanations, or markdown like ` + "```json" + `. Only return raw JSON, starting with { and ending with }.
`)
	fmt.Fprintf(&sb, "DO NOT get old news, no news published before %d.\n\n", date.Year())

	sb.WriteString("search today's news\n")
	if len(b.Sources) > 0 {
		sb.WriteString("Sources to crawl:\n")
		for _, src := range b.Sources {
			fmt.Fprintf(&sb, "- %s\n", src)
		}
	}

	sb.WriteString("\nFocus on:\n")
	fmt.Fprintf(&sb, "- search the websites, get news published **today, %s**\n", day)
	fmt.Fprintf(&sb, "- Strictly include only articles with a publication date from **today, %s**.\n", day)
	sb.WriteString("- do not include any news published before today.\n")
	for _, topic := range b.Topics {
		fmt.Fprintf(&sb, "- %s\n", topic)
	}

	sb.WriteString(`
Requirements:
1. Return 5-10 most relevant articles *from today*. If fewer than 5 articles from today match criteria, return all articles found from today (min 1, max 10)
2. If any content is in Bangla, translate to English
3. For each article:
   - Include the exact headline as title
   - Create a concise summary of 5 sentences, include the date of the article, include the article link
   - Include the direct article link
   - Include an image that represents the article. Find keywords and search images (you can search from pexels.com, pinterest.com, facebook.com, google.com)

`)
	fmt.Fprintf(&sb, "Remember: Return ONLY the JSON object with no additional text. **Ensure all news items are published today, %s**.", day)

	return sb.String()
}
