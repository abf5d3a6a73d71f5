package news

import (
	"encoding/json"
	"fmt"
	"strings"

	"news-digest/internal/domain/entity"
)

// requiredFields are the candidate keys that must hold non-empty strings.
var requiredFields = []string{"title", "summary", "link", "image"}

// ExtractJSONSpan returns the text between the first '{' and the last '}'
// inclusive. It is a best-effort extraction for model output wrapped in prose
// or markdown fences; braces inside JSON strings are not treated specially.
// ok is false when either brace is missing or the last '}' precedes the first '{'.
func ExtractJSONSpan(text string) (span string, ok bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Rejection describes a candidate item dropped by ParseNews.
type Rejection struct {
	// Index is the candidate's position in the upstream news array.
	Index int
	Err   error
}

// ParseResult holds the items kept and the candidates dropped by ParseNews.
type ParseResult struct {
	Items    []entity.NewsItem
	Rejected []Rejection
}

// ParseNews extracts the embedded JSON document from model output, checks that it
// carries a news array and keeps the candidates whose title, summary, link and
// image are non-empty strings. Kept items get sequential ids. Dropped candidates
// are reported, never returned as errors; an empty Items slice is not an error here.
func ParseNews(content string) (*ParseResult, error) {
	span, ok := ExtractJSONSpan(content)
	if !ok {
		return nil, &PipelineError{Kind: KindNoJSONFound, Message: "no '{' ... '}' span in content"}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &doc); err != nil {
		return nil, &PipelineError{Kind: KindInvalidJSON, Message: err.Error(), Err: err}
	}

	raw, ok := doc["news"]
	if !ok {
		return nil, &PipelineError{Kind: KindMalformedFormat, Message: "news field is missing"}
	}

	var candidates []json.RawMessage
	if err := json.Unmarshal(raw, &candidates); err != nil || candidates == nil {
		return nil, &PipelineError{Kind: KindMalformedFormat, Message: "news field is not an array", Err: err}
	}

	result := &ParseResult{Items: make([]entity.NewsItem, 0, len(candidates))}
	for i, candidate := range candidates {
		item, err := decodeCandidate(candidate)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Index: i, Err: err})
			continue
		}
		item.ID = entity.NewsItemID(len(result.Items))
		result.Items = append(result.Items, item)
	}

	return result, nil
}

func decodeCandidate(raw json.RawMessage) (entity.NewsItem, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entity.NewsItem{}, fmt.Errorf("candidate is not an object: %w", err)
	}

	values := make(map[string]string, len(requiredFields))
	for _, name := range requiredFields {
		s, ok := fields[name].(string)
		if !ok {
			return entity.NewsItem{}, &entity.ValidationError{Field: name, Message: "must be a string"}
		}
		values[name] = s
	}

	item := entity.NewsItem{
		Title:   values["title"],
		Summary: values["summary"],
		Link:    values["link"],
		Image:   values["image"],
	}
	if err := item.Validate(); err != nil {
		return entity.NewsItem{}, err
	}
	return item, nil
}
