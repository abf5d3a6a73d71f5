package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"news-digest/internal/usecase/news"
)

// PromptFile is the YAML document that overrides the prompt's lists.
//
//	sources:
//	  - https://www.aljazeera.com/
//	topics:
//	  - Climate news
type PromptFile struct {
	Sources []string `yaml:"sources"`
	Topics  []string `yaml:"topics"`
}

// LoadPromptFile loads prompt lists from a YAML file.
// The path comes from NEWS_PROMPT_FILE or a CLI flag, never from request input.
func LoadPromptFile(path string) (*PromptFile, error) {
	// #nosec G304 -- path is provided by trusted source (env or CLI flag)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var pf PromptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file: %w", err)
	}

	if err := validatePromptFile(&pf); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	return &pf, nil
}

func validatePromptFile(pf *PromptFile) error {
	for i, s := range pf.Sources {
		if s == "" {
			return fmt.Errorf("sources[%d] is empty", i)
		}
	}
	for i, t := range pf.Topics {
		if t == "" {
			return fmt.Errorf("topics[%d] is empty", i)
		}
	}
	return nil
}

// Apply returns b with every list present in the file replaced.
func (pf *PromptFile) Apply(b news.PromptBuilder) news.PromptBuilder {
	if len(pf.Sources) > 0 {
		b.Sources = append([]string(nil), pf.Sources...)
	}
	if len(pf.Topics) > 0 {
		b.Topics = append([]string(nil), pf.Topics...)
	}
	return b
}
