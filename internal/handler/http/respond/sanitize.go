package respond

import (
	"regexp"
)

var (
	// Most specific first: OpenRouter keys also match the generic pattern.
	openrouterKeyPattern = regexp.MustCompile(`sk-or-v1-[a-zA-Z0-9]+`)
	// Already masked strings contain '*' and are left alone.
	genericKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)

	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9._~+/=-]+`)
)

// SanitizeError returns the error message with API keys and bearer tokens masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = openrouterKeyPattern.ReplaceAllString(msg, "sk-or-v1-****")
	msg = genericKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")

	return msg
}
