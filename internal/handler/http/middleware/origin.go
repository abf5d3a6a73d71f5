package middleware

import (
	"fmt"
	"net/url"
	"strings"
)

// OriginValidator decides whether an Origin header value is allowed.
type OriginValidator interface {
	IsAllowed(origin string) bool
	GetAllowedOrigins() []string
}

// WhitelistValidator implements exact-match origin validation.
// Comparison is case-insensitive and ignores a trailing slash.
type WhitelistValidator struct {
	allowed map[string]struct{}
	origins []string
}

// NewWhitelistValidator creates a validator for the given origins. Empty
// entries are skipped.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	v := &WhitelistValidator{allowed: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = normalizeOrigin(origin)
		if origin == "" {
			continue
		}
		if _, dup := v.allowed[origin]; dup {
			continue
		}
		v.allowed[origin] = struct{}{}
		v.origins = append(v.origins, origin)
	}
	return v
}

// IsAllowed reports whether origin is in the whitelist.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	origin = normalizeOrigin(origin)
	if origin == "" {
		return false
	}
	_, ok := v.allowed[origin]
	return ok
}

// GetAllowedOrigins returns a copy of the normalized whitelist.
func (v *WhitelistValidator) GetAllowedOrigins() []string {
	return append([]string(nil), v.origins...)
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

// ValidateOrigins checks that every entry is a bare http(s) origin: scheme and
// host only, without path, query or fragment.
func ValidateOrigins(origins []string) error {
	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("invalid origin URL %q: %w", origin, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("origin must use http or https scheme: %s", origin)
		}
		if u.Host == "" {
			return fmt.Errorf("origin must include a host: %s", origin)
		}
		if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
			return fmt.Errorf("origin must not include path, query or fragment: %s", origin)
		}
	}
	return nil
}
