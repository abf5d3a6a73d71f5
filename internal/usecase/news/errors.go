package news

import (
	"errors"
	"fmt"
)

// Kind identifies why a pipeline run failed.
type Kind int

const (
	// KindRateLimitExceeded means every attempt was answered with a rate-limit signal.
	KindRateLimitExceeded Kind = iota + 1
	// KindAPI is a non-OK, non-retryable upstream response or a transport failure.
	KindAPI
	// KindMalformedResponse means an OK response carried no message content.
	KindMalformedResponse
	// KindNoJSONFound means the content had no '{' ... '}' span.
	KindNoJSONFound
	// KindInvalidJSON means the extracted span did not parse.
	KindInvalidJSON
	// KindMalformedFormat means the parsed document had no news array.
	KindMalformedFormat
	// KindEmptyResult means no candidate survived filtering.
	KindEmptyResult
	// KindCanceled means the caller's context ended first.
	KindCanceled
)

// Sentinel errors, one per Kind. A *PipelineError matches its kind's sentinel with errors.Is.
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrAPI               = errors.New("completion api error")
	ErrMalformedResponse = errors.New("invalid api response structure")
	ErrNoJSONFound       = errors.New("no json object found in response")
	ErrInvalidJSON       = errors.New("invalid json in api response")
	ErrMalformedFormat   = errors.New("invalid response format: missing news array")
	ErrEmptyResult       = errors.New("no valid news items in response")
	ErrCanceled          = errors.New("news fetch canceled")
)

// ErrMissingContent is returned by a Completer when an OK response has no
// choices[0].message.content.
var ErrMissingContent = errors.New("response has no message content")

var kindNames = map[Kind]string{
	KindRateLimitExceeded: "rate_limit_exceeded",
	KindAPI:               "api_error",
	KindMalformedResponse: "malformed_response",
	KindNoJSONFound:       "no_json_found",
	KindInvalidJSON:       "invalid_json",
	KindMalformedFormat:   "malformed_format",
	KindEmptyResult:       "empty_result",
	KindCanceled:          "canceled",
}

// String returns the snake_case name used in logs, metrics and API payloads.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Sentinel returns the sentinel error for the kind.
func (k Kind) Sentinel() error {
	switch k {
	case KindRateLimitExceeded:
		return ErrRateLimitExceeded
	case KindAPI:
		return ErrAPI
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindNoJSONFound:
		return ErrNoJSONFound
	case KindInvalidJSON:
		return ErrInvalidJSON
	case KindMalformedFormat:
		return ErrMalformedFormat
	case KindEmptyResult:
		return ErrEmptyResult
	case KindCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

// UserMessage is the text shown to a person when a fetch fails with this kind.
func (k Kind) UserMessage() string {
	switch k {
	case KindRateLimitExceeded:
		return "API rate limit reached. Please try again in a few minutes."
	case KindNoJSONFound, KindInvalidJSON:
		return "Unable to process AI response. Please try again."
	case KindMalformedResponse, KindMalformedFormat:
		return "Received unexpected data format. Please try again later."
	case KindEmptyResult:
		return "No valid news items were returned. Please try again later."
	case KindCanceled:
		return "The news request was canceled before it finished."
	default:
		return "Failed to fetch news. Please try again later."
	}
}

// PipelineError is the single failure value returned by Service.FetchNews.
type PipelineError struct {
	Kind Kind

	// StatusCode is the upstream HTTP status, 0 when no response was received.
	StatusCode int
	// ProviderCode is the numeric error.code from the upstream error payload.
	ProviderCode int
	// Message is the provider-supplied or parser-supplied detail.
	Message string
	// Attempts is the number of upstream calls made.
	Attempts int

	Err error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	base := e.Kind.String()
	if s := e.Kind.Sentinel(); s != nil {
		base = s.Error()
	}

	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", base, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", base, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", base, e.Message)
	default:
		return base
	}
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind.
func (e *PipelineError) Is(target error) bool {
	return target != nil && target == e.Kind.Sentinel()
}

// KindOf returns the kind of a pipeline error, or 0 when err is not one.
func KindOf(err error) Kind {
	var pErr *PipelineError
	if errors.As(err, &pErr) {
		return pErr.Kind
	}
	return 0
}
