// Package news serves the news pipeline over HTTP.
package news

import (
	"context"
	"errors"
	"net/http"
	"time"

	"news-digest/internal/domain/entity"
	"news-digest/internal/handler/http/respond"
	newsUC "news-digest/internal/usecase/news"
)

// Service is the part of the news use case the handlers call.
type Service interface {
	FetchNews(ctx context.Context) (*entity.NewsResponse, error)
	Prompt(date time.Time) string
}

// dateParam is the layout of the ?date= query parameter.
const dateParam = "2006-01-02"

// StatusFor maps a pipeline failure kind to the HTTP status of the response.
func StatusFor(kind newsUC.Kind) int {
	switch kind {
	case newsUC.KindRateLimitExceeded:
		return http.StatusTooManyRequests
	case newsUC.KindCanceled:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// GetHandler runs one pipeline fetch per request.
type GetHandler struct{ Svc Service }

// ServeHTTP returns today's news, or an error body carrying the user message
// and the failure kind.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Svc.FetchNews(r.Context())
	if err != nil {
		var pErr *newsUC.PipelineError
		if !errors.As(err, &pErr) {
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
		code := StatusFor(pErr.Kind)
		respond.SafeErrorV2(w, code,
			respond.NewAppError(code, pErr.Kind.UserMessage(), err).WithKind(pErr.Kind.String()))
		return
	}

	respond.JSON(w, http.StatusOK, toResponseDTO(resp))
}

// PromptHandler returns the prompt that would be sent for a date.
type PromptHandler struct {
	Svc Service
	// Now supplies the default date. Defaults to time.Now.
	Now func() time.Time
}

// ServeHTTP answers GET /api/prompt?date=YYYY-MM-DD. Without a date it uses today.
func (h PromptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if h.Now != nil {
		date = h.Now()
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateParam, raw)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid date: must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	respond.JSON(w, http.StatusOK, PromptDTO{
		Date:   newsUC.FormatDate(date),
		Prompt: h.Svc.Prompt(date),
	})
}
