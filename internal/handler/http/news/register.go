package news

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register mounts the news routes. newsMiddleware wraps /api/news only;
// /api/prompt never calls upstream.
func Register(r chi.Router, svc Service, newsMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.With(newsMiddleware...).Method(http.MethodGet, "/news", GetHandler{Svc: svc})
		r.Method(http.MethodGet, "/prompt", PromptHandler{Svc: svc})
	})
}
