package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-digest/internal/domain/entity"
	"news-digest/internal/handler/http/respond"
	"news-digest/internal/usecase/news"
)

func TestTimeout_SetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	handler := Timeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	before := time.Now()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, before.Add(time.Minute), deadline, 5*time.Second)
}

// blockingNews waits for its context like a pipeline stuck in backoff.
type blockingNews struct{ fakeNews }

func (b *blockingNews) FetchNews(ctx context.Context) (*entity.NewsResponse, error) {
	<-ctx.Done()
	return nil, &news.PipelineError{Kind: news.KindCanceled, Message: ctx.Err().Error(), Err: ctx.Err()}
}

func TestRouter_NewsTimeoutAnswersGatewayTimeout(t *testing.T) {
	router := NewRouter(RouterConfig{
		News:        &blockingNews{},
		Breaker:     fakeBreaker{},
		NewsTimeout: 20 * time.Millisecond,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var body respond.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "canceled", body.Kind)
}
