package responsewriter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	wrapped := Wrap(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
	assert.Equal(t, 0, wrapped.BytesWritten())
	assert.False(t, wrapped.headerWritten)
}

func TestWrap_ReusesExistingWrapper(t *testing.T) {
	outer := Wrap(httptest.NewRecorder())
	inner := Wrap(outer)

	assert.Same(t, outer, inner)

	inner.WriteHeader(http.StatusBadGateway)
	assert.Equal(t, http.StatusBadGateway, outer.StatusCode())
}

func TestResponseWriter_WriteHeader(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "ok", status: http.StatusOK},
		{name: "too many requests", status: http.StatusTooManyRequests},
		{name: "bad gateway", status: http.StatusBadGateway},
		{name: "gateway timeout", status: http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped := Wrap(rec)
			wrapped.WriteHeader(tt.status)

			assert.Equal(t, tt.status, wrapped.StatusCode())
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestResponseWriter_WriteHeader_MultipleCallsIgnored(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	wrapped.WriteHeader(http.StatusTooManyRequests)
	wrapped.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusTooManyRequests, wrapped.StatusCode())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestResponseWriter_Write_CountsBytesAndImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	n1, err := wrapped.Write([]byte(`{"news":`))
	require.NoError(t, err)
	n2, err := wrapped.Write([]byte(`[]}`))
	require.NoError(t, err)

	assert.Equal(t, n1+n2, wrapped.BytesWritten())
	assert.True(t, wrapped.headerWritten)
	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
	assert.Equal(t, `{"news":[]}`, rec.Body.String())
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	wrapped.Flush()

	assert.True(t, rec.Flushed)
	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Equal(t, rec, Wrap(rec).Unwrap())
}

func TestResponseWriter_JSONHandler(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upstream failed", "kind": "api_error"})
	}

	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)
	handler(wrapped, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	assert.Equal(t, http.StatusBadGateway, wrapped.StatusCode())
	assert.Equal(t, rec.Body.Len(), wrapped.BytesWritten())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
