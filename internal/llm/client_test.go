package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL: url,
		APIKey:  "test-key",
		Model:   "test-model",
	}, zap.NewNop())
}

func TestCompleteReturnsContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])
		assert.Equal(t, float64(200), req["max_tokens"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "grants for NGOs\nEU funding calls"}},
			},
		})
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "grants for NGOs\nEU funding calls", out)
}

func TestCompleteNon2xxIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCompleteTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	_, err := newTestClient(srv.URL).Complete(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCompleteEmptyChoicesIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), "system", "user")
	assert.ErrorIs(t, err, ErrUnavailable)
}
