package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestClient_Post(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "2023-06-01", r.Header.Get("X-Version"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["say"]})
	}))
	defer server.Close()

	c := New(server.URL+"/", time.Second, WithBearer("tok"), WithHeader("X-Version", "2023-06-01"))
	assert.Equal(t, server.URL, c.BaseURL())

	var out struct {
		Echo string `json:"echo"`
	}
	require.NoError(t, c.Post(context.Background(), "/v1/echo", map[string]string{"say": "hi"}, &out))
	assert.Equal(t, "hi", out.Echo)
}

func TestClient_PostNilOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	assert.NoError(t, New(server.URL, time.Second).Post(context.Background(), "/", struct{}{}, nil))
}

func TestClient_StatusErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested", `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`, "Incorrect API key"},
		{"string", `{"error":"model \"llama3.2\" not found"}`, `model "llama3.2" not found`},
		{"top level", `{"message":"quota"}`, "quota"},
		{"html", `<html>oops</html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := New(server.URL, time.Second).Post(context.Background(), "/", struct{}{}, &struct{}{})

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, http.StatusBadRequest, se.Code)
			assert.Equal(t, tt.want, se.Message)
		})
	}
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	assert.NoError(t, c.Get(context.Background(), "/ok"))

	var se *StatusError
	require.ErrorAs(t, c.Get(context.Background(), "/models"), &se)
	assert.Equal(t, http.StatusForbidden, se.Code)
}

func TestWrap(t *testing.T) {
	err := Wrap("openai", domain.ErrEmbeddingUnavailable, &StatusError{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	err = Wrap("anthropic", domain.ErrGenerationUnavailable, &StatusError{Code: http.StatusUnauthorized, Message: "invalid x-api-key"})
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.Contains(t, err.Error(), "API key rejected: invalid x-api-key")

	err = Wrap("ollama", domain.ErrGenerationUnavailable, &StatusError{Code: http.StatusBadGateway})
	assert.Contains(t, err.Error(), "ollama: Bad Gateway (status 502)")

	plain := errors.New("connection refused")
	err = Wrap("ollama", domain.ErrEmbeddingUnavailable, plain)
	assert.ErrorIs(t, err, plain)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	assert.NoError(t, Wrap("openai", domain.ErrEmbeddingUnavailable, nil))
}
