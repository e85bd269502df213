package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewOpenAIProvider("sk-test", "")
	p.baseURL = srv.URL
	return p
}

func TestOpenAIComplete(t *testing.T) {
	var got openaiRequest
	var auth string
	p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  It costs $499.99.  "},"finish_reason":"stop"}]}`)
	})

	answer, err := p.Complete(context.Background(), "What is the price?")
	require.NoError(t, err)
	assert.Equal(t, "It costs $499.99.", answer, "whitespace is trimmed")

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "What is the price?", got.Messages[1].Content)
}

func TestOpenAIRateLimitIsRetryable(t *testing.T) {
	p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"Rate limit reached","type":"requests"}}`)
	})

	_, err := p.Complete(context.Background(), "hi")
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.Retryable)
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Contains(t, perr.Error(), "Rate limit reached")
}

func TestOpenAIBadRequestIsNotRetryable(t *testing.T) {
	p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid request"}}`)
	})

	_, err := p.Complete(context.Background(), "hi")
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.False(t, perr.Retryable)
}

func TestOpenAIEmptyChoices(t *testing.T) {
	p := testOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})

	_, err := p.Complete(context.Background(), "hi")
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.False(t, perr.Retryable)
}

func TestOpenAITransportErrorIsRetryable(t *testing.T) {
	p := NewOpenAIProvider("sk-test", "")
	p.baseURL = "http://127.0.0.1:1"

	_, err := p.Complete(context.Background(), "hi")
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.Retryable)
}
