package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  DefaultModel,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Lava los envases antes de reciclarlos."},
				"finish_reason": "stop",
			}},
		})
	}))
	defer server.Close()

	c := New("gsk-test", "", server.URL)
	text, err := c.Complete(context.Background(), "dame un tip", 0.8)
	require.NoError(t, err)
	assert.Equal(t, "Lava los envases antes de reciclarlos.", text)

	assert.Equal(t, DefaultModel, got["model"])
	assert.InDelta(t, 0.8, got["temperature"], 0.0001)
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	_, err := New("gsk-test", "", server.URL).Complete(context.Background(), "p", 0.7)
	assert.ErrorContains(t, err, "no choices")
}

func TestCompleteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := New("bad", "", server.URL).Complete(context.Background(), "p", 0.7)
	assert.ErrorContains(t, err, "invalid api key")
}

func TestDefaults(t *testing.T) {
	c := New("k", " ", "")
	assert.Equal(t, DefaultModel, c.model)
}
