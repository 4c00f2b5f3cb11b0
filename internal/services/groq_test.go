package services

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

	"alfredoptarigan/resume-parser/internal/apperrors"
)

func TestGroqClientSendsChatCompletion(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	client := NewGroqClient(GroqConfig{APIKey: "gsk_test", BaseURL: srv.URL + "/openai/v1/", Timeout: time.Second})
	out, err := client.Complete(context.Background(), ChatRequest{
		Operation:   OperationExtract,
		Messages:    []ChatMessage{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "resume"}},
		Temperature: 0.1,
		MaxTokens:   3500,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"ok":true}`, out)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	assert.InDelta(t, 0.1, got.Temperature, 1e-6)
	assert.Equal(t, 3500, got.MaxTokens)
	assert.Equal(t, []ChatMessage{{Role: "system", Content: "sys"}, {Role: "user", Content: "resume"}}, got.Messages)
}

func TestGroqClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    apperrors.Code
		message string
	}{
		{
			name: "upstream status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"tokens"}}`))
			},
			code:    apperrors.CodeProviderStatus,
			message: "Rate limit reached",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
			code:    apperrors.CodeProviderUnavailable,
			message: "no choices",
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
			},
			code:    apperrors.CodeProviderTimeout,
			message: "timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewGroqClient(GroqConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 100 * time.Millisecond})
			_, err := client.Complete(context.Background(), ChatRequest{Operation: OperationJobMatch})
			require.Error(t, err)

			var appErr *apperrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.KindProvider, appErr.Kind)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Contains(t, appErr.Error(), tt.message)
		})
	}
}

func TestGroqClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewGroqClient(GroqConfig{APIKey: "k", BaseURL: url, Timeout: time.Second}).
		Complete(context.Background(), ChatRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsProvider(err))
	assert.False(t, errors.Is(err, apperrors.ErrProviderTimeout))
}
