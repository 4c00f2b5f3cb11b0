package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/metrics"
)

var (
	_ LLMClient     = (*groqClient)(nil)
	_ LLMClient     = (*rateLimitedClient)(nil)
	_ LLMClient     = (*instrumentedClient)(nil)
	_ GeminiService = (*geminiService)(nil)
)

func TestRateLimitedClientPassthroughWhenDisabled(t *testing.T) {
	inner := newFakeLLM(byOperation(nil))
	assert.Same(t, LLMClient(inner), NewRateLimitedClient(inner, 0, 5))
}

func TestRateLimitedClientRespectsContext(t *testing.T) {
	inner := newFakeLLM(byOperation(map[string]string{"op": "{}"}))
	client := NewRateLimitedClient(inner, 0.001, 1)

	_, err := client.Complete(context.Background(), ChatRequest{Operation: "op"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Complete(ctx, ChatRequest{Operation: "op"})
	require.Error(t, err)
	assert.True(t, apperrors.IsProvider(err))
	assert.Equal(t, 1, inner.callCount())
}

func TestInstrumentedClientCountsOutcomes(t *testing.T) {
	const op = "instrumented_test"
	fail := false
	inner := newFakeLLM(func(ChatRequest) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "{}", nil
	})
	client := NewInstrumentedClient(inner, logger.NewTestLogger(t), "test-model")

	_, err := client.Complete(context.Background(), ChatRequest{Operation: op})
	require.NoError(t, err)
	fail = true
	_, err = client.Complete(context.Background(), ChatRequest{Operation: op})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMRequestsTotal.WithLabelValues(op, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LLMRequestsTotal.WithLabelValues(op, "error")))
}
