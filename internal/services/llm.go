package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/metrics"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is one completion call. Operation names the call site for
// logs and metrics and is not sent upstream.
type ChatRequest struct {
	Operation   string
	Messages    []ChatMessage
	Temperature float32
	MaxTokens   int
}

// LLMClient sends one chat completion and returns the text of the first
// choice. Failures are *apperrors.Error of KindProvider.
type LLMClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

type rateLimitedClient struct {
	next    LLMClient
	limiter *rate.Limiter
}

// NewRateLimitedClient returns next unchanged when rps is not positive.
func NewRateLimitedClient(next LLMClient, rps float64, burst int) LLMClient {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *rateLimitedClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", apperrors.NewProviderError(apperrors.CodeProviderUnavailable, "rate limiter refused the call", err)
	}
	return c.next.Complete(ctx, req)
}

type instrumentedClient struct {
	next  LLMClient
	log   logger.Logger
	model string
}

// NewInstrumentedClient logs and records metrics for every call.
func NewInstrumentedClient(next LLMClient, log logger.Logger, model string) LLMClient {
	return &instrumentedClient{next: next, log: log, model: model}
}

func (c *instrumentedClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	start := time.Now()
	out, err := c.next.Complete(ctx, req)
	elapsed := time.Since(start)

	metrics.LLMRequestDuration.WithLabelValues(req.Operation).Observe(elapsed.Seconds())

	fields := map[string]interface{}{
		"operation":    req.Operation,
		"model":        c.model,
		"latency_ms":   elapsed.Milliseconds(),
		"prompt_chars": promptChars(req.Messages),
		"temperature":  req.Temperature,
		"max_tokens":   req.MaxTokens,
	}

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(req.Operation, "error").Inc()
		c.log.WithError(err).Error("llm.request.failed", fields)
		return "", err
	}

	metrics.LLMRequestsTotal.WithLabelValues(req.Operation, "ok").Inc()
	fields["completion_chars"] = len(out)
	c.log.Info("llm.request.completed", fields)
	return out, nil
}

func promptChars(msgs []ChatMessage) int {
	n := 0
	for _, m := range msgs {
		n += len(m.Content)
	}
	return n
}
