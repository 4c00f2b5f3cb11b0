package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/resume-parser/internal/apperrors"
)

// Embedder turns text into a vector for guidance retrieval.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// GeminiService is an LLMClient backed by Gemini that can also embed text.
type GeminiService interface {
	LLMClient
	Embedder
}

type geminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
	timeout    time.Duration
}

func NewGeminiService(ctx context.Context, apiKey, model string, timeout time.Duration) (GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &geminiService{
		client:     client,
		modelName:  model,
		embedModel: "text-embedding-004",
		timeout:    timeout,
	}, nil
}

// GenerateEmbedding implements Embedder.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// embedding input is capped well under the model's token limit
	if len(text) > 40000 {
		text = text[:40000]
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// Complete implements LLMClient. System messages become the system
// instruction; the remaining messages are sent as user content.
func (g *geminiService) Complete(ctx context.Context, req ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var system, user []string
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
		} else {
			user = append(user, m.Content)
		}
	}

	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(strings.Join(user, "\n\n")), config)
	if err != nil {
		return "", classifyGeminiError(ctx, err)
	}
	if resp == nil {
		return "", apperrors.NewProviderError(apperrors.CodeProviderUnavailable, "gemini returned no response", nil)
	}

	text := resp.Text()
	if text == "" {
		return "", apperrors.NewProviderError(apperrors.CodeProviderUnavailable, "gemini returned no text content", nil)
	}

	return text, nil
}

// classifyGeminiError keeps upstream status errors apart from transport
// failures, matching the Groq client.
func classifyGeminiError(ctx context.Context, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		msg := strings.TrimSpace(apiErr.Message)
		if msg == "" {
			msg = apiErr.Status
		}
		return apperrors.NewProviderError(apperrors.CodeProviderStatus,
			fmt.Sprintf("model provider returned status %d: %s", apiErr.Code, msg), err).
			WithDetail("status", apiErr.Code)
	}
	return classifyTransportError(ctx, err)
}
