// Package bootstrap wires configuration into the service graph shared by
// the HTTP server and the resumectl CLI.
package bootstrap

import (
	"context"
	"fmt"

	"alfredoptarigan/resume-parser/internal/config"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/services"
)

type Components struct {
	Storage   services.StorageService
	PDFParser services.PDFParserService
	Analyzer  services.ResumeAnalyzer

	// Set only when the Gemini provider or ATS guidance is enabled.
	Gemini services.GeminiService
	// Set only when ATS guidance is enabled.
	Qdrant services.QdrantService
}

// Build creates every service the analysis path needs. Close must be
// called when the returned components are no longer used.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Components, error) {
	c := &Components{
		Storage:   services.NewStorageService(cfg.Storage.UploadPath),
		PDFParser: services.NewPDFParserService(),
	}

	if cfg.LLM.Provider == config.ProviderGemini || cfg.Guidance.Enabled {
		gemini, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, cfg.LLM.Timeout)
		if err != nil {
			return nil, err
		}
		c.Gemini = gemini
	}

	llm, model, err := c.provider(cfg)
	if err != nil {
		return nil, err
	}
	llm = services.NewRateLimitedClient(llm, cfg.LLM.RateLimitRPS, cfg.LLM.RateLimitBurst)
	llm = services.NewInstrumentedClient(llm, log, model)

	validator, err := services.NewPayloadValidator()
	if err != nil {
		return nil, err
	}

	var guidance services.GuidanceRetriever
	if cfg.Guidance.Enabled {
		store, err := OpenGuidanceStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.Qdrant = store
		guidance = services.NewGuidanceRetriever(c.Gemini, store, cfg.Guidance.TopK)
		log.Info("ats guidance enabled", map[string]interface{}{
			"collection": cfg.Guidance.Collection,
			"top_k":      cfg.Guidance.TopK,
		})
	}

	c.Analyzer = services.NewResumeAnalyzer(
		services.NewExtractorService(llm, validator, log),
		services.NewJobMatcherService(llm, validator, cfg.Limits.JobMatchExcerptChars, log),
		services.NewATSScorerService(llm, validator, guidance, log),
		services.AnalyzerLimits{
			MaxResumeChars:         cfg.Limits.MaxResumeChars,
			MaxJobDescriptionChars: cfg.Limits.MaxJobDescriptionChars,
		},
		log,
	)

	return c, nil
}

func (c *Components) provider(cfg *config.Config) (services.LLMClient, string, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGroq:
		return services.NewGroqClient(services.GroqConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}), cfg.LLM.Model, nil
	case config.ProviderGemini:
		return c.Gemini, cfg.LLM.GeminiModel, nil
	default:
		return nil, "", fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// OpenGuidanceStore connects to Qdrant and makes sure the guidance
// collection exists.
func OpenGuidanceStore(ctx context.Context, cfg *config.Config) (services.QdrantService, error) {
	store, err := services.NewQdrantService(cfg.Guidance.QdrantURL, cfg.Guidance.QdrantAPIKey, cfg.Guidance.Collection)
	if err != nil {
		return nil, err
	}
	if err := store.InitCollection(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func (c *Components) Close() error {
	if c.Qdrant != nil {
		return c.Qdrant.Close()
	}
	return nil
}
