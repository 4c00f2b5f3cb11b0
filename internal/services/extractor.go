package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/metrics"
	"alfredoptarigan/resume-parser/internal/models"
)

const (
	OperationExtract = "extract"

	extractionTemperature = 0.1
	extractionMaxTokens   = 3500
)

// ExtractorService turns raw resume text into a ParsedResume.
type ExtractorService interface {
	Extract(ctx context.Context, resumeText string) (*models.ParsedResume, error)
}

type extractorService struct {
	llm           LLMClient
	promptBuilder *PromptBuilder
	validator     *PayloadValidator
	log           logger.Logger
}

func NewExtractorService(llm LLMClient, validator *PayloadValidator, log logger.Logger) ExtractorService {
	return &extractorService{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		validator:     validator,
		log:           log,
	}
}

// Extract fails with a validation error on blank input, a provider error
// when the model cannot be reached and a malformed-response error when its
// answer cannot be recovered. It never retries.
func (e *extractorService) Extract(ctx context.Context, resumeText string) (*models.ParsedResume, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperrors.NewEmptyInputError("resume text")
	}

	completion, err := e.llm.Complete(ctx, ChatRequest{
		Operation: OperationExtract,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: e.promptBuilder.BuildExtractionPrompt()},
			{Role: RoleUser, Content: resumeText},
		},
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume information: %w", err)
	}

	obj, strategy, err := RecoverObject(completion)
	if err != nil {
		metrics.RecoveryTotal.WithLabelValues("failed").Inc()
		e.log.Warn("extraction response unrecoverable", map[string]interface{}{
			"completion_chars": len(completion),
		})
		return nil, err
	}
	metrics.RecoveryTotal.WithLabelValues(strategy).Inc()

	routeBareSkills(obj)

	var parsed models.ParsedResume
	if err := decodeRecord(obj, &parsed); err != nil {
		return nil, err
	}
	parsed.Normalize()

	if err := e.validator.Validate(SchemaParsedResume, &parsed); err != nil {
		return nil, err
	}

	e.log.Debug("resume extracted", map[string]interface{}{
		"strategy":        strategy,
		"work_experience": len(parsed.WorkExperience),
		"education":       len(parsed.Education),
	})

	return &parsed, nil
}

// routeBareSkills keeps a flat technical_skills list instead of losing it
// to the categorized record.
func routeBareSkills(obj map[string]interface{}) {
	switch v := obj["technical_skills"].(type) {
	case []interface{}, string:
		obj["technical_skills"] = map[string]interface{}{"other_technical_skills": v}
	}
}
