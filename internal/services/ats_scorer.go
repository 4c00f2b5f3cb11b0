package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/metrics"
	"alfredoptarigan/resume-parser/internal/models"
)

const (
	OperationATSScore = "ats_score"

	atsTemperature = 0.2
	atsMaxTokens   = 2500
)

// Only overall_ats_score has a default; every category must be scored.
var atsRequiredScores = append([]string{"overall_ats_score"}, scoreKeys("category_scores", models.ATSCategories{})...)

// ATSScorerService rates ATS compatibility of a resume.
type ATSScorerService interface {
	Score(ctx context.Context, resumeText string, parsed *models.ParsedResume) (*models.ATSScoreResult, error)
}

type atsScorerService struct {
	llm           LLMClient
	promptBuilder *PromptBuilder
	validator     *PayloadValidator
	guidance      GuidanceRetriever
	log           logger.Logger
}

// NewATSScorerService builds a scorer. guidance may be nil.
func NewATSScorerService(llm LLMClient, validator *PayloadValidator, guidance GuidanceRetriever, log logger.Logger) ATSScorerService {
	return &atsScorerService{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		validator:     validator,
		guidance:      guidance,
		log:           log,
	}
}

// Score sends the full resume text, never a truncated one.
func (a *atsScorerService) Score(ctx context.Context, resumeText string, parsed *models.ParsedResume) (*models.ATSScoreResult, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperrors.NewEmptyInputError("resume text")
	}

	parsedJSON, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode parsed resume", err)
	}

	prompt := a.promptBuilder.BuildATSPrompt(resumeText, string(parsedJSON), a.retrieveGuidance(ctx, resumeText))

	completion, err := a.llm.Complete(ctx, ChatRequest{
		Operation: OperationATSScore,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: atsSystemMessage},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: atsTemperature,
		MaxTokens:   atsMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to calculate ATS score: %w", err)
	}

	obj, strategy, err := RecoverObject(completion)
	if err != nil {
		metrics.RecoveryTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.RecoveryTotal.WithLabelValues(strategy).Inc()

	if score, ok := obj["overall_ats_score"]; !ok || score == nil {
		a.log.Warn("ATS response missing overall_ats_score, using default", map[string]interface{}{
			"default": models.DefaultATSScore,
		})
		obj["overall_ats_score"] = float64(models.DefaultATSScore)
	}
	if err := requireScores(obj, atsRequiredScores); err != nil {
		return nil, err
	}

	var result models.ATSScoreResult
	if err := decodeRecord(obj, &result); err != nil {
		return nil, err
	}
	result.Normalize()

	if err := a.validator.Validate(SchemaATSScore, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (a *atsScorerService) retrieveGuidance(ctx context.Context, resumeText string) string {
	if a.guidance == nil {
		return ""
	}

	results, err := a.guidance.Retrieve(ctx, resumeText)
	if err != nil {
		a.log.WithError(err).Warn("ATS guidance retrieval failed, scoring without it", nil)
		return ""
	}
	return FormatGuidance(results)
}
