package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/metrics"
	"alfredoptarigan/resume-parser/internal/models"
)

const (
	OperationJobMatch = "job_match"

	jobMatchTemperature = 0.2
	jobMatchMaxTokens   = 2000
)

var jobMatchRequiredScores = []string{"overall_match_score"}

// JobMatcherService scores a resume against a job description.
type JobMatcherService interface {
	// Match returns (nil, nil) when jobDescription is blank; no call is made.
	Match(ctx context.Context, resumeText string, parsed *models.ParsedResume, jobDescription string) (*models.JobMatchResult, error)
}

type jobMatcherService struct {
	llm           LLMClient
	promptBuilder *PromptBuilder
	validator     *PayloadValidator
	excerptChars  int
	log           logger.Logger
}

func NewJobMatcherService(llm LLMClient, validator *PayloadValidator, excerptChars int, log logger.Logger) JobMatcherService {
	if excerptChars <= 0 {
		excerptChars = 3000
	}
	return &jobMatcherService{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		validator:     validator,
		excerptChars:  excerptChars,
		log:           log,
	}
}

func (j *jobMatcherService) Match(ctx context.Context, resumeText string, parsed *models.ParsedResume, jobDescription string) (*models.JobMatchResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, nil
	}

	var skills []string
	if parsed != nil {
		skills = parsed.AllSkills()
	}

	prompt := j.promptBuilder.BuildJobMatchPrompt(truncateRunes(resumeText, j.excerptChars), skills, jobDescription)

	completion, err := j.llm.Complete(ctx, ChatRequest{
		Operation: OperationJobMatch,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: jobMatchSystemMessage},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: jobMatchTemperature,
		MaxTokens:   jobMatchMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to calculate job match: %w", err)
	}

	obj, strategy, err := RecoverObject(completion)
	if err != nil {
		metrics.RecoveryTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.RecoveryTotal.WithLabelValues(strategy).Inc()

	if err := requireScores(obj, jobMatchRequiredScores); err != nil {
		return nil, err
	}

	var result models.JobMatchResult
	if err := decodeRecord(obj, &result); err != nil {
		return nil, err
	}
	result.Normalize()

	if err := j.validator.Validate(SchemaJobMatch, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// truncateRunes keeps the first n characters. It is not word aware.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
