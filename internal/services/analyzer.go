package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/metrics"
	"alfredoptarigan/resume-parser/internal/models"
)

// AnalyzerLimits bounds inputs before any model call is made.
type AnalyzerLimits struct {
	MaxResumeChars         int
	MaxJobDescriptionChars int
}

// ResumeAnalyzer runs extraction, then the optional job match, then ATS
// scoring. Only extraction failures fail the whole analysis.
type ResumeAnalyzer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) (*models.AnalysisResult, error)
}

type resumeAnalyzer struct {
	extractor  ExtractorService
	jobMatcher JobMatcherService
	atsScorer  ATSScorerService
	limits     AnalyzerLimits
	log        logger.Logger
}

func NewResumeAnalyzer(
	extractor ExtractorService,
	jobMatcher JobMatcherService,
	atsScorer ATSScorerService,
	limits AnalyzerLimits,
	log logger.Logger,
) ResumeAnalyzer {
	return &resumeAnalyzer{
		extractor:  extractor,
		jobMatcher: jobMatcher,
		atsScorer:  atsScorer,
		limits:     limits,
		log:        log,
	}
}

func (r *resumeAnalyzer) Analyze(ctx context.Context, resumeText, jobDescription string) (*models.AnalysisResult, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if err := r.validate(resumeText, jobDescription); err != nil {
		metrics.DocumentsProcessedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	parsed, err := r.extractor.Extract(ctx, resumeText)
	if err != nil {
		metrics.DocumentsProcessedTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	result := &models.AnalysisResult{ParsedResume: parsed}

	if jobDescription != "" {
		result.JobMatch = r.matchJob(ctx, resumeText, parsed, jobDescription)
	}
	result.ATSScore = r.scoreATS(ctx, resumeText, parsed)

	metrics.DocumentsProcessedTotal.WithLabelValues("succeeded").Inc()
	return result, nil
}

func (r *resumeAnalyzer) validate(resumeText, jobDescription string) error {
	if strings.TrimSpace(resumeText) == "" {
		return apperrors.NewValidationError(apperrors.CodeEmptyInput,
			"Could not extract text from PDF. Please ensure it's a text-based PDF.")
	}
	if n := utf8.RuneCountInString(resumeText); r.limits.MaxResumeChars > 0 && n > r.limits.MaxResumeChars {
		return apperrors.NewValidationError(apperrors.CodeInputTooLong,
			"Resume is too long. Please upload a shorter resume.").
			WithDetail("chars", n).WithDetail("max", r.limits.MaxResumeChars)
	}
	if n := utf8.RuneCountInString(jobDescription); r.limits.MaxJobDescriptionChars > 0 && n > r.limits.MaxJobDescriptionChars {
		return apperrors.NewValidationError(apperrors.CodeInputTooLong,
			fmt.Sprintf("Job description is too long. Please limit to %d characters.", r.limits.MaxJobDescriptionChars)).
			WithDetail("chars", n)
	}
	return nil
}

func (r *resumeAnalyzer) matchJob(ctx context.Context, resumeText string, parsed *models.ParsedResume, jobDescription string) *models.Outcome[models.JobMatchResult] {
	match, err := r.jobMatcher.Match(ctx, resumeText, parsed, jobDescription)
	if err == nil && match == nil {
		err = apperrors.NewInternalError("job match returned no result", nil)
	}
	if err != nil {
		metrics.DegradedResultsTotal.WithLabelValues(OperationJobMatch).Inc()
		r.log.WithError(err).Warn("job match degraded", nil)
		return models.Degraded[models.JobMatchResult](fmt.Errorf("job matching failed: %s", apperrors.PublicMessage(err)))
	}
	return models.Succeeded(match)
}

func (r *resumeAnalyzer) scoreATS(ctx context.Context, resumeText string, parsed *models.ParsedResume) *models.Outcome[models.ATSScoreResult] {
	score, err := r.atsScorer.Score(ctx, resumeText, parsed)
	if err == nil && score == nil {
		err = apperrors.NewInternalError("ATS scoring returned no result", nil)
	}
	if err != nil {
		metrics.DegradedResultsTotal.WithLabelValues(OperationATSScore).Inc()
		r.log.WithError(err).Warn("ATS scoring degraded", nil)
		return models.Degraded[models.ATSScoreResult](fmt.Errorf("ats scoring failed: %s", apperrors.PublicMessage(err)))
	}
	return models.Succeeded(score)
}
