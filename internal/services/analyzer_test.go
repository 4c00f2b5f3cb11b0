package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
)

func newTestAnalyzer(t *testing.T, llm LLMClient) ResumeAnalyzer {
	log := logger.NewTestLogger(t)
	validator := MustPayloadValidator()
	return NewResumeAnalyzer(
		NewExtractorService(llm, validator, log),
		NewJobMatcherService(llm, validator, 3000, log),
		NewATSScorerService(llm, validator, nil, log),
		AnalyzerLimits{MaxResumeChars: 50000, MaxJobDescriptionChars: 10000},
		log,
	)
}

func allValid() map[string]string {
	return map[string]string{
		OperationExtract:  validResumeJSON,
		OperationJobMatch: validMatchJSON,
		OperationATSScore: validATSJSON,
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	llm := newFakeLLM(byOperation(allValid()))

	result, err := newTestAnalyzer(t, llm).Analyze(context.Background(), resumeSnippet, jobDescription50Words)
	require.NoError(t, err)

	require.NotNil(t, result.ParsedResume)
	assert.Equal(t, "Jane Doe", result.ParsedResume.FullName)

	match, err := result.JobMatch.Result()
	require.NoError(t, err)
	assert.Equal(t, 78.0, match.OverallMatchScore)

	ats, err := result.ATSScore.Result()
	require.NoError(t, err)
	assert.Equal(t, 82.0, ats.OverallATSScore)

	assert.Equal(t, 3, llm.callCount())
	ops := []string{llm.calls[0].Operation, llm.calls[1].Operation, llm.calls[2].Operation}
	assert.Equal(t, []string{OperationExtract, OperationJobMatch, OperationATSScore}, ops)
}

func TestAnalyzeDegradesJobMatchTimeout(t *testing.T) {
	answers := allValid()
	llm := newFakeLLM(func(req ChatRequest) (string, error) {
		if req.Operation == OperationJobMatch {
			return "", apperrors.NewProviderError(apperrors.CodeProviderTimeout, "model provider timed out", context.DeadlineExceeded)
		}
		return answers[req.Operation], nil
	})

	result, err := newTestAnalyzer(t, llm).Analyze(context.Background(), resumeSnippet, jobDescription50Words)
	require.NoError(t, err)

	require.NotNil(t, result.ParsedResume)
	require.NotNil(t, result.JobMatch)
	assert.True(t, result.JobMatch.IsDegraded())
	assert.Contains(t, result.JobMatch.ErrorMessage(), "timed out")

	ats, err := result.ATSScore.Result()
	require.NoError(t, err)
	assert.Equal(t, 82.0, ats.OverallATSScore)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body["job_match"], "error")
	assert.Equal(t, 82.0, body["ats_score"].(map[string]interface{})["overall_ats_score"])
}

func TestAnalyzeDegradesMalformedATS(t *testing.T) {
	answers := allValid()
	answers[OperationATSScore] = "Sorry, I cannot score this."
	llm := newFakeLLM(byOperation(answers))

	result, err := newTestAnalyzer(t, llm).Analyze(context.Background(), resumeSnippet, "")
	require.NoError(t, err)

	assert.Nil(t, result.JobMatch)
	assert.True(t, result.ATSScore.IsDegraded())
	assert.NotNil(t, result.ParsedResume)
}

func TestAnalyzeDegradesUnscoredReplies(t *testing.T) {
	answers := allValid()
	answers[OperationJobMatch] = `{"summary": "ok"}`
	answers[OperationATSScore] = `{"summary": "ok"}`
	llm := newFakeLLM(byOperation(answers))

	result, err := newTestAnalyzer(t, llm).Analyze(context.Background(), resumeSnippet, jobDescription50Words)
	require.NoError(t, err)

	require.NotNil(t, result.ParsedResume)
	assert.True(t, result.JobMatch.IsDegraded())
	assert.Contains(t, result.JobMatch.ErrorMessage(), "overall_match_score")
	assert.True(t, result.ATSScore.IsDegraded())
	assert.Contains(t, result.ATSScore.ErrorMessage(), "category_scores.contact_info")
}

func TestAnalyzeWithoutJobDescriptionSkipsMatching(t *testing.T) {
	llm := newFakeLLM(byOperation(allValid()))

	result, err := newTestAnalyzer(t, llm).Analyze(context.Background(), resumeSnippet, "   ")
	require.NoError(t, err)

	assert.Nil(t, result.JobMatch)
	assert.Empty(t, llm.callsFor(OperationJobMatch))
	assert.Equal(t, 2, llm.callCount())
}

func TestAnalyzeExtractionFailureIsFatal(t *testing.T) {
	answers := allValid()
	answers[OperationExtract] = "not json"
	llm := newFakeLLM(byOperation(answers))

	result, err := newTestAnalyzer(t, llm).Analyze(context.Background(), resumeSnippet, jobDescription50Words)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformed(err))
	assert.Equal(t, 1, llm.callCount())
}

func TestAnalyzeValidatesInputsBeforeCalling(t *testing.T) {
	tests := []struct {
		name   string
		resume string
		jd     string
		code   apperrors.Code
	}{
		{"empty resume", "  ", "", apperrors.CodeEmptyInput},
		{"resume too long", strings.Repeat("x", 50001), "", apperrors.CodeInputTooLong},
		{"job description too long", resumeSnippet, strings.Repeat("y", 10001), apperrors.CodeInputTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := newFakeLLM(byOperation(allValid()))

			_, err := newTestAnalyzer(t, llm).Analyze(context.Background(), tt.resume, tt.jd)
			require.Error(t, err)

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, 0, llm.callCount())
		})
	}
}

func TestAnalyzeAcceptsInputsAtTheLimit(t *testing.T) {
	llm := newFakeLLM(byOperation(allValid()))

	_, err := newTestAnalyzer(t, llm).Analyze(context.Background(), strings.Repeat("é", 50000), strings.Repeat("y", 10000))
	require.NoError(t, err)
}
