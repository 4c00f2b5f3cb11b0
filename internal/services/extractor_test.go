package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-parser/internal/apperrors"
	"alfredoptarigan/resume-parser/internal/logger"
	"alfredoptarigan/resume-parser/internal/models"
)

func newTestExtractor(t *testing.T, llm LLMClient) ExtractorService {
	return NewExtractorService(llm, MustPayloadValidator(), logger.NewTestLogger(t))
}

func TestExtractReturnsCompleteRecord(t *testing.T) {
	llm := newFakeLLM(byOperation(map[string]string{
		OperationExtract: "```json\n" + validResumeJSON + "\n```",
	}))

	parsed, err := newTestExtractor(t, llm).Extract(context.Background(), resumeSnippet)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", parsed.FullName)
	assert.Equal(t, "", parsed.LinkedInURL)
	require.Len(t, parsed.Education, 1)
	assert.Equal(t, "2018", parsed.Education[0].GraduationYear)
	assert.Equal(t, "3.7", parsed.Education[0].GPA)
	require.Len(t, parsed.WorkExperience, 1)
	assert.NotNil(t, parsed.WorkExperience[0].Responsibilities)
	assert.Empty(t, parsed.WorkExperience[0].Responsibilities)
	assert.Equal(t, []string{"Kubernetes"}, parsed.TechnicalSkills.Tools)
	assert.NotNil(t, parsed.Projects)
	assert.NotNil(t, parsed.Publications)
	assert.NotNil(t, parsed.TechnicalSkills.CloudPlatforms)
}

func TestExtractRequestShape(t *testing.T) {
	llm := newFakeLLM(byOperation(map[string]string{OperationExtract: validResumeJSON}))

	_, err := newTestExtractor(t, llm).Extract(context.Background(), resumeSnippet)
	require.NoError(t, err)

	calls := llm.callsFor(OperationExtract)
	require.Len(t, calls, 1)
	req := calls[0]
	assert.InDelta(t, 0.1, req.Temperature, 1e-6)
	assert.Equal(t, 3500, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, `"volunteering_experience"`)
	assert.Equal(t, RoleUser, req.Messages[1].Role)
	assert.Equal(t, resumeSnippet, req.Messages[1].Content)
}

func TestExtractRejectsBlankInputWithoutCalling(t *testing.T) {
	llm := newFakeLLM(byOperation(nil))

	for _, input := range []string{"", "   \n\t "} {
		parsed, err := newTestExtractor(t, llm).Extract(context.Background(), input)
		assert.Nil(t, parsed)
		assert.True(t, errors.Is(err, apperrors.ErrEmptyInput))
		assert.True(t, apperrors.IsValidation(err))
	}
	assert.Equal(t, 0, llm.callCount())
}

func TestExtractDistinguishesProviderFromMalformed(t *testing.T) {
	t.Run("provider", func(t *testing.T) {
		llm := newFakeLLM(func(ChatRequest) (string, error) {
			return "", apperrors.NewProviderError(apperrors.CodeProviderTimeout, "model provider timed out", context.DeadlineExceeded)
		})

		_, err := newTestExtractor(t, llm).Extract(context.Background(), resumeSnippet)
		require.Error(t, err)
		assert.True(t, apperrors.IsProvider(err))
		assert.True(t, errors.Is(err, apperrors.ErrProviderTimeout))
		assert.Equal(t, 1, llm.callCount(), "no automatic retry")
	})

	t.Run("malformed", func(t *testing.T) {
		llm := newFakeLLM(byOperation(map[string]string{OperationExtract: "I am unable to parse this document."}))

		_, err := newTestExtractor(t, llm).Extract(context.Background(), resumeSnippet)
		require.Error(t, err)
		assert.True(t, apperrors.IsMalformed(err))
		assert.False(t, apperrors.IsProvider(err))
	})
}

func TestExtractToleratesNestedSlips(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		check      func(t *testing.T, parsed *models.ParsedResume)
	}{
		{
			name:       "education as text",
			completion: `{"full_name": "Jane Doe", "education": "N/A"}`,
			check: func(t *testing.T, parsed *models.ParsedResume) {
				assert.NotNil(t, parsed.Education)
				assert.Empty(t, parsed.Education)
			},
		},
		{
			name:       "education as list of strings",
			completion: `{"full_name": "Jane Doe", "education": ["BSc CS, TU Berlin", {"degree": "MSc", "institution": "KIT"}]}`,
			check: func(t *testing.T, parsed *models.ParsedResume) {
				require.Len(t, parsed.Education, 1)
				assert.Equal(t, "KIT", parsed.Education[0].Institution)
			},
		},
		{
			name:       "flat technical skills",
			completion: `{"full_name": "Jane Doe", "technical_skills": ["Go", "SQL"]}`,
			check: func(t *testing.T, parsed *models.ParsedResume) {
				assert.Equal(t, []string{"Go", "SQL"}, parsed.TechnicalSkills.OtherTechnicalSkills)
				assert.NotNil(t, parsed.TechnicalSkills.ProgrammingLanguages)
			},
		},
		{
			name:       "object where text is expected",
			completion: `{"full_name": {"first": "Jane"}, "work_experience": {"company_name": "Acme"}}`,
			check: func(t *testing.T, parsed *models.ParsedResume) {
				assert.Equal(t, "", parsed.FullName)
				require.Len(t, parsed.WorkExperience, 1)
				assert.Equal(t, "Acme", parsed.WorkExperience[0].CompanyName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := newFakeLLM(byOperation(map[string]string{OperationExtract: tt.completion}))

			parsed, err := newTestExtractor(t, llm).Extract(context.Background(), resumeSnippet)
			require.NoError(t, err)
			tt.check(t, parsed)
		})
	}
}
