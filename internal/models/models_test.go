package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedResumeNormalizeEmitsEveryField(t *testing.T) {
	r := ParsedResume{
		FullName:       "Ada Lovelace",
		WorkExperience: []WorkExperience{{CompanyName: "Analytical Engines"}},
	}
	r.Normalize()

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, key := range []string{
		"full_name", "email", "phone", "location", "linkedin_url", "github_url",
		"portfolio_url", "summary", "education", "work_experience", "projects",
		"leadership_roles", "volunteering_experience", "technical_skills",
		"soft_skills", "certifications", "awards_and_achievements", "languages",
		"publications",
	} {
		require.Contains(t, m, key)
		assert.NotNil(t, m[key], key)
	}

	job := m["work_experience"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, []interface{}{}, job["responsibilities"])
	assert.Equal(t, []interface{}{}, job["achievements"])

	skills := m["technical_skills"].(map[string]interface{})
	assert.Len(t, skills, 6)
	assert.Equal(t, []interface{}{}, skills["cloud_platforms"])
}

func TestAllSkills(t *testing.T) {
	r := ParsedResume{
		TechnicalSkills: TechnicalSkills{
			ProgrammingLanguages: []string{"Go", "Python"},
			Databases:            []string{"PostgreSQL"},
		},
		SoftSkills: []string{"Mentoring"},
	}

	assert.Equal(t, []string{"Go", "Python", "PostgreSQL", "Mentoring"}, r.AllSkills())
}

func TestOutcomeSerialization(t *testing.T) {
	ok := Succeeded(&ATSScoreResult{OverallATSScore: 81})
	degraded := Degraded[ATSScoreResult](errors.New("model provider timed out"))

	raw, err := json.Marshal(AnalysisResult{ATSScore: ok, JobMatch: nil})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"overall_ats_score":81`)
	assert.Contains(t, string(raw), `"job_match":null`)

	raw, err = json.Marshal(degraded)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"model provider timed out"}`, string(raw))

	var back Outcome[ATSScoreResult]
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.IsDegraded())
}

func TestOutcomeResultForcesErrorCheck(t *testing.T) {
	v, err := Degraded[JobMatchResult](errors.New("bad json")).Result()
	assert.Nil(t, v)
	assert.EqualError(t, err, "bad json")

	v, err = Succeeded(&JobMatchResult{OverallMatchScore: 64}).Result()
	require.NoError(t, err)
	assert.Equal(t, 64.0, v.OverallMatchScore)
}
